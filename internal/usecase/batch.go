package usecase

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/gchongg/lofi-video-generator/internal/domain/allocate"
	"github.com/gchongg/lofi-video-generator/internal/domain/inventory"
	"github.com/gchongg/lofi-video-generator/internal/types"
)

// Batch pairs every image in a folder with a unique audio sequence and
// renders one video per image.
type Batch struct{ d Deps }

func NewBatch(d Deps) Batch { return Batch{d: d} }

type BatchInput struct {
	ImageDir string
	AudioDir string
	Target   time.Duration
	OutDir   string
	TempDir  string
	Bitrate  string
	Jobs     int
	Logf     Logf

	// Rand overrides clip selection, mainly for tests.
	Rand *rand.Rand
}

// Run scans both folders, then processes images in inventory order.
// Folder and no-input failures abort; everything after that is
// per-job: an exhausted pool or a failed encode skips the job and the
// batch keeps going.
func (b Batch) Run(ctx context.Context, in BatchInput) (types.BatchSummary, error) {
	logf := in.Logf
	if logf == nil {
		logf = noLog
	}

	images, err := inventory.Scan(in.ImageDir, inventory.ImageExts)
	if err != nil {
		return types.BatchSummary{}, err
	}
	if len(images) == 0 {
		return types.BatchSummary{}, fmt.Errorf("no supported image files found in %s", in.ImageDir)
	}
	songs, err := inventory.Scan(in.AudioDir, inventory.AudioExts)
	if err != nil {
		return types.BatchSummary{}, err
	}
	if len(songs) == 0 {
		return types.BatchSummary{}, fmt.Errorf("no supported audio files found in %s", in.AudioDir)
	}

	logf("found %d images and %d audio files", len(images), len(songs))
	logf("creating videos with %s duration each", in.Target)

	if demand := allocate.EstimateDemand(len(images), in.Target); demand > len(songs) {
		logf("warning: may not have enough unique songs for all videos")
		logf("warning: estimated songs needed: %d, available: %d", demand, len(songs))
		logf("warning: some videos may come out shorter or be skipped")
	}

	var opts []allocate.Option
	if in.Rand != nil {
		opts = append(opts, allocate.WithRand(in.Rand))
	}
	alloc := allocate.New(songs, b.d.Probe, opts...)

	if err := os.MkdirAll(in.OutDir, 0o755); err != nil {
		return types.BatchSummary{}, err
	}

	jobs := in.Jobs
	if jobs < 1 {
		jobs = 1
	}
	var created atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for i, img := range images {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			logf("processing image %d/%d: %s", i+1, len(images), filepath.Base(img.Path))
			if b.runJob(gctx, alloc, in, img, logf) {
				created.Add(1)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return types.BatchSummary{}, err
	}

	return types.BatchSummary{
		Total:   len(images),
		Created: int(created.Load()),
		OutDir:  in.OutDir,
	}, nil
}

// runJob takes one image through allocate, compose, render. Returns
// whether an output video was produced.
func (b Batch) runJob(ctx context.Context, alloc *allocate.Allocator, in BatchInput, img types.MediaClip, logf Logf) bool {
	name := filepath.Base(img.Path)

	list, err := alloc.Allocate(ctx, in.Target)
	if err != nil {
		if errors.Is(err, allocate.ErrExhausted) {
			logf("warning: no unused songs left for %s, skipping", name)
		} else {
			logf("warning: could not build audio sequence for %s: %v", name, err)
		}
		return false
	}
	if got := list.Total(); got < in.Target {
		logf("warning: audio for %s is %s short of the target", name, in.Target-got)
	}

	audioPath := filepath.Join(in.TempDir, fmt.Sprintf("audio_sequence_%s.mp3", uuid.NewString()))
	if err := b.d.Enc.ConcatAudio(ctx, list, in.Bitrate, audioPath); err != nil {
		logf("warning: %v, skipping %s", err, name)
		return false
	}

	outPath := filepath.Join(in.OutDir, outputName(img.Path))
	logf("creating video: %s", filepath.Base(outPath))
	if err := b.d.Enc.ImageVideo(ctx, img.Path, audioPath, list.Total(), outPath); err != nil {
		logf("failed to create video for %s: %v", name, err)
		return false
	}
	logf("created %s", outPath)
	return true
}

func outputName(imagePath string) string {
	base := filepath.Base(imagePath)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return stem + "_video.mp4"
}
