package usecase

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gchongg/lofi-video-generator/internal/domain/inventory"
	"github.com/gchongg/lofi-video-generator/internal/domain/timefmt"
	"github.com/gchongg/lofi-video-generator/internal/types"
)

// Longform builds one long background video: playlist audio stitched
// into a single track, an animation looped underneath it.
type Longform struct{ d Deps }

func NewLongform(d Deps) Longform { return Longform{d: d} }

type LongformInput struct {
	Animation   string
	PlaylistURL string
	Output      string
	Bitrate     string
	MaxRetries  int
	KeepTemp    bool
	CropRight   int
	CropBottom  int
	// TimeLimit caps the stitched audio; zero means the whole playlist.
	TimeLimit time.Duration
	TempDir   string
	Logf      Logf
}

type LongformResult struct {
	Output      string
	AudioLength time.Duration
	SizeMB      float64
}

// Run walks the pipeline stage by stage. Unlike the image batch, any
// stage failure here aborts the whole job.
func (l Longform) Run(ctx context.Context, in LongformInput) (LongformResult, error) {
	logf := in.Logf
	if logf == nil {
		logf = noLog
	}

	logf("step 1: downloading playlist audio")
	audioDir := filepath.Join(in.TempDir, "audio")
	if err := l.d.DL.DownloadAudio(ctx, in.PlaylistURL, audioDir, in.MaxRetries); err != nil {
		return LongformResult{}, fmt.Errorf("download playlist audio: %w", err)
	}
	tracks, err := inventory.Scan(audioDir, inventory.AudioExts)
	if err != nil {
		return LongformResult{}, fmt.Errorf("scan downloaded audio: %w", err)
	}
	if len(tracks) == 0 {
		return LongformResult{}, fmt.Errorf("no audio tracks downloaded from %s", in.PlaylistURL)
	}

	logf("step 2: stitching %d audio files", len(tracks))
	list := l.stitchList(ctx, tracks, in.TimeLimit, logf)
	if len(list) == 0 {
		return LongformResult{}, fmt.Errorf("none of the downloaded tracks were playable")
	}
	stitched := filepath.Join(in.TempDir, "stitched_audio.mp3")
	if err := l.d.Enc.ConcatAudio(ctx, list, in.Bitrate, stitched); err != nil {
		return LongformResult{}, fmt.Errorf("stitch audio: %w", err)
	}

	logf("step 3: analyzing audio duration")
	audioLen, err := l.d.Probe.Duration(ctx, stitched)
	if err != nil {
		return LongformResult{}, fmt.Errorf("probe stitched audio: %w", err)
	}
	logf("audio duration: %s", timefmt.Clock(audioLen))

	toLoop := in.Animation
	if in.CropRight > 0 || in.CropBottom > 0 {
		logf("step 4: cropping animation (%dpx right, %dpx bottom)", in.CropRight, in.CropBottom)
		w, h, err := l.d.Probe.Dimensions(ctx, in.Animation)
		if err != nil {
			return LongformResult{}, fmt.Errorf("probe animation dimensions: %w", err)
		}
		cropped := filepath.Join(in.TempDir, "cropped_animation.mp4")
		if err := l.d.Enc.CropVideo(ctx, in.Animation, w-in.CropRight, h-in.CropBottom, cropped); err != nil {
			return LongformResult{}, fmt.Errorf("crop animation: %w", err)
		}
		toLoop = cropped
	} else {
		logf("step 4: skipping crop")
	}

	logf("step 5: looping animation for %s", timefmt.Clock(audioLen))
	looped := filepath.Join(in.TempDir, "looped_animation.mp4")
	if err := l.d.Enc.LoopVideo(ctx, toLoop, audioLen, looped); err != nil {
		return LongformResult{}, fmt.Errorf("loop animation: %w", err)
	}

	logf("step 6: combining video and audio")
	if err := os.MkdirAll(filepath.Dir(in.Output), 0o755); err != nil {
		return LongformResult{}, err
	}
	if err := l.d.Enc.Mux(ctx, looped, stitched, in.Bitrate, in.Output); err != nil {
		return LongformResult{}, fmt.Errorf("combine video and audio: %w", err)
	}

	if in.KeepTemp {
		stem := strings.TrimSuffix(filepath.Base(in.Output), filepath.Ext(in.Output))
		debugDir := filepath.Join(filepath.Dir(in.Output), stem+"_temp")
		if err := os.CopyFS(debugDir, os.DirFS(in.TempDir)); err != nil {
			logf("warning: could not keep temp files: %v", err)
		} else {
			logf("temporary files saved to %s", debugDir)
		}
	}

	res := LongformResult{Output: in.Output, AudioLength: audioLen}
	if fi, err := os.Stat(in.Output); err == nil {
		res.SizeMB = float64(fi.Size()) / (1024 * 1024)
	}
	return res, nil
}

// stitchList turns downloaded tracks into a full-length edit list in
// file order. With a time limit, the list stops at the first track
// that reaches the limit; that track is trimmed to land exactly on it.
// Unplayable tracks are dropped.
func (l Longform) stitchList(ctx context.Context, tracks []types.MediaClip, limit time.Duration, logf Logf) types.EditList {
	var (
		list  types.EditList
		total time.Duration
	)
	for _, tr := range tracks {
		d, err := l.d.Probe.Duration(ctx, tr.Path)
		if err != nil || d <= 0 {
			logf("warning: could not get duration for %s, skipping", filepath.Base(tr.Path))
			continue
		}
		if limit > 0 && total+d >= limit {
			list = append(list, types.EditSegment{Clip: tr.Path, Start: 0, Length: limit - total})
			return list
		}
		list = append(list, types.EditSegment{Clip: tr.Path, Start: 0, Length: d})
		total += d
	}
	return list
}
