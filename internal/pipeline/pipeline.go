// Package pipeline wires adapters into the usecases and owns the
// lifecycle of each run: validation, temp workspace, final summary.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/gchongg/lofi-video-generator/internal/ports"
	"github.com/gchongg/lofi-video-generator/internal/ports/adapters/ffmpeg"
	"github.com/gchongg/lofi-video-generator/internal/ports/adapters/ytdlp"
	"github.com/gchongg/lofi-video-generator/internal/usecase"
)

type BatchConfig struct {
	ImageDir  string
	AudioDir  string
	TimeLimit time.Duration
	OutDir    string
	Jobs      int
	Bitrate   string
	Logf      func(format string, args ...any)

	FFmpegPath  string
	FFprobePath string
}

func (c BatchConfig) Validate() error {
	if c.ImageDir == "" {
		return errors.New("image folder is empty")
	}
	if c.AudioDir == "" {
		return errors.New("audio folder is empty")
	}
	if c.TimeLimit <= 0 {
		return fmt.Errorf("time limit must be > 0")
	}
	if c.Jobs < 0 {
		return fmt.Errorf("jobs must be >= 0")
	}
	return nil
}

// RunBatch generates one video per image. Fatal input problems return
// an error; individual job failures only lower the success count.
func RunBatch(ctx context.Context, cfg BatchConfig) error {
	logf := cfg.Logf
	if logf == nil {
		logf = func(string, ...any) {}
	}

	tempDir, err := os.MkdirTemp("", "lofigen-batch-*")
	if err != nil {
		return err
	}
	defer os.RemoveAll(tempDir)

	enc := ffmpeg.New(cfg.FFmpegPath, cfg.FFprobePath)
	uc := usecase.NewBatch(usecase.Deps{Probe: enc, Enc: enc})

	outDir := cfg.OutDir
	if outDir == "" {
		outDir = "./output"
	}
	sum, err := uc.Run(ctx, usecase.BatchInput{
		ImageDir: cfg.ImageDir,
		AudioDir: cfg.AudioDir,
		Target:   cfg.TimeLimit,
		OutDir:   outDir,
		TempDir:  tempDir,
		Bitrate:  cfg.Bitrate,
		Jobs:     cfg.Jobs,
		Logf:     logf,
	})
	if err != nil {
		return err
	}

	logf("process complete: created %d/%d videos", sum.Created, sum.Total)
	if abs, err := filepath.Abs(sum.OutDir); err == nil {
		logf("output folder: %s", abs)
	}
	return nil
}

type LongformConfig struct {
	Animation   string
	PlaylistURL string
	Output      string
	Bitrate     string
	MaxRetries  int
	KeepTemp    bool
	CropRight   int
	CropBottom  int
	TimeLimit   time.Duration
	Logf        func(format string, args ...any)

	FFmpegPath  string
	FFprobePath string
	YtdlpPath   string
}

func (c LongformConfig) Validate() error {
	if c.Animation == "" {
		return errors.New("animation path is empty")
	}
	if _, err := os.Stat(c.Animation); err != nil {
		return fmt.Errorf("stat animation: %w", err)
	}
	if c.PlaylistURL == "" {
		return errors.New("playlist URL is empty")
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("max retries must be >= 0")
	}
	if c.CropRight < 0 || c.CropBottom < 0 {
		return fmt.Errorf("crop values must be >= 0")
	}
	if c.TimeLimit < 0 {
		return fmt.Errorf("time limit must be >= 0")
	}
	return nil
}

// RunLongform builds one long-form video from an animation and a
// playlist. Any stage failure is fatal.
func RunLongform(ctx context.Context, cfg LongformConfig) error {
	logf := cfg.Logf
	if logf == nil {
		logf = func(string, ...any) {}
	}

	tempDir, err := os.MkdirTemp("", "lofigen-longform-*")
	if err != nil {
		return err
	}
	defer os.RemoveAll(tempDir)

	enc := ffmpeg.New(cfg.FFmpegPath, cfg.FFprobePath)
	dl := ytdlp.New(cfg.YtdlpPath)
	uc := usecase.NewLongform(usecase.Deps{Probe: enc, Enc: enc, DL: dl})

	output := cfg.Output
	if output == "" {
		output = "lofi_video.mp4"
	}
	absOut, err := filepath.Abs(output)
	if err != nil {
		return err
	}

	logf("starting video generation")
	logf("animation: %s", filepath.Base(cfg.Animation))
	logf("playlist: %s", cfg.PlaylistURL)
	logf("output: %s", absOut)

	res, err := uc.Run(ctx, usecase.LongformInput{
		Animation:   cfg.Animation,
		PlaylistURL: cfg.PlaylistURL,
		Output:      absOut,
		Bitrate:     cfg.Bitrate,
		MaxRetries:  cfg.MaxRetries,
		KeepTemp:    cfg.KeepTemp,
		CropRight:   cfg.CropRight,
		CropBottom:  cfg.CropBottom,
		TimeLimit:   cfg.TimeLimit,
		TempDir:     tempDir,
		Logf:        logf,
	})
	if err != nil {
		return err
	}

	logf("video generation complete")
	logf("output: %s", res.Output)
	logf("duration: %.1f minutes", res.AudioLength.Minutes())
	logf("file size: %.1f MB", res.SizeMB)
	return nil
}

type ReportConfig struct {
	Dir string
	Out io.Writer

	FFprobePath string
}

func (c ReportConfig) Validate() error {
	if c.Dir == "" {
		return errors.New("folder is empty")
	}
	info, err := os.Stat(c.Dir)
	if err != nil {
		return fmt.Errorf("folder %q does not exist", c.Dir)
	}
	if !info.IsDir() {
		return fmt.Errorf("%q is not a directory", c.Dir)
	}
	return nil
}

// RunReport prints the duration report for one folder of mp3s.
func RunReport(ctx context.Context, cfg ReportConfig) error {
	out := cfg.Out
	if out == nil {
		out = os.Stdout
	}
	probe := ffmpeg.New("", cfg.FFprobePath)
	uc := usecase.NewReport(usecase.Deps{Probe: probe})

	abs, err := filepath.Abs(cfg.Dir)
	if err != nil {
		abs = cfg.Dir
	}
	fmt.Fprintln(out, "MP3 Duration Counter")
	fmt.Fprintf(out, "Analyzing folder: %s\n", abs)

	return uc.Run(ctx, usecase.ReportInput{Dir: cfg.Dir, Out: out})
}

// ensure adapters implement ports
var _ ports.Prober = (*ffmpeg.Adapter)(nil)
var _ ports.Encoder = (*ffmpeg.Adapter)(nil)
var _ ports.Downloader = (*ytdlp.Adapter)(nil)
