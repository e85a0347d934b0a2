// Package ffmpeg adapts the external ffmpeg/ffprobe binaries to the
// encoder and prober ports. Graph-shaped encodes (audio composition,
// image looping) go through ffmpeg-go; the remaining commands are
// plain argv invocations.
package ffmpeg

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

type Adapter struct {
	ffmpeg  string
	ffprobe string
}

func New(ffmpegPath, ffprobePath string) *Adapter {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	if ffprobePath == "" {
		ffprobePath = "ffprobe"
	}
	return &Adapter{ffmpeg: ffmpegPath, ffprobe: ffprobePath}
}

func (a *Adapter) Duration(ctx context.Context, path string) (time.Duration, error) {
	cmd := exec.CommandContext(ctx, a.ffprobe,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	)
	b, err := cmd.CombinedOutput()
	if err != nil {
		return 0, fmt.Errorf("ffprobe duration: %w\n%s", err, string(b))
	}
	s := strings.TrimSpace(string(b))
	sec, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("parse duration %q: %w", s, err)
	}
	return time.Duration(sec * float64(time.Second)), nil
}

func (a *Adapter) Dimensions(ctx context.Context, path string) (int, int, error) {
	cmd := exec.CommandContext(ctx, a.ffprobe,
		"-v", "error",
		"-select_streams", "v:0",
		"-show_entries", "stream=width,height",
		"-of", "json",
		path,
	)
	b, err := cmd.Output()
	if err != nil {
		return 0, 0, fmt.Errorf("ffprobe dimensions: %w", err)
	}
	var probe struct {
		Streams []struct {
			Width  int `json:"width"`
			Height int `json:"height"`
		} `json:"streams"`
	}
	if err := json.Unmarshal(b, &probe); err != nil {
		return 0, 0, fmt.Errorf("parse ffprobe output: %w", err)
	}
	if len(probe.Streams) == 0 {
		return 0, 0, fmt.Errorf("no video stream in %s", path)
	}
	return probe.Streams[0].Width, probe.Streams[0].Height, nil
}

func (a *Adapter) CropVideo(ctx context.Context, inPath string, width, height int, outPath string) error {
	cmd := exec.CommandContext(ctx, a.ffmpeg,
		"-y",
		"-i", inPath,
		"-vf", fmt.Sprintf("crop=%d:%d:0:0", width, height),
		"-c:v", "libx264",
		"-crf", "18",
		"-preset", "veryfast",
		"-c:a", "copy",
		outPath,
	)
	b, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("ffmpeg crop: %w\n%s", err, string(b))
	}
	return nil
}

func (a *Adapter) LoopVideo(ctx context.Context, inPath string, length time.Duration, outPath string) error {
	// MP4 in, MP4 out: a stream copy avoids the re-encode entirely.
	if strings.EqualFold(filepath.Ext(inPath), ".mp4") {
		cmd := exec.CommandContext(ctx, a.ffmpeg,
			"-y",
			"-stream_loop", "-1",
			"-i", inPath,
			"-t", fmtSeconds(length),
			"-c:v", "copy",
			"-an",
			outPath,
		)
		if _, err := cmd.CombinedOutput(); err == nil {
			return nil
		}
	}

	cmd := exec.CommandContext(ctx, a.ffmpeg,
		"-y",
		"-stream_loop", "-1",
		"-i", inPath,
		"-t", fmtSeconds(length),
		"-c:v", "libx264",
		"-preset", "fast",
		"-crf", "20",
		"-pix_fmt", "yuv420p",
		"-movflags", "+faststart",
		"-an",
		outPath,
	)
	b, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("ffmpeg loop: %w\n%s", err, string(b))
	}
	return nil
}

func (a *Adapter) Mux(ctx context.Context, videoPath, audioPath, bitrate, outPath string) error {
	if bitrate == "" {
		bitrate = "192k"
	}
	cmd := exec.CommandContext(ctx, a.ffmpeg,
		"-y",
		"-i", videoPath,
		"-i", audioPath,
		"-c:v", "copy",
		"-c:a", "aac",
		"-b:a", bitrate,
		"-shortest",
		outPath,
	)
	b, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("ffmpeg mux: %w\n%s", err, string(b))
	}
	return nil
}

func fmtSeconds(d time.Duration) string {
	sec := float64(d) / float64(time.Second)
	return strconv.FormatFloat(sec, 'f', 3, 64)
}
