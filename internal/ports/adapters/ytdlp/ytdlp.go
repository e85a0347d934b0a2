// Package ytdlp adapts the yt-dlp binary to the downloader port.
package ytdlp

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
)

type Adapter struct {
	bin string
}

func New(binPath string) *Adapter {
	if binPath == "" {
		binPath = "yt-dlp"
	}
	return &Adapter{bin: binPath}
}

// DownloadAudio fetches every entry of a playlist as mp3 into destDir.
// File names carry the playlist index so lexicographic order matches
// playlist order.
func (a *Adapter) DownloadAudio(ctx context.Context, url, destDir string, maxRetries int) error {
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return err
	}
	if maxRetries < 0 {
		maxRetries = 0
	}
	cmd := exec.CommandContext(ctx, a.bin,
		"-x",
		"--audio-format", "mp3",
		"--ignore-errors",
		"--retries", strconv.Itoa(maxRetries),
		"-o", filepath.Join(destDir, "%(playlist_index)03d - %(title)s.%(ext)s"),
		url,
	)
	b, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("yt-dlp download: %w\n%s", err, string(b))
	}
	return nil
}
