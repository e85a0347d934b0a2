// Package inventory discovers media files on disk by extension.
package inventory

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gchongg/lofi-video-generator/internal/types"
)

// ErrNotFound reports a missing or unreadable input directory.
var ErrNotFound = errors.New("folder does not exist")

// Accepted extensions, matched case-insensitively.
var (
	ImageExts = []string{"jpg", "jpeg", "png", "bmp", "tiff", "webp"}
	AudioExts = []string{"mp3", "wav", "flac", "m4a"}
)

// Scan returns the clips in dir whose extension is in exts, ordered
// lexicographically by path so repeated scans of an unchanged folder
// are identical. Subdirectories are not descended into. A missing dir
// is ErrNotFound; a dir with no matches is an empty, non-nil slice —
// whether that is fatal is the caller's call.
func Scan(dir string, exts []string) ([]types.MediaClip, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, dir)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrNotFound, dir)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", dir, err)
	}

	allowed := make(map[string]struct{}, len(exts))
	for _, e := range exts {
		allowed[strings.ToLower(strings.TrimPrefix(e, "."))] = struct{}{}
	}

	clips := make([]types.MediaClip, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(e.Name()), "."))
		if _, ok := allowed[ext]; !ok {
			continue
		}
		clips = append(clips, types.MediaClip{Path: filepath.Join(dir, e.Name())})
	}

	sort.Slice(clips, func(i, j int) bool { return clips[i].Path < clips[j].Path })
	return clips, nil
}
