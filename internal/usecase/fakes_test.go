package usecase

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/gchongg/lofi-video-generator/internal/types"
)

type fakeProber struct {
	mu   sync.Mutex
	durs map[string]time.Duration
	dims map[string][2]int
}

func newFakeProber() *fakeProber {
	return &fakeProber{
		durs: make(map[string]time.Duration),
		dims: make(map[string][2]int),
	}
}

func (f *fakeProber) Duration(_ context.Context, path string) (time.Duration, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.durs[path]
	if !ok {
		return 0, errors.New("probe failed")
	}
	return d, nil
}

func (f *fakeProber) Dimensions(_ context.Context, path string) (int, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.dims[path]
	if !ok {
		return 0, 0, errors.New("probe failed")
	}
	return d[0], d[1], nil
}

type concatCall struct {
	list    types.EditList
	bitrate string
	out     string
}

type imageCall struct {
	image, audio string
	runLength    time.Duration
	out          string
}

type fakeEncoder struct {
	mu      sync.Mutex
	ops     []string
	concats []concatCall
	images  []imageCall
	crops   [][3]any // in, width, height
	loops   []time.Duration
	muxes   [][2]string // video, audio

	failConcat bool
	failImage  bool
}

func (f *fakeEncoder) ConcatAudio(_ context.Context, list types.EditList, bitrate, out string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failConcat {
		return errors.New("concat boom")
	}
	f.ops = append(f.ops, "concat")
	f.concats = append(f.concats, concatCall{list: list, bitrate: bitrate, out: out})
	return os.WriteFile(out, []byte("audio"), 0o644)
}

func (f *fakeEncoder) ImageVideo(_ context.Context, image, audio string, runLength time.Duration, out string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failImage {
		return errors.New("image boom")
	}
	f.ops = append(f.ops, "image")
	f.images = append(f.images, imageCall{image: image, audio: audio, runLength: runLength, out: out})
	return os.WriteFile(out, []byte("video"), 0o644)
}

func (f *fakeEncoder) CropVideo(_ context.Context, in string, width, height int, out string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ops = append(f.ops, "crop")
	f.crops = append(f.crops, [3]any{in, width, height})
	return os.WriteFile(out, []byte("cropped"), 0o644)
}

func (f *fakeEncoder) LoopVideo(_ context.Context, in string, length time.Duration, out string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ops = append(f.ops, "loop")
	f.loops = append(f.loops, length)
	return os.WriteFile(out, []byte("looped"), 0o644)
}

func (f *fakeEncoder) Mux(_ context.Context, video, audio, _, out string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ops = append(f.ops, "mux")
	f.muxes = append(f.muxes, [2]string{video, audio})
	return os.WriteFile(out, []byte("final video"), 0o644)
}

// fakeDownloader materializes numbered mp3 files and registers their
// durations with the prober, standing in for the playlist fetch.
type fakeDownloader struct {
	probe *fakeProber
	durs  []time.Duration
	fail  bool
}

func (f *fakeDownloader) DownloadAudio(_ context.Context, _, destDir string, _ int) error {
	if f.fail {
		return errors.New("network boom")
	}
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return err
	}
	for i, d := range f.durs {
		p := filepath.Join(destDir, fmt.Sprintf("%03d - track.mp3", i+1))
		if err := os.WriteFile(p, []byte("mp3"), 0o644); err != nil {
			return err
		}
		f.probe.mu.Lock()
		f.probe.durs[p] = d
		f.probe.mu.Unlock()
	}
	return nil
}

// writeClips drops n named files into dir and registers durations.
func writeClips(t *testing.T, probe *fakeProber, dir string, durs map[string]time.Duration) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0o755))
	for name, d := range durs {
		p := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(p, []byte("x"), 0o644))
		if d > 0 {
			probe.durs[p] = d
		}
	}
}

type logRecorder struct {
	mu    sync.Mutex
	lines []string
}

func (l *logRecorder) logf(format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines = append(l.lines, fmt.Sprintf(format, args...))
}

func (l *logRecorder) contains(substr string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, line := range l.lines {
		if strings.Contains(line, substr) {
			return true
		}
	}
	return false
}
