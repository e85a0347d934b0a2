package allocate

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gchongg/lofi-video-generator/internal/types"
)

type fakeProber struct {
	mu    sync.Mutex
	durs  map[string]time.Duration
	calls map[string]int
}

func newFakeProber(durs map[string]time.Duration) *fakeProber {
	return &fakeProber{durs: durs, calls: make(map[string]int)}
}

func (f *fakeProber) Duration(_ context.Context, path string) (time.Duration, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[path]++
	d, ok := f.durs[path]
	if !ok {
		return 0, errors.New("probe failed")
	}
	return d, nil
}

func pool(paths ...string) []types.MediaClip {
	out := make([]types.MediaClip, 0, len(paths))
	for _, p := range paths {
		out = append(out, types.MediaClip{Path: p})
	}
	return out
}

func seeded(seed int64) Option { return WithRand(rand.New(rand.NewSource(seed))) }

func TestAllocate_ExactTargetWithTrim(t *testing.T) {
	t.Parallel()

	probe := newFakeProber(map[string]time.Duration{
		"a.mp3": 90 * time.Second,
		"b.mp3": 90 * time.Second,
		"c.mp3": 90 * time.Second,
	})
	a := New(pool("a.mp3", "b.mp3", "c.mp3"), probe, seeded(1))

	list, err := a.Allocate(context.Background(), 200*time.Second)
	require.NoError(t, err)

	assert.Equal(t, 200*time.Second, list.Total())
	require.Len(t, list, 3)
	for _, seg := range list[:2] {
		assert.Equal(t, 90*time.Second, seg.Length)
	}
	last := list[2]
	assert.Equal(t, time.Duration(0), last.Start, "trim must shorten the end, not move the start")
	assert.Equal(t, 20*time.Second, last.Length)
	assert.ElementsMatch(t, []string{"a.mp3", "b.mp3", "c.mp3"}, a.Consumed())
}

func TestAllocate_ExactFitTakesFullClip(t *testing.T) {
	t.Parallel()

	probe := newFakeProber(map[string]time.Duration{"a.mp3": 120 * time.Second})
	a := New(pool("a.mp3"), probe, seeded(1))

	list, err := a.Allocate(context.Background(), 120*time.Second)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 120*time.Second, list[0].Length)
}

func TestAllocate_SingleOversizedClipIsTrimmed(t *testing.T) {
	t.Parallel()

	probe := newFakeProber(map[string]time.Duration{"long.mp3": time.Hour})
	a := New(pool("long.mp3"), probe, seeded(7))

	list, err := a.Allocate(context.Background(), 5*time.Minute)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, time.Duration(0), list[0].Start)
	assert.Equal(t, 5*time.Minute, list[0].Length)
	assert.Equal(t, []string{"long.mp3"}, a.Consumed())
}

func TestAllocate_ShortPoolYieldsShorterList(t *testing.T) {
	t.Parallel()

	probe := newFakeProber(map[string]time.Duration{
		"a.mp3": time.Minute,
		"b.mp3": time.Minute,
	})
	a := New(pool("a.mp3", "b.mp3"), probe, seeded(3))

	list, err := a.Allocate(context.Background(), 10*time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 2*time.Minute, list.Total())
	assert.Len(t, list, 2)
}

func TestAllocate_EmptyWhenPoolConsumed(t *testing.T) {
	t.Parallel()

	probe := newFakeProber(map[string]time.Duration{"a.mp3": 90 * time.Second})
	a := New(pool("a.mp3"), probe, seeded(1))

	_, err := a.Allocate(context.Background(), time.Minute)
	require.NoError(t, err)

	_, err = a.Allocate(context.Background(), 2*time.Minute)
	assert.ErrorIs(t, err, ErrExhausted)
	assert.Equal(t, 0, a.Remaining())
}

func TestAllocate_UnprobeableClipsNeverConsumed(t *testing.T) {
	t.Parallel()

	probe := newFakeProber(map[string]time.Duration{
		"good.mp3": 30 * time.Second,
		// bad.mp3 missing: probe fails
		"zero.mp3": 0,
	})
	a := New(pool("bad.mp3", "good.mp3", "zero.mp3"), probe, seeded(11))

	list, err := a.Allocate(context.Background(), time.Minute)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "good.mp3", list[0].Clip)
	assert.Equal(t, []string{"good.mp3"}, a.Consumed())
}

func TestAllocate_AllUnprobeableIsExhausted(t *testing.T) {
	t.Parallel()

	probe := newFakeProber(map[string]time.Duration{})
	a := New(pool("a.mp3", "b.mp3"), probe, seeded(2))

	_, err := a.Allocate(context.Background(), time.Minute)
	assert.ErrorIs(t, err, ErrExhausted)
	assert.Empty(t, a.Consumed())
}

func TestAllocate_SequentialCallsNeverShareClips(t *testing.T) {
	t.Parallel()

	durs := make(map[string]time.Duration)
	paths := make([]string, 0, 12)
	for _, p := range []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j", "k", "l"} {
		path := p + ".mp3"
		durs[path] = 80 * time.Second
		paths = append(paths, path)
	}
	a := New(pool(paths...), newFakeProber(durs), seeded(42))

	seen := make(map[string]int)
	for range 4 {
		list, err := a.Allocate(context.Background(), 3*time.Minute)
		require.NoError(t, err)
		assert.LessOrEqual(t, list.Total(), 3*time.Minute)
		for _, c := range list.Clips() {
			seen[c]++
		}
	}
	for clip, n := range seen {
		assert.Equal(t, 1, n, "clip %s allocated %d times", clip, n)
	}
}

func TestAllocate_NoClipRepeatsWithinOneList(t *testing.T) {
	t.Parallel()

	durs := map[string]time.Duration{
		"a.mp3": 10 * time.Second,
		"b.mp3": 10 * time.Second,
		"c.mp3": 10 * time.Second,
	}
	a := New(pool("a.mp3", "b.mp3", "c.mp3"), newFakeProber(durs), seeded(5))

	list, err := a.Allocate(context.Background(), time.Minute)
	require.NoError(t, err)
	seen := map[string]bool{}
	for _, c := range list.Clips() {
		assert.False(t, seen[c], "clip %s repeated", c)
		seen[c] = true
	}
}

func TestAllocate_ConcurrentCallsStayDisjoint(t *testing.T) {
	t.Parallel()

	durs := make(map[string]time.Duration)
	var paths []string
	for r := 'a'; r <= 'z'; r++ {
		p := string(r) + ".mp3"
		durs[p] = 100 * time.Second
		paths = append(paths, p)
	}
	a := New(pool(paths...), newFakeProber(durs), seeded(9))

	const workers = 6
	lists := make([]types.EditList, workers)
	var wg sync.WaitGroup
	for i := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			list, err := a.Allocate(context.Background(), 4*time.Minute)
			if err == nil {
				lists[i] = list
			}
		}()
	}
	wg.Wait()

	seen := map[string]int{}
	for _, l := range lists {
		for _, c := range l.Clips() {
			seen[c]++
		}
	}
	for clip, n := range seen {
		assert.Equal(t, 1, n, "clip %s allocated %d times", clip, n)
	}
}

func TestAllocate_ProbeCachedAcrossCalls(t *testing.T) {
	t.Parallel()

	probe := newFakeProber(map[string]time.Duration{"a.mp3": 30 * time.Second, "b.mp3": 30 * time.Second})
	a := New(pool("a.mp3", "b.mp3"), probe, seeded(4))

	_, err := a.Allocate(context.Background(), 20*time.Second)
	require.NoError(t, err)
	_, err = a.Allocate(context.Background(), 20*time.Second)
	require.NoError(t, err)

	probe.mu.Lock()
	defer probe.mu.Unlock()
	for p, n := range probe.calls {
		assert.LessOrEqual(t, n, 1, "clip %s probed %d times", p, n)
	}
}

func TestEstimateDemand(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 1, EstimateDemand(1, time.Minute))
	assert.Equal(t, 3, EstimateDemand(3, 2*time.Minute))
	assert.Equal(t, 40, EstimateDemand(1, 2*time.Hour))
	assert.Equal(t, 120, EstimateDemand(3, 2*time.Hour))
}
