// Package allocate partitions a pool of audio clips into
// non-overlapping edit lists. A clip committed to one output is never
// offered to another for the lifetime of the allocator.
package allocate

import (
	"context"
	"errors"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/gchongg/lofi-video-generator/internal/types"
)

// ErrExhausted reports that no usable, unconsumed audio remains for
// the requested allocation. Callers skip the job; the batch goes on.
var ErrExhausted = errors.New("no unused audio clips available")

// DurationProber resolves a clip's playable length. Probe failures
// mean the clip is unusable, never a zero-length segment.
type DurationProber interface {
	Duration(ctx context.Context, path string) (time.Duration, error)
}

// Allocator owns the consumed-clip ledger for one batch run. Allocate
// holds the lock across candidate selection and commit, so concurrent
// jobs can never pick the same clip.
type Allocator struct {
	probe DurationProber

	mu   sync.Mutex
	pool []types.MediaClip
	used map[string]struct{}
	durs map[string]time.Duration
	rng  *rand.Rand
}

// Option tunes a new Allocator.
type Option func(*Allocator)

// WithRand replaces the selection source, mainly for tests.
func WithRand(r *rand.Rand) Option {
	return func(a *Allocator) { a.rng = r }
}

// New builds an allocator over pool. The pool is copied; later changes
// to the caller's slice do not leak in.
func New(pool []types.MediaClip, probe DurationProber, opts ...Option) *Allocator {
	a := &Allocator{
		probe: probe,
		pool:  append([]types.MediaClip(nil), pool...),
		used:  make(map[string]struct{}),
		durs:  make(map[string]time.Duration),
		rng:   rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Allocate selects unconsumed clips at random until their lengths
// reach target, trimming the end of the final clip to land exactly on
// target. Clips whose duration cannot be resolved are dropped without
// being consumed. When the pool runs dry first, the shorter list is
// returned as-is. ErrExhausted means nothing could be allocated at
// all.
func (a *Allocator) Allocate(ctx context.Context, target time.Duration) (types.EditList, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	working := make([]types.MediaClip, 0, len(a.pool))
	for _, c := range a.pool {
		if _, taken := a.used[c.Path]; !taken {
			working = append(working, c)
		}
	}
	if len(working) == 0 {
		return nil, ErrExhausted
	}

	var (
		list  types.EditList
		acc   time.Duration
		local []string
	)
	for acc < target && len(working) > 0 {
		i := a.rng.Intn(len(working))
		clip := working[i]
		working[i] = working[len(working)-1]
		working = working[:len(working)-1]

		d := a.duration(ctx, clip.Path)
		if d <= 0 {
			continue
		}

		remaining := target - acc
		if d > remaining {
			list = append(list, types.EditSegment{Clip: clip.Path, Start: 0, Length: remaining})
			local = append(local, clip.Path)
			acc = target
			break
		}
		list = append(list, types.EditSegment{Clip: clip.Path, Start: 0, Length: d})
		local = append(local, clip.Path)
		acc += d
	}

	if len(list) == 0 {
		return nil, ErrExhausted
	}
	for _, p := range local {
		a.used[p] = struct{}{}
	}
	return list, nil
}

// duration caches probe results, zero included: a clip that failed to
// probe once stays unusable for the whole run.
func (a *Allocator) duration(ctx context.Context, path string) time.Duration {
	if d, ok := a.durs[path]; ok {
		return d
	}
	d, err := a.probe.Duration(ctx, path)
	if err != nil || d < 0 {
		d = 0
	}
	a.durs[path] = d
	return d
}

// Consumed returns the committed clip identities, sorted.
func (a *Allocator) Consumed() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]string, 0, len(a.used))
	for p := range a.used {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// Remaining counts clips not yet committed to any output.
func (a *Allocator) Remaining() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	n := 0
	for _, c := range a.pool {
		if _, taken := a.used[c.Path]; !taken {
			n++
		}
	}
	return n
}

// assumedClipLength is the rough per-song length behind the
// supply-vs-demand advisory.
const assumedClipLength = 3 * time.Minute

// EstimateDemand guesses how many distinct clips a run of jobs videos
// at target length each will consume. At least one clip per job.
func EstimateDemand(jobs int, target time.Duration) int {
	perJob := int(target / assumedClipLength)
	if perJob < 1 {
		perJob = 1
	}
	return perJob * jobs
}
