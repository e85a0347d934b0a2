package types

import "time"

// MediaClip is one discovered input file. Identity is the path; the
// playable duration is resolved lazily by whoever needs it.
type MediaClip struct {
	Path string
}

// EditSegment is a slice of one clip: always anchored at the clip
// start, possibly shorter than the full clip.
type EditSegment struct {
	Clip   string
	Start  time.Duration
	Length time.Duration
}

// EditList is an ordered edit; playback order is list order.
type EditList []EditSegment

// Total returns the summed segment length of the list.
func (l EditList) Total() time.Duration {
	var t time.Duration
	for _, s := range l {
		t += s.Length
	}
	return t
}

// Clips returns the clip identities in list order.
func (l EditList) Clips() []string {
	out := make([]string, 0, len(l))
	for _, s := range l {
		out = append(out, s.Clip)
	}
	return out
}

// VideoJob pairs one visual source with a target run length and an
// output location.
type VideoJob struct {
	Visual string
	Target time.Duration
	Output string
}

// BatchSummary reports the outcome of one batch run.
type BatchSummary struct {
	Total   int
	Created int
	OutDir  string
}
