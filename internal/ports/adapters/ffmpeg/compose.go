package ffmpeg

import (
	"context"
	"fmt"
	"time"

	ffgo "github.com/u2takey/ffmpeg-go"

	"github.com/gchongg/lofi-video-generator/internal/types"
)

// ConcatAudio renders an ordered edit list into one mp3. A single
// untrimmed segment is stream-copied; anything trimmed or concatenated
// is re-encoded, since copying across heterogeneous source encodings
// is not generally valid.
func (a *Adapter) ConcatAudio(ctx context.Context, list types.EditList, bitrate, outPath string) error {
	if len(list) == 0 {
		return fmt.Errorf("compose audio: empty edit list")
	}
	if bitrate == "" {
		bitrate = "192k"
	}

	if len(list) == 1 {
		seg := list[0]
		if !a.trimmed(ctx, seg) {
			err := run(ctx, ffgo.Input(seg.Clip).Output(outPath, ffgo.KwArgs{"acodec": "copy"}))
			if err != nil {
				return fmt.Errorf("compose audio: %w", err)
			}
			return nil
		}
		stream := ffgo.Input(seg.Clip).Filter("atrim", ffgo.Args{}, ffgo.KwArgs{
			"start":    fmtSeconds(seg.Start),
			"duration": fmtSeconds(seg.Length),
		})
		err := run(ctx, stream.Output(outPath, ffgo.KwArgs{"acodec": "libmp3lame", "b:a": bitrate}))
		if err != nil {
			return fmt.Errorf("compose audio: %w", err)
		}
		return nil
	}

	inputs := make([]*ffgo.Stream, 0, len(list))
	for _, seg := range list {
		stream := ffgo.Input(seg.Clip)
		if a.trimmed(ctx, seg) {
			stream = stream.Filter("atrim", ffgo.Args{}, ffgo.KwArgs{
				"start":    fmtSeconds(seg.Start),
				"duration": fmtSeconds(seg.Length),
			})
		}
		inputs = append(inputs, stream)
	}
	joined := ffgo.Concat(inputs, ffgo.KwArgs{"v": 0, "a": 1})
	err := run(ctx, joined.Output(outPath, ffgo.KwArgs{"acodec": "libmp3lame", "b:a": bitrate}))
	if err != nil {
		return fmt.Errorf("compose audio: %w", err)
	}
	return nil
}

// ImageVideo loops a still image at a fixed low framerate for
// runLength, muxed with audioPath when present.
func (a *Adapter) ImageVideo(ctx context.Context, imagePath, audioPath string, runLength time.Duration, outPath string) error {
	video := ffgo.Input(imagePath, ffgo.KwArgs{"loop": 1, "framerate": 1})

	var out *ffgo.Stream
	if audioPath != "" {
		audio := ffgo.Input(audioPath)
		out = ffgo.Output([]*ffgo.Stream{video, audio}, outPath, ffgo.KwArgs{
			"c:v":     "libx264",
			"c:a":     "aac",
			"pix_fmt": "yuv420p",
			"t":       fmtSeconds(runLength),
		})
	} else {
		out = video.Output(outPath, ffgo.KwArgs{
			"c:v":     "libx264",
			"pix_fmt": "yuv420p",
			"t":       fmtSeconds(runLength),
		})
	}
	if err := run(ctx, out); err != nil {
		return fmt.Errorf("compose video %s: %w", imagePath, err)
	}
	return nil
}

// trimmed reports whether seg is shorter than its clip. An unprobeable
// clip counts as trimmed so the segment still re-encodes to its
// declared length.
func (a *Adapter) trimmed(ctx context.Context, seg types.EditSegment) bool {
	full, err := a.Duration(ctx, seg.Clip)
	if err != nil {
		return true
	}
	return seg.Start > 0 || seg.Length < full
}

// run executes a compiled ffmpeg-go graph. The library builds its own
// exec.Cmd without context support, so cancellation is only honored
// between commands.
func run(ctx context.Context, s *ffgo.Stream) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.OverWriteOutput().Run()
}
