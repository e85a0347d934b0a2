package ports

import (
	"context"
	"time"

	"github.com/gchongg/lofi-video-generator/internal/types"
)

// Prober answers media metadata questions via an external probe tool.
type Prober interface {
	Duration(ctx context.Context, path string) (time.Duration, error)
	Dimensions(ctx context.Context, path string) (width, height int, err error)
}

// Encoder turns edit descriptions into files via an external encoder.
type Encoder interface {
	// ConcatAudio trims each segment to its Length and concatenates
	// them, in order, into one audio file at the given bitrate.
	ConcatAudio(ctx context.Context, list types.EditList, bitrate, outPath string) error

	// ImageVideo loops a still image into a fixed-framerate video of
	// runLength, muxing in audioPath when non-empty.
	ImageVideo(ctx context.Context, imagePath, audioPath string, runLength time.Duration, outPath string) error

	// CropVideo re-encodes inPath cropped to width x height anchored
	// at the top-left corner.
	CropVideo(ctx context.Context, inPath string, width, height int, outPath string) error

	// LoopVideo loops inPath's video stream to length, dropping audio.
	LoopVideo(ctx context.Context, inPath string, length time.Duration, outPath string) error

	// Mux pairs a video stream with an audio track, ending with the
	// shorter of the two.
	Mux(ctx context.Context, videoPath, audioPath, bitrate, outPath string) error
}

// Downloader fetches a playlist's audio into destDir as mp3 files.
type Downloader interface {
	DownloadAudio(ctx context.Context, url, destDir string, maxRetries int) error
}
