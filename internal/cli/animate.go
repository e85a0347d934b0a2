package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/gchongg/lofi-video-generator/internal/pipeline"
)

func newAnimateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "animate <animation_path> <playlist_url>",
		Short: "Combine a looping animation with audio from a playlist",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			output, _ := cmd.Flags().GetString("output")
			bitrate, _ := cmd.Flags().GetString("bitrate")
			retries, _ := cmd.Flags().GetInt("max-retries")
			keepTemp, _ := cmd.Flags().GetBool("keep-temp")
			cropRight, _ := cmd.Flags().GetInt("crop-right")
			cropBottom, _ := cmd.Flags().GetInt("crop-bottom")
			limitMin, _ := cmd.Flags().GetInt("time-limit")

			ctx, cancel := context.WithTimeout(cmd.Context(), 12*time.Hour)
			defer cancel()

			cfg := pipeline.LongformConfig{
				Animation:   args[0],
				PlaylistURL: args[1],
				Output:      output,
				Bitrate:     bitrate,
				MaxRetries:  retries,
				KeepTemp:    keepTemp,
				CropRight:   cropRight,
				CropBottom:  cropBottom,
				TimeLimit:   time.Duration(limitMin) * time.Minute,
				Logf:        logf,

				FFmpegPath:  getenvDefault("FFMPEG_PATH", "ffmpeg"),
				FFprobePath: getenvDefault("FFPROBE_PATH", "ffprobe"),
				YtdlpPath:   getenvDefault("YTDLP_PATH", "yt-dlp"),
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("config: %w", err)
			}
			return pipeline.RunLongform(ctx, cfg)
		},
	}

	cmd.Flags().StringP("output", "o", "lofi_video.mp4", "Output video filename")
	cmd.Flags().String("bitrate", "192k", "Audio bitrate")
	cmd.Flags().Int("max-retries", 3, "Max download retries")
	cmd.Flags().Bool("keep-temp", false, "Keep temporary files for debugging")
	cmd.Flags().Int("crop-right", 0, "Pixels to crop from the right edge")
	cmd.Flags().Int("crop-bottom", 0, "Pixels to crop from the bottom edge")
	cmd.Flags().Int("time-limit", 0, "Cap stitched audio at this many minutes (0 = no limit)")
	return cmd
}
