package cli

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/gchongg/lofi-video-generator/internal/pipeline"
)

func newImagegenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "imagegen <image_folder> <mp3_folder> <time_limit_minutes> [output_folder]",
		Short: "Create one video per image, each with a unique audio sequence",
		Args:  cobra.RangeArgs(3, 4),
		RunE: func(cmd *cobra.Command, args []string) error {
			minutes, err := strconv.Atoi(args[2])
			if err != nil || minutes <= 0 {
				return fmt.Errorf("time limit must be a positive number of minutes, got %q", args[2])
			}
			outDir := "./output"
			if len(args) == 4 {
				outDir = args[3]
			}
			jobs, _ := cmd.Flags().GetInt("jobs")
			bitrate, _ := cmd.Flags().GetString("bitrate")

			ctx, cancel := context.WithTimeout(cmd.Context(), 12*time.Hour)
			defer cancel()

			cfg := pipeline.BatchConfig{
				ImageDir:  args[0],
				AudioDir:  args[1],
				TimeLimit: time.Duration(minutes) * time.Minute,
				OutDir:    outDir,
				Jobs:      jobs,
				Bitrate:   bitrate,
				Logf:      logf,

				FFmpegPath:  getenvDefault("FFMPEG_PATH", "ffmpeg"),
				FFprobePath: getenvDefault("FFPROBE_PATH", "ffprobe"),
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("config: %w", err)
			}
			return pipeline.RunBatch(ctx, cfg)
		},
	}

	cmd.Flags().Int("jobs", 1, "Images to process in parallel")
	cmd.Flags().String("bitrate", "192k", "Audio bitrate for composed sequences")
	return cmd
}
