package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/gchongg/lofi-video-generator/internal/pipeline"
)

func newDurationsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "durations [folder]",
		Short: "Report the total playable length of a folder of mp3s",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), time.Hour)
			defer cancel()

			cfg := pipeline.ReportConfig{
				Dir: dir,
				Out: os.Stdout,

				FFprobePath: getenvDefault("FFPROBE_PATH", "ffprobe"),
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("config: %w", err)
			}
			return pipeline.RunReport(ctx, cfg)
		},
	}
}
