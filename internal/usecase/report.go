package usecase

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/gchongg/lofi-video-generator/internal/domain/inventory"
	"github.com/gchongg/lofi-video-generator/internal/domain/timefmt"
)

// Report prints the per-file and total playable time of a folder of
// mp3s.
type Report struct{ d Deps }

func NewReport(d Deps) Report { return Report{d: d} }

type ReportInput struct {
	Dir string
	Out io.Writer
}

func (r Report) Run(ctx context.Context, in ReportInput) error {
	files, err := inventory.Scan(in.Dir, []string{"mp3"})
	if err != nil {
		return err
	}
	if len(files) == 0 {
		fmt.Fprintf(in.Out, "No MP3 files found in %s\n", in.Dir)
		return nil
	}

	fmt.Fprintf(in.Out, "Found %d MP3 files in %s\n", len(files), in.Dir)
	fmt.Fprintln(in.Out, "Analyzing files...")
	fmt.Fprintln(in.Out, strings.Repeat("-", 50))

	var (
		total time.Duration
		ok    int
	)
	for _, f := range files {
		name := filepath.Base(f.Path)
		d, err := r.d.Probe.Duration(ctx, f.Path)
		if err != nil || d <= 0 {
			fmt.Fprintf(in.Out, "%-50s ERROR\n", name)
			continue
		}
		total += d
		ok++
		fmt.Fprintf(in.Out, "%-50s %s\n", name, timefmt.Clock(d))
	}

	fmt.Fprintln(in.Out, strings.Repeat("-", 50))
	fmt.Fprintf(in.Out, "Successfully processed: %d files\n", ok)
	fmt.Fprintf(in.Out, "Total duration: %s\n", timefmt.Clock(total))
	avg := time.Duration(0)
	if ok > 0 {
		avg = total / time.Duration(ok)
	}
	fmt.Fprintf(in.Out, "Average duration: %s\n", timefmt.Clock(avg))
	return nil
}
