// Package timefmt renders durations the way the reports print them.
package timefmt

import (
	"fmt"
	"time"
)

// Clock formats d as M:SS, or H:MM:SS once it reaches an hour.
// Sub-second remainders are truncated.
func Clock(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(d / time.Second)
	h := total / 3600
	m := (total % 3600) / 60
	s := total % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}
