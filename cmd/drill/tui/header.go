package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jamesainslie/drill/pkg/drill/coordinator"
	"github.com/jamesainslie/drill/pkg/drill/types"
)

// renderAppHeader renders the title line with root count and total size.
func renderAppHeader(snap coordinator.Snapshot, spin string) string {
	appName := titleStyle.Render("DRILL")
	stats := mutedTextStyle.Render(fmt.Sprintf("  %d roots  •  %s",
		snap.Roots.Len(), types.FormatSize(snap.Roots.TotalSize())))

	state := "  " + spin + " " + warningTextStyle.Render("scanning")
	if snap.Complete {
		state = "  " + successTextStyle.Render("✓ complete")
	}

	return " " + appName + stats + state
}

// renderScanMetrics renders the pipeline counters and elapsed time.
func renderScanMetrics(listed int64, stats coordinator.Stats, elapsed time.Duration) string {
	parts := []string{
		fmt.Sprintf("Listed: %s dirs", humanize.Comma(listed)),
		fmt.Sprintf("Steps: %s", humanize.Comma(stats.Steps)),
	}
	if stats.Discarded > 0 {
		parts = append(parts, fmt.Sprintf("Stale: %s", humanize.Comma(stats.Discarded)))
	}
	if elapsed > 0 {
		parts = append(parts, fmt.Sprintf("Time: %v", elapsed.Round(time.Millisecond)))
	}

	line := mutedTextStyle.Render("  " + strings.Join(parts, "  |  "))
	if stats.Failures > 0 {
		line += errorTextStyle.Render(fmt.Sprintf("  |  Failed: %d", stats.Failures))
	}
	return line
}
