package output

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// PrettyFormatter formats output with colors and styling using lipgloss,
// for terminal display.
type PrettyFormatter struct{}

// Format writes the formatted output to the buffer.
func (f *PrettyFormatter) Format(w *bytes.Buffer, r *Result) error {
	w.WriteString(f.formatHeader(r))
	w.WriteString("\n")
	w.WriteString(f.formatTable(r))
	w.WriteString(f.formatFooter(r))

	if len(r.Warnings) > 0 {
		w.WriteString("\n")
		w.WriteString(f.formatWarnings(r.Warnings))
	}
	return nil
}

// formatHeader builds the header box with run metadata.
func (f *PrettyFormatter) formatHeader(r *Result) string {
	var lines []string

	status := SuccessStyle.Render("complete")
	if !r.Complete {
		status = WarningStyle.Render("partial")
	}
	lines = append(lines, fmt.Sprintf("%s %s  %s %s",
		LabelStyle.Render("Scan:"), status,
		LabelStyle.Render("Took:"), ValueStyle.Render(formatDuration(r.Stats.Duration))))

	lines = append(lines, fmt.Sprintf("%s %s  %s %s  %s %s",
		LabelStyle.Render("Listed:"), ValueStyle.Render(humanize.Comma(r.Stats.Listed)+" dirs"),
		LabelStyle.Render("Steps:"), ValueStyle.Render(humanize.Comma(r.Stats.Steps)),
		LabelStyle.Render("Discarded:"), ValueStyle.Render(humanize.Comma(r.Stats.Discarded))))

	if r.Stats.Failures > 0 {
		lines = append(lines, ErrorStyle.Render(fmt.Sprintf("%d scan steps failed, see the log", r.Stats.Failures)))
	}
	if r.Interrupted {
		lines = append(lines, WarningStyle.Bold(true).Render("Scan interrupted before completion"))
	}

	return HeaderBox.Render(strings.Join(lines, "\n"))
}

// formatTable builds the root table with SIZE, ITEMS and PATH columns.
func (f *PrettyFormatter) formatTable(r *Result) string {
	if len(r.Roots) == 0 {
		return MutedStyle.Render("  No entries left in the root set") + "\n"
	}

	var sb strings.Builder

	maxSizeWidth := 8
	for _, root := range r.Roots {
		maxSizeWidth = max(maxSizeWidth, len(root.SizeHuman))
	}

	sb.WriteString(fmt.Sprintf("  %s  %s  %s\n",
		TableHeaderStyle.Render(padLeft("SIZE", maxSizeWidth)),
		TableHeaderStyle.Render(padLeft("ITEMS", 7)),
		TableHeaderStyle.Render("PATH")))

	for _, root := range r.Roots {
		size := SizeStyle.Render(padLeft(root.SizeHuman, maxSizeWidth))
		count := MutedStyle.Render(padLeft(items(root), 7))
		path := PathStyle.Render(root.Path)
		if root.Kind == KindDir {
			path = PathStyle.Render(root.Path + "/")
		}

		var mark string
		switch {
		case root.Mismatch():
			mark = " " + ErrorStyle.Render("walk: "+humanize.IBytes(uint64(*root.Verified)))
		case !root.Done:
			mark = " " + WarningStyle.Render("…")
		}
		sb.WriteString(fmt.Sprintf("  %s  %s  %s%s\n", size, count, path, mark))
	}

	return sb.String()
}

// formatFooter builds the footer box with totals.
func (f *PrettyFormatter) formatFooter(r *Result) string {
	parts := []string{
		fmt.Sprintf("%s %s", LabelStyle.Render("Roots:"), ValueStyle.Render(fmt.Sprintf("%d", len(r.Roots)))),
		fmt.Sprintf("%s %s", LabelStyle.Render("Total:"), SizeStyle.Render(humanize.IBytes(uint64(max(r.TotalSize(), 0))))),
		MutedStyle.Render("Use -o plain for unformatted output"),
	}
	return FooterBox.Render(strings.Join(parts, "  "))
}

// formatWarnings builds a warning block.
func (f *PrettyFormatter) formatWarnings(warnings []string) string {
	var sb strings.Builder

	sb.WriteString(WarningStyle.Bold(true).Render("Warnings:"))
	sb.WriteString("\n")
	for _, warning := range warnings {
		sb.WriteString(WarningStyle.Render("  " + warning))
		sb.WriteString("\n")
	}
	return sb.String()
}

// padLeft pads a string with spaces on the left to the desired width.
func padLeft(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return strings.Repeat(" ", width-len(s)) + s
}

// formatDuration formats a duration in a human-friendly way.
func formatDuration(d time.Duration) string {
	sec := d.Seconds()
	if sec < 1 {
		return fmt.Sprintf("%.0fms", sec*1000)
	}
	if sec < 60 {
		return fmt.Sprintf("%.1fs", sec)
	}
	minutes := int(sec) / 60
	seconds := int(sec) % 60
	if minutes < 60 {
		return fmt.Sprintf("%dm %ds", minutes, seconds)
	}
	return fmt.Sprintf("%dh %dm", minutes/60, minutes%60)
}

// formatDurationString formats a duration for structured output.
func formatDurationString(d time.Duration) string {
	if d == 0 {
		return ""
	}
	return d.String()
}

func init() {
	Register("pretty", func() Formatter {
		return &PrettyFormatter{}
	})
}

// Ensure PrettyFormatter implements Formatter.
var _ Formatter = (*PrettyFormatter)(nil)
