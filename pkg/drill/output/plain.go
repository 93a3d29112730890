package output

import (
	"bytes"
	"fmt"
	"text/tabwriter"
)

// PlainFormatter formats output as an aligned table without colors,
// suitable for scripting and piping.
type PlainFormatter struct{}

// Format writes the formatted output to the buffer.
func (f *PlainFormatter) Format(w *bytes.Buffer, r *Result) error {
	tw := tabwriter.NewWriter(w, 0, 0, 1, ' ', 0)

	if _, err := fmt.Fprintln(tw, "SIZE\tSTATE\tITEMS\tPATH"); err != nil {
		return err
	}

	for _, root := range r.Roots {
		if _, err := fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
			root.SizeHuman, state(root), items(root), root.Path); err != nil {
			return err
		}
	}

	return tw.Flush()
}

// state is the one-word scan state of a root.
func state(r RootInfo) string {
	switch {
	case r.Mismatch():
		return "mismatch"
	case r.Kind == KindFile:
		return "file"
	case r.Done:
		return "done"
	default:
		return "partial"
	}
}

func items(r RootInfo) string {
	if r.Kind == KindFile {
		return "-"
	}
	return fmt.Sprintf("%d", r.Children)
}

func init() {
	Register("plain", func() Formatter {
		return &PlainFormatter{}
	})
}

// Ensure PlainFormatter implements Formatter.
var _ Formatter = (*PlainFormatter)(nil)
