package output

import (
	"bytes"
	"encoding/json"
)

// jsonOutput represents the full JSON output structure.
type jsonOutput struct {
	Roots []jsonRoot `json:"roots"`
	Stats jsonStats  `json:"stats"`
	Meta  jsonMeta   `json:"meta"`
}

type jsonRoot struct {
	Path      string `json:"path"`
	Kind      string `json:"kind"`
	Size      int64  `json:"size"`
	SizeHuman string `json:"size_human"`
	Done      bool   `json:"done"`
	Children  int    `json:"children"`
	Verified  *int64 `json:"verified,omitempty"`
}

type jsonStats struct {
	Steps     int64  `json:"steps"`
	Discarded int64  `json:"discarded"`
	Failures  int64  `json:"failures"`
	Commands  int64  `json:"commands"`
	Rejected  int64  `json:"rejected"`
	Listed    int64  `json:"listed"`
	Duration  string `json:"duration"`
}

type jsonMeta struct {
	TotalSize   int64    `json:"total_size"`
	Complete    bool     `json:"complete"`
	Interrupted bool     `json:"interrupted"`
	Warnings    []string `json:"warnings,omitempty"`
}

// JSONFormatter formats output as a single indented JSON object with roots,
// stats, and meta sections.
type JSONFormatter struct{}

// Format writes the formatted output to the buffer.
func (f *JSONFormatter) Format(w *bytes.Buffer, r *Result) error {
	roots := make([]jsonRoot, len(r.Roots))
	for i, root := range r.Roots {
		roots[i] = jsonRoot{
			Path:      root.Path,
			Kind:      root.Kind,
			Size:      root.Size,
			SizeHuman: root.SizeHuman,
			Done:      root.Done,
			Children:  root.Children,
			Verified:  root.Verified,
		}
	}

	out := jsonOutput{
		Roots: roots,
		Stats: jsonStats{
			Steps:     r.Stats.Steps,
			Discarded: r.Stats.Discarded,
			Failures:  r.Stats.Failures,
			Commands:  r.Stats.Commands,
			Rejected:  r.Stats.Rejected,
			Listed:    r.Stats.Listed,
			Duration:  formatDurationString(r.Stats.Duration),
		},
		Meta: jsonMeta{
			TotalSize:   r.TotalSize(),
			Complete:    r.Complete,
			Interrupted: r.Interrupted,
			Warnings:    r.Warnings,
		},
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(out)
}

func init() {
	Register("json", func() Formatter {
		return &JSONFormatter{}
	})
}

// Ensure JSONFormatter implements Formatter.
var _ Formatter = (*JSONFormatter)(nil)
