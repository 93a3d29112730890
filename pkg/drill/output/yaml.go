package output

import (
	"bytes"

	"gopkg.in/yaml.v3"
)

type yamlOutput struct {
	Roots []yamlRoot `yaml:"roots"`
	Stats yamlStats  `yaml:"stats"`
	Meta  yamlMeta   `yaml:"meta"`
}

type yamlRoot struct {
	Path      string `yaml:"path"`
	Kind      string `yaml:"kind"`
	Size      int64  `yaml:"size"`
	SizeHuman string `yaml:"size_human"`
	Done      bool   `yaml:"done"`
	Children  int    `yaml:"children"`
	Verified  *int64 `yaml:"verified,omitempty"`
}

type yamlStats struct {
	Steps     int64  `yaml:"steps"`
	Discarded int64  `yaml:"discarded"`
	Failures  int64  `yaml:"failures"`
	Commands  int64  `yaml:"commands"`
	Rejected  int64  `yaml:"rejected"`
	Listed    int64  `yaml:"listed"`
	Duration  string `yaml:"duration,omitempty"`
}

type yamlMeta struct {
	TotalSize   int64    `yaml:"total_size"`
	Complete    bool     `yaml:"complete"`
	Interrupted bool     `yaml:"interrupted"`
	Warnings    []string `yaml:"warnings,omitempty"`
}

// YAMLFormatter formats output as a YAML document.
type YAMLFormatter struct{}

// Format writes the formatted output to the buffer.
func (f *YAMLFormatter) Format(w *bytes.Buffer, r *Result) error {
	roots := make([]yamlRoot, len(r.Roots))
	for i, root := range r.Roots {
		roots[i] = yamlRoot{
			Path:      root.Path,
			Kind:      root.Kind,
			Size:      root.Size,
			SizeHuman: root.SizeHuman,
			Done:      root.Done,
			Children:  root.Children,
			Verified:  root.Verified,
		}
	}

	out := yamlOutput{
		Roots: roots,
		Stats: yamlStats{
			Steps:     r.Stats.Steps,
			Discarded: r.Stats.Discarded,
			Failures:  r.Stats.Failures,
			Commands:  r.Stats.Commands,
			Rejected:  r.Stats.Rejected,
			Listed:    r.Stats.Listed,
			Duration:  formatDurationString(r.Stats.Duration),
		},
		Meta: yamlMeta{
			TotalSize:   r.TotalSize(),
			Complete:    r.Complete,
			Interrupted: r.Interrupted,
			Warnings:    r.Warnings,
		},
	}

	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(out); err != nil {
		return err
	}
	return encoder.Close()
}

func init() {
	Register("yaml", func() Formatter {
		return &YAMLFormatter{}
	})
}

// Ensure YAMLFormatter implements Formatter.
var _ Formatter = (*YAMLFormatter)(nil)
