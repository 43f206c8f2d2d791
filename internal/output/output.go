// Package output prints command results in yaml, json, or table form.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"gopkg.in/yaml.v3"

	"github.com/mj1618/owl-recorder/internal/convert"
)

// Format represents the output format.
type Format string

const (
	FormatYAML  Format = "yaml"
	FormatJSON  Format = "json"
	FormatTable Format = "table"
)

// ParseFormat validates a --format value. Empty means yaml.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case "", FormatYAML:
		return FormatYAML, nil
	case FormatJSON:
		return FormatJSON, nil
	case FormatTable:
		return FormatTable, nil
	default:
		return "", fmt.Errorf("unsupported format: %s (use yaml, json, or table)", s)
	}
}

// Summary is the report printed after a convert run.
type Summary struct {
	Total     int               `yaml:"total"     json:"total"`
	Converted int               `yaml:"converted" json:"converted"`
	Empty     int               `yaml:"empty"     json:"empty"`
	Failed    int               `yaml:"failed"    json:"failed"`
	Warnings  int               `yaml:"warnings"  json:"warnings"`
	Results   []*convert.Result `yaml:"results"   json:"results"`
}

// NewSummary tallies results. Nil entries, left by a cancelled batch, are
// skipped.
func NewSummary(results []*convert.Result) Summary {
	s := Summary{}
	for _, r := range results {
		if r == nil {
			continue
		}
		s.Total++
		s.Warnings += len(r.Warnings)
		s.Results = append(s.Results, r)
		switch {
		case !r.OK():
			s.Failed++
		case r.Empty:
			s.Empty++
		default:
			s.Converted++
		}
	}
	return s
}

// Print serializes v to w in format f. Table output is only defined for a
// Summary; any other value falls back to yaml.
func Print(w io.Writer, f Format, v interface{}) error {
	switch f {
	case FormatJSON:
		return PrintJSON(w, v)
	case FormatYAML, "":
		return PrintYAML(w, v)
	case FormatTable:
		if s, ok := v.(Summary); ok {
			return PrintTable(w, s)
		}
		return PrintYAML(w, v)
	default:
		return fmt.Errorf("unsupported output format: %s", f)
	}
}

// PrintJSON serializes v to w as indented JSON.
func PrintJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("json encode: %w", err)
	}
	return nil
}

// PrintYAML serializes v to w as YAML.
func PrintYAML(w io.Writer, v interface{}) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("yaml encode: %w", err)
	}
	return enc.Close()
}

// PrintTable renders one row per recording with a totals footer.
func PrintTable(w io.Writer, s Summary) error {
	table := tablewriter.NewTable(w,
		tablewriter.WithRendition(tw.Rendition{Borders: tw.BorderNone}),
		tablewriter.WithRowAlignment(tw.AlignLeft),
	)
	table.Header("Recording", "Steps", "Actions", "Warnings", "Status")

	steps, actions := 0, 0
	for _, r := range s.Results {
		steps += r.Steps
		actions += r.Actions
		if err := table.Append([]string{
			r.Source,
			strconv.Itoa(r.Steps),
			strconv.Itoa(r.Actions),
			strconv.Itoa(len(r.Warnings)),
			status(r),
		}); err != nil {
			return fmt.Errorf("table row %s: %w", r.Source, err)
		}
	}
	table.Footer(
		"total",
		strconv.Itoa(steps),
		strconv.Itoa(actions),
		strconv.Itoa(s.Warnings),
		fmt.Sprintf("%d failed", s.Failed),
	)
	if err := table.Render(); err != nil {
		return fmt.Errorf("table render: %w", err)
	}
	return nil
}

func status(r *convert.Result) string {
	switch {
	case !r.OK():
		return "error: " + r.Error
	case r.Empty:
		return "empty"
	case r.WrittenTo != "":
		return r.WrittenTo
	default:
		return "ok"
	}
}
