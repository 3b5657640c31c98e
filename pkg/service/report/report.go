// Package report renders learner summaries in the supported output formats.
package report

import (
	"encoding/json"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/gradecalc/pkg/domain/model"
	"github.com/secmon-lab/gradecalc/pkg/domain/types"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gopkg.in/yaml.v3"
)

// Format is an output format name
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatText Format = "text"
	FormatXLSX Format = "xlsx"
)

// String returns the string representation
func (f Format) String() string {
	return string(f)
}

// IsValid checks if the format is supported
func (f Format) IsValid() bool {
	switch f {
	case FormatJSON, FormatYAML, FormatText, FormatXLSX:
		return true
	default:
		return false
	}
}

// SheetName is the worksheet holding summaries in spreadsheet output
const SheetName = "Summary"

// Writer renders summaries in one format
type Writer struct {
	format Format
	locale language.Tag
}

// WriterOption configures Writer
type WriterOption func(*Writer)

// WithLocale sets the locale used for numbers in text output
func WithLocale(tag language.Tag) WriterOption {
	return func(w *Writer) { w.locale = tag }
}

// NewWriter creates a Writer for the given format
func NewWriter(format Format, opts ...WriterOption) (*Writer, error) {
	if !format.IsValid() {
		return nil, goerr.New("unsupported output format", goerr.V("format", format))
	}

	w := &Writer{format: format, locale: language.English}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Write renders summaries to out
func (w *Writer) Write(out io.Writer, summaries []*model.LearnerSummary) error {
	switch w.format {
	case FormatJSON:
		return writeJSON(out, summaries)
	case FormatYAML:
		return writeYAML(out, summaries)
	case FormatText:
		return writeText(out, summaries, w.locale)
	case FormatXLSX:
		return writeXLSX(out, summaries)
	default:
		return goerr.New("unsupported output format", goerr.V("format", w.format))
	}
}

func writeJSON(out io.Writer, summaries []*model.LearnerSummary) error {
	if summaries == nil {
		summaries = []*model.LearnerSummary{}
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(summaries); err != nil {
		return goerr.Wrap(err, "failed to encode summaries as JSON")
	}
	return nil
}

func writeYAML(out io.Writer, summaries []*model.LearnerSummary) error {
	if summaries == nil {
		summaries = []*model.LearnerSummary{}
	}

	enc := yaml.NewEncoder(out)
	enc.SetIndent(2)
	if err := enc.Encode(summaries); err != nil {
		return goerr.Wrap(err, "failed to encode summaries as YAML")
	}
	if err := enc.Close(); err != nil {
		return goerr.Wrap(err, "failed to flush YAML encoder")
	}
	return nil
}

// assignmentColumns returns every assignment ID across summaries in order of
// first appearance
func assignmentColumns(summaries []*model.LearnerSummary) []types.AssignmentID {
	seen := make(map[types.AssignmentID]bool)
	var columns []types.AssignmentID
	for _, s := range summaries {
		for _, score := range s.Scores {
			if !seen[score.AssignmentID] {
				seen[score.AssignmentID] = true
				columns = append(columns, score.AssignmentID)
			}
		}
	}
	return columns
}

func writeText(out io.Writer, summaries []*model.LearnerSummary, locale language.Tag) error {
	p := message.NewPrinter(locale)
	columns := assignmentColumns(summaries)

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)

	header := []string{"LEARNER", "AVG"}
	for _, id := range columns {
		header = append(header, id.String())
	}
	if _, err := io.WriteString(tw, strings.Join(header, "\t")+"\n"); err != nil {
		return goerr.Wrap(err, "failed to write text header")
	}

	for _, s := range summaries {
		row := []string{s.ID.String(), p.Sprintf("%.2f", s.Avg)}
		for _, id := range columns {
			if f, ok := s.Score(id); ok {
				row = append(row, p.Sprintf("%.3f", f))
			} else {
				row = append(row, "-")
			}
		}
		if _, err := io.WriteString(tw, strings.Join(row, "\t")+"\n"); err != nil {
			return goerr.Wrap(err, "failed to write text row", goerr.V("learner_id", s.ID))
		}
	}

	if err := tw.Flush(); err != nil {
		return goerr.Wrap(err, "failed to flush text output")
	}
	return nil
}

func writeXLSX(out io.Writer, summaries []*model.LearnerSummary) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return goerr.Wrap(err, "failed to rename worksheet")
	}

	columns := assignmentColumns(summaries)
	header := []any{"learner_id", "avg"}
	for _, id := range columns {
		header = append(header, id.String())
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return goerr.Wrap(err, "failed to write header row")
	}

	for i, s := range summaries {
		row := []any{s.ID.Int(), s.Avg}
		for _, id := range columns {
			if v, ok := s.Score(id); ok {
				row = append(row, v)
			} else {
				row = append(row, nil)
			}
		}

		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return goerr.Wrap(err, "failed to resolve cell", goerr.V("row", i+2))
		}
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return goerr.Wrap(err, "failed to write learner row", goerr.V("learner_id", s.ID))
		}
	}

	if err := f.Write(out); err != nil {
		return goerr.Wrap(err, "failed to write spreadsheet")
	}
	return nil
}
