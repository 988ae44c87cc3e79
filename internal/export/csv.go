// Package export renders a BatchOutcome as CSV or XLSX, one row per
// input document.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/tdalton7/earnex/internal/extract"
	"github.com/tdalton7/earnex/internal/pipeline"
)

// Headers is the export column order: the file name, the record
// fields, then extraction metadata.
var Headers = append(append([]string{"File"}, extract.FieldNames...), "Tier", "Warnings", "Error")

// WriteCSV writes the outcome as CSV, preserving batch order.
func WriteCSV(w io.Writer, outcome pipeline.BatchOutcome) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Headers); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, r := range outcome {
		if err := cw.Write(row(r)); err != nil {
			return fmt.Errorf("write row for %s: %w", r.Document, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func row(r pipeline.Result) []string {
	cols := []string{r.Document}
	if r.Record != nil {
		cols = append(cols, r.Record.FieldValues()...)
	} else {
		cols = append(cols, make([]string, len(extract.FieldNames))...)
	}
	cols = append(cols, string(r.Tier))
	cols = append(cols, strings.Join(r.Validation.Warnings, "; "))
	if r.Err != nil {
		cols = append(cols, r.Err.Error())
	} else {
		cols = append(cols, "")
	}
	return cols
}
