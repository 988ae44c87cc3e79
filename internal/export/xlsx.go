package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/tdalton7/earnex/internal/pipeline"
)

// WriteXLSX writes the outcome as an XLSX workbook at path.
func WriteXLSX(path string, outcome pipeline.BatchOutcome) error {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Extractions"
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("delete default sheet: %w", err)
	}

	write := func(col, rowNum int, v string) error {
		cell, err := excelize.CoordinatesToCellName(col, rowNum)
		if err != nil {
			return err
		}
		return f.SetCellValue(sheet, cell, v)
	}

	for i, h := range Headers {
		if err := write(i+1, 1, h); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
	}

	for i, r := range outcome {
		for col, v := range row(r) {
			if err := write(col+1, i+2, v); err != nil {
				return fmt.Errorf("write row for %s: %w", r.Document, err)
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}
