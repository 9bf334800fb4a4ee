package services

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"
)

const progressSheet = "Progress"

var progressHeaders = []string{"Exercise ID", "Type", "Prompt", "Attempts", "Best Score", "Updated At"}

// ExportProgress renders the ledger as an Excel workbook.
func (s *practiceService) ExportProgress(ctx context.Context) (data []byte, err error) {
	op := s.logger.WithOperation(ctx, "export_progress")
	defer func() { op.LogResult(err) }()

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), progressSheet); err != nil {
		return nil, fmt.Errorf("failed to create Excel sheet: %w", err)
	}

	for i, header := range progressHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(progressSheet, cell, header)
	}

	for rowIndex, r := range s.ledger.All() {
		row := []interface{}{r.ExerciseID, "", "", r.Attempts, r.BestScore, ""}
		if def, err := s.catalog.Get(r.ExerciseID); err == nil {
			row[1] = string(def.Type)
			row[2] = def.Prompt
		}
		if !r.UpdatedAt.IsZero() {
			row[5] = r.UpdatedAt.UTC().Format("2006-01-02 15:04:05")
		}
		for colIndex, value := range row {
			cell, _ := excelize.CoordinatesToCellName(colIndex+1, rowIndex+2)
			f.SetCellValue(progressSheet, cell, value)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write Excel file: %w", err)
	}
	return buf.Bytes(), nil
}
