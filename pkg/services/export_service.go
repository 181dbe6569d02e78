package services

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"lifeops-api/pkg/models"
)

// ExportService renders the daily logs as a spreadsheet for download.
type ExportService struct{}

// NewExportService creates a new export service
func NewExportService() *ExportService {
	return &ExportService{}
}

var exportHeader = []string{
	"Date", "Sleep (h)", "Sleep quality (1-5)", "Trained", "Train minutes",
	"Train type", "Food score (1-5)", "Hydration OK", "Meals OK",
	"Mood (0-10)", "Anxiety (0-10)", "Notes",
}

// LogsToXLSX writes one row per daily log, oldest first, and returns the
// serialized workbook.
func (s *ExportService) LogsToXLSX(logs []models.DailyLog) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for col, title := range exportHeader {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, fmt.Errorf("failed to build header cell: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, title); err != nil {
			return nil, fmt.Errorf("failed to write header: %w", err)
		}
	}

	for i, l := range logs {
		row := i + 2
		values := []interface{}{
			l.Date, l.SleepHours, l.SleepQuality, l.Trained, l.TrainMinutes,
			l.TrainType, l.FoodScore, l.HydrationOK, l.MealsOK,
			l.Mood, l.Anxiety, l.Notes,
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				return nil, fmt.Errorf("failed to build cell name: %w", err)
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, fmt.Errorf("failed to write row %d: %w", row, err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize workbook: %w", err)
	}
	return buf, nil
}
