package service

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"docdash/internal/model"
)

// ExportSheet is the worksheet name of the XLSX export.
const ExportSheet = "Documents"

var exportHeader = []any{"Name", "Type", "Summary", "Uploaded", "Last Viewed", "File"}

func writeWorkbook(w io.Writer, docs []model.Document) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", ExportSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}
	dateFormat := "yyyy-mm-dd"
	dateStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: &dateFormat})
	if err != nil {
		return fmt.Errorf("date style: %w", err)
	}

	if err := f.SetSheetRow(ExportSheet, "A1", &exportHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	if err := f.SetRowStyle(ExportSheet, 1, 1, headerStyle); err != nil {
		return fmt.Errorf("style header: %w", err)
	}

	for i, d := range docs {
		row := i + 2
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return err
		}
		var viewed any
		if d.LastViewed != nil {
			viewed = *d.LastViewed
		}
		values := []any{d.Name, d.Type, d.Summary, d.UploadedDate, viewed, d.FileURL}
		if err := f.SetSheetRow(ExportSheet, cell, &values); err != nil {
			return fmt.Errorf("write row %d: %w", row, err)
		}
	}

	if len(docs) > 0 {
		last := len(docs) + 1
		if err := f.SetCellStyle(ExportSheet, "D2", fmt.Sprintf("E%d", last), dateStyle); err != nil {
			return fmt.Errorf("style dates: %w", err)
		}
	}
	if err := f.SetColWidth(ExportSheet, "A", "A", 32); err != nil {
		return err
	}
	if err := f.SetColWidth(ExportSheet, "C", "C", 60); err != nil {
		return err
	}

	return f.Write(w)
}
