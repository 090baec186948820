// Package export renders equipment listings as spreadsheets.
package export

import (
	"bytes"
	"fmt"
	"time"

	"equipment-inventory-api/internal/model"

	"github.com/xuri/excelize/v2"
)

// ContentType is the media type of XLSX workbooks.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// SheetName is the single sheet of an equipment workbook.
const SheetName = "Equipment"

var headers = []interface{}{"ID", "Type", "Name", "Purchase Date", "Details", "Status", "Created At"}

// Filename returns the attachment name for an export taken at t.
func Filename(t time.Time) string {
	return fmt.Sprintf("equipment_%s.xlsx", t.Format("2006-01-02"))
}

// EquipmentWorkbook renders items, one per row under a bold header row.
func EquipmentWorkbook(items []model.Equipment) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}
	if err := f.SetSheetRow(SheetName, "A1", &headers); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}

	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}
	if err := f.SetCellStyle(SheetName, "A1", "G1", style); err != nil {
		return nil, fmt.Errorf("failed to style header: %w", err)
	}

	for i, e := range items {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		row := []interface{}{
			e.ID, e.Type, e.Name, e.PurchaseDate, e.Details, e.Status,
			e.CreatedAt.Format("2006-01-02 15:04:05"),
		}
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	f.SetColWidth(SheetName, "C", "C", 35)
	f.SetColWidth(SheetName, "D", "D", 15)
	f.SetColWidth(SheetName, "E", "E", 40)
	f.SetColWidth(SheetName, "G", "G", 20)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to render workbook: %w", err)
	}
	return buf, nil
}
