// Package export renders scan events as spreadsheets.
package export

import (
	"fmt"
	"io"
	"regexp"

	"github.com/xuri/excelize/v2"

	"gitlab.ozon.dev/pupkingeorgij/fboconsole/internal/fbo"
)

const (
	sheetName   = "Scans"
	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var header = []interface{}{"ID", "Barcode", "Box", "Created at", "Created by"}

var unsafeFileChars = regexp.MustCompile(`[^A-Za-z0-9_-]+`)

// FileName is the download name for a shipment's scan sheet.
func FileName(shipment fbo.Shipment) string {
	id := unsafeFileChars.ReplaceAllString(shipment.PublicID, "")
	if id == "" {
		id = fmt.Sprintf("%d", shipment.ID)
	}
	return "scans-" + id + ".xlsx"
}

// WriteScansXLSX writes one sheet with a bold header row followed by one row per scan.
func WriteScansXLSX(w io.Writer, shipment fbo.Shipment, scans []fbo.ScanEvent) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(0), sheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if err := f.SetDocProps(&excelize.DocProperties{
		Title:   "Scans " + shipment.PublicID,
		Subject: shipment.SourceName,
		Creator: "fbo-console",
	}); err != nil {
		return fmt.Errorf("set properties: %w", err)
	}

	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}
	if err := f.SetCellStyle(sheetName, "A1", "E1", bold); err != nil {
		return fmt.Errorf("apply header style: %w", err)
	}

	for i, s := range scans {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []interface{}{s.ID, s.Barcode, s.BoxNo, s.CreatedAt, s.CreatedByUserID}
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	if err := f.SetColWidth(sheetName, "A", "A", 10); err != nil {
		return err
	}
	if err := f.SetColWidth(sheetName, "B", "B", 28); err != nil {
		return err
	}
	if err := f.SetColWidth(sheetName, "C", "E", 22); err != nil {
		return err
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
