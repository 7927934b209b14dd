package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/gardar/planscan/pkg/schedule"
)

// SheetName is the worksheet holding the events.
const SheetName = "Events"

var xlsxHeader = []any{"Jour", "Début", "Fin", "Titre", "Exporté"}

// XLSX builds a workbook with one row per event, in day order.
// Unselected and unassigned events are listed too so the sheet can be used
// for review.
func XLSX(events []schedule.Event) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return nil, fmt.Errorf("failed to rename sheet: %w", err)
	}

	if err := f.SetSheetRow(SheetName, "A1", &xlsxHeader); err != nil {
		return nil, err
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(SheetName, "A1", "E1", bold); err != nil {
		return nil, err
	}

	sorted := append([]schedule.Event(nil), events...)
	schedule.SortEvents(sorted)

	for i, e := range sorted {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		exported := "non"
		if e.Flag && e.Assigned() {
			exported = "oui"
		}
		row := []any{e.Day, e.Beg, e.End, e.Title(), exported}
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	if err := f.SetColWidth(SheetName, "A", "A", 12); err != nil {
		return nil, err
	}
	if err := f.SetColWidth(SheetName, "D", "D", 40); err != nil {
		return nil, err
	}
	if err := f.SetPanes(SheetName, &excelize.Panes{
		Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft",
	}); err != nil {
		return nil, err
	}
	last, err := excelize.CoordinatesToCellName(len(xlsxHeader), len(sorted)+1)
	if err != nil {
		return nil, err
	}
	if err := f.AutoFilter(SheetName, "A1:"+last, nil); err != nil {
		return nil, err
	}
	return f, nil
}

// WriteXLSX writes the workbook of events to w.
func WriteXLSX(w io.Writer, events []schedule.Event) error {
	f, err := XLSX(events)
	if err != nil {
		return err
	}
	defer f.Close()
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}
