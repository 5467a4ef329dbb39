package report

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// WriteXLSX renders the report as a workbook with a Summary sheet and a
// Detail sheet matching the CSV column order.
func WriteXLSX(w io.Writer, rep *ClientActivityReport, includeNotes bool) error {
	f := excelize.NewFile()
	defer f.Close()

	const summarySheet = "Summary"
	const detailSheet = "Detail"

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return err
	}
	if _, err := f.NewSheet(detailSheet); err != nil {
		return err
	}

	row := 1
	writeRow := func(sheet string, r int, values []any) error {
		cell, err := excelize.CoordinatesToCellName(1, r)
		if err != nil {
			return err
		}
		return f.SetSheetRow(sheet, cell, &values)
	}

	if err := writeRow(summarySheet, row, []any{"By Week"}); err != nil {
		return err
	}
	row++
	for _, s := range rep.Summary.ByWeek {
		if err := writeRow(summarySheet, row, []any{s.ISOWeek, s.Hours}); err != nil {
			return err
		}
		row++
	}
	row++
	if err := writeRow(summarySheet, row, []any{"By Month"}); err != nil {
		return err
	}
	row++
	for _, s := range rep.Summary.ByMonth {
		if err := writeRow(summarySheet, row, []any{s.Month, s.Hours}); err != nil {
			return err
		}
		row++
	}
	row++
	if err := writeRow(summarySheet, row, []any{"By Person"}); err != nil {
		return err
	}
	row++
	for _, s := range rep.Summary.ByPerson {
		if err := writeRow(summarySheet, row, []any{s.ConsultantName, s.Hours}); err != nil {
			return err
		}
		row++
	}
	row++
	if err := writeRow(summarySheet, row, []any{"By Category"}); err != nil {
		return err
	}
	row++
	for _, s := range rep.Summary.ByCategory {
		if err := writeRow(summarySheet, row, []any{s.Category, s.Hours}); err != nil {
			return err
		}
		row++
	}

	header := []any{
		"Date", "Consultant", "Project", "Task",
		"Client Facing Hours", "Non-Client Facing Hours", "Other Hours",
		"Total Hours", "Status",
	}
	if includeNotes {
		header = append(header, "Notes")
	}
	if err := writeRow(detailSheet, 1, header); err != nil {
		return err
	}
	for i, d := range rep.Detail {
		values := []any{
			d.Date, d.ConsultantName, d.ProjectID, d.ProjectTask,
			d.ClientFacingHours, d.NonClientFacingHours, d.OtherTaskHours,
			d.TotalHours, d.Status,
		}
		if includeNotes {
			values = append(values, d.Notes)
		}
		if err := writeRow(detailSheet, i+2, values); err != nil {
			return err
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}
