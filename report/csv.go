package report

import (
	"encoding/csv"
	"fmt"
	"io"
)

// WriteCSV serializes the detail rows in a fixed column order. encoding/csv
// applies RFC 4180 quoting, doubling embedded double quotes. The Notes
// column is appended only when requested.
func WriteCSV(w io.Writer, detail []DetailRow, includeNotes bool) error {
	writer := csv.NewWriter(w)

	header := []string{
		"Date", "Consultant", "Project", "Task",
		"Client Facing Hours", "Non-Client Facing Hours", "Other Hours",
		"Total Hours", "Status",
	}
	if includeNotes {
		header = append(header, "Notes")
	}
	if err := writer.Write(header); err != nil {
		return err
	}

	for _, row := range detail {
		record := []string{
			row.Date,
			row.ConsultantName,
			row.ProjectID,
			row.ProjectTask,
			formatHours(row.ClientFacingHours),
			formatHours(row.NonClientFacingHours),
			formatHours(row.OtherTaskHours),
			formatHours(row.TotalHours),
			row.Status,
		}
		if includeNotes {
			record = append(record, row.Notes)
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

func formatHours(v float64) string {
	return fmt.Sprintf("%.1f", v)
}
