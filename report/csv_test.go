package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"meridianadvisory.com/backoffice/utils"
)

func TestWriteCSV(t *testing.T) {
	detail := []DetailRow{
		{
			Date:              "2024-01-03",
			ConsultantName:    "Jane Doe",
			ProjectID:         "proj-1",
			ProjectTask:       "Advisory",
			ClientFacingHours: 3.5,
			TotalHours:        3.5,
			Status:            "Approved",
			Notes:             `He said, "ok"`,
		},
	}

	t.Run("notes quoted and round-trippable", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteCSV(&buf, detail, true))

		assert.Contains(t, buf.String(), `"He said, ""ok"""`)

		records, err := utils.ParseCSV(strings.NewReader(buf.String()))
		require.NoError(t, err)
		require.Len(t, records, 2)
		assert.Equal(t, "Notes", records[0][len(records[0])-1])
		assert.Equal(t, `He said, "ok"`, records[1][len(records[1])-1])
	})

	t.Run("notes column omitted", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteCSV(&buf, detail, false))

		records, err := utils.ParseCSV(strings.NewReader(buf.String()))
		require.NoError(t, err)
		require.Len(t, records, 2)
		assert.Equal(t, []string{
			"Date", "Consultant", "Project", "Task",
			"Client Facing Hours", "Non-Client Facing Hours", "Other Hours",
			"Total Hours", "Status",
		}, records[0])
		assert.Equal(t, "3.5", records[1][4])
		assert.Equal(t, "0.0", records[1][5])
	})
}
