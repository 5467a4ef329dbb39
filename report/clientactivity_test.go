package report

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"meridianadvisory.com/backoffice/core"
	"meridianadvisory.com/backoffice/model"
	"meridianadvisory.com/backoffice/utils"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(model.All()...))
	return db
}

type lineSeed struct {
	consultantID string
	clientID     string
	date         string
	clientFacing float64
	nonClient    float64
	other        float64
	status       model.LineStatus
	notes        *string
}

func seedLine(t *testing.T, db *gorm.DB, seed lineSeed) {
	t.Helper()
	require.NoError(t, db.Create(&model.TimecardLine{
		ID:                   uuid.NewString(),
		ConsultantID:         seed.consultantID,
		ClientID:             seed.clientID,
		ProjectID:            model.GenericProjectID,
		ProjectTask:          "Advisory",
		TimecardDate:         seed.date,
		ClientFacingHours:    seed.clientFacing,
		NonClientFacingHours: seed.nonClient,
		OtherTaskHours:       seed.other,
		TotalHours:           seed.clientFacing + seed.nonClient + seed.other,
		Status:               seed.status,
		Notes:                seed.notes,
	}).Error)
}

func TestBuildClientActivityReport(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, db.Create(&model.Consultant{
		ID: "con-1", FirstName: "Jane", Surname: "Doe",
	}).Error)

	// One approved weekday line and one approved Saturday line for C1.
	seedLine(t, db, lineSeed{
		consultantID: "con-1", clientID: "C1", date: "2024-01-03",
		clientFacing: 3.5, status: model.LineStatusApproved,
		notes: utils.Ptr("month-end close"),
	})
	seedLine(t, db, lineSeed{
		consultantID: "con-1", clientID: "C1", date: "2024-01-06",
		clientFacing: 2.0, status: model.LineStatusApproved,
	})
	// Another client's line must never appear.
	seedLine(t, db, lineSeed{
		consultantID: "con-1", clientID: "C2", date: "2024-01-03",
		clientFacing: 8, status: model.LineStatusApproved,
	})

	t.Run("weekends excluded", func(t *testing.T) {
		rep, err := BuildClientActivityReport(db, ClientActivityParams{
			ClientID:  "C1",
			StartDate: "2024-01-01",
			EndDate:   "2024-01-07",
		})
		require.NoError(t, err)

		require.Len(t, rep.Detail, 1)
		assert.Equal(t, "2024-01-03", rep.Detail[0].Date)
		assert.Equal(t, "Jane Doe", rep.Detail[0].ConsultantName)
		assert.Empty(t, rep.Detail[0].Notes) // notes withheld unless requested

		require.Len(t, rep.Summary.ByWeek, 1)
		assert.Equal(t, WeekSummary{ISOWeek: "2024-W01", Hours: 3.5}, rep.Summary.ByWeek[0])

		require.Len(t, rep.Summary.ByMonth, 1)
		assert.Equal(t, MonthSummary{Month: "2024-01", Hours: 3.5}, rep.Summary.ByMonth[0])

		require.Len(t, rep.Summary.ByPerson, 1)
		assert.Equal(t, PersonSummary{ConsultantName: "Jane Doe", Hours: 3.5}, rep.Summary.ByPerson[0])

		categories := map[string]float64{}
		for _, c := range rep.Summary.ByCategory {
			categories[c.Category] = c.Hours
		}
		assert.Equal(t, 3.5, categories[CategoryClientFacing])
		assert.Equal(t, 0.0, categories[CategoryNonClientFacing])
	})

	t.Run("weekends included", func(t *testing.T) {
		rep, err := BuildClientActivityReport(db, ClientActivityParams{
			ClientID:        "C1",
			StartDate:       "2024-01-01",
			EndDate:         "2024-01-07",
			IncludeWeekends: true,
		})
		require.NoError(t, err)

		assert.Len(t, rep.Detail, 2)
		require.Len(t, rep.Summary.ByWeek, 1)
		assert.Equal(t, 5.5, rep.Summary.ByWeek[0].Hours)
	})

	t.Run("notes attached when requested", func(t *testing.T) {
		rep, err := BuildClientActivityReport(db, ClientActivityParams{
			ClientID:     "C1",
			StartDate:    "2024-01-01",
			EndDate:      "2024-01-07",
			IncludeNotes: true,
		})
		require.NoError(t, err)
		require.Len(t, rep.Detail, 1)
		assert.Equal(t, "month-end close", rep.Detail[0].Notes)
	})

	t.Run("approved only excludes open lines", func(t *testing.T) {
		seedLine(t, db, lineSeed{
			consultantID: "con-1", clientID: "C1", date: "2024-01-04",
			clientFacing: 6, status: model.LineStatusOpen,
		})

		rep, err := BuildClientActivityReport(db, ClientActivityParams{
			ClientID:     "C1",
			StartDate:    "2024-01-01",
			EndDate:      "2024-01-07",
			ApprovedOnly: true,
		})
		require.NoError(t, err)
		assert.Len(t, rep.Detail, 1)

		rep, err = BuildClientActivityReport(db, ClientActivityParams{
			ClientID:  "C1",
			StartDate: "2024-01-01",
			EndDate:   "2024-01-07",
		})
		require.NoError(t, err)
		assert.Len(t, rep.Detail, 2)
	})

	t.Run("missing filters fail fast", func(t *testing.T) {
		_, err := BuildClientActivityReport(db, ClientActivityParams{
			StartDate: "2024-01-01", EndDate: "2024-01-07",
		})
		assert.Equal(t, core.KindValidation, core.KindOf(err))

		_, err = BuildClientActivityReport(db, ClientActivityParams{
			ClientID: "C1", EndDate: "2024-01-07",
		})
		assert.Equal(t, core.KindValidation, core.KindOf(err))

		_, err = BuildClientActivityReport(db, ClientActivityParams{
			ClientID: "C1", StartDate: "bad", EndDate: "2024-01-07",
		})
		assert.Equal(t, core.KindValidation, core.KindOf(err))
	})

	t.Run("malformed stored date surfaces an error", func(t *testing.T) {
		seedLine(t, db, lineSeed{
			consultantID: "con-1", clientID: "C3", date: "2024-01-0X",
			clientFacing: 1, status: model.LineStatusApproved,
		})

		_, err := BuildClientActivityReport(db, ClientActivityParams{
			ClientID: "C3", StartDate: "2024-01-01", EndDate: "2024-01-31",
		})
		require.Error(t, err)
		assert.Equal(t, core.KindStorage, core.KindOf(err))
	})
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 3.33, Round2(3.3333))
	assert.Equal(t, 3.34, Round2(3.336))
	assert.Equal(t, 0.0, Round2(0))
}
