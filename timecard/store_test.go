package timecard

import (
	"testing"

	"github.com/glebarez/sqlite"
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

func createLine(t *testing.T, db *gorm.DB, in CreateLineInput) *model.TimecardLine {
	t.Helper()
	id, err := CreateLine(db, in)
	require.NoError(t, err)
	line, err := GetLine(db, id)
	require.NoError(t, err)
	return line
}

func TestCreateLine(t *testing.T) {
	db := newTestDB(t)

	t.Run("buckets clamped independently and total rounded", func(t *testing.T) {
		line := createLine(t, db, CreateLineInput{
			ConsultantID:         "c-1",
			ClientID:             "cl-1",
			ProjectID:            "p-1",
			ProjectTask:          "Close",
			TimecardDate:         "2024-01-03",
			ClientFacingHours:    50,
			NonClientFacingHours: 60,
			OtherTaskHours:       10,
		})

		assert.Equal(t, 50.0, line.ClientFacingHours)
		assert.Equal(t, 60.0, line.NonClientFacingHours)
		assert.Equal(t, 10.0, line.OtherTaskHours)
		assert.Equal(t, 120.0, line.TotalHours)
		assert.Equal(t, model.LineStatusOpen, line.Status)
	})

	t.Run("out of range buckets clamp to bounds", func(t *testing.T) {
		line := createLine(t, db, CreateLineInput{
			ConsultantID:         "c-1",
			ClientID:             "cl-1",
			ProjectID:            "p-1",
			TimecardDate:         "2024-01-03",
			ClientFacingHours:    150,
			NonClientFacingHours: -3,
			OtherTaskHours:       2.25,
		})

		assert.Equal(t, 99.9, line.ClientFacingHours)
		assert.Equal(t, 0.0, line.NonClientFacingHours)
		assert.Equal(t, 2.3, line.OtherTaskHours)
		assert.Equal(t, 102.2, line.TotalHours)
	})

	t.Run("blank project falls back to generic project", func(t *testing.T) {
		line := createLine(t, db, CreateLineInput{
			ConsultantID: "c-1",
			ClientID:     "cl-1",
			TimecardDate: "2024-01-03",
		})
		assert.Equal(t, model.GenericProjectID, line.ProjectID)
	})

	t.Run("missing consultant rejected", func(t *testing.T) {
		_, err := CreateLine(db, CreateLineInput{ClientID: "cl-1", TimecardDate: "2024-01-03"})
		assert.Equal(t, core.KindValidation, core.KindOf(err))
	})

	t.Run("bad date rejected", func(t *testing.T) {
		_, err := CreateLine(db, CreateLineInput{
			ConsultantID: "c-1", ClientID: "cl-1", TimecardDate: "03/01/2024",
		})
		assert.Equal(t, core.KindValidation, core.KindOf(err))
	})
}

func TestUpdateLine(t *testing.T) {
	db := newTestDB(t)

	base := CreateLineInput{
		ConsultantID:      "c-1",
		ClientID:          "cl-1",
		ProjectID:         "p-1",
		TimecardDate:      "2024-01-03",
		ClientFacingHours: 4,
	}

	t.Run("approved line is immutable regardless of patch", func(t *testing.T) {
		line := createLine(t, db, base)
		_, err := SubmitDay(db, "c-1", "2024-01-03")
		require.NoError(t, err)
		_, err = ApproveLine(db, line.ID, "mgr-1")
		require.NoError(t, err)

		_, err = UpdateLine(db, line.ID, LinePatch{Notes: utils.Ptr("late edit")})
		assert.Equal(t, core.KindStateConflict, core.KindOf(err))

		_, err = UpdateLine(db, line.ID, LinePatch{ClientFacingHours: utils.Ptr(1.0)})
		assert.Equal(t, core.KindStateConflict, core.KindOf(err))
	})

	t.Run("patch recomputes total", func(t *testing.T) {
		line := createLine(t, db, CreateLineInput{
			ConsultantID: "c-2", ClientID: "cl-1", ProjectID: "p-1",
			TimecardDate: "2024-01-04", ClientFacingHours: 2, OtherTaskHours: 1,
		})

		updated, err := UpdateLine(db, line.ID, LinePatch{
			NonClientFacingHours: utils.Ptr(3.55),
		})
		require.NoError(t, err)
		assert.Equal(t, 3.6, updated.NonClientFacingHours)
		assert.Equal(t, 6.6, updated.TotalHours)
	})

	t.Run("editing a rejected line reopens it", func(t *testing.T) {
		line := createLine(t, db, CreateLineInput{
			ConsultantID: "c-3", ClientID: "cl-1", ProjectID: "p-1",
			TimecardDate: "2024-01-05", ClientFacingHours: 2,
		})
		_, err := SubmitDay(db, "c-3", "2024-01-05")
		require.NoError(t, err)
		_, err = RejectLine(db, line.ID, "mgr-1", utils.Ptr("wrong project"))
		require.NoError(t, err)

		updated, err := UpdateLine(db, line.ID, LinePatch{ProjectTask: utils.Ptr("Month-end close")})
		require.NoError(t, err)
		assert.Equal(t, model.LineStatusOpen, updated.Status)
		assert.False(t, updated.IsLocked)
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := UpdateLine(db, "missing", LinePatch{})
		assert.Equal(t, core.KindNotFound, core.KindOf(err))
	})
}

func TestDateSurvivesRereadAndSave(t *testing.T) {
	db := newTestDB(t)

	line := createLine(t, db, CreateLineInput{
		ConsultantID: "c-5", ClientID: "cl-1", ProjectID: "p-1",
		TimecardDate: "2024-01-03", ClientFacingHours: 2,
	})
	assert.Equal(t, "2024-01-03", line.TimecardDate)

	// A save of the re-read row must not rewrite the stored date format.
	require.NoError(t, db.Save(line).Error)
	got, err := GetLine(db, line.ID)
	require.NoError(t, err)
	assert.Equal(t, "2024-01-03", got.TimecardDate)

	byDay, err := ListLinesForDay(db, "c-5", "2024-01-03")
	require.NoError(t, err)
	require.Len(t, byDay, 1)

	count, err := SubmitDay(db, "c-5", "2024-01-03")
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestSubmitDay(t *testing.T) {
	db := newTestDB(t)

	open := createLine(t, db, CreateLineInput{
		ConsultantID: "c-9", ClientID: "cl-1", ProjectID: "p-1",
		TimecardDate: "2024-02-01", ClientFacingHours: 3,
	})
	rejected := createLine(t, db, CreateLineInput{
		ConsultantID: "c-9", ClientID: "cl-1", ProjectID: "p-2",
		TimecardDate: "2024-02-01", ClientFacingHours: 2,
	})
	approved := createLine(t, db, CreateLineInput{
		ConsultantID: "c-9", ClientID: "cl-1", ProjectID: "p-3",
		TimecardDate: "2024-02-01", ClientFacingHours: 1,
	})
	otherDay := createLine(t, db, CreateLineInput{
		ConsultantID: "c-9", ClientID: "cl-1", ProjectID: "p-1",
		TimecardDate: "2024-02-02", ClientFacingHours: 5,
	})

	// Drive the rejected and approved lines into their precondition states.
	count, err := SubmitDay(db, "c-9", "2024-02-01")
	require.NoError(t, err)
	require.Equal(t, int64(3), count)
	_, err = RejectLine(db, rejected.ID, "mgr-1", nil)
	require.NoError(t, err)
	_, err = ApproveLine(db, approved.ID, "mgr-1")
	require.NoError(t, err)
	// Editing a submitted line does not reopen it; only rejected lines reopen.
	_, err = UpdateLine(db, open.ID, LinePatch{ClientFacingHours: utils.Ptr(3.5)})
	require.NoError(t, err)
	edited, err := GetLine(db, open.ID)
	require.NoError(t, err)
	require.Equal(t, model.LineStatusSubmitted, edited.Status)

	count, err = SubmitDay(db, "c-9", "2024-02-01")
	require.NoError(t, err)
	assert.Equal(t, int64(1), count) // only the rejected line matched

	got, err := GetLine(db, rejected.ID)
	require.NoError(t, err)
	assert.Equal(t, model.LineStatusSubmitted, got.Status)
	assert.True(t, got.IsLocked)

	got, err = GetLine(db, approved.ID)
	require.NoError(t, err)
	assert.Equal(t, model.LineStatusApproved, got.Status)

	got, err = GetLine(db, otherDay.ID)
	require.NoError(t, err)
	assert.Equal(t, model.LineStatusOpen, got.Status)
}

func TestReviewTransitions(t *testing.T) {
	db := newTestDB(t)

	line := createLine(t, db, CreateLineInput{
		ConsultantID: "c-5", ClientID: "cl-1", ProjectID: "p-1",
		TimecardDate: "2024-03-01", ClientFacingHours: 4,
	})

	// Open lines cannot be approved directly.
	_, err := ApproveLine(db, line.ID, "mgr-1")
	assert.Equal(t, core.KindStateConflict, core.KindOf(err))

	_, err = SubmitDay(db, "c-5", "2024-03-01")
	require.NoError(t, err)

	approvedLine, err := ApproveLine(db, line.ID, "mgr-1")
	require.NoError(t, err)
	assert.Equal(t, model.LineStatusApproved, approvedLine.Status)
	assert.Equal(t, "mgr-1", *approvedLine.ApprovedBy)
	assert.True(t, approvedLine.IsLocked)

	// Approved is terminal.
	_, err = RejectLine(db, line.ID, "mgr-1", nil)
	assert.Equal(t, core.KindStateConflict, core.KindOf(err))
}

func TestHeaders(t *testing.T) {
	db := newTestDB(t)

	id1, err := CreateHeader(db, CreateHeaderInput{
		ConsultantID: "c-7", TimecardDate: "2024-01-02", TotalHours: 7.5,
	})
	require.NoError(t, err)
	_, err = CreateHeader(db, CreateHeaderInput{
		ConsultantID: "c-7", TimecardDate: "2024-01-05", TotalHours: 8,
	})
	require.NoError(t, err)

	headers, err := ListHeadersByConsultant(db, "c-7")
	require.NoError(t, err)
	require.Len(t, headers, 2)
	assert.Equal(t, "2024-01-05", headers[0].TimecardDate) // newest first
	assert.Equal(t, model.LineStatusNotSubmitted, headers[0].Status)

	updated, err := UpdateHeader(db, id1, HeaderPatch{
		Status: utils.Ptr(model.LineStatusSubmitted),
	})
	require.NoError(t, err)
	assert.Equal(t, model.LineStatusSubmitted, updated.Status)

	_, err = UpdateHeader(db, id1, HeaderPatch{Status: utils.Ptr(model.LineStatus("Bogus"))})
	assert.Equal(t, core.KindValidation, core.KindOf(err))

	require.NoError(t, DeleteHeader(db, id1))
	err = DeleteHeader(db, id1)
	assert.Equal(t, core.KindNotFound, core.KindOf(err))
}
