// Package timecard owns the two-level timecard entities: per-day headers and
// per-project/task lines, with their status lifecycle
// (Open -> Submitted -> Approved | Rejected).
package timecard

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"meridianadvisory.com/backoffice/core"
	"meridianadvisory.com/backoffice/model"
	"meridianadvisory.com/backoffice/utils"
)

type CreateLineInput struct {
	ConsultantID         string
	TimecardID           string
	ClientID             string
	ProjectID            string
	ProjectTask          string
	TimecardDate         string
	ClientFacingHours    float64
	NonClientFacingHours float64
	OtherTaskHours       float64
	Notes                *string
}

// CreateLine inserts a line with each hour bucket clamped independently.
// A blank project falls back to the generic project sentinel.
func CreateLine(db *gorm.DB, in CreateLineInput) (string, error) {
	if in.ConsultantID == "" {
		return "", core.NewValidation("ConsultantID is required")
	}
	if in.ClientID == "" {
		return "", core.NewValidation("ClientID is required")
	}
	if _, err := utils.ParseDate(in.TimecardDate); err != nil {
		return "", core.NewValidation("TimecardDate must be yyyy-MM-dd")
	}

	projectID := in.ProjectID
	if projectID == "" {
		projectID = model.GenericProjectID
	}

	cf := ClampHours(in.ClientFacingHours)
	ncf := ClampHours(in.NonClientFacingHours)
	other := ClampHours(in.OtherTaskHours)

	line := model.TimecardLine{
		ID:                   uuid.NewString(),
		TimecardID:           in.TimecardID,
		ConsultantID:         in.ConsultantID,
		ClientID:             in.ClientID,
		ProjectID:            projectID,
		ProjectTask:          in.ProjectTask,
		TimecardDate:         in.TimecardDate,
		ClientFacingHours:    cf,
		NonClientFacingHours: ncf,
		OtherTaskHours:       other,
		TotalHours:           SumHours(cf, ncf, other),
		Status:               model.LineStatusOpen,
		Notes:                in.Notes,
	}

	if err := db.Create(&line).Error; err != nil {
		return "", core.WrapStorage("failed to create timecard line", err)
	}
	return line.ID, nil
}

type LinePatch struct {
	ClientID             *string
	ProjectID            *string
	ProjectTask          *string
	ClientFacingHours    *float64
	NonClientFacingHours *float64
	OtherTaskHours       *float64
	Notes                *string
}

// UpdateLine applies a partial patch. An Approved line is immutable:
// the call fails with a state conflict no matter which fields are patched.
// Editing a Rejected line reopens it for resubmission.
func UpdateLine(db *gorm.DB, id string, patch LinePatch) (*model.TimecardLine, error) {
	var line model.TimecardLine
	if err := db.First(&line, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, core.NewNotFound("timecard line %s not found", id)
		}
		return nil, core.WrapStorage("failed to load timecard line", err)
	}

	if line.Status == model.LineStatusApproved {
		return nil, core.NewStateConflict("timecard line %s is approved and cannot be changed", id)
	}

	if patch.ClientID != nil {
		line.ClientID = *patch.ClientID
	}
	if patch.ProjectID != nil {
		if *patch.ProjectID == "" {
			line.ProjectID = model.GenericProjectID
		} else {
			line.ProjectID = *patch.ProjectID
		}
	}
	if patch.ProjectTask != nil {
		line.ProjectTask = *patch.ProjectTask
	}
	if patch.ClientFacingHours != nil {
		line.ClientFacingHours = ClampHours(*patch.ClientFacingHours)
	}
	if patch.NonClientFacingHours != nil {
		line.NonClientFacingHours = ClampHours(*patch.NonClientFacingHours)
	}
	if patch.OtherTaskHours != nil {
		line.OtherTaskHours = ClampHours(*patch.OtherTaskHours)
	}
	if patch.Notes != nil {
		line.Notes = patch.Notes
	}

	line.TotalHours = SumHours(line.ClientFacingHours, line.NonClientFacingHours, line.OtherTaskHours)

	if line.Status == model.LineStatusRejected {
		line.Status = model.LineStatusOpen
		line.IsLocked = false
	}
	line.UpdatedOn = time.Now().UTC()

	if err := db.Save(&line).Error; err != nil {
		return nil, core.WrapStorage("failed to update timecard line", err)
	}
	return &line, nil
}

// SubmitDay bulk-transitions every Open or Rejected line for the consultant
// and date to Submitted, locking them. A single statement, so partial
// failure is impossible. Returns the number of lines affected.
func SubmitDay(db *gorm.DB, consultantID, date string) (int64, error) {
	if consultantID == "" || date == "" {
		return 0, core.NewValidation("consultantID and date are required")
	}

	result := db.Model(&model.TimecardLine{}).
		Where("consultant_id = ? AND timecard_date = ? AND status IN ?",
			consultantID, date,
			[]model.LineStatus{model.LineStatusOpen, model.LineStatusRejected}).
		Updates(map[string]any{
			"status":     model.LineStatusSubmitted,
			"is_locked":  true,
			"updated_on": time.Now().UTC(),
		})
	if result.Error != nil {
		return 0, core.WrapStorage("failed to submit timecard lines", result.Error)
	}
	return result.RowsAffected, nil
}

// ApproveLine advances a Submitted line to Approved (terminal).
func ApproveLine(db *gorm.DB, id, approverID string) (*model.TimecardLine, error) {
	return reviewLine(db, id, model.LineStatusApproved, approverID, nil)
}

// RejectLine returns a Submitted line to the consultant for rework.
func RejectLine(db *gorm.DB, id, approverID string, notes *string) (*model.TimecardLine, error) {
	return reviewLine(db, id, model.LineStatusRejected, approverID, notes)
}

func reviewLine(db *gorm.DB, id string, next model.LineStatus, approverID string, notes *string) (*model.TimecardLine, error) {
	var line model.TimecardLine
	if err := db.First(&line, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, core.NewNotFound("timecard line %s not found", id)
		}
		return nil, core.WrapStorage("failed to load timecard line", err)
	}

	if !line.Status.CanTransitionTo(next) {
		return nil, core.NewStateConflict("cannot move timecard line from %s to %s", line.Status, next)
	}

	line.Status = next
	line.UpdatedOn = time.Now().UTC()
	switch next {
	case model.LineStatusApproved:
		line.ApprovedBy = &approverID
		line.IsLocked = true
		line.BenchmarkStatus = utils.Ptr("Approved")
	case model.LineStatusRejected:
		line.RejectedNotes = notes
		line.IsLocked = false
		line.BenchmarkStatus = utils.Ptr("Rejected")
	}

	if err := db.Save(&line).Error; err != nil {
		return nil, core.WrapStorage("failed to update timecard line", err)
	}
	return &line, nil
}

// GetLine loads one line by id.
func GetLine(db *gorm.DB, id string) (*model.TimecardLine, error) {
	var line model.TimecardLine
	if err := db.First(&line, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, core.NewNotFound("timecard line %s not found", id)
		}
		return nil, core.WrapStorage("failed to load timecard line", err)
	}
	return &line, nil
}

// ListLinesForDay returns a consultant's lines for one date.
func ListLinesForDay(db *gorm.DB, consultantID, date string) ([]model.TimecardLine, error) {
	var lines []model.TimecardLine
	err := db.Where("consultant_id = ? AND timecard_date = ?", consultantID, date).
		Order("created_on ASC").
		Find(&lines).Error
	if err != nil {
		return nil, core.WrapStorage("failed to list timecard lines", err)
	}
	return lines, nil
}

type CreateHeaderInput struct {
	ConsultantID string
	TimecardDate string
	TotalHours   float64
	Notes        *string
}

// CreateHeader inserts a header row. TotalHours is taken as supplied; it is
// not recomputed from the child lines.
func CreateHeader(db *gorm.DB, in CreateHeaderInput) (string, error) {
	if in.ConsultantID == "" {
		return "", core.NewValidation("ConsultantID is required")
	}
	if _, err := utils.ParseDate(in.TimecardDate); err != nil {
		return "", core.NewValidation("TimecardDate must be yyyy-MM-dd")
	}

	header := model.TimecardHeader{
		ID:           uuid.NewString(),
		ConsultantID: in.ConsultantID,
		TimecardDate: in.TimecardDate,
		TotalHours:   RoundHours(in.TotalHours),
		Status:       model.LineStatusNotSubmitted,
		Notes:        in.Notes,
	}
	if err := db.Create(&header).Error; err != nil {
		return "", core.WrapStorage("failed to create timecard header", err)
	}
	return header.ID, nil
}

// ListHeadersByConsultant returns headers newest date first.
func ListHeadersByConsultant(db *gorm.DB, consultantID string) ([]model.TimecardHeader, error) {
	var headers []model.TimecardHeader
	err := db.Where("consultant_id = ?", consultantID).
		Order("timecard_date DESC").
		Find(&headers).Error
	if err != nil {
		return nil, core.WrapStorage("failed to list timecard headers", err)
	}
	return headers, nil
}

type HeaderPatch struct {
	Status     *model.LineStatus
	TotalHours *float64
	Notes      *string
}

func UpdateHeader(db *gorm.DB, id string, patch HeaderPatch) (*model.TimecardHeader, error) {
	var header model.TimecardHeader
	if err := db.First(&header, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, core.NewNotFound("timecard header %s not found", id)
		}
		return nil, core.WrapStorage("failed to load timecard header", err)
	}

	if patch.Status != nil {
		if !patch.Status.Valid() {
			return nil, core.NewValidation("unknown status %q", *patch.Status)
		}
		header.Status = *patch.Status
	}
	if patch.TotalHours != nil {
		header.TotalHours = RoundHours(*patch.TotalHours)
	}
	if patch.Notes != nil {
		header.Notes = patch.Notes
	}
	header.UpdatedOn = time.Now().UTC()

	if err := db.Save(&header).Error; err != nil {
		return nil, core.WrapStorage("failed to update timecard header", err)
	}
	return &header, nil
}

// DeleteHeader is administrative only; normal flow never removes headers.
func DeleteHeader(db *gorm.DB, id string) error {
	result := db.Delete(&model.TimecardHeader{}, "id = ?", id)
	if result.Error != nil {
		return core.WrapStorage("failed to delete timecard header", result.Error)
	}
	if result.RowsAffected == 0 {
		return core.NewNotFound("timecard header %s not found", id)
	}
	return nil
}
