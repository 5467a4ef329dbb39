package helpdesk

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"meridianadvisory.com/backoffice/core"
	"meridianadvisory.com/backoffice/model"
	"meridianadvisory.com/backoffice/security"
	"meridianadvisory.com/backoffice/utils"
)

const (
	minTitleLen       = 5
	minDescriptionLen = 20
)

type CreateTicketInput struct {
	Title           string               `json:"title"`
	Description     string               `json:"description"`
	Category        model.TicketCategory `json:"category"`
	Priority        model.TicketPriority `json:"priority"`
	ClientID        *string              `json:"clientId"`
	ContractID      *string              `json:"contractId"`
	EstimateMinutes int                  `json:"estimateMinutes"`
	DueDate         *string              `json:"dueDate"`
}

// TicketPatch carries the requested field changes. Which fields actually
// apply depends on the caller's role; see UpdateTicket.
type TicketPatch struct {
	Title            *string               `json:"title"`
	Description      *string               `json:"description"`
	Category         *model.TicketCategory `json:"category"`
	Priority         *model.TicketPriority `json:"priority"`
	Status           *model.TicketStatus   `json:"status"`
	AssignedToUserID *string               `json:"assignedToUserId"`
	EstimateMinutes  *int                  `json:"estimateMinutes"`
	DueDate          *string               `json:"dueDate"`
	Resolution       *string               `json:"resolution"`
}

func CreateTicket(db *gorm.DB, actorUserID string, input CreateTicketInput) (string, error) {
	if actorUserID == "" {
		return "", core.NewValidation("creator is required")
	}
	if len(strings.TrimSpace(input.Title)) < minTitleLen {
		return "", core.NewValidation("title must be at least %d characters", minTitleLen)
	}
	if len(strings.TrimSpace(input.Description)) < minDescriptionLen {
		return "", core.NewValidation("description must be at least %d characters", minDescriptionLen)
	}
	if !input.Category.Valid() {
		return "", core.NewValidation("invalid category: %s", input.Category)
	}
	if !input.Priority.Valid() {
		return "", core.NewValidation("invalid priority: %s", input.Priority)
	}
	if input.EstimateMinutes < 0 {
		return "", core.NewValidation("estimateMinutes must not be negative")
	}
	if input.DueDate != nil {
		if _, err := utils.ParseDate(*input.DueDate); err != nil {
			return "", core.NewValidation("dueDate must be yyyy-MM-dd")
		}
	}

	ticket := model.ITTicket{
		ID:              uuid.NewString(),
		Title:           strings.TrimSpace(input.Title),
		Description:     input.Description,
		Category:        input.Category,
		Priority:        input.Priority,
		Status:          model.TicketStatusOpen,
		CreatedByUserID: actorUserID,
		ClientID:        input.ClientID,
		ContractID:      input.ContractID,
		EstimateMinutes: input.EstimateMinutes,
		DueDate:         input.DueDate,
	}
	if err := db.Create(&ticket).Error; err != nil {
		return "", core.WrapStorage("failed to create ticket", err)
	}
	return ticket.ID, nil
}

// UpdateTicket applies a role-gated patch. The creator may change the
// descriptive fields while the ticket is still editable; admins and
// managers may change everything, including assignment and closure.
// Validation runs against the merged result before anything is written,
// so a rejected patch applies no fields at all.
func UpdateTicket(db *gorm.DB, actor security.Actor, id string, patch TicketPatch) (*model.ITTicket, error) {
	var ticket model.ITTicket
	if err := db.First(&ticket, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, core.NewNotFound("ticket %s not found", id)
		}
		return nil, core.WrapStorage("failed to fetch ticket", err)
	}

	if err := security.Authorize(actor, security.ActionTicketEdit, ticket.CreatedByUserID); err != nil {
		return nil, err
	}
	if !actor.Elevated() {
		if !ticket.Status.Editable() {
			return nil, core.NewStateConflict("ticket %s is %s and can no longer be edited by its creator", id, ticket.Status)
		}
		if patch.Status != nil || patch.AssignedToUserID != nil || patch.Resolution != nil {
			return nil, core.NewForbidden("only admins and managers may change status, assignment or resolution")
		}
	}

	if patch.Title != nil {
		if len(strings.TrimSpace(*patch.Title)) < minTitleLen {
			return nil, core.NewValidation("title must be at least %d characters", minTitleLen)
		}
		ticket.Title = strings.TrimSpace(*patch.Title)
	}
	if patch.Description != nil {
		if len(strings.TrimSpace(*patch.Description)) < minDescriptionLen {
			return nil, core.NewValidation("description must be at least %d characters", minDescriptionLen)
		}
		ticket.Description = *patch.Description
	}
	if patch.Category != nil {
		if !patch.Category.Valid() {
			return nil, core.NewValidation("invalid category: %s", *patch.Category)
		}
		ticket.Category = *patch.Category
	}
	if patch.Priority != nil {
		if !patch.Priority.Valid() {
			return nil, core.NewValidation("invalid priority: %s", *patch.Priority)
		}
		ticket.Priority = *patch.Priority
	}
	if patch.EstimateMinutes != nil {
		if *patch.EstimateMinutes < 0 {
			return nil, core.NewValidation("estimateMinutes must not be negative")
		}
		ticket.EstimateMinutes = *patch.EstimateMinutes
	}
	if patch.DueDate != nil {
		if *patch.DueDate != "" {
			if _, err := utils.ParseDate(*patch.DueDate); err != nil {
				return nil, core.NewValidation("dueDate must be yyyy-MM-dd")
			}
			ticket.DueDate = patch.DueDate
		} else {
			ticket.DueDate = nil
		}
	}
	if patch.AssignedToUserID != nil {
		if *patch.AssignedToUserID == "" {
			ticket.AssignedToUserID = nil
		} else {
			ticket.AssignedToUserID = patch.AssignedToUserID
		}
	}
	if patch.Resolution != nil {
		ticket.Resolution = patch.Resolution
	}
	if patch.Status != nil {
		if !patch.Status.Valid() {
			return nil, core.NewValidation("invalid status: %s", *patch.Status)
		}
		ticket.Status = *patch.Status
		if *patch.Status == model.TicketStatusClosed && ticket.ClosedAt == nil {
			now := time.Now().UTC()
			ticket.ClosedAt = &now
			ticket.ClosedByUserID = &actor.UserID
		}
	}
	ticket.UpdatedAt = time.Now().UTC()

	if err := db.Save(&ticket).Error; err != nil {
		return nil, core.WrapStorage("failed to update ticket", err)
	}
	return &ticket, nil
}

// AddWorkLog appends a work-log entry and rolls its minutes into the
// ticket's running total inside one transaction.
func AddWorkLog(db *gorm.DB, actor security.Actor, ticketID string, minutes int, note *string) (*model.ITTicketWorkLog, error) {
	if err := security.Authorize(actor, security.ActionTicketLogWork, ""); err != nil {
		return nil, err
	}
	if minutes <= 0 {
		return nil, core.NewValidation("minutes must be positive")
	}

	entry := model.ITTicketWorkLog{
		ID:       uuid.NewString(),
		TicketID: ticketID,
		UserID:   actor.UserID,
		Minutes:  minutes,
		Note:     note,
	}
	err := db.Transaction(func(tx *gorm.DB) error {
		var ticket model.ITTicket
		if err := tx.First(&ticket, "id = ?", ticketID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return core.NewNotFound("ticket %s not found", ticketID)
			}
			return core.WrapStorage("failed to fetch ticket", err)
		}
		if err := tx.Create(&entry).Error; err != nil {
			return core.WrapStorage("failed to create work log", err)
		}
		if err := tx.Model(&model.ITTicket{}).Where("id = ?", ticketID).
			UpdateColumn("total_minutes", gorm.Expr("total_minutes + ?", minutes)).Error; err != nil {
			return core.WrapStorage("failed to roll up work log minutes", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func AddComment(db *gorm.DB, actor security.Actor, ticketID, body string) (*model.ITTicketComment, error) {
	if err := security.Authorize(actor, security.ActionTicketComment, ""); err != nil {
		return nil, err
	}
	if strings.TrimSpace(body) == "" {
		return nil, core.NewValidation("comment body is required")
	}
	if err := ensureTicketExists(db, ticketID); err != nil {
		return nil, err
	}

	comment := model.ITTicketComment{
		ID:       uuid.NewString(),
		TicketID: ticketID,
		UserID:   actor.UserID,
		Body:     body,
	}
	if err := db.Create(&comment).Error; err != nil {
		return nil, core.WrapStorage("failed to create comment", err)
	}
	return &comment, nil
}

// AddAttachment records attachment metadata. File bytes are stored outside
// this service; only the descriptor is kept here.
func AddAttachment(db *gorm.DB, actor security.Actor, ticketID string, fileName string, fileSize int64, mimeType string) (*model.ITTicketAttachment, error) {
	if strings.TrimSpace(fileName) == "" {
		return nil, core.NewValidation("fileName is required")
	}
	if fileSize < 0 {
		return nil, core.NewValidation("fileSize must not be negative")
	}
	if err := ensureTicketExists(db, ticketID); err != nil {
		return nil, err
	}

	attachment := model.ITTicketAttachment{
		ID:       uuid.NewString(),
		TicketID: ticketID,
		UserID:   actor.UserID,
		FileName: fileName,
		FileSize: fileSize,
		MimeType: mimeType,
	}
	if err := db.Create(&attachment).Error; err != nil {
		return nil, core.WrapStorage("failed to create attachment", err)
	}
	return &attachment, nil
}

func GetTicket(db *gorm.DB, actor security.Actor, id string) (*model.ITTicket, error) {
	var ticket model.ITTicket
	if err := db.First(&ticket, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, core.NewNotFound("ticket %s not found", id)
		}
		return nil, core.WrapStorage("failed to fetch ticket", err)
	}
	if !visibleTo(actor, ticket) {
		return nil, core.NewNotFound("ticket %s not found", id)
	}
	return &ticket, nil
}

type ListFilter struct {
	Status   *model.TicketStatus
	Category *model.TicketCategory
}

// ListTickets returns the tickets visible to the actor, ordered by priority
// tier, then due date with nulls last, then most recently created first.
func ListTickets(db *gorm.DB, actor security.Actor, filter ListFilter) ([]model.ITTicket, error) {
	query := db.Model(&model.ITTicket{})
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.Category != nil {
		query = query.Where("category = ?", *filter.Category)
	}
	if !actor.Elevated() {
		query = query.Where("created_by_user_id = ? OR assigned_to_user_id = ?", actor.UserID, actor.UserID)
	}

	var tickets []model.ITTicket
	if err := query.Find(&tickets).Error; err != nil {
		return nil, core.WrapStorage("failed to list tickets", err)
	}

	sort.SliceStable(tickets, func(i, j int) bool {
		if a, b := tickets[i].Priority.Rank(), tickets[j].Priority.Rank(); a != b {
			return a < b
		}
		if c := compareDueDates(tickets[i].DueDate, tickets[j].DueDate); c != 0 {
			return c < 0
		}
		return tickets[i].CreatedAt.After(tickets[j].CreatedAt)
	})
	return tickets, nil
}

func ListComments(db *gorm.DB, ticketID string) ([]model.ITTicketComment, error) {
	var comments []model.ITTicketComment
	if err := db.Where("ticket_id = ?", ticketID).
		Order("created_at ASC").Find(&comments).Error; err != nil {
		return nil, core.WrapStorage("failed to list comments", err)
	}
	return comments, nil
}

func ListWorkLogs(db *gorm.DB, ticketID string) ([]model.ITTicketWorkLog, error) {
	var logs []model.ITTicketWorkLog
	if err := db.Where("ticket_id = ?", ticketID).
		Order("created_at ASC").Find(&logs).Error; err != nil {
		return nil, core.WrapStorage("failed to list work logs", err)
	}
	return logs, nil
}

func ListAttachments(db *gorm.DB, ticketID string) ([]model.ITTicketAttachment, error) {
	var attachments []model.ITTicketAttachment
	if err := db.Where("ticket_id = ?", ticketID).
		Order("created_at ASC").Find(&attachments).Error; err != nil {
		return nil, core.WrapStorage("failed to list attachments", err)
	}
	return attachments, nil
}

func ensureTicketExists(db *gorm.DB, ticketID string) error {
	var count int64
	if err := db.Model(&model.ITTicket{}).Where("id = ?", ticketID).Count(&count).Error; err != nil {
		return core.WrapStorage("failed to fetch ticket", err)
	}
	if count == 0 {
		return core.NewNotFound("ticket %s not found", ticketID)
	}
	return nil
}

func visibleTo(actor security.Actor, ticket model.ITTicket) bool {
	if actor.Elevated() {
		return true
	}
	if ticket.CreatedByUserID == actor.UserID {
		return true
	}
	return ticket.AssignedToUserID != nil && *ticket.AssignedToUserID == actor.UserID
}

// compareDueDates orders ISO date strings ascending with nil sorted last.
func compareDueDates(a, b *string) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	case *a < *b:
		return -1
	case *a > *b:
		return 1
	}
	return 0
}
