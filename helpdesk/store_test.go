package helpdesk

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"meridianadvisory.com/backoffice/core"
	"meridianadvisory.com/backoffice/model"
	"meridianadvisory.com/backoffice/security"
	"meridianadvisory.com/backoffice/utils"
)

var (
	admin     = security.Actor{UserID: "admin-1", Roles: []string{security.RoleAdmin}}
	manager   = security.Actor{UserID: "mgr-1", Roles: []string{security.RoleManager}}
	creator   = security.Actor{UserID: "user-1", Roles: []string{security.RoleConsultant}}
	bystander = security.Actor{UserID: "user-2", Roles: []string{security.RoleConsultant}}
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

func validInput() CreateTicketInput {
	return CreateTicketInput{
		Title:       "VPN drops every hour",
		Description: "The VPN connection drops roughly once an hour and needs a manual reconnect.",
		Category:    model.TicketCategoryNetwork,
		Priority:    model.TicketPriorityHigh,
	}
}

func TestCreateTicket(t *testing.T) {
	db := newTestDB(t)

	t.Run("created open", func(t *testing.T) {
		id, err := CreateTicket(db, creator.UserID, validInput())
		require.NoError(t, err)

		ticket, err := GetTicket(db, creator, id)
		require.NoError(t, err)
		assert.Equal(t, model.TicketStatusOpen, ticket.Status)
		assert.Equal(t, creator.UserID, ticket.CreatedByUserID)
		assert.Equal(t, 0, ticket.TotalMinutes)
	})

	t.Run("validation", func(t *testing.T) {
		cases := []struct {
			name   string
			mutate func(*CreateTicketInput)
		}{
			{"short title", func(in *CreateTicketInput) { in.Title = "vpn" }},
			{"short description", func(in *CreateTicketInput) { in.Description = "drops a lot" }},
			{"unknown category", func(in *CreateTicketInput) { in.Category = "plumbing" }},
			{"unknown priority", func(in *CreateTicketInput) { in.Priority = "urgent" }},
			{"negative estimate", func(in *CreateTicketInput) { in.EstimateMinutes = -10 }},
			{"bad due date", func(in *CreateTicketInput) { in.DueDate = utils.Ptr("01/02/2024") }},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				input := validInput()
				tc.mutate(&input)
				_, err := CreateTicket(db, creator.UserID, input)
				require.Error(t, err)
				assert.Equal(t, core.KindValidation, core.KindOf(err))
			})
		}
	})
}

func TestUpdateTicket(t *testing.T) {
	db := newTestDB(t)
	id, err := CreateTicket(db, creator.UserID, validInput())
	require.NoError(t, err)

	t.Run("creator edits descriptive fields", func(t *testing.T) {
		ticket, err := UpdateTicket(db, creator, id, TicketPatch{
			Title:    utils.Ptr("VPN drops every thirty minutes"),
			Priority: utils.Ptr(model.TicketPriorityCritical),
		})
		require.NoError(t, err)
		assert.Equal(t, "VPN drops every thirty minutes", ticket.Title)
		assert.Equal(t, model.TicketPriorityCritical, ticket.Priority)
	})

	t.Run("creator may not assign or close", func(t *testing.T) {
		_, err := UpdateTicket(db, creator, id, TicketPatch{
			AssignedToUserID: utils.Ptr("mgr-1"),
		})
		require.Error(t, err)
		assert.Equal(t, core.KindForbidden, core.KindOf(err))

		_, err = UpdateTicket(db, creator, id, TicketPatch{
			Status: utils.Ptr(model.TicketStatusClosed),
		})
		require.Error(t, err)
		assert.Equal(t, core.KindForbidden, core.KindOf(err))
	})

	t.Run("bystander may not edit", func(t *testing.T) {
		_, err := UpdateTicket(db, bystander, id, TicketPatch{
			Title: utils.Ptr("hijacked ticket title"),
		})
		require.Error(t, err)
		assert.Equal(t, core.KindForbidden, core.KindOf(err))
	})

	t.Run("rejected patch applies nothing", func(t *testing.T) {
		before, err := GetTicket(db, creator, id)
		require.NoError(t, err)

		_, err = UpdateTicket(db, creator, id, TicketPatch{
			Title:       utils.Ptr("A valid replacement title"),
			Description: utils.Ptr("too short"),
		})
		require.Error(t, err)
		assert.Equal(t, core.KindValidation, core.KindOf(err))

		after, err := GetTicket(db, creator, id)
		require.NoError(t, err)
		assert.Equal(t, before.Title, after.Title)
		assert.Equal(t, before.Description, after.Description)
	})

	t.Run("manager closes and stamps closure", func(t *testing.T) {
		ticket, err := UpdateTicket(db, manager, id, TicketPatch{
			Status:     utils.Ptr(model.TicketStatusClosed),
			Resolution: utils.Ptr("Replaced the VPN client"),
		})
		require.NoError(t, err)
		assert.Equal(t, model.TicketStatusClosed, ticket.Status)
		require.NotNil(t, ticket.ClosedAt)
		require.NotNil(t, ticket.ClosedByUserID)
		assert.Equal(t, manager.UserID, *ticket.ClosedByUserID)
	})

	t.Run("creator blocked after closure", func(t *testing.T) {
		_, err := UpdateTicket(db, creator, id, TicketPatch{
			Title: utils.Ptr("Still happening after the fix"),
		})
		require.Error(t, err)
		assert.Equal(t, core.KindStateConflict, core.KindOf(err))
	})

	t.Run("admin edits closed ticket", func(t *testing.T) {
		ticket, err := UpdateTicket(db, admin, id, TicketPatch{
			Priority: utils.Ptr(model.TicketPriorityLow),
		})
		require.NoError(t, err)
		assert.Equal(t, model.TicketPriorityLow, ticket.Priority)
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := UpdateTicket(db, admin, "no-such-id", TicketPatch{})
		require.Error(t, err)
		assert.Equal(t, core.KindNotFound, core.KindOf(err))
	})
}

func TestAddWorkLog(t *testing.T) {
	db := newTestDB(t)
	id, err := CreateTicket(db, creator.UserID, validInput())
	require.NoError(t, err)

	t.Run("consultant denied", func(t *testing.T) {
		_, err := AddWorkLog(db, creator, id, 30, nil)
		require.Error(t, err)
		assert.Equal(t, core.KindForbidden, core.KindOf(err))
	})

	t.Run("rolls up total minutes", func(t *testing.T) {
		_, err := AddWorkLog(db, manager, id, 30, utils.Ptr("triage"))
		require.NoError(t, err)
		_, err = AddWorkLog(db, admin, id, 45, nil)
		require.NoError(t, err)

		ticket, err := GetTicket(db, admin, id)
		require.NoError(t, err)
		assert.Equal(t, 75, ticket.TotalMinutes)

		logs, err := ListWorkLogs(db, id)
		require.NoError(t, err)
		assert.Len(t, logs, 2)
	})

	t.Run("invalid minutes", func(t *testing.T) {
		_, err := AddWorkLog(db, manager, id, 0, nil)
		require.Error(t, err)
		assert.Equal(t, core.KindValidation, core.KindOf(err))
	})

	t.Run("missing ticket leaves no orphan log", func(t *testing.T) {
		_, err := AddWorkLog(db, manager, "no-such-id", 15, nil)
		require.Error(t, err)
		assert.Equal(t, core.KindNotFound, core.KindOf(err))

		var count int64
		require.NoError(t, db.Model(&model.ITTicketWorkLog{}).
			Where("ticket_id = ?", "no-such-id").Count(&count).Error)
		assert.Zero(t, count)
	})
}

func TestCommentsAndAttachments(t *testing.T) {
	db := newTestDB(t)
	id, err := CreateTicket(db, creator.UserID, validInput())
	require.NoError(t, err)

	comment, err := AddComment(db, bystander, id, "Seeing the same thing on my laptop.")
	require.NoError(t, err)
	assert.Equal(t, bystander.UserID, comment.UserID)

	_, err = AddComment(db, bystander, id, "   ")
	require.Error(t, err)
	assert.Equal(t, core.KindValidation, core.KindOf(err))

	_, err = AddAttachment(db, creator, id, "vpn-log.txt", 2048, "text/plain")
	require.NoError(t, err)
	_, err = AddAttachment(db, creator, id, "", 10, "text/plain")
	require.Error(t, err)

	comments, err := ListComments(db, id)
	require.NoError(t, err)
	assert.Len(t, comments, 1)

	attachments, err := ListAttachments(db, id)
	require.NoError(t, err)
	require.Len(t, attachments, 1)
	assert.Equal(t, "vpn-log.txt", attachments[0].FileName)
}

func TestListTickets(t *testing.T) {
	db := newTestDB(t)

	mk := func(title string, priority model.TicketPriority, dueDate *string, creatorID string) string {
		input := validInput()
		input.Title = title
		input.Priority = priority
		input.DueDate = dueDate
		id, err := CreateTicket(db, creatorID, input)
		require.NoError(t, err)
		return id
	}

	lowNoDue := mk("low priority no due date", model.TicketPriorityLow, nil, creator.UserID)
	highLate := mk("high priority due later", model.TicketPriorityHigh, utils.Ptr("2026-12-01"), creator.UserID)
	highSoon := mk("high priority due soon", model.TicketPriorityHigh, utils.Ptr("2026-09-01"), creator.UserID)
	highNoDue := mk("high priority no due date", model.TicketPriorityHigh, nil, creator.UserID)
	critical := mk("critical incident", model.TicketPriorityCritical, nil, bystander.UserID)

	t.Run("priority then due date nulls last", func(t *testing.T) {
		tickets, err := ListTickets(db, admin, ListFilter{})
		require.NoError(t, err)
		require.Len(t, tickets, 5)

		ids := make([]string, len(tickets))
		for i, ticket := range tickets {
			ids[i] = ticket.ID
		}
		assert.Equal(t, []string{critical, highSoon, highLate, highNoDue, lowNoDue}, ids)
	})

	t.Run("consultant sees only own and assigned", func(t *testing.T) {
		tickets, err := ListTickets(db, creator, ListFilter{})
		require.NoError(t, err)
		assert.Len(t, tickets, 4)

		_, err = UpdateTicket(db, admin, critical, TicketPatch{
			AssignedToUserID: utils.Ptr(creator.UserID),
		})
		require.NoError(t, err)

		tickets, err = ListTickets(db, creator, ListFilter{})
		require.NoError(t, err)
		assert.Len(t, tickets, 5)
	})

	t.Run("status filter", func(t *testing.T) {
		_, err := UpdateTicket(db, admin, lowNoDue, TicketPatch{
			Status: utils.Ptr(model.TicketStatusResolved),
		})
		require.NoError(t, err)

		tickets, err := ListTickets(db, admin, ListFilter{
			Status: utils.Ptr(model.TicketStatusResolved),
		})
		require.NoError(t, err)
		require.Len(t, tickets, 1)
		assert.Equal(t, lowNoDue, tickets[0].ID)
	})

	t.Run("invisible ticket reads as not found", func(t *testing.T) {
		input := validInput()
		hidden, err := CreateTicket(db, bystander.UserID, input)
		require.NoError(t, err)

		_, err = GetTicket(db, creator, hidden)
		require.Error(t, err)
		assert.Equal(t, core.KindNotFound, core.KindOf(err))
	})
}
