package model

import "time"

type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "open"
	TicketStatusInProgress TicketStatus = "in_progress"
	TicketStatusBlocked    TicketStatus = "blocked"
	TicketStatusResolved   TicketStatus = "resolved"
	TicketStatusClosed     TicketStatus = "closed"
)

func (s TicketStatus) Valid() bool {
	switch s {
	case TicketStatusOpen, TicketStatusInProgress, TicketStatusBlocked,
		TicketStatusResolved, TicketStatusClosed:
		return true
	}
	return false
}

// Editable reports whether a ticket in this status may still be changed by
// its creator.
func (s TicketStatus) Editable() bool {
	switch s {
	case TicketStatusOpen, TicketStatusInProgress, TicketStatusBlocked:
		return true
	}
	return false
}

type TicketPriority string

const (
	TicketPriorityCritical TicketPriority = "critical"
	TicketPriorityHigh     TicketPriority = "high"
	TicketPriorityMedium   TicketPriority = "medium"
	TicketPriorityLow      TicketPriority = "low"
)

var ticketPriorityRank = map[TicketPriority]int{
	TicketPriorityCritical: 0,
	TicketPriorityHigh:     1,
	TicketPriorityMedium:   2,
	TicketPriorityLow:      3,
}

func (p TicketPriority) Valid() bool {
	_, ok := ticketPriorityRank[p]
	return ok
}

// Rank returns the sort position of p; unknown priorities sort last.
func (p TicketPriority) Rank() int {
	if r, ok := ticketPriorityRank[p]; ok {
		return r
	}
	return len(ticketPriorityRank)
}

type TicketCategory string

const (
	TicketCategoryHardware TicketCategory = "hardware"
	TicketCategorySoftware TicketCategory = "software"
	TicketCategoryAccess   TicketCategory = "access"
	TicketCategoryNetwork  TicketCategory = "network"
	TicketCategoryOther    TicketCategory = "other"
)

func (c TicketCategory) Valid() bool {
	switch c {
	case TicketCategoryHardware, TicketCategorySoftware, TicketCategoryAccess,
		TicketCategoryNetwork, TicketCategoryOther:
		return true
	}
	return false
}

type ITTicket struct {
	ID          string         `gorm:"primaryKey;column:id;type:char(36)" json:"id"`
	Title       string         `gorm:"column:title;not null" json:"title"`
	Description string         `gorm:"column:description;type:text;not null" json:"description"`
	Category    TicketCategory `gorm:"column:category;type:varchar(20);not null" json:"category"`
	Priority    TicketPriority `gorm:"column:priority;type:varchar(20);not null" json:"priority"`
	Status      TicketStatus   `gorm:"column:status;type:varchar(20);default:open" json:"status"`

	CreatedByUserID  string  `gorm:"column:created_by_user_id;type:char(36);not null;index" json:"createdByUserId"`
	AssignedToUserID *string `gorm:"column:assigned_to_user_id;type:char(36)" json:"assignedToUserId"`

	ClientID   *string `gorm:"column:client_id;type:char(36)" json:"clientId"`
	ContractID *string `gorm:"column:contract_id;type:char(36)" json:"contractId"`

	EstimateMinutes int     `gorm:"column:estimate_minutes;default:0" json:"estimateMinutes"`
	TotalMinutes    int     `gorm:"column:total_minutes;default:0" json:"totalMinutes"`
	DueDate         *string `gorm:"column:due_date;type:char(10)" json:"dueDate"`
	Resolution      *string `gorm:"column:resolution;type:text" json:"resolution"`

	ClosedAt       *time.Time `gorm:"column:closed_at;type:timestamp" json:"closedAt"`
	ClosedByUserID *string    `gorm:"column:closed_by_user_id;type:char(36)" json:"closedByUserId"`

	CreatedAt time.Time `gorm:"type:timestamp;not null;<-:create" json:"createdAt"`
	UpdatedAt time.Time `gorm:"type:timestamp;not null" json:"updatedAt"`
}

func (ITTicket) TableName() string {
	return "it_tickets"
}

type ITTicketComment struct {
	ID       string `gorm:"primaryKey;column:id;type:char(36)" json:"id"`
	TicketID string `gorm:"column:ticket_id;type:char(36);not null;index" json:"ticketId"`
	UserID   string `gorm:"column:user_id;type:char(36);not null" json:"userId"`
	Body     string `gorm:"column:body;type:text;not null" json:"body"`

	CreatedAt time.Time `gorm:"type:timestamp;not null;<-:create" json:"createdAt"`
}

func (ITTicketComment) TableName() string {
	return "it_ticket_comments"
}

// ITTicketWorkLog entries are append-only; the parent ticket's TotalMinutes
// counter is incremented in the same transaction.
type ITTicketWorkLog struct {
	ID       string  `gorm:"primaryKey;column:id;type:char(36)" json:"id"`
	TicketID string  `gorm:"column:ticket_id;type:char(36);not null;index" json:"ticketId"`
	UserID   string  `gorm:"column:user_id;type:char(36);not null" json:"userId"`
	Minutes  int     `gorm:"column:minutes;not null" json:"minutes"`
	Note     *string `gorm:"column:note" json:"note"`

	CreatedAt time.Time `gorm:"type:timestamp;not null;<-:create" json:"createdAt"`
}

func (ITTicketWorkLog) TableName() string {
	return "it_ticket_work_logs"
}

// ITTicketAttachment holds metadata only; file bytes live outside this
// service.
type ITTicketAttachment struct {
	ID       string `gorm:"primaryKey;column:id;type:char(36)" json:"id"`
	TicketID string `gorm:"column:ticket_id;type:char(36);not null;index" json:"ticketId"`
	UserID   string `gorm:"column:user_id;type:char(36);not null" json:"userId"`
	FileName string `gorm:"column:file_name;not null" json:"fileName"`
	FileSize int64  `gorm:"column:file_size;default:0" json:"fileSize"`
	MimeType string `gorm:"column:mime_type" json:"mimeType"`

	CreatedAt time.Time `gorm:"type:timestamp;not null;<-:create" json:"createdAt"`
}

func (ITTicketAttachment) TableName() string {
	return "it_ticket_attachments"
}
