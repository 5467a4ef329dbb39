package model

import "time"

// LineStatus is the closed set of timecard statuses. The legacy system kept
// these as free text; values outside the set are rejected at the boundary.
type LineStatus string

const (
	LineStatusOpen         LineStatus = "Open"
	LineStatusSubmitted    LineStatus = "Submitted"
	LineStatusApproved     LineStatus = "Approved"
	LineStatusRejected     LineStatus = "Rejected"
	LineStatusNotSubmitted LineStatus = "Not Submitted"
)

var lineTransitions = map[LineStatus][]LineStatus{
	LineStatusOpen:         {LineStatusSubmitted},
	LineStatusSubmitted:    {LineStatusApproved, LineStatusRejected},
	LineStatusRejected:     {LineStatusOpen, LineStatusSubmitted},
	LineStatusApproved:     {}, // terminal
	LineStatusNotSubmitted: {LineStatusOpen, LineStatusSubmitted},
}

func (s LineStatus) Valid() bool {
	_, ok := lineTransitions[s]
	return ok
}

func (s LineStatus) CanTransitionTo(next LineStatus) bool {
	for _, t := range lineTransitions[s] {
		if t == next {
			return true
		}
	}
	return false
}

// GenericProjectID is the sentinel project used when a line is entered
// without a project reference.
const GenericProjectID = "00000000-0000-0000-0000-000000000001"

// TimecardHeader is one row per consultant per timesheet date. TotalHours is
// caller-supplied and intentionally not reconciled against the line sum; see
// DESIGN.md.
type TimecardHeader struct {
	ID           string     `gorm:"primaryKey;column:id;type:char(36)" json:"id"`
	ConsultantID string     `gorm:"column:consultant_id;type:char(36);not null;index" json:"consultantId"`
	TimecardDate string     `gorm:"column:timecard_date;type:char(10);not null;index" json:"timecardDate"`
	TotalHours   float64    `gorm:"column:total_hours;type:decimal(10,1);default:0" json:"totalHours"`
	Status       LineStatus `gorm:"column:status;type:varchar(20);default:Not Submitted" json:"status"`
	Notes        *string    `gorm:"column:notes" json:"notes"`

	CreatedOn time.Time `gorm:"column:created_on;type:timestamp;not null;autoCreateTime;<-:create" json:"createdOn"`
	UpdatedOn time.Time `gorm:"column:updated_on;type:timestamp;not null;autoUpdateTime" json:"updatedOn"`
}

func (TimecardHeader) TableName() string {
	return "timecard_headers"
}

type TimecardLine struct {
	ID           string `gorm:"primaryKey;column:id;type:char(36)" json:"id"`
	TimecardID   string `gorm:"column:timecard_id;type:char(36);index" json:"timecardId"`
	ConsultantID string `gorm:"column:consultant_id;type:char(36);not null;index" json:"consultantId"`
	ClientID     string `gorm:"column:client_id;type:char(36);not null;index" json:"clientId"`
	ProjectID    string `gorm:"column:project_id;type:char(36);not null" json:"projectId"`
	ProjectTask  string `gorm:"column:project_task" json:"projectTask"`
	TimecardDate string `gorm:"column:timecard_date;type:char(10);not null;index" json:"timecardDate"`

	ClientFacingHours    float64 `gorm:"column:client_facing_hours;type:decimal(4,1);default:0" json:"clientFacingHours"`
	NonClientFacingHours float64 `gorm:"column:non_client_facing_hours;type:decimal(4,1);default:0" json:"nonClientFacingHours"`
	OtherTaskHours       float64 `gorm:"column:other_task_hours;type:decimal(4,1);default:0" json:"otherTaskHours"`
	TotalHours           float64 `gorm:"column:total_hours;type:decimal(5,1);default:0" json:"totalHours"`

	Status          LineStatus `gorm:"column:status;type:varchar(20);default:Open" json:"status"`
	IsLocked        bool       `gorm:"column:is_locked;default:false" json:"isLocked"`
	Notes           *string    `gorm:"column:notes" json:"notes"`
	BenchmarkStatus *string    `gorm:"column:benchmark_status" json:"benchmarkStatus"`
	ApprovedBy      *string    `gorm:"column:approved_by;type:char(36)" json:"approvedBy"`
	RejectedNotes   *string    `gorm:"column:rejected_notes" json:"rejectedNotes"`

	CreatedOn time.Time `gorm:"column:created_on;type:timestamp;not null;autoCreateTime;<-:create" json:"createdOn"`
	UpdatedOn time.Time `gorm:"column:updated_on;type:timestamp;not null;autoUpdateTime" json:"updatedOn"`
}

func (TimecardLine) TableName() string {
	return "timecard_lines"
}
