package model

import "time"

type TaskStatus string

const (
	TaskStatusOpen       TaskStatus = "open"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusBlocked    TaskStatus = "blocked"
	TaskStatusDone       TaskStatus = "done"
)

func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusOpen, TaskStatusInProgress, TaskStatusBlocked, TaskStatusDone:
		return true
	}
	return false
}

type TaskPriority string

const (
	TaskPriorityHigh   TaskPriority = "high"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityLow    TaskPriority = "low"
)

var taskPriorityRank = map[TaskPriority]int{
	TaskPriorityHigh:   0,
	TaskPriorityMedium: 1,
	TaskPriorityLow:    2,
}

func (p TaskPriority) Valid() bool {
	_, ok := taskPriorityRank[p]
	return ok
}

func (p TaskPriority) Rank() int {
	if r, ok := taskPriorityRank[p]; ok {
		return r
	}
	return len(taskPriorityRank)
}

type CollaborationSpace struct {
	ID          string  `gorm:"primaryKey;column:id;type:char(36)" json:"id"`
	Name        string  `gorm:"column:name;not null" json:"name"`
	Description *string `gorm:"column:description" json:"description"`
	OwnerUserID string  `gorm:"column:owner_user_id;type:char(36);not null" json:"ownerUserId"`

	CreatedAt time.Time `gorm:"type:timestamp;not null;<-:create" json:"createdAt"`
	UpdatedAt time.Time `gorm:"type:timestamp;not null" json:"updatedAt"`
}

func (CollaborationSpace) TableName() string {
	return "collaboration_spaces"
}

type CollaborationSpaceMember struct {
	ID      string `gorm:"primaryKey;column:id;type:char(36)" json:"id"`
	SpaceID string `gorm:"column:space_id;type:char(36);not null;index" json:"spaceId"`
	UserID  string `gorm:"column:user_id;type:char(36);not null;index" json:"userId"`
	Role    string `gorm:"column:role;default:member" json:"role"`

	CreatedAt time.Time `gorm:"type:timestamp;not null;<-:create" json:"createdAt"`
}

func (CollaborationSpaceMember) TableName() string {
	return "collaboration_space_members"
}

type CollaborationTask struct {
	ID           string  `gorm:"primaryKey;column:id;type:char(36)" json:"id"`
	SpaceID      string  `gorm:"column:space_id;type:char(36);not null;index" json:"spaceId"`
	ParentTaskID *string `gorm:"column:parent_task_id;type:char(36);index" json:"parentTaskId"`

	Title       string       `gorm:"column:title;not null" json:"title"`
	Description *string      `gorm:"column:description;type:text" json:"description"`
	Status      TaskStatus   `gorm:"column:status;type:varchar(20);default:open" json:"status"`
	Priority    TaskPriority `gorm:"column:priority;type:varchar(20);default:medium" json:"priority"`

	CreatedByUserID  string  `gorm:"column:created_by_user_id;type:char(36);not null" json:"createdByUserId"`
	AssignedToUserID *string `gorm:"column:assigned_to_user_id;type:char(36)" json:"assignedToUserId"`

	ClientID   *string `gorm:"column:client_id;type:char(36)" json:"clientId"`
	ContractID *string `gorm:"column:contract_id;type:char(36)" json:"contractId"`
	ProjectID  *string `gorm:"column:project_id;type:char(36)" json:"projectId"`

	DueDate *string `gorm:"column:due_date;type:char(10)" json:"dueDate"`

	CreatedAt time.Time `gorm:"type:timestamp;not null;<-:create" json:"createdAt"`
	UpdatedAt time.Time `gorm:"type:timestamp;not null" json:"updatedAt"`
}

func (CollaborationTask) TableName() string {
	return "collaboration_tasks"
}

type CollaborationTaskComment struct {
	ID     string `gorm:"primaryKey;column:id;type:char(36)" json:"id"`
	TaskID string `gorm:"column:task_id;type:char(36);not null;index" json:"taskId"`
	UserID string `gorm:"column:user_id;type:char(36);not null" json:"userId"`
	Body   string `gorm:"column:body;type:text;not null" json:"body"`

	CreatedAt time.Time `gorm:"type:timestamp;not null;<-:create" json:"createdAt"`
}

func (CollaborationTaskComment) TableName() string {
	return "collaboration_task_comments"
}
