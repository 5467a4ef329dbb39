package collab

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

type CreateSpaceInput struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

// CreateSpace inserts the space and its owner membership in one
// transaction, so a space can never exist without at least one member.
func CreateSpace(db *gorm.DB, actorUserID string, input CreateSpaceInput) (*model.CollaborationSpace, error) {
	if actorUserID == "" {
		return nil, core.NewValidation("owner is required")
	}
	if strings.TrimSpace(input.Name) == "" {
		return nil, core.NewValidation("name is required")
	}

	space := model.CollaborationSpace{
		ID:          uuid.NewString(),
		Name:        strings.TrimSpace(input.Name),
		Description: input.Description,
		OwnerUserID: actorUserID,
	}
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&space).Error; err != nil {
			return core.WrapStorage("failed to create space", err)
		}
		member := model.CollaborationSpaceMember{
			ID:      uuid.NewString(),
			SpaceID: space.ID,
			UserID:  actorUserID,
			Role:    "owner",
		}
		if err := tx.Create(&member).Error; err != nil {
			return core.WrapStorage("failed to create owner membership", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &space, nil
}

func AddMember(db *gorm.DB, actor security.Actor, spaceID, userID string) (*model.CollaborationSpaceMember, error) {
	space, err := getSpace(db, spaceID)
	if err != nil {
		return nil, err
	}
	if err := security.Authorize(actor, security.ActionTaskEdit, space.OwnerUserID); err != nil {
		return nil, err
	}
	if userID == "" {
		return nil, core.NewValidation("userId is required")
	}

	var count int64
	if err := db.Model(&model.CollaborationSpaceMember{}).
		Where("space_id = ? AND user_id = ?", spaceID, userID).
		Count(&count).Error; err != nil {
		return nil, core.WrapStorage("failed to check membership", err)
	}
	if count > 0 {
		return nil, core.NewStateConflict("user %s is already a member of space %s", userID, spaceID)
	}

	member := model.CollaborationSpaceMember{
		ID:      uuid.NewString(),
		SpaceID: spaceID,
		UserID:  userID,
	}
	if err := db.Create(&member).Error; err != nil {
		return nil, core.WrapStorage("failed to add member", err)
	}
	return &member, nil
}

func ListMembers(db *gorm.DB, spaceID string) ([]model.CollaborationSpaceMember, error) {
	var members []model.CollaborationSpaceMember
	if err := db.Where("space_id = ?", spaceID).
		Order("created_at ASC").Find(&members).Error; err != nil {
		return nil, core.WrapStorage("failed to list members", err)
	}
	return members, nil
}

type CreateTaskInput struct {
	SpaceID      string             `json:"spaceId"`
	ParentTaskID *string            `json:"parentTaskId"`
	Title        string             `json:"title"`
	Description  *string            `json:"description"`
	Priority     model.TaskPriority `json:"priority"`
	ClientID     *string            `json:"clientId"`
	ContractID   *string            `json:"contractId"`
	ProjectID    *string            `json:"projectId"`
	DueDate      *string            `json:"dueDate"`
}

func CreateTask(db *gorm.DB, actorUserID string, input CreateTaskInput) (string, error) {
	if strings.TrimSpace(input.Title) == "" {
		return "", core.NewValidation("title is required")
	}
	if input.Priority == "" {
		input.Priority = model.TaskPriorityMedium
	}
	if !input.Priority.Valid() {
		return "", core.NewValidation("invalid priority: %s", input.Priority)
	}
	if input.DueDate != nil {
		if _, err := utils.ParseDate(*input.DueDate); err != nil {
			return "", core.NewValidation("dueDate must be yyyy-MM-dd")
		}
	}
	if _, err := getSpace(db, input.SpaceID); err != nil {
		return "", err
	}
	if input.ParentTaskID != nil {
		var parent model.CollaborationTask
		if err := db.First(&parent, "id = ?", *input.ParentTaskID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return "", core.NewNotFound("parent task %s not found", *input.ParentTaskID)
			}
			return "", core.WrapStorage("failed to fetch parent task", err)
		}
		if parent.ParentTaskID != nil {
			return "", core.NewValidation("subtasks cannot be nested further")
		}
		if parent.SpaceID != input.SpaceID {
			return "", core.NewValidation("parent task belongs to a different space")
		}
	}

	task := model.CollaborationTask{
		ID:              uuid.NewString(),
		SpaceID:         input.SpaceID,
		ParentTaskID:    input.ParentTaskID,
		Title:           strings.TrimSpace(input.Title),
		Description:     input.Description,
		Status:          model.TaskStatusOpen,
		Priority:        input.Priority,
		CreatedByUserID: actorUserID,
		ClientID:        input.ClientID,
		ContractID:      input.ContractID,
		ProjectID:       input.ProjectID,
		DueDate:         input.DueDate,
	}
	if err := db.Create(&task).Error; err != nil {
		return "", core.WrapStorage("failed to create task", err)
	}
	return task.ID, nil
}

type TaskPatch struct {
	Title            *string             `json:"title"`
	Description      *string             `json:"description"`
	Status           *model.TaskStatus   `json:"status"`
	Priority         *model.TaskPriority `json:"priority"`
	AssignedToUserID *string             `json:"assignedToUserId"`
	DueDate          *string             `json:"dueDate"`
}

// UpdateTask applies the patch and, when the task is a subtask whose status
// changed, recomputes the parent's status from its children in the same
// transaction.
func UpdateTask(db *gorm.DB, actor security.Actor, id string, patch TaskPatch) (*model.CollaborationTask, error) {
	var updated model.CollaborationTask
	err := db.Transaction(func(tx *gorm.DB) error {
		var task model.CollaborationTask
		if err := tx.First(&task, "id = ?", id).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return core.NewNotFound("task %s not found", id)
			}
			return core.WrapStorage("failed to fetch task", err)
		}

		if err := security.Authorize(actor, security.ActionTaskEdit, task.CreatedByUserID); err != nil {
			return err
		}
		if !actor.Elevated() && patch.AssignedToUserID != nil {
			return core.NewForbidden("only admins and managers may change assignment")
		}

		statusChanged := false
		if patch.Title != nil {
			if strings.TrimSpace(*patch.Title) == "" {
				return core.NewValidation("title is required")
			}
			task.Title = strings.TrimSpace(*patch.Title)
		}
		if patch.Description != nil {
			task.Description = patch.Description
		}
		if patch.Priority != nil {
			if !patch.Priority.Valid() {
				return core.NewValidation("invalid priority: %s", *patch.Priority)
			}
			task.Priority = *patch.Priority
		}
		if patch.Status != nil {
			if !patch.Status.Valid() {
				return core.NewValidation("invalid status: %s", *patch.Status)
			}
			statusChanged = task.Status != *patch.Status
			task.Status = *patch.Status
		}
		if patch.AssignedToUserID != nil {
			if *patch.AssignedToUserID == "" {
				task.AssignedToUserID = nil
			} else {
				task.AssignedToUserID = patch.AssignedToUserID
			}
		}
		if patch.DueDate != nil {
			if *patch.DueDate != "" {
				if _, err := utils.ParseDate(*patch.DueDate); err != nil {
					return core.NewValidation("dueDate must be yyyy-MM-dd")
				}
				task.DueDate = patch.DueDate
			} else {
				task.DueDate = nil
			}
		}
		task.UpdatedAt = time.Now().UTC()

		if err := tx.Save(&task).Error; err != nil {
			return core.WrapStorage("failed to update task", err)
		}
		if statusChanged && task.ParentTaskID != nil {
			if err := recomputeParentStatus(tx, *task.ParentTaskID); err != nil {
				return err
			}
		}
		updated = task
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// recomputeParentStatus derives a parent's status from its subtasks: done
// when all are done, in_progress when any has started, open otherwise.
func recomputeParentStatus(tx *gorm.DB, parentID string) error {
	var children []model.CollaborationTask
	if err := tx.Where("parent_task_id = ?", parentID).Find(&children).Error; err != nil {
		return core.WrapStorage("failed to fetch subtasks", err)
	}
	if len(children) == 0 {
		return nil
	}

	allDone := true
	anyStarted := false
	for _, child := range children {
		if child.Status != model.TaskStatusDone {
			allDone = false
		}
		if child.Status == model.TaskStatusDone || child.Status == model.TaskStatusInProgress {
			anyStarted = true
		}
	}

	status := model.TaskStatusOpen
	switch {
	case allDone:
		status = model.TaskStatusDone
	case anyStarted:
		status = model.TaskStatusInProgress
	}

	if err := tx.Model(&model.CollaborationTask{}).Where("id = ?", parentID).
		Updates(map[string]any{"status": status, "updated_at": time.Now().UTC()}).Error; err != nil {
		return core.WrapStorage("failed to update parent status", err)
	}
	return nil
}

func GetTask(db *gorm.DB, id string) (*model.CollaborationTask, error) {
	var task model.CollaborationTask
	if err := db.First(&task, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, core.NewNotFound("task %s not found", id)
		}
		return nil, core.WrapStorage("failed to fetch task", err)
	}
	return &task, nil
}

// ListTasks returns top-level tasks in a space, ordered by priority tier,
// then due date with nulls last, then most recently created first.
func ListTasks(db *gorm.DB, spaceID string) ([]model.CollaborationTask, error) {
	var tasks []model.CollaborationTask
	if err := db.Where("space_id = ? AND parent_task_id IS NULL", spaceID).
		Find(&tasks).Error; err != nil {
		return nil, core.WrapStorage("failed to list tasks", err)
	}

	sort.SliceStable(tasks, func(i, j int) bool {
		if a, b := tasks[i].Priority.Rank(), tasks[j].Priority.Rank(); a != b {
			return a < b
		}
		if c := compareDueDates(tasks[i].DueDate, tasks[j].DueDate); c != 0 {
			return c < 0
		}
		return tasks[i].CreatedAt.After(tasks[j].CreatedAt)
	})
	return tasks, nil
}

func ListSubtasks(db *gorm.DB, parentID string) ([]model.CollaborationTask, error) {
	var tasks []model.CollaborationTask
	if err := db.Where("parent_task_id = ?", parentID).
		Order("created_at ASC").Find(&tasks).Error; err != nil {
		return nil, core.WrapStorage("failed to list subtasks", err)
	}
	return tasks, nil
}

func AddTaskComment(db *gorm.DB, actor security.Actor, taskID, body string) (*model.CollaborationTaskComment, error) {
	if strings.TrimSpace(body) == "" {
		return nil, core.NewValidation("comment body is required")
	}
	if _, err := GetTask(db, taskID); err != nil {
		return nil, err
	}

	comment := model.CollaborationTaskComment{
		ID:     uuid.NewString(),
		TaskID: taskID,
		UserID: actor.UserID,
		Body:   body,
	}
	if err := db.Create(&comment).Error; err != nil {
		return nil, core.WrapStorage("failed to create comment", err)
	}
	return &comment, nil
}

func ListTaskComments(db *gorm.DB, taskID string) ([]model.CollaborationTaskComment, error) {
	var comments []model.CollaborationTaskComment
	if err := db.Where("task_id = ?", taskID).
		Order("created_at ASC").Find(&comments).Error; err != nil {
		return nil, core.WrapStorage("failed to list comments", err)
	}
	return comments, nil
}

func ListSpaces(db *gorm.DB, actor security.Actor) ([]model.CollaborationSpace, error) {
	query := db.Model(&model.CollaborationSpace{})
	if !actor.Elevated() {
		query = query.Where(
			"id IN (?)",
			db.Model(&model.CollaborationSpaceMember{}).
				Select("space_id").Where("user_id = ?", actor.UserID),
		)
	}

	var spaces []model.CollaborationSpace
	if err := query.Order("created_at DESC").Find(&spaces).Error; err != nil {
		return nil, core.WrapStorage("failed to list spaces", err)
	}
	return spaces, nil
}

func getSpace(db *gorm.DB, spaceID string) (*model.CollaborationSpace, error) {
	var space model.CollaborationSpace
	if err := db.First(&space, "id = ?", spaceID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, core.NewNotFound("space %s not found", spaceID)
		}
		return nil, core.WrapStorage("failed to fetch space", err)
	}
	return &space, nil
}

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
