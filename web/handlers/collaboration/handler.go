package collaboration

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"meridianadvisory.com/backoffice/collab"
	"meridianadvisory.com/backoffice/core"
	"meridianadvisory.com/backoffice/model"
	"meridianadvisory.com/backoffice/web/common"
)

type Endpoint struct {
	base common.Handler
}

func Register(r *gin.RouterGroup, dm *core.DatabaseManager) {
	endpoint := &Endpoint{base: common.Handler{Dm: dm}}

	r.GET("/spaces", endpoint.ListSpaces)
	r.POST("/spaces", endpoint.CreateSpace)
	r.GET("/spaces/:id/members", endpoint.ListMembers)
	r.POST("/spaces/:id/members", endpoint.AddMember)
	r.GET("/spaces/:id/tasks", endpoint.ListTasks)

	r.GET("/tasks/:id", endpoint.GetTask)
	r.POST("/tasks", endpoint.CreateTask)
	r.PUT("/tasks/:id", endpoint.UpdateTask)
	r.GET("/tasks/:id/subtasks", endpoint.ListSubtasks)
	r.GET("/tasks/:id/comments", endpoint.ListComments)
	r.POST("/tasks/:id/comments", endpoint.AddComment)
}

func (ep *Endpoint) CreateSpace(c *gin.Context) {
	var input collab.CreateSpaceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(common.FormatBindingError(err)))
		return
	}

	actor := common.GetActor(c)
	var space *model.CollaborationSpace
	err := ep.base.Dm.Exec(c.Request.Context(), func(db *gorm.DB) error {
		var err error
		space, err = collab.CreateSpace(db, actor.UserID, input)
		return err
	})
	if err != nil {
		common.RespondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, common.NewSuccessResponse(space))
}

func (ep *Endpoint) ListSpaces(c *gin.Context) {
	actor := common.GetActor(c)
	var spaces []model.CollaborationSpace
	err := ep.base.Dm.Exec(c.Request.Context(), func(db *gorm.DB) error {
		var err error
		spaces, err = collab.ListSpaces(db, actor)
		return err
	})
	if err != nil {
		common.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, common.NewSearchResponse(spaces, int64(len(spaces))))
}

type AddMemberDTO struct {
	UserID string `json:"userId" binding:"required"`
}

func (ep *Endpoint) AddMember(c *gin.Context) {
	var dto AddMemberDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(common.FormatBindingError(err)))
		return
	}

	actor := common.GetActor(c)
	var member *model.CollaborationSpaceMember
	err := ep.base.Dm.Exec(c.Request.Context(), func(db *gorm.DB) error {
		var err error
		member, err = collab.AddMember(db, actor, c.Param("id"), dto.UserID)
		return err
	})
	if err != nil {
		common.RespondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, common.NewSuccessResponse(member))
}

func (ep *Endpoint) ListMembers(c *gin.Context) {
	var members []model.CollaborationSpaceMember
	err := ep.base.Dm.Exec(c.Request.Context(), func(db *gorm.DB) error {
		var err error
		members, err = collab.ListMembers(db, c.Param("id"))
		return err
	})
	if err != nil {
		common.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, common.NewSearchResponse(members, int64(len(members))))
}

func (ep *Endpoint) CreateTask(c *gin.Context) {
	var input collab.CreateTaskInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(common.FormatBindingError(err)))
		return
	}

	actor := common.GetActor(c)
	var id string
	err := ep.base.Dm.Exec(c.Request.Context(), func(db *gorm.DB) error {
		var err error
		id, err = collab.CreateTask(db, actor.UserID, input)
		return err
	})
	if err != nil {
		common.RespondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, common.NewSuccessResponse(gin.H{"id": id}))
}

func (ep *Endpoint) UpdateTask(c *gin.Context) {
	var patch collab.TaskPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(common.FormatBindingError(err)))
		return
	}

	actor := common.GetActor(c)
	var task *model.CollaborationTask
	err := ep.base.Dm.Exec(c.Request.Context(), func(db *gorm.DB) error {
		var err error
		task, err = collab.UpdateTask(db, actor, c.Param("id"), patch)
		return err
	})
	if err != nil {
		common.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, common.NewSuccessResponse(task))
}

func (ep *Endpoint) GetTask(c *gin.Context) {
	var task *model.CollaborationTask
	err := ep.base.Dm.Exec(c.Request.Context(), func(db *gorm.DB) error {
		var err error
		task, err = collab.GetTask(db, c.Param("id"))
		return err
	})
	if err != nil {
		common.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, common.NewSuccessResponse(task))
}

func (ep *Endpoint) ListTasks(c *gin.Context) {
	var tasks []model.CollaborationTask
	err := ep.base.Dm.Exec(c.Request.Context(), func(db *gorm.DB) error {
		var err error
		tasks, err = collab.ListTasks(db, c.Param("id"))
		return err
	})
	if err != nil {
		common.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, common.NewSearchResponse(tasks, int64(len(tasks))))
}

func (ep *Endpoint) ListSubtasks(c *gin.Context) {
	var tasks []model.CollaborationTask
	err := ep.base.Dm.Exec(c.Request.Context(), func(db *gorm.DB) error {
		var err error
		tasks, err = collab.ListSubtasks(db, c.Param("id"))
		return err
	})
	if err != nil {
		common.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, common.NewSearchResponse(tasks, int64(len(tasks))))
}

type CommentDTO struct {
	Body string `json:"body" binding:"required"`
}

func (ep *Endpoint) AddComment(c *gin.Context) {
	var dto CommentDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(common.FormatBindingError(err)))
		return
	}

	actor := common.GetActor(c)
	var comment *model.CollaborationTaskComment
	err := ep.base.Dm.Exec(c.Request.Context(), func(db *gorm.DB) error {
		var err error
		comment, err = collab.AddTaskComment(db, actor, c.Param("id"), dto.Body)
		return err
	})
	if err != nil {
		common.RespondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, common.NewSuccessResponse(comment))
}

func (ep *Endpoint) ListComments(c *gin.Context) {
	var comments []model.CollaborationTaskComment
	err := ep.base.Dm.Exec(c.Request.Context(), func(db *gorm.DB) error {
		var err error
		comments, err = collab.ListTaskComments(db, c.Param("id"))
		return err
	})
	if err != nil {
		common.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, common.NewSearchResponse(comments, int64(len(comments))))
}
