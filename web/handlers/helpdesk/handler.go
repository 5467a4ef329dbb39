package helpdesk

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"meridianadvisory.com/backoffice/core"
	"meridianadvisory.com/backoffice/helpdesk"
	"meridianadvisory.com/backoffice/infrastructure/communication"
	"meridianadvisory.com/backoffice/model"
	"meridianadvisory.com/backoffice/web/common"
)

type Endpoint struct {
	base     common.Handler
	notifier *communication.Slack
}

func Register(r *gin.RouterGroup, dm *core.DatabaseManager, notifier *communication.Slack) {
	endpoint := &Endpoint{base: common.Handler{Dm: dm}, notifier: notifier}

	r.GET("/tickets", endpoint.List)
	r.GET("/tickets/:id", endpoint.Get)
	r.POST("/tickets", endpoint.Create)
	r.PUT("/tickets/:id", endpoint.Update)
	r.POST("/tickets/:id/comments", endpoint.AddComment)
	r.GET("/tickets/:id/comments", endpoint.ListComments)
	r.POST("/tickets/:id/worklogs", endpoint.AddWorkLog)
	r.GET("/tickets/:id/worklogs", endpoint.ListWorkLogs)
	r.POST("/tickets/:id/attachments", endpoint.AddAttachment)
	r.GET("/tickets/:id/attachments", endpoint.ListAttachments)
}

func (ep *Endpoint) Create(c *gin.Context) {
	var input helpdesk.CreateTicketInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(common.FormatBindingError(err)))
		return
	}

	actor := common.GetActor(c)
	var id string
	err := ep.base.Dm.Exec(c.Request.Context(), func(db *gorm.DB) error {
		var err error
		id, err = helpdesk.CreateTicket(db, actor.UserID, input)
		return err
	})
	if err != nil {
		common.RespondError(c, err)
		return
	}

	if err := ep.notifier.Info(fmt.Sprintf("New %s ticket: %s", input.Category, input.Title)); err != nil {
		slog.Warn("ticket notification failed", "error", err)
	}

	c.JSON(http.StatusCreated, common.NewSuccessResponse(gin.H{"id": id}))
}

func (ep *Endpoint) Update(c *gin.Context) {
	var patch helpdesk.TicketPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(common.FormatBindingError(err)))
		return
	}

	actor := common.GetActor(c)
	var ticket *model.ITTicket
	err := ep.base.Dm.Exec(c.Request.Context(), func(db *gorm.DB) error {
		var err error
		ticket, err = helpdesk.UpdateTicket(db, actor, c.Param("id"), patch)
		return err
	})
	if err != nil {
		common.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, common.NewSuccessResponse(ticket))
}

func (ep *Endpoint) Get(c *gin.Context) {
	actor := common.GetActor(c)
	var ticket *model.ITTicket
	err := ep.base.Dm.Exec(c.Request.Context(), func(db *gorm.DB) error {
		var err error
		ticket, err = helpdesk.GetTicket(db, actor, c.Param("id"))
		return err
	})
	if err != nil {
		common.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, common.NewSuccessResponse(ticket))
}

func (ep *Endpoint) List(c *gin.Context) {
	filter := helpdesk.ListFilter{}
	if s := c.Query("status"); s != "" {
		status := model.TicketStatus(s)
		filter.Status = &status
	}
	if s := c.Query("category"); s != "" {
		category := model.TicketCategory(s)
		filter.Category = &category
	}

	actor := common.GetActor(c)
	var tickets []model.ITTicket
	err := ep.base.Dm.Exec(c.Request.Context(), func(db *gorm.DB) error {
		var err error
		tickets, err = helpdesk.ListTickets(db, actor, filter)
		return err
	})
	if err != nil {
		common.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, common.NewSearchResponse(tickets, int64(len(tickets))))
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
	var comment *model.ITTicketComment
	err := ep.base.Dm.Exec(c.Request.Context(), func(db *gorm.DB) error {
		var err error
		comment, err = helpdesk.AddComment(db, actor, c.Param("id"), dto.Body)
		return err
	})
	if err != nil {
		common.RespondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, common.NewSuccessResponse(comment))
}

func (ep *Endpoint) ListComments(c *gin.Context) {
	var comments []model.ITTicketComment
	err := ep.base.Dm.Exec(c.Request.Context(), func(db *gorm.DB) error {
		var err error
		comments, err = helpdesk.ListComments(db, c.Param("id"))
		return err
	})
	if err != nil {
		common.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, common.NewSearchResponse(comments, int64(len(comments))))
}

type WorkLogDTO struct {
	Minutes int     `json:"minutes" binding:"required"`
	Note    *string `json:"note"`
}

func (ep *Endpoint) AddWorkLog(c *gin.Context) {
	var dto WorkLogDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(common.FormatBindingError(err)))
		return
	}

	actor := common.GetActor(c)
	var entry *model.ITTicketWorkLog
	err := ep.base.Dm.Exec(c.Request.Context(), func(db *gorm.DB) error {
		var err error
		entry, err = helpdesk.AddWorkLog(db, actor, c.Param("id"), dto.Minutes, dto.Note)
		return err
	})
	if err != nil {
		common.RespondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, common.NewSuccessResponse(entry))
}

func (ep *Endpoint) ListWorkLogs(c *gin.Context) {
	var logs []model.ITTicketWorkLog
	err := ep.base.Dm.Exec(c.Request.Context(), func(db *gorm.DB) error {
		var err error
		logs, err = helpdesk.ListWorkLogs(db, c.Param("id"))
		return err
	})
	if err != nil {
		common.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, common.NewSearchResponse(logs, int64(len(logs))))
}

type AttachmentDTO struct {
	FileName string `json:"fileName" binding:"required"`
	FileSize int64  `json:"fileSize" binding:"gte=0"`
	MimeType string `json:"mimeType"`
}

func (ep *Endpoint) AddAttachment(c *gin.Context) {
	var dto AttachmentDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(common.FormatBindingError(err)))
		return
	}

	actor := common.GetActor(c)
	var attachment *model.ITTicketAttachment
	err := ep.base.Dm.Exec(c.Request.Context(), func(db *gorm.DB) error {
		var err error
		attachment, err = helpdesk.AddAttachment(db, actor, c.Param("id"),
			dto.FileName, dto.FileSize, dto.MimeType)
		return err
	})
	if err != nil {
		common.RespondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, common.NewSuccessResponse(attachment))
}

func (ep *Endpoint) ListAttachments(c *gin.Context) {
	var attachments []model.ITTicketAttachment
	err := ep.base.Dm.Exec(c.Request.Context(), func(db *gorm.DB) error {
		var err error
		attachments, err = helpdesk.ListAttachments(db, c.Param("id"))
		return err
	})
	if err != nil {
		common.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, common.NewSearchResponse(attachments, int64(len(attachments))))
}
