package timecard

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"meridianadvisory.com/backoffice/model"
	"meridianadvisory.com/backoffice/security"
	"meridianadvisory.com/backoffice/timecard"
	"meridianadvisory.com/backoffice/web/common"
)

type CreateLineDTO struct {
	ConsultantID         string  `json:"ConsultantID" binding:"required,uuid"`
	TimecardID           string  `json:"TimecardID"`
	ClientID             string  `json:"ClientID" binding:"required"`
	ProjectID            string  `json:"ProjectID"`
	ProjectTask          string  `json:"ProjectTask"`
	TimecardDate         string  `json:"TimecardDate" binding:"required,datetime=2006-01-02"`
	ClientFacingHours    float64 `json:"ClientFacingHours"`
	NonClientFacingHours float64 `json:"NonClientFacingHours"`
	OtherTaskHours       float64 `json:"OtherTaskHours"`
	Notes                *string `json:"Notes"`
}

func (ep *Endpoint) CreateLine(c *gin.Context) {
	var dto CreateLineDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(common.FormatBindingError(err)))
		return
	}

	var id string
	err := ep.base.Dm.Exec(c.Request.Context(), func(db *gorm.DB) error {
		var err error
		id, err = timecard.CreateLine(db, timecard.CreateLineInput{
			ConsultantID:         dto.ConsultantID,
			TimecardID:           dto.TimecardID,
			ClientID:             dto.ClientID,
			ProjectID:            dto.ProjectID,
			ProjectTask:          dto.ProjectTask,
			TimecardDate:         dto.TimecardDate,
			ClientFacingHours:    dto.ClientFacingHours,
			NonClientFacingHours: dto.NonClientFacingHours,
			OtherTaskHours:       dto.OtherTaskHours,
			Notes:                dto.Notes,
		})
		return err
	})
	if err != nil {
		common.RespondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, common.NewSuccessResponse(gin.H{"id": id}))
}

type UpdateLineDTO struct {
	ClientID             *string  `json:"ClientID"`
	ProjectID            *string  `json:"ProjectID"`
	ProjectTask          *string  `json:"ProjectTask"`
	ClientFacingHours    *float64 `json:"ClientFacingHours"`
	NonClientFacingHours *float64 `json:"NonClientFacingHours"`
	OtherTaskHours       *float64 `json:"OtherTaskHours"`
	Notes                *string  `json:"Notes"`
}

func (ep *Endpoint) UpdateLine(c *gin.Context) {
	id := c.Param("id")

	var dto UpdateLineDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(common.FormatBindingError(err)))
		return
	}

	var line *model.TimecardLine
	err := ep.base.Dm.Exec(c.Request.Context(), func(db *gorm.DB) error {
		var err error
		line, err = timecard.UpdateLine(db, id, timecard.LinePatch{
			ClientID:             dto.ClientID,
			ProjectID:            dto.ProjectID,
			ProjectTask:          dto.ProjectTask,
			ClientFacingHours:    dto.ClientFacingHours,
			NonClientFacingHours: dto.NonClientFacingHours,
			OtherTaskHours:       dto.OtherTaskHours,
			Notes:                dto.Notes,
		})
		return err
	})
	if err != nil {
		common.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, common.NewSuccessResponse(line))
}

func (ep *Endpoint) GetLine(c *gin.Context) {
	id := c.Param("id")

	var line *model.TimecardLine
	err := ep.base.Dm.Exec(c.Request.Context(), func(db *gorm.DB) error {
		var err error
		line, err = timecard.GetLine(db, id)
		return err
	})
	if err != nil {
		common.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, common.NewSuccessResponse(line))
}

func (ep *Endpoint) ListLinesForDay(c *gin.Context) {
	consultantID := c.Query("ConsultantID")
	date := c.Query("Date")
	if consultantID == "" || date == "" {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse("ConsultantID and Date are required"))
		return
	}

	var lines []model.TimecardLine
	err := ep.base.Dm.Exec(c.Request.Context(), func(db *gorm.DB) error {
		var err error
		lines, err = timecard.ListLinesForDay(db, consultantID, date)
		return err
	})
	if err != nil {
		common.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, common.NewSearchResponse(lines, int64(len(lines))))
}

type SubmitDayDTO struct {
	ConsultantID string `json:"ConsultantID" binding:"required,uuid"`
	TimecardDate string `json:"TimecardDate" binding:"required,datetime=2006-01-02"`
}

func (ep *Endpoint) SubmitDay(c *gin.Context) {
	var dto SubmitDayDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(common.FormatBindingError(err)))
		return
	}

	var affected int64
	err := ep.base.Dm.Exec(c.Request.Context(), func(db *gorm.DB) error {
		var err error
		affected, err = timecard.SubmitDay(db, dto.ConsultantID, dto.TimecardDate)
		return err
	})
	if err != nil {
		common.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, common.NewSuccessResponse(gin.H{"affected": affected}))
}

type RejectLineDTO struct {
	Notes *string `json:"Notes"`
}

func (ep *Endpoint) ApproveLine(c *gin.Context) {
	actor := common.GetActor(c)
	if err := security.Authorize(actor, security.ActionTimecardAudit, ""); err != nil {
		common.RespondError(c, err)
		return
	}

	var line *model.TimecardLine
	err := ep.base.Dm.Exec(c.Request.Context(), func(db *gorm.DB) error {
		var err error
		line, err = timecard.ApproveLine(db, c.Param("id"), actor.UserID)
		return err
	})
	if err != nil {
		common.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, common.NewSuccessResponse(line))
}

func (ep *Endpoint) RejectLine(c *gin.Context) {
	actor := common.GetActor(c)
	if err := security.Authorize(actor, security.ActionTimecardAudit, ""); err != nil {
		common.RespondError(c, err)
		return
	}

	var dto RejectLineDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(common.FormatBindingError(err)))
		return
	}

	var line *model.TimecardLine
	err := ep.base.Dm.Exec(c.Request.Context(), func(db *gorm.DB) error {
		var err error
		line, err = timecard.RejectLine(db, c.Param("id"), actor.UserID, dto.Notes)
		return err
	})
	if err != nil {
		common.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, common.NewSuccessResponse(line))
}
