package timecard

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"meridianadvisory.com/backoffice/model"
	"meridianadvisory.com/backoffice/timecard"
	"meridianadvisory.com/backoffice/web/common"
)

func (ep *Endpoint) ListHeaders(c *gin.Context) {
	consultantID := c.Query("ConsultantID")
	if consultantID == "" {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse("ConsultantID is required"))
		return
	}

	var headers []model.TimecardHeader
	err := ep.base.Dm.Exec(c.Request.Context(), func(db *gorm.DB) error {
		var err error
		headers, err = timecard.ListHeadersByConsultant(db, consultantID)
		return err
	})
	if err != nil {
		common.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, common.NewSearchResponse(headers, int64(len(headers))))
}

type CreateHeaderDTO struct {
	ConsultantID string  `json:"ConsultantID" binding:"required,uuid"`
	TimecardDate string  `json:"TimecardDate" binding:"required,datetime=2006-01-02"`
	TotalHours   float64 `json:"TotalHours"`
	Notes        *string `json:"Notes"`
}

func (ep *Endpoint) CreateHeader(c *gin.Context) {
	var dto CreateHeaderDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(common.FormatBindingError(err)))
		return
	}

	var id string
	err := ep.base.Dm.Exec(c.Request.Context(), func(db *gorm.DB) error {
		var err error
		id, err = timecard.CreateHeader(db, timecard.CreateHeaderInput{
			ConsultantID: dto.ConsultantID,
			TimecardDate: dto.TimecardDate,
			TotalHours:   dto.TotalHours,
			Notes:        dto.Notes,
		})
		return err
	})
	if err != nil {
		common.RespondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, common.NewSuccessResponse(gin.H{"id": id}))
}

type UpdateHeaderDTO struct {
	TotalHours *float64 `json:"TotalHours"`
	Status     *string  `json:"Status"`
	Notes      *string  `json:"Notes"`
}

func (ep *Endpoint) UpdateHeader(c *gin.Context) {
	id := c.Param("id")

	var dto UpdateHeaderDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(common.FormatBindingError(err)))
		return
	}

	var status *model.LineStatus
	if dto.Status != nil {
		s := model.LineStatus(*dto.Status)
		status = &s
	}

	var header *model.TimecardHeader
	err := ep.base.Dm.Exec(c.Request.Context(), func(db *gorm.DB) error {
		var err error
		header, err = timecard.UpdateHeader(db, id, timecard.HeaderPatch{
			TotalHours: dto.TotalHours,
			Status:     status,
			Notes:      dto.Notes,
		})
		return err
	})
	if err != nil {
		common.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, common.NewSuccessResponse(header))
}

func (ep *Endpoint) DeleteHeader(c *gin.Context) {
	id := c.Param("id")

	err := ep.base.Dm.Exec(c.Request.Context(), func(db *gorm.DB) error {
		return timecard.DeleteHeader(db, id)
	})
	if err != nil {
		common.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, common.NewSuccessResponse(gin.H{}))
}
