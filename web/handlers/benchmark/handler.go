package benchmark

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"meridianadvisory.com/backoffice/benchmark"
	"meridianadvisory.com/backoffice/core"
	"meridianadvisory.com/backoffice/model"
	"meridianadvisory.com/backoffice/security"
	"meridianadvisory.com/backoffice/web/common"
)

type Endpoint struct {
	base common.Handler
}

func Register(r *gin.RouterGroup, dm *core.DatabaseManager) {
	endpoint := &Endpoint{base: common.Handler{Dm: dm}}

	r.GET("/benchmarks/:id", endpoint.Get)
	r.GET("/benchmarks/:id/history", endpoint.History)
	r.GET("/benchmarks", endpoint.ListByClient)
	r.POST("/benchmarks", endpoint.Create)
	r.PUT("/benchmarks/:id", endpoint.Update)
	r.DELETE("/benchmarks/:id", endpoint.Delete)
	r.POST("/benchmarks/bulk-update-distribution", endpoint.BulkUpdateDistribution)
}

type CreateDTO struct {
	ClientID         string  `json:"clientId" binding:"required,uuid"`
	ConsultantID     string  `json:"consultantId" binding:"required,uuid"`
	Role             string  `json:"role"`
	LowHours         float64 `json:"lowHours"`
	TargetHours      float64 `json:"targetHours"`
	HighHours        float64 `json:"highHours"`
	BillRate         float64 `json:"billRate"`
	EffectiveDate    string  `json:"effectiveDate"`
	DistributionType string  `json:"distributionType"`
}

func (ep *Endpoint) Create(c *gin.Context) {
	if err := security.Authorize(common.GetActor(c), security.ActionBenchmarkEdit, ""); err != nil {
		common.RespondError(c, err)
		return
	}

	var dto CreateDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(common.FormatBindingError(err)))
		return
	}

	var id string
	err := ep.base.Dm.Exec(c.Request.Context(), func(db *gorm.DB) error {
		var err error
		id, err = benchmark.Create(db, benchmark.CreateInput{
			ClientID:         dto.ClientID,
			ConsultantID:     dto.ConsultantID,
			Role:             dto.Role,
			LowHours:         dto.LowHours,
			TargetHours:      dto.TargetHours,
			HighHours:        dto.HighHours,
			BillRate:         dto.BillRate,
			EffectiveDate:    dto.EffectiveDate,
			DistributionType: model.DistributionType(dto.DistributionType),
		})
		return err
	})
	if err != nil {
		common.RespondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, common.NewSuccessResponse(gin.H{"id": id}))
}

type UpdateDTO struct {
	Role             *string          `json:"role"`
	LowHours         *float64         `json:"lowHours"`
	TargetHours      *float64         `json:"targetHours"`
	HighHours        *float64         `json:"highHours"`
	BillRate         *float64         `json:"billRate"`
	EffectiveDate    *string          `json:"effectiveDate"`
	DistributionType *string          `json:"distributionType"`
	PeriodStart      *common.DateOnly `json:"periodStart"`
}

func (ep *Endpoint) Update(c *gin.Context) {
	if err := security.Authorize(common.GetActor(c), security.ActionBenchmarkEdit, ""); err != nil {
		common.RespondError(c, err)
		return
	}

	var dto UpdateDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(common.FormatBindingError(err)))
		return
	}

	var dist *model.DistributionType
	if dto.DistributionType != nil {
		d := model.DistributionType(*dto.DistributionType)
		dist = &d
	}
	var periodStart *time.Time
	if dto.PeriodStart != nil && !dto.PeriodStart.IsZero() {
		periodStart = &dto.PeriodStart.Time
	}

	var updated *benchmark.BenchmarkWithConsultant
	err := ep.base.Dm.Exec(c.Request.Context(), func(db *gorm.DB) error {
		var err error
		updated, err = benchmark.Update(db, c.Param("id"), benchmark.Patch{
			Role:             dto.Role,
			LowHours:         dto.LowHours,
			TargetHours:      dto.TargetHours,
			HighHours:        dto.HighHours,
			BillRate:         dto.BillRate,
			EffectiveDate:    dto.EffectiveDate,
			DistributionType: dist,
		}, periodStart)
		return err
	})
	if err != nil {
		common.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, common.NewSuccessResponse(updated))
}

func (ep *Endpoint) Delete(c *gin.Context) {
	if err := security.Authorize(common.GetActor(c), security.ActionBenchmarkEdit, ""); err != nil {
		common.RespondError(c, err)
		return
	}

	var deleted bool
	err := ep.base.Dm.Exec(c.Request.Context(), func(db *gorm.DB) error {
		var err error
		deleted, err = benchmark.Delete(db, c.Param("id"))
		return err
	})
	if err != nil {
		common.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, common.NewSuccessResponse(gin.H{"deleted": deleted}))
}

type BulkUpdateDistributionDTO struct {
	BenchmarkIDs     []string `json:"benchmarkIds" binding:"required,min=1"`
	DistributionType string   `json:"distributionType" binding:"required"`
}

func (ep *Endpoint) BulkUpdateDistribution(c *gin.Context) {
	if err := security.Authorize(common.GetActor(c), security.ActionBenchmarkEdit, ""); err != nil {
		common.RespondError(c, err)
		return
	}

	var dto BulkUpdateDistributionDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(common.FormatBindingError(err)))
		return
	}

	var updated []string
	err := ep.base.Dm.Exec(c.Request.Context(), func(db *gorm.DB) error {
		var err error
		updated, err = benchmark.BulkUpdateDistributionType(db, dto.BenchmarkIDs,
			model.DistributionType(dto.DistributionType))
		return err
	})
	if err != nil {
		common.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, common.NewSuccessResponse(gin.H{"updated": updated}))
}

func (ep *Endpoint) Get(c *gin.Context) {
	var b *benchmark.BenchmarkWithConsultant
	err := ep.base.Dm.Exec(c.Request.Context(), func(db *gorm.DB) error {
		var err error
		b, err = benchmark.Get(db, c.Param("id"))
		return err
	})
	if err != nil {
		common.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, common.NewSuccessResponse(b))
}

func (ep *Endpoint) ListByClient(c *gin.Context) {
	clientID := c.Query("clientId")
	if clientID == "" {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse("clientId is required"))
		return
	}

	var benchmarks []benchmark.BenchmarkWithConsultant
	err := ep.base.Dm.Exec(c.Request.Context(), func(db *gorm.DB) error {
		var err error
		benchmarks, err = benchmark.ListByClient(db, clientID)
		return err
	})
	if err != nil {
		common.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, common.NewSearchResponse(benchmarks, int64(len(benchmarks))))
}

func (ep *Endpoint) History(c *gin.Context) {
	var history []model.BenchmarkHistory
	err := ep.base.Dm.Exec(c.Request.Context(), func(db *gorm.DB) error {
		var err error
		history, err = benchmark.History(db, c.Param("id"))
		return err
	})
	if err != nil {
		common.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, common.NewSearchResponse(history, int64(len(history))))
}
