package report

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"meridianadvisory.com/backoffice/core"
	"meridianadvisory.com/backoffice/report"
	"meridianadvisory.com/backoffice/web/common"
)

type Endpoint struct {
	base common.Handler
}

func Register(r *gin.RouterGroup, dm *core.DatabaseManager) {
	endpoint := &Endpoint{base: common.Handler{Dm: dm}}

	r.GET("/clientActivity/report", endpoint.ClientActivity)
	r.GET("/clientActivity/report.csv", endpoint.ClientActivityCSV)
	r.GET("/clientActivity/report.xlsx", endpoint.ClientActivityXLSX)
	r.GET("/financial/report", endpoint.Financial)
}

func activityParams(c *gin.Context) report.ClientActivityParams {
	return report.ClientActivityParams{
		ClientID:        c.Query("clientId"),
		StartDate:       c.Query("startDate"),
		EndDate:         c.Query("endDate"),
		IncludeWeekends: boolQuery(c, "includeWeekends"),
		ApprovedOnly:    boolQuery(c, "approvedOnly"),
		IncludeNotes:    boolQuery(c, "includeNotes"),
	}
}

func boolQuery(c *gin.Context, name string) bool {
	v, err := strconv.ParseBool(c.Query(name))
	return err == nil && v
}

func (ep *Endpoint) ClientActivity(c *gin.Context) {
	params := activityParams(c)

	var rep *report.ClientActivityReport
	err := ep.base.Dm.Exec(c.Request.Context(), func(db *gorm.DB) error {
		var err error
		rep, err = report.BuildClientActivityReport(db, params)
		return err
	})
	if err != nil {
		common.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, rep)
}

func (ep *Endpoint) ClientActivityCSV(c *gin.Context) {
	params := activityParams(c)

	var rep *report.ClientActivityReport
	err := ep.base.Dm.Exec(c.Request.Context(), func(db *gorm.DB) error {
		var err error
		rep, err = report.BuildClientActivityReport(db, params)
		return err
	})
	if err != nil {
		common.RespondError(c, err)
		return
	}

	filename := fmt.Sprintf("client-activity-%s.csv", params.ClientID)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Header("Content-Type", "text/csv")
	if err := report.WriteCSV(c.Writer, rep.Detail, params.IncludeNotes); err != nil {
		common.RespondError(c, err)
	}
}

func (ep *Endpoint) ClientActivityXLSX(c *gin.Context) {
	params := activityParams(c)

	var rep *report.ClientActivityReport
	err := ep.base.Dm.Exec(c.Request.Context(), func(db *gorm.DB) error {
		var err error
		rep, err = report.BuildClientActivityReport(db, params)
		return err
	})
	if err != nil {
		common.RespondError(c, err)
		return
	}

	filename := fmt.Sprintf("client-activity-%s.xlsx", params.ClientID)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	if err := report.WriteXLSX(c.Writer, rep, params.IncludeNotes); err != nil {
		common.RespondError(c, err)
	}
}

func (ep *Endpoint) Financial(c *gin.Context) {
	params := report.FinancialParams{
		StartDate:     c.Query("startDate"),
		EndDate:       c.Query("endDate"),
		ClientIDs:     idList(c.Query("clientIds")),
		ConsultantIDs: idList(c.Query("consultantIds")),
	}

	var items []report.FinancialLineItem
	err := ep.base.Dm.Exec(c.Request.Context(), func(db *gorm.DB) error {
		var err error
		items, err = report.GetFinancialData(db, params)
		return err
	})
	if err != nil {
		common.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, common.NewSearchResponse(items, int64(len(items))))
}

func idList(raw string) []string {
	if raw == "" {
		return nil
	}
	var ids []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			ids = append(ids, trimmed)
		}
	}
	return ids
}
