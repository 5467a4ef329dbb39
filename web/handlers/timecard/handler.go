package timecard

import (
	"github.com/gin-gonic/gin"
	"meridianadvisory.com/backoffice/core"
	"meridianadvisory.com/backoffice/web/common"
)

type Endpoint struct {
	base common.Handler
}

func Register(r *gin.RouterGroup, dm *core.DatabaseManager) {
	endpoint := &Endpoint{base: common.Handler{Dm: dm}}

	r.GET("/timecardHeaders/consultant", endpoint.ListHeaders)
	r.POST("/timecardHeaders", endpoint.CreateHeader)
	r.PUT("/timecardHeaders/:id", endpoint.UpdateHeader)
	r.DELETE("/timecardHeaders/:id", endpoint.DeleteHeader)

	r.GET("/timecardLines/:id", endpoint.GetLine)
	r.GET("/timecardLines/day", endpoint.ListLinesForDay)
	r.POST("/timecardLines", endpoint.CreateLine)
	r.PUT("/timecardLines/:id", endpoint.UpdateLine)
	r.POST("/timecardLines/submitDay", endpoint.SubmitDay)
	r.POST("/timecardLines/:id/approve", endpoint.ApproveLine)
	r.POST("/timecardLines/:id/reject", endpoint.RejectLine)
}
