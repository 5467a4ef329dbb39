package common

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"meridianadvisory.com/backoffice/core"
	"meridianadvisory.com/backoffice/security"
)

// Handler carries the shared dependencies every endpoint needs.
type Handler struct {
	Dm *core.DatabaseManager
}

const actorKey = "actor"

// SetActor stores the authenticated caller on the request context. The
// authentication middleware is the only writer.
func SetActor(c *gin.Context, actor security.Actor) {
	c.Set(actorKey, actor)
}

func GetActor(c *gin.Context) security.Actor {
	if v, ok := c.Get(actorKey); ok {
		if actor, ok := v.(security.Actor); ok {
			return actor
		}
	}
	return security.Actor{}
}

// RespondError maps a store error onto an HTTP status. Storage failures
// are logged with full detail and surfaced as a generic 500 so raw SQL
// never reaches the client.
func RespondError(c *gin.Context, err error) {
	switch core.KindOf(err) {
	case core.KindValidation:
		c.JSON(http.StatusBadRequest, NewErrorResponse(core.MessageOf(err)))
	case core.KindNotFound:
		c.JSON(http.StatusNotFound, NewErrorResponse(core.MessageOf(err)))
	case core.KindForbidden:
		c.JSON(http.StatusForbidden, NewErrorResponse(core.MessageOf(err)))
	case core.KindStateConflict:
		c.JSON(http.StatusConflict, NewErrorResponse(core.MessageOf(err)))
	default:
		slog.Error("request failed", "path", c.FullPath(), "error", err)
		c.JSON(http.StatusInternalServerError, NewErrorResponse("internal error"))
	}
}
