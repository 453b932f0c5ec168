package api

import (
	"errors"
	"net/http"

	reqdto "hub-route-engine/internal/handler/dto/request"
	resdto "hub-route-engine/internal/handler/dto/response"
	"hub-route-engine/internal/usecase/commands"
	"hub-route-engine/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type EventHandler struct {
	eventCommands commands.EventCommands
	auditQueries  queries.AuditQueries
}

func NewEventHandler(eventCommands commands.EventCommands, auditQueries queries.AuditQueries) *EventHandler {
	return &EventHandler{
		eventCommands: eventCommands,
		auditQueries:  auditQueries,
	}
}

func (h *EventHandler) Record(c *gin.Context) {
	var req reqdto.RecordEventRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	result, err := h.eventCommands.Record(c.Request.Context(), req.ToEvent())
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrEventValidation):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Event validation failed",
			})
		case errors.Is(err, commands.ErrEventStore):
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"error": "Storage temporarily unavailable",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	// Duplicates come back stored=false with 200, not an error.
	c.JSON(http.StatusOK, resdto.FromRecordResult(result))
}

func (h *EventHandler) Trail(c *gin.Context) {
	var query reqdto.AuditTrailQuery
	if bindErr := c.ShouldBindQuery(&query); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid query parameters",
		})
		return
	}

	entries, err := h.auditQueries.Trail(c.Request.Context(), query.ResourceType, query.ResourceID, query.Limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	c.JSON(http.StatusOK, resdto.FromTrailEntries(entries))
}
