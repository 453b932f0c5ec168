package api

import (
	"errors"
	"net/http"
	"time"

	reqdto "hub-route-engine/internal/handler/dto/request"
	resdto "hub-route-engine/internal/handler/dto/response"
	"hub-route-engine/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type FeasibilityHandler struct {
	feasibilityQueries queries.FeasibilityQueries
}

func NewFeasibilityHandler(feasibilityQueries queries.FeasibilityQueries) *FeasibilityHandler {
	return &FeasibilityHandler{
		feasibilityQueries: feasibilityQueries,
	}
}

func (h *FeasibilityHandler) Plan(c *gin.Context) {
	var query reqdto.FeasibilityQuery
	if bindErr := c.ShouldBindQuery(&query); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid query parameters",
		})
		return
	}

	day, err := query.ParseDay(time.Now())
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid day format, expected YYYY-MM-DD",
		})
		return
	}

	result, err := h.feasibilityQueries.Plan(c.Request.Context(), queries.FeasibilityInput{
		ShipmentID: query.ShipmentID,
		Hub1:       query.Hub1,
		Hub2:       query.Hub2,
		Day:        day,
	})
	if err != nil {
		switch {
		case errors.Is(err, queries.ErrShipmentNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Shipment not found",
			})
		case errors.Is(err, queries.ErrHubNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Hub not found",
			})
		case errors.Is(err, queries.ErrTierWithoutOptions):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Shipment tier routes directly without hub processing",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.JSON(http.StatusOK, resdto.FromFeasibilityResult(result))
}
