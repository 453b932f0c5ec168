package api

import (
	"errors"
	"net/http"

	reqdto "hub-route-engine/internal/handler/dto/request"
	resdto "hub-route-engine/internal/handler/dto/response"
	"hub-route-engine/internal/handler/middleware"
	"hub-route-engine/internal/usecase/commands"

	"hub-route-engine/internal/domain/route"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ReservationHandler struct {
	reservationCommands commands.ReservationCommands
}

func NewReservationHandler(reservationCommands commands.ReservationCommands) *ReservationHandler {
	return &ReservationHandler{
		reservationCommands: reservationCommands,
	}
}

func (h *ReservationHandler) Reserve(c *gin.Context) {
	var req reqdto.ReserveRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	model, err := route.NewServiceModel(req.ServiceModel)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Unknown service model",
		})
		return
	}
	day, err := req.ParseDay()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid day format, expected YYYY-MM-DD",
		})
		return
	}

	placed, err := h.reservationCommands.ReserveOption(c.Request.Context(), commands.ReserveOptionInput{
		ShipmentID: req.ShipmentID,
		Model:      model,
		Hub1:       req.Hub1,
		Hub2:       req.Hub2,
		Day:        day,
		By:         middleware.GetActorID(c),
	})
	if err != nil {
		h.writeReserveError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resdto.FromReservations(placed))
}

func (h *ReservationHandler) Consume(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	err := h.reservationCommands.Consume(c.Request.Context(), id, middleware.GetActorID(c))
	if err != nil {
		h.writeLifecycleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "consumed"})
}

func (h *ReservationHandler) Cancel(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	var req reqdto.CancelReservationRequest
	if c.Request.ContentLength > 0 {
		if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid request format",
			})
			return
		}
	}

	err := h.reservationCommands.Cancel(c.Request.Context(), id, middleware.GetActorID(c), req.Reason)
	if err != nil {
		h.writeLifecycleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "cancelled"})
}

func (h *ReservationHandler) parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid reservation ID format",
		})
		return uuid.Nil, false
	}
	return id, true
}

func (h *ReservationHandler) writeReserveError(c *gin.Context, err error) {
	detail := faultDetail(err)
	switch {
	case errors.Is(err, commands.ErrShipmentNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Shipment not found",
		})
	case errors.Is(err, commands.ErrHubNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Hub not found",
		})
	case errors.Is(err, commands.ErrInvalidServiceModel):
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Service model not permitted for shipment tier",
		})
	case errors.Is(err, commands.ErrInvalidRequest):
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid reservation request",
		})
	case errors.Is(err, commands.ErrDuplicateHold):
		c.JSON(http.StatusConflict, gin.H{
			"error":  "Active hold already exists",
			"detail": detail,
		})
	case errors.Is(err, commands.ErrCapacityExceeded):
		c.JSON(http.StatusConflict, gin.H{
			"error":  "Capacity exceeded",
			"detail": detail,
		})
	case errors.Is(err, commands.ErrInsufficientStock):
		c.JSON(http.StatusConflict, gin.H{
			"error":  "Insufficient stock",
			"detail": detail,
		})
	case errors.Is(err, commands.ErrStoreFailure):
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error": "Storage temporarily unavailable",
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
	}
}

func (h *ReservationHandler) writeLifecycleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, commands.ErrReservationNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Reservation not found",
		})
	case errors.Is(err, commands.ErrInvalidState):
		c.JSON(http.StatusConflict, gin.H{
			"error": "Reservation is not active",
		})
	case errors.Is(err, commands.ErrStoreFailure):
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error": "Storage temporarily unavailable",
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
	}
}

// faultDetail surfaces which resource at which hub blocked the request.
func faultDetail(err error) gin.H {
	var fault *commands.ResourceFault
	if !errors.As(err, &fault) {
		return nil
	}
	return gin.H{
		"hubId":  fault.HubID,
		"kind":   fault.Kind.String(),
		"day":    fault.Day.Format("2006-01-02"),
		"reason": fault.Reason,
	}
}
