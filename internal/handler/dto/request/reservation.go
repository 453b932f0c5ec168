package request

import (
	"time"

	"github.com/google/uuid"
)

const dayLayout = "2006-01-02"

// ReserveRequest commits a shipment to one service model and claims the hub
// resources the model needs.
type ReserveRequest struct {
	ShipmentID   uuid.UUID  `json:"shipmentId" binding:"required"`
	ServiceModel string     `json:"serviceModel" binding:"required"`
	Hub1         uuid.UUID  `json:"hub1" binding:"required"`
	Hub2         *uuid.UUID `json:"hub2"`
	Day          string     `json:"day" binding:"required"`
}

func (r *ReserveRequest) ParseDay() (time.Time, error) {
	return time.Parse(dayLayout, r.Day)
}

type CancelReservationRequest struct {
	Reason string `json:"reason"`
}
