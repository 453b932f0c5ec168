package response

import (
	"time"

	"hub-route-engine/internal/domain/reservation"

	"github.com/google/uuid"
)

type ReservationResponse struct {
	ID         uuid.UUID `json:"id"`
	ShipmentID uuid.UUID `json:"shipmentId"`
	HubID      uuid.UUID `json:"hubId"`
	Kind       string    `json:"kind"`
	Quantity   int       `json:"quantity"`
	Day        string    `json:"day"`
	Status     string    `json:"status"`
	ExpiresAt  time.Time `json:"expiresAt"`
	CreatedBy  string    `json:"createdBy"`
	CreatedAt  time.Time `json:"createdAt"`
}

func FromReservation(res *reservation.Reservation) *ReservationResponse {
	return &ReservationResponse{
		ID:         res.ID(),
		ShipmentID: res.ShipmentID(),
		HubID:      res.HubID(),
		Kind:       res.Kind().String(),
		Quantity:   res.Quantity(),
		Day:        res.Day().Format("2006-01-02"),
		Status:     res.Status().String(),
		ExpiresAt:  res.ExpiresAt(),
		CreatedBy:  res.CreatedBy(),
		CreatedAt:  res.CreatedAt(),
	}
}

func FromReservations(rs []*reservation.Reservation) []*ReservationResponse {
	out := make([]*ReservationResponse, len(rs))
	for i, res := range rs {
		out[i] = FromReservation(res)
	}
	return out
}
