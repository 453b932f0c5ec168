package request

import (
	"time"

	"github.com/google/uuid"
)

// FeasibilityQuery is bound from query parameters on the feasibility
// endpoint. Day defaults to today (UTC) when omitted.
type FeasibilityQuery struct {
	ShipmentID uuid.UUID  `form:"shipment_id" binding:"required"`
	Hub1       uuid.UUID  `form:"hub1" binding:"required"`
	Hub2       *uuid.UUID `form:"hub2"`
	Day        string     `form:"day"`
}

func (q *FeasibilityQuery) ParseDay(now time.Time) (time.Time, error) {
	if q.Day == "" {
		return now.UTC().Truncate(24 * time.Hour), nil
	}
	return time.Parse(dayLayout, q.Day)
}
