package notify

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"hub-route-engine/internal/domain/inventory"
	"hub-route-engine/internal/domain/reservation"
)

// SlogNotifier publishes reservation lifecycle decisions to the structured
// log. It is the default DecisionNotifier until a message broker is wired.
type SlogNotifier struct{}

func NewSlogNotifier() *SlogNotifier {
	return &SlogNotifier{}
}

func (n *SlogNotifier) ReservationsPlaced(_ context.Context, shipmentID uuid.UUID, reservations []*reservation.Reservation) {
	for _, res := range reservations {
		slog.Info("reservation placed",
			"reservation_id", res.ID(),
			"shipment_id", shipmentID,
			"hub_id", res.HubID(),
			"kind", res.Kind().String(),
			"quantity", res.Quantity(),
			"expires_at", res.ExpiresAt(),
		)
	}
}

func (n *SlogNotifier) ReservationCancelled(_ context.Context, res *reservation.Reservation, reason string) {
	slog.Info("reservation cancelled",
		"reservation_id", res.ID(),
		"shipment_id", res.ShipmentID(),
		"hub_id", res.HubID(),
		"kind", res.Kind().String(),
		"reason", reason,
	)
}

func (n *SlogNotifier) ReservationsExpired(_ context.Context, count int) {
	slog.Info("expired overdue reservations", "count", count)
}

// SlogAlertSink logs low stock warnings for the replenishment team.
type SlogAlertSink struct{}

func NewSlogAlertSink() *SlogAlertSink {
	return &SlogAlertSink{}
}

func (s *SlogAlertSink) LowStock(_ context.Context, alert inventory.LowStockAlert) {
	slog.Warn("stock below minimum level",
		"hub_id", alert.HubID,
		"item_kind", alert.ItemKind.String(),
		"available", alert.Available,
		"minimum_level", alert.MinimumLevel,
	)
}
