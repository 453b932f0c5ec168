package reservation

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidStatus = errors.New("invalid reservation status")
	ErrInvalidState  = errors.New("reservation is not active")
	ErrInvalidTTL    = errors.New("ttl must be positive")
)

// Reservation is a time-boxed hold of one resource kind at one hub for one
// shipment. The TTL is a hard deadline: extension means placing a new hold,
// never bumping an existing one.
type Reservation struct {
	id          uuid.UUID
	shipmentID  uuid.UUID
	hubID       uuid.UUID
	kind        ResourceKind
	quantity    int
	day         time.Time
	status      Status
	expiresAt   time.Time
	createdBy   string
	createdAt   time.Time
	consumedAt  *time.Time
	cancelledAt *time.Time
}

func NewReservation(
	shipmentID, hubID uuid.UUID,
	kind ResourceKind,
	quantity int,
	day time.Time,
	ttl time.Duration,
	createdBy string,
	now time.Time,
) (*Reservation, error) {
	if !kind.IsValid() {
		return nil, ErrInvalidResourceKind
	}
	if quantity <= 0 {
		return nil, errors.New("quantity must be positive")
	}
	if ttl <= 0 {
		return nil, ErrInvalidTTL
	}
	return &Reservation{
		id:         uuid.New(),
		shipmentID: shipmentID,
		hubID:      hubID,
		kind:       kind,
		quantity:   quantity,
		day:        day,
		status:     StatusActive,
		expiresAt:  now.Add(ttl),
		createdBy:  createdBy,
		createdAt:  now,
	}, nil
}

func ReconstructReservation(
	id, shipmentID, hubID uuid.UUID,
	kind ResourceKind,
	quantity int,
	day time.Time,
	status Status,
	expiresAt time.Time,
	createdBy string,
	createdAt time.Time,
	consumedAt, cancelledAt *time.Time,
) *Reservation {
	return &Reservation{
		id:          id,
		shipmentID:  shipmentID,
		hubID:       hubID,
		kind:        kind,
		quantity:    quantity,
		day:         day,
		status:      status,
		expiresAt:   expiresAt,
		createdBy:   createdBy,
		createdAt:   createdAt,
		consumedAt:  consumedAt,
		cancelledAt: cancelledAt,
	}
}

func (r *Reservation) ID() uuid.UUID           { return r.id }
func (r *Reservation) ShipmentID() uuid.UUID   { return r.shipmentID }
func (r *Reservation) HubID() uuid.UUID        { return r.hubID }
func (r *Reservation) Kind() ResourceKind      { return r.kind }
func (r *Reservation) Quantity() int           { return r.quantity }
func (r *Reservation) Day() time.Time          { return r.day }
func (r *Reservation) Status() Status          { return r.status }
func (r *Reservation) ExpiresAt() time.Time    { return r.expiresAt }
func (r *Reservation) CreatedBy() string       { return r.createdBy }
func (r *Reservation) CreatedAt() time.Time    { return r.createdAt }
func (r *Reservation) ConsumedAt() *time.Time  { return r.consumedAt }
func (r *Reservation) CancelledAt() *time.Time { return r.cancelledAt }

func (r *Reservation) IsActive() bool {
	return r.status == StatusActive
}

func (r *Reservation) IsDue(now time.Time) bool {
	return r.status == StatusActive && now.After(r.expiresAt)
}

// Consume marks the held resource as operationally used. Terminal.
func (r *Reservation) Consume(at time.Time) error {
	if r.status != StatusActive {
		return ErrInvalidState
	}
	r.status = StatusConsumed
	r.consumedAt = &at
	return nil
}

// Cancel rolls the hold back; the held quantities go back to the ledgers.
func (r *Reservation) Cancel(at time.Time) error {
	if r.status != StatusActive {
		return ErrInvalidState
	}
	r.status = StatusCancelled
	r.cancelledAt = &at
	return nil
}

// Expire is the sweep transition for an overdue active hold.
func (r *Reservation) Expire() error {
	if r.status != StatusActive {
		return ErrInvalidState
	}
	r.status = StatusExpired
	return nil
}
