package inventory

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidItemKind   = errors.New("invalid item kind")
	ErrInvalidQuantity   = errors.New("quantity must be positive")
	ErrInsufficientStock = errors.New("insufficient stock")
)

// ItemKind is a consumable tracked per hub (not time-sliced).
type ItemKind string

const (
	ItemNFC ItemKind = "nfc"
	ItemTag ItemKind = "tag"
)

func (k ItemKind) String() string {
	return string(k)
}

func (k ItemKind) IsValid() bool {
	switch k {
	case ItemNFC, ItemTag:
		return true
	default:
		return false
	}
}

func NewItemKind(s string) (ItemKind, error) {
	k := ItemKind(s)
	if !k.IsValid() {
		return "", ErrInvalidItemKind
	}
	return k, nil
}

// Stock is a hub's on-hand count of one consumable together with the
// portion already promised to reservations.
type Stock struct {
	hubID           uuid.UUID
	itemKind        ItemKind
	stock           int
	reserved        int
	minimumLevel    int
	lastRestockedAt *time.Time
}

func NewStock(hubID uuid.UUID, itemKind ItemKind, stock, minimumLevel int) (*Stock, error) {
	if !itemKind.IsValid() {
		return nil, ErrInvalidItemKind
	}
	if stock < 0 || minimumLevel < 0 {
		return nil, ErrInvalidQuantity
	}
	return &Stock{
		hubID:        hubID,
		itemKind:     itemKind,
		stock:        stock,
		minimumLevel: minimumLevel,
	}, nil
}

func ReconstructStock(
	hubID uuid.UUID,
	itemKind ItemKind,
	stock, reserved, minimumLevel int,
	lastRestockedAt *time.Time,
) *Stock {
	return &Stock{
		hubID:           hubID,
		itemKind:        itemKind,
		stock:           stock,
		reserved:        reserved,
		minimumLevel:    minimumLevel,
		lastRestockedAt: lastRestockedAt,
	}
}

func (s *Stock) HubID() uuid.UUID            { return s.hubID }
func (s *Stock) ItemKind() ItemKind          { return s.itemKind }
func (s *Stock) OnHand() int                 { return s.stock }
func (s *Stock) Reserved() int               { return s.reserved }
func (s *Stock) MinimumLevel() int           { return s.minimumLevel }
func (s *Stock) LastRestockedAt() *time.Time { return s.lastRestockedAt }

func (s *Stock) Available() int {
	return s.stock - s.reserved
}

func (s *Stock) CanReserve(qty int) bool {
	return qty > 0 && s.reserved+qty <= s.stock
}

func (s *Stock) Reserve(qty int) error {
	if qty <= 0 {
		return ErrInvalidQuantity
	}
	if s.reserved+qty > s.stock {
		return ErrInsufficientStock
	}
	s.reserved += qty
	return nil
}

func (s *Stock) Release(qty int) {
	if qty <= 0 {
		return
	}
	s.reserved -= qty
	if s.reserved < 0 {
		s.reserved = 0
	}
}

// Consume removes held stock permanently (the hub used the item).
func (s *Stock) Consume(qty int) error {
	if qty <= 0 {
		return ErrInvalidQuantity
	}
	if qty > s.reserved {
		return ErrInsufficientStock
	}
	s.reserved -= qty
	s.stock -= qty
	return nil
}

func (s *Stock) Restock(qty int, at time.Time) error {
	if qty <= 0 {
		return ErrInvalidQuantity
	}
	s.stock += qty
	s.lastRestockedAt = &at
	return nil
}

// IsBelowMinimum reports whether free stock has dropped under the reorder
// threshold. Consumers emit a low-stock alert; the check itself never blocks.
func (s *Stock) IsBelowMinimum() bool {
	return s.Available() < s.minimumLevel
}

// LowStockAlert is handed to the alerting collaborator when a reserve drops
// free stock below the minimum level.
type LowStockAlert struct {
	HubID        uuid.UUID
	ItemKind     ItemKind
	Available    int
	MinimumLevel int
	OccurredAt   time.Time
}
