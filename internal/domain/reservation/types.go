package reservation

import (
	"errors"

	"hub-route-engine/internal/domain/capacity"
	"hub-route-engine/internal/domain/inventory"
)

var (
	ErrInvalidResourceKind = errors.New("invalid resource kind")
	ErrEmptySpec           = errors.New("resource spec must contain at least one line")
	ErrDuplicateKind       = errors.New("duplicate resource kind in spec")
	ErrInvalidQuantity     = errors.New("resource quantity must be positive")
)

type Status string

const (
	StatusActive    Status = "active"
	StatusCancelled Status = "cancelled"
	StatusConsumed  Status = "consumed"
	StatusExpired   Status = "expired"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusActive, StatusCancelled, StatusConsumed, StatusExpired:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether no further transition is allowed.
func (s Status) IsTerminal() bool {
	return s == StatusCancelled || s == StatusConsumed || s == StatusExpired
}

// ResourceKind unifies the two ledgers: time-sliced capacity pools and
// per-hub consumables. A hold always targets exactly one kind.
type ResourceKind string

const (
	KindAuth   ResourceKind = "auth"
	KindSewing ResourceKind = "sewing"
	KindQA     ResourceKind = "qa"
	KindNFC    ResourceKind = "nfc"
	KindTag    ResourceKind = "tag"
)

func (k ResourceKind) String() string {
	return string(k)
}

func (k ResourceKind) IsValid() bool {
	switch k {
	case KindAuth, KindSewing, KindQA, KindNFC, KindTag:
		return true
	default:
		return false
	}
}

func (k ResourceKind) IsCapacity() bool {
	switch k {
	case KindAuth, KindSewing, KindQA:
		return true
	default:
		return false
	}
}

func (k ResourceKind) IsInventory() bool {
	switch k {
	case KindNFC, KindTag:
		return true
	default:
		return false
	}
}

func (k ResourceKind) CapacityType() (capacity.ResourceType, bool) {
	if !k.IsCapacity() {
		return "", false
	}
	return capacity.ResourceType(k), true
}

func (k ResourceKind) ItemKind() (inventory.ItemKind, bool) {
	if !k.IsInventory() {
		return "", false
	}
	return inventory.ItemKind(k), true
}

func NewResourceKind(s string) (ResourceKind, error) {
	k := ResourceKind(s)
	if !k.IsValid() {
		return "", ErrInvalidResourceKind
	}
	return k, nil
}

// ResourceLine is one requested quantity within a multi-resource hold.
type ResourceLine struct {
	Kind     ResourceKind
	Quantity int
}

// ResourceSpec is the full set of resources a single placeHold call claims
// at one hub for one day. Sub-reservations succeed or fail as a unit.
type ResourceSpec struct {
	Lines []ResourceLine
}

func (s ResourceSpec) Validate() error {
	if len(s.Lines) == 0 {
		return ErrEmptySpec
	}
	seen := make(map[ResourceKind]struct{}, len(s.Lines))
	for _, l := range s.Lines {
		if !l.Kind.IsValid() {
			return ErrInvalidResourceKind
		}
		if l.Quantity <= 0 {
			return ErrInvalidQuantity
		}
		if _, dup := seen[l.Kind]; dup {
			return ErrDuplicateKind
		}
		seen[l.Kind] = struct{}{}
	}
	return nil
}
