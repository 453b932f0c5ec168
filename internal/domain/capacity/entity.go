package capacity

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidResourceType = errors.New("invalid resource type")
	ErrInvalidQuantity     = errors.New("quantity must be positive")
	ErrCapacityExceeded    = errors.New("capacity exceeded")
	ErrDayUnavailable      = errors.New("day is blacked out or under maintenance")
)

// ResourceType is a time-sliced hub capacity pool.
type ResourceType string

const (
	ResourceAuth   ResourceType = "auth"
	ResourceSewing ResourceType = "sewing"
	ResourceQA     ResourceType = "qa"
)

func (r ResourceType) String() string {
	return string(r)
}

func (r ResourceType) IsValid() bool {
	switch r {
	case ResourceAuth, ResourceSewing, ResourceQA:
		return true
	default:
		return false
	}
}

func NewResourceType(s string) (ResourceType, error) {
	rt := ResourceType(s)
	if !rt.IsValid() {
		return "", ErrInvalidResourceType
	}
	return rt, nil
}

// HubResourceDay is one hub's capacity for one resource type on one day.
// Rows are created at hub onboarding and never deleted; only the reserved
// counter moves.
type HubResourceDay struct {
	hubID            uuid.UUID
	resourceType     ResourceType
	day              time.Time
	totalCapacity    int
	reservedCapacity int
	isBlackout       bool
	isMaintenance    bool
}

func NewHubResourceDay(hubID uuid.UUID, resourceType ResourceType, day time.Time, totalCapacity int) (*HubResourceDay, error) {
	if !resourceType.IsValid() {
		return nil, ErrInvalidResourceType
	}
	if totalCapacity < 0 {
		return nil, ErrInvalidQuantity
	}
	return &HubResourceDay{
		hubID:         hubID,
		resourceType:  resourceType,
		day:           NormalizeDay(day),
		totalCapacity: totalCapacity,
	}, nil
}

func ReconstructHubResourceDay(
	hubID uuid.UUID,
	resourceType ResourceType,
	day time.Time,
	totalCapacity, reservedCapacity int,
	isBlackout, isMaintenance bool,
) *HubResourceDay {
	return &HubResourceDay{
		hubID:            hubID,
		resourceType:     resourceType,
		day:              NormalizeDay(day),
		totalCapacity:    totalCapacity,
		reservedCapacity: reservedCapacity,
		isBlackout:       isBlackout,
		isMaintenance:    isMaintenance,
	}
}

// NormalizeDay truncates to a UTC calendar date so the same day always maps
// to the same ledger row.
func NormalizeDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

func (d *HubResourceDay) HubID() uuid.UUID           { return d.hubID }
func (d *HubResourceDay) ResourceType() ResourceType { return d.resourceType }
func (d *HubResourceDay) Day() time.Time             { return d.day }
func (d *HubResourceDay) TotalCapacity() int         { return d.totalCapacity }
func (d *HubResourceDay) ReservedCapacity() int      { return d.reservedCapacity }
func (d *HubResourceDay) IsBlackout() bool           { return d.isBlackout }
func (d *HubResourceDay) IsMaintenance() bool        { return d.isMaintenance }

func (d *HubResourceDay) IsOpen() bool {
	return !d.isBlackout && !d.isMaintenance
}

func (d *HubResourceDay) Available() int {
	return d.totalCapacity - d.reservedCapacity
}

func (d *HubResourceDay) CanReserve(qty int) bool {
	return qty > 0 && d.IsOpen() && d.reservedCapacity+qty <= d.totalCapacity
}

func (d *HubResourceDay) Reserve(qty int) error {
	if qty <= 0 {
		return ErrInvalidQuantity
	}
	if !d.IsOpen() {
		return ErrDayUnavailable
	}
	if d.reservedCapacity+qty > d.totalCapacity {
		return ErrCapacityExceeded
	}
	d.reservedCapacity += qty
	return nil
}

// Release returns previously held capacity. Clamped at zero so a double
// release cannot drive the counter negative.
func (d *HubResourceDay) Release(qty int) {
	if qty <= 0 {
		return
	}
	d.reservedCapacity -= qty
	if d.reservedCapacity < 0 {
		d.reservedCapacity = 0
	}
}
