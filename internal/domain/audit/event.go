package audit

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrUnknownEventType    = errors.New("unknown event type")
	ErrMissingField        = errors.New("missing required field")
	ErrInvalidCorrelation  = errors.New("correlation id must be a uuid")
	ErrInvalidEffectiveAt  = errors.New("effective_at must be set")
	ErrMissingActor        = errors.New("actor id must be set")
	ErrMissingEventID      = errors.New("event id must be set")
	ErrDuplicateRegistered = errors.New("event type already registered")
)

type EventType string

const (
	TypeCapacityReserved  EventType = "capacity.reserved"
	TypeCapacityConsumed  EventType = "capacity.consumed"
	TypeCapacityReleased  EventType = "capacity.released"
	TypeInventoryReserved EventType = "inventory.reserved"
	TypeInventoryConsumed EventType = "inventory.consumed"
	TypeInventoryReleased EventType = "inventory.released"
	TypeInventoryRestock  EventType = "inventory.restocked"
	TypeRouteSelected     EventType = "route.selected"
	TypeSettingsUpdated   EventType = "settings.updated"
)

func (t EventType) String() string {
	return string(t)
}

// Event is one logical state-changing decision heading for the append-only
// ledger. EventID is the caller-supplied idempotency handle; the payload hash
// computed over the canonical body is what the store enforces uniqueness on.
type Event struct {
	EventID       string
	EventType     EventType
	ActorID       string
	CorrelationID string
	EffectiveAt   time.Time
	ResourceType  string
	ResourceID    string
	FieldsChanged []string
	PreState      map[string]any
	PostState     map[string]any
}

// typeSpec declares per-type validation: which event body fields must be
// present. The registry is closed; anything outside it is rejected up front.
type typeSpec struct {
	requiresResource bool
	requiresStates   bool
}

// Registry maps every recognized event type to its shape requirements.
// Dispatch is by exact tagged variant, never by string prefix.
type Registry struct {
	specs map[EventType]typeSpec
}

func NewRegistry() *Registry {
	return &Registry{specs: map[EventType]typeSpec{
		TypeCapacityReserved:  {requiresResource: true},
		TypeCapacityConsumed:  {requiresResource: true},
		TypeCapacityReleased:  {requiresResource: true},
		TypeInventoryReserved: {requiresResource: true},
		TypeInventoryConsumed: {requiresResource: true},
		TypeInventoryReleased: {requiresResource: true},
		TypeInventoryRestock:  {requiresResource: true},
		TypeRouteSelected:     {requiresResource: true},
		TypeSettingsUpdated:   {requiresResource: true, requiresStates: true},
	}}
}

func (r *Registry) Known(t EventType) bool {
	_, ok := r.specs[t]
	return ok
}

// Validate checks event shape before any persistence work happens.
func (r *Registry) Validate(e Event) error {
	spec, ok := r.specs[e.EventType]
	if !ok {
		return ErrUnknownEventType
	}
	if e.EventID == "" {
		return ErrMissingEventID
	}
	if e.ActorID == "" {
		return ErrMissingActor
	}
	if _, err := uuid.Parse(e.CorrelationID); err != nil {
		return ErrInvalidCorrelation
	}
	if e.EffectiveAt.IsZero() {
		return ErrInvalidEffectiveAt
	}
	if spec.requiresResource && (e.ResourceType == "" || e.ResourceID == "") {
		return ErrMissingField
	}
	if spec.requiresStates && e.PreState == nil && e.PostState == nil {
		return ErrMissingField
	}
	return nil
}
