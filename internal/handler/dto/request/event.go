package request

import (
	"time"

	"hub-route-engine/internal/domain/audit"
)

// RecordEventRequest is the external event submission body. EventID is the
// caller's identifier; replays are detected by payload hash, not by it.
type RecordEventRequest struct {
	EventID       string         `json:"eventId" binding:"required"`
	EventType     string         `json:"eventType" binding:"required"`
	ActorID       string         `json:"actorId" binding:"required"`
	CorrelationID string         `json:"correlationId" binding:"required"`
	EffectiveAt   time.Time      `json:"effectiveAt" binding:"required"`
	ResourceType  string         `json:"resourceType"`
	ResourceID    string         `json:"resourceId"`
	FieldsChanged []string       `json:"fieldsChanged"`
	PreState      map[string]any `json:"preState"`
	PostState     map[string]any `json:"postState"`
}

func (r *RecordEventRequest) ToEvent() audit.Event {
	return audit.Event{
		EventID:       r.EventID,
		EventType:     audit.EventType(r.EventType),
		ActorID:       r.ActorID,
		CorrelationID: r.CorrelationID,
		EffectiveAt:   r.EffectiveAt,
		ResourceType:  r.ResourceType,
		ResourceID:    r.ResourceID,
		FieldsChanged: r.FieldsChanged,
		PreState:      r.PreState,
		PostState:     r.PostState,
	}
}

type AuditTrailQuery struct {
	ResourceType string `form:"resource_type" binding:"required"`
	ResourceID   string `form:"resource_id" binding:"required"`
	Limit        int    `form:"limit"`
}
