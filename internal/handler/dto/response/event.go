package response

import (
	"time"

	"hub-route-engine/internal/usecase/commands"
	"hub-route-engine/internal/usecase/queries"
)

type RecordEventResponse struct {
	Stored      bool   `json:"stored"`
	EventID     string `json:"eventId"`
	PayloadHash string `json:"payloadHash"`
	Reason      string `json:"reason,omitempty"`
}

func FromRecordResult(r *commands.RecordResult) *RecordEventResponse {
	return &RecordEventResponse{
		Stored:      r.Stored,
		EventID:     r.EventID,
		PayloadHash: r.PayloadHash,
		Reason:      r.Reason,
	}
}

type TrailEntryResponse struct {
	EventID      string    `json:"eventId"`
	PayloadHash  string    `json:"payloadHash"`
	EventType    string    `json:"eventType"`
	ResourceType string    `json:"resourceType"`
	ResourceID   string    `json:"resourceId"`
	ActorID      string    `json:"actorId"`
	Summary      string    `json:"summary"`
	RecordedAt   time.Time `json:"recordedAt"`
}

func FromTrailEntries(entries []queries.TrailEntry) []TrailEntryResponse {
	out := make([]TrailEntryResponse, len(entries))
	for i, e := range entries {
		out[i] = TrailEntryResponse{
			EventID:      e.EventID,
			PayloadHash:  e.PayloadHash,
			EventType:    e.EventType,
			ResourceType: e.ResourceType,
			ResourceID:   e.ResourceID,
			ActorID:      e.ActorID,
			Summary:      e.Summary,
			RecordedAt:   e.RecordedAt,
		}
	}
	return out
}
