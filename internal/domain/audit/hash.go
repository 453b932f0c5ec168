package audit

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"
)

// CanonicalPayload serializes the logical event body deterministically:
// a flat object whose map keys encoding/json emits in sorted order, with
// timestamps pinned to UTC RFC3339. Identical logical events always produce
// identical bytes.
func CanonicalPayload(e Event) ([]byte, error) {
	body := map[string]any{
		"event_id":       e.EventID,
		"event_type":     e.EventType.String(),
		"actor_id":       e.ActorID,
		"correlation_id": e.CorrelationID,
		"effective_at":   e.EffectiveAt.UTC().Format(time.RFC3339),
		"resource_type":  e.ResourceType,
		"resource_id":    e.ResourceID,
		"fields_changed": e.FieldsChanged,
		"pre_state":      e.PreState,
		"post_state":     e.PostState,
	}
	return json.Marshal(body)
}

// PayloadHash is the idempotency key: sha256 over the canonical body.
func PayloadHash(e Event) (string, error) {
	payload, err := CanonicalPayload(e)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:]), nil
}
