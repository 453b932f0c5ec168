package audit

import "encoding/json"

// ValueChange records both sides of a modified key.
type ValueChange struct {
	From any `json:"from"`
	To   any `json:"to"`
}

// StateDiff is the computed delta between an event's pre and post states:
// keys only in post, keys whose serialized value differs, keys only in pre.
type StateDiff struct {
	Added    map[string]any         `json:"added"`
	Modified map[string]ValueChange `json:"modified"`
	Removed  map[string]any         `json:"removed"`
}

func (d StateDiff) IsEmpty() bool {
	return len(d.Added) == 0 && len(d.Modified) == 0 && len(d.Removed) == 0
}

// ComputeStateDiff compares two flat states by serialized value, so 1 and
// "1" differ while equal nested structures compare equal regardless of map
// ordering.
func ComputeStateDiff(pre, post map[string]any) StateDiff {
	diff := StateDiff{
		Added:    map[string]any{},
		Modified: map[string]ValueChange{},
		Removed:  map[string]any{},
	}

	for k, postVal := range post {
		preVal, exists := pre[k]
		if !exists {
			diff.Added[k] = postVal
			continue
		}
		if !serializedEqual(preVal, postVal) {
			diff.Modified[k] = ValueChange{From: preVal, To: postVal}
		}
	}
	for k, preVal := range pre {
		if _, exists := post[k]; !exists {
			diff.Removed[k] = preVal
		}
	}
	return diff
}

// ApplyDiff reconstructs the post state from the pre state and a diff.
// ComputeStateDiff followed by ApplyDiff is an exact round trip.
func ApplyDiff(pre map[string]any, diff StateDiff) map[string]any {
	post := make(map[string]any, len(pre)+len(diff.Added))
	for k, v := range pre {
		post[k] = v
	}
	for k := range diff.Removed {
		delete(post, k)
	}
	for k, change := range diff.Modified {
		post[k] = change.To
	}
	for k, v := range diff.Added {
		post[k] = v
	}
	return post
}

func serializedEqual(a, b any) bool {
	ab, errA := json.Marshal(a)
	bb, errB := json.Marshal(b)
	if errA != nil || errB != nil {
		return false
	}
	return string(ab) == string(bb)
}
