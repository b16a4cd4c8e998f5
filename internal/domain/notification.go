package domain

// ChangeNotification is the raw payload of a Pipedrive change webhook.
// Pipedrive emits at least two shapes: a flat one with top-level
// current/previous/meta fields, and a nested one with data.current and
// data.previous. All fields are optional; absence is never an error.
type ChangeNotification struct {
	Event       string         `json:"event"`
	EventAction string         `json:"event_action"`
	EventObject string         `json:"event_object"`
	Meta        map[string]any `json:"meta"`
	Current     map[string]any `json:"current"`
	Previous    map[string]any `json:"previous"`
	Data        struct {
		Current  map[string]any `json:"current"`
		Previous map[string]any `json:"previous"`
	} `json:"data"`
}

// Action returns the notification's action, preferring meta.action over the
// top-level event_action field.
func (n *ChangeNotification) Action() string {
	if s, ok := n.Meta["action"].(string); ok && s != "" {
		return s
	}
	return n.EventAction
}

// Object returns the notification's object type, preferring meta.object over
// the top-level event_object field. Defaults to "deal".
func (n *ChangeNotification) Object() string {
	if s, ok := n.Meta["object"].(string); ok && s != "" {
		return s
	}
	if n.EventObject != "" {
		return n.EventObject
	}
	return "deal"
}

// StageTransition is the canonical result of normalizing a change
// notification. Has* flags distinguish absent identifiers from zero values.
type StageTransition struct {
	DealID      int64
	HasDeal     bool
	PrevStageID int64
	HasPrev     bool
	CurStageID  int64
	HasCur      bool
}

// Changed reports whether the transition represents a real stage change.
// Two absent stages compare equal.
func (t StageTransition) Changed() bool {
	if t.HasPrev != t.HasCur {
		return true
	}
	return t.HasPrev && t.PrevStageID != t.CurStageID
}

// Normalize derives a StageTransition from a notification, trying each known
// payload shape in a fixed priority order: top-level current/previous first,
// then data.current/data.previous. The deal id comes from the current
// snapshot's id, falling back to meta.id.
func Normalize(n *ChangeNotification) StageTransition {
	current := n.Current
	if current == nil {
		current = n.Data.Current
	}
	previous := n.Previous
	if previous == nil {
		previous = n.Data.Previous
	}

	var t StageTransition
	if id, ok := CoerceID(current["id"]); ok {
		t.DealID, t.HasDeal = id, true
	} else if id, ok := CoerceID(n.Meta["id"]); ok {
		t.DealID, t.HasDeal = id, true
	}
	if id, ok := CoerceID(current["stage_id"]); ok {
		t.CurStageID, t.HasCur = id, true
	}
	if id, ok := CoerceID(previous["stage_id"]); ok {
		t.PrevStageID, t.HasPrev = id, true
	}
	return t
}
