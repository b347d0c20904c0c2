package store

import "chargehub/backend/services/chargehub/internal/models"

// Outcome tells whether a mutation reached the backend.
type Outcome string

const (
	// OutcomeDurable means the backend accepted the change.
	OutcomeDurable Outcome = "durable"
	// OutcomeLocal means the backend failed and only the in-memory collection changed.
	OutcomeLocal Outcome = "local"
	// OutcomeFailed means nothing changed.
	OutcomeFailed Outcome = "failed"
)

// Result is returned by every store mutation.
type Result struct {
	Station *models.Station
	Outcome Outcome
	// Err is the backend error for OutcomeLocal and the rejection reason for OutcomeFailed.
	Err error
}

// OK reports whether the collection reflects the requested change.
func (r Result) OK() bool {
	return r.Outcome == OutcomeDurable || r.Outcome == OutcomeLocal
}

// Persisted reports whether the change reached the backend.
func (r Result) Persisted() bool {
	return r.Outcome == OutcomeDurable
}

// EventKind names a change to the collection.
type EventKind string

const (
	EventRefreshed EventKind = "refreshed"
	EventCreated   EventKind = "created"
	EventUpdated   EventKind = "updated"
	EventDeleted   EventKind = "deleted"
)

// Event describes one change, delivered to the store's change listener.
type Event struct {
	Kind      EventKind        `json:"kind"`
	Outcome   Outcome          `json:"outcome"`
	StationID string           `json:"station_id,omitempty"`
	Station   *models.Station  `json:"station,omitempty"`
	Stations  []models.Station `json:"stations,omitempty"`
}
