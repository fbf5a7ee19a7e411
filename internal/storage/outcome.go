// Package storage implements the persistence bridge: a best-effort,
// bounded-wait mirror of every task mutation to the remote storage
// collaborator. The registry is the source of truth for the current
// session; a failed replication is reported, never rolled back.
package storage

// Outcome classifies the result of a call to the storage collaborator.
type Outcome int

const (
	// OutcomeSuccess means the collaborator acknowledged the call.
	OutcomeSuccess Outcome = iota

	// OutcomeTimeout means the call did not complete within the bounded wait.
	OutcomeTimeout

	// OutcomeOffline means the collaborator could not be reached or refused
	// the call.
	OutcomeOffline

	// OutcomeDeserialization means the collaborator replied with a payload
	// that could not be decoded.
	OutcomeDeserialization
)

// String returns a short human-readable name for the outcome.
func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeTimeout:
		return "timeout"
	case OutcomeOffline:
		return "offline"
	case OutcomeDeserialization:
		return "deserialization_error"
	default:
		return "unknown"
	}
}

// StoreResult reports how a single replication attempt went. OK mirrors the
// storage_status flag surfaced in API responses.
type StoreResult struct {
	OK      bool
	Outcome Outcome
	Message string
}
