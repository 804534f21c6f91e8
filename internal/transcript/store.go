// Package transcript persists completed agent runs: the task, the terminal
// state, and the full conversation. Persistence lives outside the loop; the
// loop hands over a finished RunResult and knows nothing about storage.
package transcript

import (
	"fmt"
	"time"

	"github.com/reagent-dev/reagent/internal/agent"
)

// Record is one persisted agent run.
type Record struct {
	ID           string       `json:"id"`
	Task         string       `json:"task"`
	State        agent.State  `json:"state"`
	Summary      string       `json:"summary,omitempty"`
	Iterations   int          `json:"iterations"`
	StartedAt    time.Time    `json:"startedAt"`
	FinishedAt   time.Time    `json:"finishedAt"`
	Conversation []agent.Turn `json:"conversation"`
}

// Store is the persistence interface for run transcripts.
type Store interface {
	// Save stores a record, replacing any record with the same ID.
	Save(rec *Record) error

	// Get retrieves a record by ID. Returns ErrNotFound if absent.
	Get(id string) (*Record, error)

	// List returns all records ordered by start time, oldest first.
	List() ([]*Record, error)

	// Close releases any resources held by the store.
	Close() error
}

// ErrNotFound is returned when a record ID does not exist.
var ErrNotFound = fmt.Errorf("transcript not found")
