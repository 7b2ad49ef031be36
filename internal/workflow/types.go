package workflow

import (
	"context"

	"tubepost/internal/content"
	"tubepost/internal/message"
	"tubepost/internal/publish"
)

// State is a step in the run state machine.
type State string

const (
	StateStart      State = "START"
	StateDetecting  State = "DETECTING"
	StateNoChange   State = "NO_CHANGE"
	StateProcessing State = "PROCESSING"
	StateCommitted  State = "COMMITTED"
	StateFailed     State = "FAILED"
	StateLocked     State = "LOCKED"
	// StateEnd is logged when a run finishes; Outcome.State keeps the state before it.
	StateEnd State = "END"
	// StatePending is reported by dry runs that found an unprocessed item.
	StatePending State = "PENDING"
)

// Source lists candidate items.
type Source interface {
	Candidates(ctx context.Context) ([]content.Item, error)
}

// Processor turns an item into a publishable message.
type Processor interface {
	Run(ctx context.Context, item content.Item) (message.Message, error)
}

// Outcome summarises a finished run.
type Outcome struct {
	RunID string
	// State is the last state before END.
	State State
	// Item is nil when detection found nothing to process.
	Item           *content.Item
	Message        message.Message
	Receipt        publish.Receipt
	PublishSkipped bool
	Committed      bool
	// Stage names where a failed run stopped.
	Stage string
	Err   error
}

// Failed reports whether the run ended in FAILED.
func (o Outcome) Failed() bool {
	return o.State == StateFailed
}
