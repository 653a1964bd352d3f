package llm

import (
	"context"
)

// Client interface for DIAL chat completion interactions
type Client interface {
	// GetCompletion sends the full message sequence and blocks until the
	// complete assistant reply is available. The reply text is written to
	// the client's output sink before the call returns.
	GetCompletion(ctx context.Context, messages []Message) (Message, error)

	// StreamCompletion sends the same sequence requesting incremental
	// delivery. Each fragment is written to the output sink as it arrives,
	// in order, exactly once; the returned Message is the in-order
	// concatenation of all fragments.
	StreamCompletion(ctx context.Context, messages []Message) (Message, error)
}
