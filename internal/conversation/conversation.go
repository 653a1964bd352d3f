package conversation

import (
	"github.com/google/uuid"

	"github.com/themobileprof/dialchat-cli/pkg/llm"
)

// Conversation is the ordered message history of a single chat session.
// Messages are appended as turns happen; the only other mutation allowed
// is Rollback, which removes the most recent message after a failed turn.
//
// A Conversation is owned by one session loop for the lifetime of a run
// and is not safe for concurrent use.
type Conversation struct {
	id       string
	messages []llm.Message
}

// New creates an empty conversation with a fresh identifier. The message
// slice is allocated per instance, never shared.
func New() *Conversation {
	return &Conversation{
		id:       uuid.NewString(),
		messages: make([]llm.Message, 0),
	}
}

// ID returns the identifier assigned at creation. It is never reassigned.
func (c *Conversation) ID() string {
	return c.id
}

// Add appends a message to the history.
func (c *Conversation) Add(msg llm.Message) {
	c.messages = append(c.messages, msg)
}

// Rollback removes the most recently added message. It reports whether a
// message was removed.
func (c *Conversation) Rollback() bool {
	if len(c.messages) == 0 {
		return false
	}
	c.messages = c.messages[:len(c.messages)-1]
	return true
}

// Messages returns a copy of the history in insertion order, the literal
// order submitted to the endpoint.
func (c *Conversation) Messages() []llm.Message {
	out := make([]llm.Message, len(c.messages))
	copy(out, c.messages)
	return out
}

// Len returns the number of messages in the history.
func (c *Conversation) Len() int {
	return len(c.messages)
}
