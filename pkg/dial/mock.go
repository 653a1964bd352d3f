package dial

import (
	"context"
	"sync"

	"github.com/themobileprof/dialchat-cli/pkg/llm"
)

// MockClient implements the llm.Client interface for testing
type MockClient struct {
	mu sync.Mutex

	// GetFunc allows customizing the whole-response behavior
	GetFunc func(context.Context, []llm.Message) (llm.Message, error)

	// StreamFunc allows customizing the streaming behavior
	StreamFunc func(context.Context, []llm.Message) (llm.Message, error)

	// Tracking for assertions
	GetCalls    [][]llm.Message
	StreamCalls [][]llm.Message
}

// Ensure MockClient implements llm.Client
var _ llm.Client = (*MockClient)(nil)

// NewMockClient creates a new mock client with default behavior
func NewMockClient() *MockClient {
	return &MockClient{
		GetCalls:    make([][]llm.Message, 0),
		StreamCalls: make([][]llm.Message, 0),
	}
}

// GetCompletion implements llm.Client.GetCompletion
func (m *MockClient) GetCompletion(ctx context.Context, messages []llm.Message) (llm.Message, error) {
	m.mu.Lock()
	m.GetCalls = append(m.GetCalls, messages)
	m.mu.Unlock()

	if m.GetFunc != nil {
		return m.GetFunc(ctx, messages)
	}

	return llm.Message{Role: llm.RoleAI, Content: "This is a mock response."}, nil
}

// StreamCompletion implements llm.Client.StreamCompletion
func (m *MockClient) StreamCompletion(ctx context.Context, messages []llm.Message) (llm.Message, error) {
	m.mu.Lock()
	m.StreamCalls = append(m.StreamCalls, messages)
	m.mu.Unlock()

	if m.StreamFunc != nil {
		return m.StreamFunc(ctx, messages)
	}

	return llm.Message{Role: llm.RoleAI, Content: "This is a mock response."}, nil
}

// Reset clears the call history
func (m *MockClient) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.GetCalls = make([][]llm.Message, 0)
	m.StreamCalls = make([][]llm.Message, 0)
}

// CallCount returns the total number of completion calls made
func (m *MockClient) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.GetCalls) + len(m.StreamCalls)
}
