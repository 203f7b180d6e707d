package llm

import (
	"context"
	"encoding/json"
	"sync"
)

// MockResponse is one scripted reply: Content on success, or Err.
type MockResponse struct {
	Content json.RawMessage
	Usage   Usage
	Err     error
}

// MockProvider replays scripted responses in order and keeps every request
// it saw, along with the purpose label carried by the context.
type MockProvider struct {
	mu       sync.Mutex
	script   []MockResponse
	Calls    []Request
	Purposes []string
}

func NewMockProvider(script ...MockResponse) *MockProvider {
	return &MockProvider{script: script}
}

// Generate pops the next scripted response. An exhausted script behaves like
// an unreachable provider.
func (m *MockProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = append(m.Calls, req)
	m.Purposes = append(m.Purposes, PurposeFrom(ctx))

	if len(m.script) == 0 {
		return nil, &ErrProviderUnavailable{}
	}
	next := m.script[0]
	m.script = m.script[1:]
	if next.Err != nil {
		return nil, next.Err
	}
	return &Response{Content: next.Content, Usage: next.Usage, Model: m.ModelID(), StopReason: "end"}, nil
}

func (m *MockProvider) ModelID() string {
	return "mock"
}

// AddResponse appends to the script.
func (m *MockProvider) AddResponse(resp MockResponse) {
	m.mu.Lock()
	m.script = append(m.script, resp)
	m.mu.Unlock()
}

func (m *MockProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}
