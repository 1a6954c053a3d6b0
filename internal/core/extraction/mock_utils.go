package extraction

import (
	"context"
)

// MockLLMClient scripts model responses for tests: a fixed Response, an
// optional queue consumed first, or a forced error.
type MockLLMClient struct {
	Response      string
	ResponseQueue []string
	Err           error
	Prompts       []string
}

func (m *MockLLMClient) Generate(ctx context.Context, prompt string) (string, error) {
	m.Prompts = append(m.Prompts, prompt)
	if m.Err != nil {
		return "", m.Err
	}
	if len(m.ResponseQueue) > 0 {
		resp := m.ResponseQueue[0]
		m.ResponseQueue = m.ResponseQueue[1:]
		return resp, nil
	}
	return m.Response, nil
}

// MockIndex records writes so tests can assert the at-most-once contract.
type MockIndex struct {
	Writes   map[string][]string
	WriteErr error
	Snippets []string
}

func NewMockIndex() *MockIndex {
	return &MockIndex{Writes: make(map[string][]string)}
}

func (m *MockIndex) Index(ctx context.Context, key, text string) error {
	if m.WriteErr != nil {
		return m.WriteErr
	}
	m.Writes[key] = append(m.Writes[key], text)
	return nil
}

func (m *MockIndex) Query(ctx context.Context, key, topic string, k int) ([]string, error) {
	return m.Snippets, nil
}
