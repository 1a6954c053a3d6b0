package core

import (
	"context"

	"github.com/dealdesk/memopipe/internal/index"
)

// MockLLM replays a queue of scripted responses, one per pipeline model call.
type MockLLM struct {
	Response      string
	ResponseQueue []string
	Errs          map[int]error // call number (1-based) -> forced error
	calls         int
}

func (m *MockLLM) Generate(ctx context.Context, prompt string) (string, error) {
	m.calls++
	if err, ok := m.Errs[m.calls]; ok {
		return "", err
	}
	if len(m.ResponseQueue) > 0 {
		resp := m.ResponseQueue[0]
		m.ResponseQueue = m.ResponseQueue[1:]
		return resp, nil
	}
	return m.Response, nil
}

// CountingIndex wraps a real index and tallies writes per partition key.
type CountingIndex struct {
	Inner      index.DocumentIndex
	WriteCount map[string]int
}

func NewCountingIndex(inner index.DocumentIndex) *CountingIndex {
	return &CountingIndex{Inner: inner, WriteCount: make(map[string]int)}
}

func (c *CountingIndex) Index(ctx context.Context, key, text string) error {
	if err := c.Inner.Index(ctx, key, text); err != nil {
		return err
	}
	c.WriteCount[key]++
	return nil
}

func (c *CountingIndex) Query(ctx context.Context, key, topic string, k int) ([]string, error) {
	return c.Inner.Query(ctx, key, topic, k)
}
