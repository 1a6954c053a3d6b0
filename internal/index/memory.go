package index

import (
	"context"
	"log"
	"sync"

	"github.com/dealdesk/memopipe/internal/llm"
)

type memoryChunk struct {
	text      string
	embedding []float32
}

// MemoryIndex is the in-process DocumentIndex used by the CLI and in tests.
// Chunks are embedded when an embedder is available; otherwise queries fall
// back to lexical scoring.
type MemoryIndex struct {
	mu       sync.RWMutex
	chunks   map[string][]memoryChunk
	embedder llm.EmbedderClient
}

func NewMemoryIndex(embedder llm.EmbedderClient) *MemoryIndex {
	return &MemoryIndex{
		chunks:   make(map[string][]memoryChunk),
		embedder: embedder,
	}
}

func (m *MemoryIndex) Index(ctx context.Context, key, text string) error {
	if key == "" {
		return ErrEmptyPartitionKey
	}

	parts := splitChunks(text, defaultChunkSize, defaultChunkOverlap)
	entries := make([]memoryChunk, 0, len(parts))
	for _, part := range parts {
		entry := memoryChunk{text: part}
		if m.embedder != nil {
			vec, err := m.embedder.Embed(ctx, part)
			if err != nil {
				log.Printf("index: embedding failed, chunk stored for lexical search only: %v", err)
			} else {
				entry.embedding = vec
			}
		}
		entries = append(entries, entry)
	}

	m.mu.Lock()
	m.chunks[key] = append(m.chunks[key], entries...)
	m.mu.Unlock()
	return nil
}

func (m *MemoryIndex) Query(ctx context.Context, key, topic string, k int) ([]string, error) {
	if key == "" {
		return nil, nil
	}

	m.mu.RLock()
	entries := m.chunks[key]
	m.mu.RUnlock()
	if len(entries) == 0 {
		return nil, nil
	}

	var topicVec []float32
	if m.embedder != nil {
		vec, err := m.embedder.Embed(ctx, topic)
		if err == nil {
			topicVec = vec
		}
	}

	scored := make([]scoredChunk, 0, len(entries))
	for _, e := range entries {
		var score float64
		if len(topicVec) > 0 && len(e.embedding) > 0 {
			score = cosineSimilarity(topicVec, e.embedding)
		} else {
			score = lexicalScore(topic, e.text)
		}
		scored = append(scored, scoredChunk{text: e.text, score: score})
	}

	return topK(scored, k), nil
}
