package index

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/dealdesk/memopipe/internal/llm"
)

const saveDeckChunkQuery = `
	MERGE (c:DeckChunk {uuid: $uuid})
	SET c.group_id = $group_id,
		c.content = $content,
		c.embedding = $embedding
	RETURN c.uuid AS uuid
`

const fetchDeckChunksQuery = `
	MATCH (c:DeckChunk {group_id: $group_id})
	RETURN c.content AS content, c.embedding AS embedding
`

// MemgraphIndex persists deck chunks as :DeckChunk nodes partitioned by
// group_id. Ranking happens client-side so it works on a stock Memgraph
// without the vector-search module.
type MemgraphIndex struct {
	Driver   neo4j.DriverWithContext
	Embedder llm.EmbedderClient
}

func NewMemgraphIndex(uri, username, password string, embedder llm.EmbedderClient) (*MemgraphIndex, error) {
	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(username, password, ""))
	if err != nil {
		return nil, err
	}
	if err := driver.VerifyConnectivity(context.Background()); err != nil {
		return nil, err
	}
	log.Println("Connected to Memgraph")
	return &MemgraphIndex{Driver: driver, Embedder: embedder}, nil
}

func (m *MemgraphIndex) Close(ctx context.Context) error {
	return m.Driver.Close(ctx)
}

// BuildIndices creates the group_id index; failures are warnings since the
// index may already exist.
func (m *MemgraphIndex) BuildIndices(ctx context.Context) error {
	queries := []string{
		"CREATE INDEX ON :DeckChunk(uuid);",
		"CREATE INDEX ON :DeckChunk(group_id);",
	}
	for _, q := range queries {
		if _, err := neo4j.ExecuteQuery(ctx, m.Driver, q, nil, neo4j.EagerResultTransformer); err != nil {
			log.Printf("Warning: failed to create index '%s': %v", q, err)
		}
	}
	return nil
}

func (m *MemgraphIndex) Index(ctx context.Context, key, text string) error {
	if key == "" {
		return ErrEmptyPartitionKey
	}

	for _, part := range splitChunks(text, defaultChunkSize, defaultChunkOverlap) {
		var embedding []float32
		if m.Embedder != nil {
			vec, err := m.Embedder.Embed(ctx, part)
			if err != nil {
				log.Printf("index: embedding failed, chunk stored for lexical search only: %v", err)
			} else {
				embedding = vec
			}
		}

		params := map[string]interface{}{
			"uuid":      uuid.New().String(),
			"group_id":  key,
			"content":   part,
			"embedding": embedding,
		}
		if _, err := neo4j.ExecuteQuery(ctx, m.Driver, saveDeckChunkQuery, params, neo4j.EagerResultTransformer); err != nil {
			return fmt.Errorf("failed to store deck chunk: %w", err)
		}
	}
	return nil
}

// Query degrades to no results on read errors; only writes are allowed to
// fail the pipeline.
func (m *MemgraphIndex) Query(ctx context.Context, key, topic string, k int) ([]string, error) {
	if key == "" {
		return nil, nil
	}

	result, err := neo4j.ExecuteQuery(ctx, m.Driver, fetchDeckChunksQuery,
		map[string]interface{}{"group_id": key}, neo4j.EagerResultTransformer)
	if err != nil {
		log.Printf("index: query failed for group %s: %v", key, err)
		return nil, nil
	}

	var topicVec []float32
	if m.Embedder != nil {
		vec, err := m.Embedder.Embed(ctx, topic)
		if err == nil {
			topicVec = vec
		}
	}

	scored := make([]scoredChunk, 0, len(result.Records))
	for _, record := range result.Records {
		contentVal, _ := record.Get("content")
		content, ok := contentVal.(string)
		if !ok || content == "" {
			continue
		}

		var score float64
		embVal, _ := record.Get("embedding")
		emb := toVector(embVal)
		if len(topicVec) > 0 && len(emb) > 0 {
			score = cosineSimilarity(topicVec, emb)
		} else {
			score = lexicalScore(topic, content)
		}
		scored = append(scored, scoredChunk{text: content, score: score})
	}

	return topK(scored, k), nil
}

// toVector converts the driver's []any float representation back to []float32.
func toVector(v any) []float32 {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]float32, 0, len(items))
	for _, item := range items {
		switch f := item.(type) {
		case float64:
			out = append(out, float32(f))
		case float32:
			out = append(out, f)
		default:
			return nil
		}
	}
	return out
}
