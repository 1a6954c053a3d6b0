package index

import (
	"math"
	"sort"
	"strings"
)

// cosineSimilarity of two embedding vectors; 0 when shapes don't match.
func cosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// lexicalScore counts topic terms present in the chunk, the fallback ranking
// when no embeddings are available.
func lexicalScore(topic, text string) float64 {
	lower := strings.ToLower(text)
	var score float64
	for _, term := range strings.Fields(strings.ToLower(topic)) {
		// Skip query glue like "or"/"and" so boolean-ish topics work.
		if term == "or" || term == "and" {
			continue
		}
		if strings.Contains(lower, term) {
			score++
		}
	}
	return score
}

type scoredChunk struct {
	text  string
	score float64
}

// topK returns the texts of the k best-scoring chunks, best first. Order of
// equal scores follows insertion order, so results are deterministic.
func topK(chunks []scoredChunk, k int) []string {
	sort.SliceStable(chunks, func(i, j int) bool {
		return chunks[i].score > chunks[j].score
	})
	if k > 0 && len(chunks) > k {
		chunks = chunks[:k]
	}
	out := make([]string, 0, len(chunks))
	for _, c := range chunks {
		out = append(out, c.text)
	}
	return out
}
