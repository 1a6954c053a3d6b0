package index

import (
	"context"
	"errors"
)

// ErrEmptyPartitionKey is returned by Index when the caller has not resolved
// a startup id yet. Query never returns it: an unknown or empty key simply
// yields no snippets, because enrichment steps may run before anything is
// indexed.
var ErrEmptyPartitionKey = errors.New("index: empty partition key")

// DocumentIndex stores one startup's deck text, chunked, and serves
// similarity lookups scoped to that startup's partition key. The text is
// written once per profile and read many times with different topics.
type DocumentIndex interface {
	Index(ctx context.Context, key, text string) error
	Query(ctx context.Context, key, topic string, k int) ([]string, error)
}
