package contextual

import (
	"context"
	"log"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dealdesk/memopipe/internal/core/model"
	"github.com/dealdesk/memopipe/internal/index"
	"github.com/dealdesk/memopipe/internal/llm"
)

// Sentinel is returned when neither the index nor the web produced anything.
// Prompt templates always receive non-empty context.
const Sentinel = "No local or web info found."

// Searcher is the best-effort web boundary consumed by the assembler.
type Searcher interface {
	Search(ctx context.Context, query string, n int) ([]string, error)
	FetchText(ctx context.Context, url string, maxChars int) (string, error)
}

// Assembler builds the bounded context blob for one enrichment topic:
// indexed deck snippets first, then optional web page text, truncated to
// MaxChars. Every sub-source failure degrades instead of propagating.
type Assembler struct {
	Index    index.DocumentIndex
	Searcher Searcher           // nil disables web context
	Reranker llm.RerankerClient // optional snippet reordering

	KLocal       int
	KWeb         int
	PerPageChars int
	MaxChars     int
	FetchTimeout time.Duration
}

func NewAssembler(idx index.DocumentIndex, searcher Searcher) *Assembler {
	return &Assembler{
		Index:        idx,
		Searcher:     searcher,
		KLocal:       4,
		KWeb:         2,
		PerPageChars: 1500,
		MaxChars:     4000,
		FetchTimeout: 5 * time.Second,
	}
}

// Assemble gathers context for the profile and topic. withWeb additionally
// pulls live search results; local-only steps pass false.
func (a *Assembler) Assemble(ctx context.Context, profile *model.StartupProfile, topic string, withWeb bool) string {
	parts := a.localSnippets(ctx, profile.StartupID, topic)

	if withWeb && a.Searcher != nil {
		parts = append(parts, a.webSnippets(ctx, profile.Name, topic)...)
	}

	combined := strings.TrimSpace(strings.Join(parts, "\n\n"))
	if len(combined) > a.MaxChars {
		combined = combined[:a.MaxChars]
	}
	if combined == "" {
		return Sentinel
	}
	return combined
}

func (a *Assembler) localSnippets(ctx context.Context, startupID, topic string) []string {
	if a.Index == nil {
		return nil
	}
	snippets, err := a.Index.Query(ctx, startupID, topic, a.KLocal)
	if err != nil {
		log.Printf("context: index query failed, continuing without local context: %v", err)
		return nil
	}

	if a.Reranker != nil && len(snippets) > 1 {
		indices, err := a.Reranker.Rank(ctx, topic, snippets)
		if err == nil && len(indices) > 0 {
			reordered := make([]string, 0, len(snippets))
			for _, idx := range indices {
				if idx >= 0 && idx < len(snippets) {
					reordered = append(reordered, snippets[idx])
				}
			}
			if len(reordered) > 0 {
				snippets = reordered
			}
		}
	}

	var parts []string
	for _, s := range snippets {
		if strings.TrimSpace(s) != "" {
			parts = append(parts, s)
		}
	}
	return parts
}

// webSnippets searches for "{name} {topic}" and fetches each result page
// concurrently. A failed or timed-out fetch contributes nothing.
func (a *Assembler) webSnippets(ctx context.Context, name, topic string) []string {
	query := strings.TrimSpace(name + " " + topic)
	urls, err := a.Searcher.Search(ctx, query, a.KWeb)
	if err != nil {
		log.Printf("context: web search failed, continuing without web context: %v", err)
		return nil
	}

	texts := make([]string, len(urls))
	g, gctx := errgroup.WithContext(ctx)
	for i, pageURL := range urls {
		i, pageURL := i, pageURL
		g.Go(func() error {
			fetchCtx, cancel := context.WithTimeout(gctx, a.FetchTimeout)
			defer cancel()

			text, err := a.Searcher.FetchText(fetchCtx, pageURL, a.PerPageChars)
			if err != nil {
				log.Printf("context: fetch skipped: %v", err)
				return nil
			}
			texts[i] = text
			return nil
		})
	}
	_ = g.Wait() // fetch errors are absorbed above

	var parts []string
	for _, t := range texts {
		if strings.TrimSpace(t) != "" {
			parts = append(parts, t)
		}
	}
	return parts
}
