package extraction

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/dealdesk/memopipe/internal/core/common"
	"github.com/dealdesk/memopipe/internal/core/contextual"
	"github.com/dealdesk/memopipe/internal/core/model"
	"github.com/dealdesk/memopipe/internal/llm"
)

// Step is one topic-scoped enrichment: assemble context, call the model once,
// parse the response leniently, and merge the accepted fields into the
// profile. All six enrichment steps are instances of this type; only the
// prompt, topic and merge table differ.
type Step struct {
	Name   string
	Topic  string
	Prompt string

	// UseWeb requests hybrid (index + web) context; others stay local-only.
	UseWeb bool

	// ProfileContext feeds the serialized profile as context instead of a
	// retrieval lookup. The risk step reads everything earlier steps wrote.
	ProfileContext bool

	// Merge owns exactly one field cluster on the profile and must coerce
	// each key defensively; it runs only on a successfully parsed response.
	Merge func(p *model.StartupProfile, data map[string]any)
}

// Run executes the step against the shared profile. A model transport error
// is the only hard failure; unusable output is absorbed, leaving the step's
// cluster at its prior values.
func (s *Step) Run(ctx context.Context, p *model.StartupProfile, asm *contextual.Assembler, client llm.LLMClient) error {
	contextText := s.buildContext(ctx, p, asm)

	prompt := fmt.Sprintf("%s\n\nContext:\n%s", s.Prompt, contextText)
	response, err := client.Generate(ctx, prompt)
	if err != nil {
		return fmt.Errorf("model call failed: %w", err)
	}

	data, err := common.ParseJSON[map[string]any](response)
	if err != nil {
		log.Printf("step %s: unusable model output, keeping prior values: %v", s.Name, err)
	} else {
		s.Merge(p, data)
	}

	// Any step may end up being the one that fixes the identity; only the
	// first actual write sticks.
	p.EnsureID(contextText)
	return nil
}

func (s *Step) buildContext(ctx context.Context, p *model.StartupProfile, asm *contextual.Assembler) string {
	if s.ProfileContext {
		b, err := json.Marshal(p)
		if err != nil {
			return contextual.Sentinel
		}
		return string(b)
	}
	if asm == nil {
		return contextual.Sentinel
	}
	return asm.Assemble(ctx, p, s.Topic, s.UseWeb)
}
