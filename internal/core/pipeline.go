package core

import (
	"context"
	"fmt"

	"github.com/dealdesk/memopipe/internal/config"
	"github.com/dealdesk/memopipe/internal/core/contextual"
	"github.com/dealdesk/memopipe/internal/core/extraction"
	"github.com/dealdesk/memopipe/internal/core/model"
	"github.com/dealdesk/memopipe/internal/index"
	"github.com/dealdesk/memopipe/internal/llm"
)

// StepError names the pipeline stage that failed hard. Soft per-step parse
// failures never surface here; they are absorbed inside the steps.
type StepError struct {
	Step string
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("pipeline step %q failed: %v", e.Step, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// Pipeline runs the deck extraction and the six enrichment steps strictly
// sequentially over one shared profile. Later steps rely on fields and index
// content produced by earlier ones, so there is no concurrency between steps.
type Pipeline struct {
	LLM       llm.LLMClient
	Index     index.DocumentIndex
	Assembler *contextual.Assembler
	Steps     []*extraction.Step

	deckPrompt string
}

func NewPipeline(client llm.LLMClient, idx index.DocumentIndex, asm *contextual.Assembler, prompts config.StepPrompts) *Pipeline {
	return &Pipeline{
		LLM:        client,
		Index:      idx,
		Assembler:  asm,
		Steps:      extraction.Steps(prompts),
		deckPrompt: prompts.Deck,
	}
}

// Run executes the whole pipeline on one document's extracted text. On a
// hard failure the partially-enriched profile is returned alongside a
// *StepError so callers can inspect what had been accumulated.
func (p *Pipeline) Run(ctx context.Context, deckText string) (*model.StartupProfile, error) {
	profile, err := extraction.ExtractDeck(ctx, deckText, p.deckPrompt, p.LLM, p.Index)
	if err != nil {
		return profile, &StepError{Step: extraction.DeckStepName, Err: err}
	}

	for _, step := range p.Steps {
		if err := step.Run(ctx, profile, p.Assembler, p.LLM); err != nil {
			return profile, &StepError{Step: step.Name, Err: err}
		}
	}

	return profile, nil
}
