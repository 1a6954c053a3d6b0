package memo

import (
	"context"
	"encoding/json"
	"log"
	"strings"

	"github.com/dealdesk/memopipe/internal/core/common"
	"github.com/dealdesk/memopipe/internal/core/model"
	"github.com/dealdesk/memopipe/internal/llm"
)

const summaryPrompt = `You are a VC partner writing the executive summary of an investment memo.
Given the JSON StartupProfile below, write a concise summary (120 words max)
covering opportunity, team, market and the main risk.
Return JSON with one key:
  summary - the summary text

Profile:
`

type summaryResult struct {
	Summary string `json:"summary"`
}

// Narrator produces the optional LLM-written executive summary for the memo.
// It is a rendering concern, not a pipeline step: it writes nothing to the
// profile, and any failure simply yields an empty summary.
type Narrator struct {
	LLM    llm.LLMClient
	Prompt string
}

func NewNarrator(client llm.LLMClient, prompt string) *Narrator {
	if strings.TrimSpace(prompt) == "" {
		prompt = summaryPrompt
	}
	return &Narrator{LLM: client, Prompt: prompt}
}

func (n *Narrator) ExecutiveSummary(ctx context.Context, p *model.StartupProfile) string {
	b, err := json.Marshal(p)
	if err != nil {
		return ""
	}

	response, err := n.LLM.Generate(ctx, n.Prompt+string(b))
	if err != nil {
		log.Printf("memo: executive summary skipped: %v", err)
		return ""
	}

	result, err := common.ParseJSON[summaryResult](response)
	if err != nil {
		// Plain-prose answers are still usable as a summary.
		return strings.TrimSpace(response)
	}
	return strings.TrimSpace(result.Summary)
}
