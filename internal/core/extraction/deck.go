package extraction

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/dealdesk/memopipe/internal/core/common"
	"github.com/dealdesk/memopipe/internal/core/model"
	"github.com/dealdesk/memopipe/internal/index"
	"github.com/dealdesk/memopipe/internal/llm"
)

// DeckStepName identifies the initial extraction step in errors.
const DeckStepName = "deck_extraction"

// deckCharBudget bounds how much deck text reaches the model and the index.
const deckCharBudget = 5000

const deckPrompt = `You are a VC analyst. Extract the following JSON keys from the pitch-deck text:
  name, sector, website, funding_stage
Return ONLY valid JSON.`

// altNameKeys are shapes models actually produce for the company name.
var altNameKeys = []string{"CompanyName", "company_name", "Company"}

// ExtractDeck is the special first step: it parses the raw document text (no
// index exists yet) into the identity fields, fixes the deterministic id, and
// performs the pipeline's single index write. Unusable model output still
// yields a usable profile with an id derived from the deck text; only the
// model transport and the index write can fail hard.
func ExtractDeck(ctx context.Context, deckText, prompt string, client llm.LLMClient, idx index.DocumentIndex) (*model.StartupProfile, error) {
	if strings.TrimSpace(prompt) == "" {
		prompt = deckPrompt
	}
	deck := common.Truncate(deckText, deckCharBudget)
	p := model.NewProfile()

	full := fmt.Sprintf("%s\n\nPitch-deck text:\n%s", prompt, deck)
	response, err := client.Generate(ctx, full)
	if err != nil {
		p.EnsureID(deck)
		return p, fmt.Errorf("model call failed: %w", err)
	}

	data, err := common.ParseJSON[map[string]any](response)
	if err != nil {
		log.Printf("step %s: unusable model output, profile starts empty: %v", DeckStepName, err)
	} else {
		// Models sometimes nest everything under a schema-name key.
		if nested, ok := data["StartupProfile"].(map[string]any); ok {
			data = nested
		}
		p.Name = common.AsString(data["name"], "")
		if p.Name == "" {
			for _, alt := range altNameKeys {
				if s := common.AsString(data[alt], ""); s != "" {
					p.Name = s
					break
				}
			}
		}
		p.Sector = common.AsString(data["sector"], "")
		p.Website = common.AsString(data["website"], "")
		p.FundingStage = common.AsString(data["funding_stage"], "")
	}

	// The id must exist before the index write; it is the partition key.
	p.EnsureID(deck)

	if idx != nil {
		if err := idx.Index(ctx, p.StartupID, deck); err != nil {
			return p, fmt.Errorf("index write failed: %w", err)
		}
	}

	return p, nil
}
