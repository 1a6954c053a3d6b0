package core

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dealdesk/memopipe/internal/config"
	"github.com/dealdesk/memopipe/internal/core/contextual"
	"github.com/dealdesk/memopipe/internal/index"
)

const pipelineDeck = `Acme Robotics: warehouse automation.
Team: CEO exited two startups; CTO is ex-Google.
Market: logistics robotics, huge TAM.
Financials: raising a $3M seed round.`

// One response per model call, in pipeline order: deck extraction first,
// then the six enrichment steps.
func scriptedResponses() []string {
	return []string{
		`{"name": "Acme Robotics", "sector": "robotics", "website": "https://acme.example", "funding_stage": "seed"}`,
		`{"tech_maturity": "beta", "moat_strength": "proprietary picking algorithm"}`,
		`{"founder_fit_score": 0.85, "prior_exits": 2}`,
		`{"TAM": 5000, "SAM": 800, "SOM": 50}`,
		`{"cash_burn_12m": 1.2, "runway_months": 14, "implied_valuation": 12}`,
		`{"top_competitors": [{"name": "Globex", "differentiator": "bigger fleet"}]}`,
		`{"risk_flags": ["single market"], "risk_score": 0.4}`,
	}
}

func newTestPipeline(llmClient *MockLLM, idx index.DocumentIndex) *Pipeline {
	return NewPipeline(llmClient, idx, contextual.NewAssembler(idx, nil), config.StepPrompts{})
}

func TestPipelineFullRun(t *testing.T) {
	mockLLM := &MockLLM{ResponseQueue: scriptedResponses()}
	idx := NewCountingIndex(index.NewMemoryIndex(nil))
	p := newTestPipeline(mockLLM, idx)

	profile, err := p.Run(context.Background(), pipelineDeck)

	require.NoError(t, err)
	assert.Equal(t, "Acme Robotics", profile.Name)
	assert.Equal(t, "beta", profile.TechMaturity)
	assert.Equal(t, 0.85, profile.FounderFitScore)
	assert.Equal(t, 2, profile.PriorExits)
	assert.Equal(t, 5000.0, profile.TAM)
	assert.Equal(t, 1.2, profile.CashBurn12M)
	require.Len(t, profile.TopCompetitors, 1)
	assert.Equal(t, "Globex", profile.TopCompetitors[0].Name)
	assert.Equal(t, []string{"single market"}, profile.RiskFlags)
	assert.Equal(t, 0.4, profile.RiskScore)
	assert.NotEmpty(t, profile.StartupID)
}

func TestPipelineIndexesDeckExactlyOnce(t *testing.T) {
	mockLLM := &MockLLM{ResponseQueue: scriptedResponses()}
	idx := NewCountingIndex(index.NewMemoryIndex(nil))
	p := newTestPipeline(mockLLM, idx)

	profile, err := p.Run(context.Background(), pipelineDeck)

	require.NoError(t, err)
	assert.Equal(t, map[string]int{profile.StartupID: 1}, idx.WriteCount)
}

func TestPipelineSoftFailuresDoNotAbort(t *testing.T) {
	responses := scriptedResponses()
	responses[3] = "the model rambled instead of returning JSON" // market sizing
	mockLLM := &MockLLM{ResponseQueue: responses}
	idx := NewCountingIndex(index.NewMemoryIndex(nil))
	p := newTestPipeline(mockLLM, idx)

	profile, err := p.Run(context.Background(), pipelineDeck)

	require.NoError(t, err)
	// The broken step's cluster keeps its defaults.
	assert.Equal(t, 0.0, profile.TAM)
	// Steps after it still ran.
	assert.Equal(t, 1.2, profile.CashBurn12M)
	assert.Equal(t, 0.4, profile.RiskScore)
}

func TestPipelineHardFailureNamesStep(t *testing.T) {
	mockLLM := &MockLLM{
		ResponseQueue: scriptedResponses(),
		Errs:          map[int]error{3: errors.New("endpoint unreachable")}, // founder profiling
	}
	idx := NewCountingIndex(index.NewMemoryIndex(nil))
	p := newTestPipeline(mockLLM, idx)

	profile, err := p.Run(context.Background(), pipelineDeck)

	require.Error(t, err)
	var stepErr *StepError
	require.ErrorAs(t, err, &stepErr)
	assert.Equal(t, "founder_profiling", stepErr.Step)

	// Prior steps' work stays accessible for diagnostics.
	require.NotNil(t, profile)
	assert.Equal(t, "Acme Robotics", profile.Name)
	assert.Equal(t, "beta", profile.TechMaturity)
}

func TestPipelineProfileSerializesStableKeySet(t *testing.T) {
	mockLLM := &MockLLM{ResponseQueue: scriptedResponses()}
	idx := NewCountingIndex(index.NewMemoryIndex(nil))
	p := newTestPipeline(mockLLM, idx)

	profile, err := p.Run(context.Background(), pipelineDeck)
	require.NoError(t, err)

	raw, err := json.Marshal(profile)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	for _, key := range []string{
		"startup_id", "name", "sector", "website", "funding_stage",
		"tech_maturity", "moat_strength", "founder_fit_score", "prior_exits",
		"TAM", "SAM", "SOM", "cash_burn_12m", "runway_months",
		"implied_valuation", "top_competitors", "risk_flags", "risk_score",
	} {
		assert.Contains(t, decoded, key)
	}
}

func TestPipelineRerunSameDocumentSameID(t *testing.T) {
	idx := NewCountingIndex(index.NewMemoryIndex(nil))

	first, err := newTestPipeline(&MockLLM{ResponseQueue: scriptedResponses()}, idx).Run(context.Background(), pipelineDeck)
	require.NoError(t, err)
	second, err := newTestPipeline(&MockLLM{ResponseQueue: scriptedResponses()}, idx).Run(context.Background(), pipelineDeck)
	require.NoError(t, err)

	assert.Equal(t, first.StartupID, second.StartupID)
}
