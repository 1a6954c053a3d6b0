package extraction

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dealdesk/memopipe/internal/config"
	"github.com/dealdesk/memopipe/internal/core/model"
)

func TestFounderProfiling(t *testing.T) {
	mockLLM := &MockLLMClient{Response: `{"founder_fit_score": 0.85, "prior_exits": 2}`}
	p := model.NewProfile()

	err := FounderProfiling("").Run(context.Background(), p, nil, mockLLM)

	require.NoError(t, err)
	assert.Equal(t, 0.85, p.FounderFitScore)
	assert.Equal(t, 2, p.PriorExits)
}

func TestFounderProfilingDefaultsOnMissingKeys(t *testing.T) {
	mockLLM := &MockLLMClient{Response: `{}`}
	p := model.NewProfile()

	err := FounderProfiling("").Run(context.Background(), p, nil, mockLLM)

	require.NoError(t, err)
	assert.Equal(t, 0.3, p.FounderFitScore)
	assert.Equal(t, 0, p.PriorExits)
}

func TestMarketSizingNumericFields(t *testing.T) {
	mockLLM := &MockLLMClient{Response: `{"TAM": 5000, "SAM": 800, "SOM": 50}`}
	p := model.NewProfile()

	err := MarketSizing("").Run(context.Background(), p, nil, mockLLM)

	require.NoError(t, err)
	assert.Equal(t, 5000.0, p.TAM)
	assert.Equal(t, 800.0, p.SAM)
	assert.Equal(t, 50.0, p.SOM)
}

func TestMarketSizingBadFieldKeepsDefault(t *testing.T) {
	mockLLM := &MockLLMClient{Response: `{"TAM": "roughly ten billion", "SAM": 800, "SOM": 50}`}
	p := model.NewProfile()

	err := MarketSizing("").Run(context.Background(), p, nil, mockLLM)

	require.NoError(t, err)
	assert.Equal(t, 0.0, p.TAM)
	assert.Equal(t, 800.0, p.SAM)
	assert.Equal(t, 50.0, p.SOM)
}

func TestCompetitorListCappedAtThree(t *testing.T) {
	response := `{"top_competitors": [
		{"name": "Alpha", "differentiator": "cheaper"},
		{"name": "Beta", "differentiator": "faster"},
		{"name": "Gamma", "differentiator": "bigger"},
		{"name": "Delta", "differentiator": "older"},
		{"name": "Epsilon", "differentiator": "newer"}
	]}`
	mockLLM := &MockLLMClient{Response: response}
	p := model.NewProfile()

	err := CompetitiveIntel("").Run(context.Background(), p, nil, mockLLM)

	require.NoError(t, err)
	require.Len(t, p.TopCompetitors, 3)
	assert.Equal(t, "Alpha", p.TopCompetitors[0].Name)
	assert.Equal(t, "Beta", p.TopCompetitors[1].Name)
	assert.Equal(t, "Gamma", p.TopCompetitors[2].Name)
}

func TestCompetitorMalformedEntriesSkipped(t *testing.T) {
	response := `{"top_competitors": [
		{"differentiator": "no name"},
		"just a string",
		{"name": "Alpha", "differentiator": "cheaper"},
		{"name": "alpha", "differentiator": "duplicate"}
	]}`
	mockLLM := &MockLLMClient{Response: response}
	p := model.NewProfile()

	err := CompetitiveIntel("").Run(context.Background(), p, nil, mockLLM)

	require.NoError(t, err)
	require.Len(t, p.TopCompetitors, 1)
	assert.Equal(t, "Alpha", p.TopCompetitors[0].Name)
}

func TestSoftFailureLeavesProfileUnchanged(t *testing.T) {
	mockLLM := &MockLLMClient{Response: "I am sorry, I cannot help with that."}
	p := model.NewProfile()
	p.Name = "Acme"
	p.StartupID = "abc123"
	p.TAM = 42

	err := MarketSizing("").Run(context.Background(), p, nil, mockLLM)

	require.NoError(t, err)
	assert.Equal(t, 42.0, p.TAM)
	assert.Equal(t, "abc123", p.StartupID)
}

func TestRiskAssessmentWithEmptyProfile(t *testing.T) {
	mockLLM := &MockLLMClient{Response: `{"risk_flags": ["single founder"], "risk_score": 0.7}`}
	p := model.NewProfile()

	err := RiskAssessment("").Run(context.Background(), p, nil, mockLLM)

	require.NoError(t, err)
	assert.Equal(t, []string{"single founder"}, p.RiskFlags)
	assert.Equal(t, 0.7, p.RiskScore)
	assert.NotEmpty(t, p.StartupID)
}

func TestRiskAssessmentSeesFullProfile(t *testing.T) {
	mockLLM := &MockLLMClient{Response: `{"risk_flags": [], "risk_score": 0.1}`}
	p := model.NewProfile()
	p.Name = "Acme"
	p.TechMaturity = "beta"

	err := RiskAssessment("").Run(context.Background(), p, nil, mockLLM)

	require.NoError(t, err)
	require.Len(t, mockLLM.Prompts, 1)
	assert.Contains(t, mockLLM.Prompts[0], `"tech_maturity":"beta"`)
}

func TestClusterIsolation(t *testing.T) {
	mockLLM := &MockLLMClient{Response: `{"founder_fit_score": 0.9, "prior_exits": 1, "TAM": 99999, "risk_score": 1}`}
	p := model.NewProfile()
	p.TAM = 5000
	p.RiskScore = 0.2

	err := FounderProfiling("").Run(context.Background(), p, nil, mockLLM)

	require.NoError(t, err)
	assert.Equal(t, 0.9, p.FounderFitScore)
	// Keys outside the step's cluster are ignored even when present.
	assert.Equal(t, 5000.0, p.TAM)
	assert.Equal(t, 0.2, p.RiskScore)
}

func TestScoreClamping(t *testing.T) {
	mockLLM := &MockLLMClient{Response: `{"founder_fit_score": 1.8, "prior_exits": -3}`}
	p := model.NewProfile()

	err := FounderProfiling("").Run(context.Background(), p, nil, mockLLM)

	require.NoError(t, err)
	assert.Equal(t, 1.0, p.FounderFitScore)
	assert.Equal(t, 0, p.PriorExits)
}

func TestTechnicalDDUnknownDefaults(t *testing.T) {
	mockLLM := &MockLLMClient{Response: `{"tech_maturity": null}`}
	p := model.NewProfile()

	err := TechnicalDD("").Run(context.Background(), p, nil, mockLLM)

	require.NoError(t, err)
	assert.Equal(t, "unknown", p.TechMaturity)
	assert.Equal(t, "unknown", p.MoatStrength)
}

func TestHardFailurePropagates(t *testing.T) {
	mockLLM := &MockLLMClient{Err: errors.New("connection refused")}
	p := model.NewProfile()

	err := TechnicalDD("").Run(context.Background(), p, nil, mockLLM)

	assert.Error(t, err)
}

func TestStepsCoverEveryCluster(t *testing.T) {
	steps := Steps(config.StepPrompts{})

	require.Len(t, steps, 6)
	names := make([]string, 0, len(steps))
	for _, s := range steps {
		names = append(names, s.Name)
	}
	assert.Equal(t, []string{
		"technical_dd",
		"founder_profiling",
		"market_sizing",
		"financial_analysis",
		"competitive_intel",
		"risk_assessment",
	}, names)
}

func TestConfiguredPromptOverridesDefault(t *testing.T) {
	mockLLM := &MockLLMClient{Response: `{}`}
	step := MarketSizing("custom sizing instructions")
	p := model.NewProfile()

	err := step.Run(context.Background(), p, nil, mockLLM)

	require.NoError(t, err)
	require.Len(t, mockLLM.Prompts, 1)
	assert.Contains(t, mockLLM.Prompts[0], "custom sizing instructions")
}

func ExampleStep_Run() {
	mockLLM := &MockLLMClient{Response: `{"founder_fit_score": 0.85, "prior_exits": 2}`}
	p := model.NewProfile()
	p.Name = "Acme"

	_ = FounderProfiling("").Run(context.Background(), p, nil, mockLLM)
	fmt.Println(p.FounderFitScore, p.PriorExits)
	// Output: 0.85 2
}
