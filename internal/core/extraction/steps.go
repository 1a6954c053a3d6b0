package extraction

import (
	"strings"

	"github.com/dealdesk/memopipe/internal/config"
	"github.com/dealdesk/memopipe/internal/core/common"
	"github.com/dealdesk/memopipe/internal/core/model"
)

const maxCompetitors = 3

const technicalDDPrompt = `You are a senior CTO performing technical due-diligence for VC deals.
Return JSON with exactly two keys:
  tech_maturity  - one of ["prototype","beta","production","enterprise"]
  moat_strength  - short description of defensible IP / moat (25 words max)
If you find no clues, set both values to "unknown".`

const founderProfilingPrompt = `You are an experienced VC partner evaluating founders.
Return JSON with two keys:
  founder_fit_score  - float between 0 and 1 (higher = stronger team)
  prior_exits        - integer count of successful past exits
If info is missing, default to 0.3 and 0.`

const marketSizingPrompt = `You are a market-research analyst.
Return JSON with numeric fields (USD millions):
  TAM SAM SOM
If unknown, output 0 for that field.`

const financialAnalysisPrompt = `You are a VC financial analyst.
Return JSON with three numeric keys (USD millions):
  cash_burn_12m     - total cash burned (negative = profit)
  runway_months     - months until cash-out at current burn
  implied_valuation - simple post-money valuation if round info present
If a value is unknown, output 0.`

const competitiveIntelPrompt = `You are a VC analyst mapping the competitive landscape.
Return JSON:
  top_competitors - array of up to 3 objects {name, differentiator, url}
If unknown, return an empty array.`

const riskAssessmentPrompt = `You are an investment-risk officer.
Given a JSON StartupProfile, return JSON:
  risk_flags - array of short strings (5 words max each)
  risk_score - float 0-1 (higher = riskier)`

// Steps builds the six enrichment steps in pipeline order, each owning one
// field cluster on the profile. Config prompts override the defaults.
func Steps(prompts config.StepPrompts) []*Step {
	return []*Step{
		TechnicalDD(prompts.TechnicalDD),
		FounderProfiling(prompts.FounderProfiling),
		MarketSizing(prompts.MarketSizing),
		FinancialAnalysis(prompts.FinancialAnalysis),
		CompetitiveIntel(prompts.CompetitiveIntel),
		RiskAssessment(prompts.RiskAssessment),
	}
}

func TechnicalDD(prompt string) *Step {
	return &Step{
		Name:   "technical_dd",
		Topic:  "technology stack or architecture",
		Prompt: promptOr(prompt, technicalDDPrompt),
		Merge: func(p *model.StartupProfile, data map[string]any) {
			p.TechMaturity = common.AsString(data["tech_maturity"], "unknown")
			p.MoatStrength = common.AsString(data["moat_strength"], "unknown")
		},
	}
}

func FounderProfiling(prompt string) *Step {
	return &Step{
		Name:   "founder_profiling",
		Topic:  "founder background or biography",
		Prompt: promptOr(prompt, founderProfilingPrompt),
		Merge: func(p *model.StartupProfile, data map[string]any) {
			p.FounderFitScore = common.Clamp01(common.AsFloat(data["founder_fit_score"], 0.3))
			exits := common.AsInt(data["prior_exits"], 0)
			if exits < 0 {
				exits = 0
			}
			p.PriorExits = exits
		},
	}
}

func MarketSizing(prompt string) *Step {
	return &Step{
		Name:   "market_sizing",
		Topic:  "market size or sector",
		Prompt: promptOr(prompt, marketSizingPrompt),
		Merge: func(p *model.StartupProfile, data map[string]any) {
			p.TAM = common.NonNegative(common.AsFloat(data["TAM"], 0))
			p.SAM = common.NonNegative(common.AsFloat(data["SAM"], 0))
			p.SOM = common.NonNegative(common.AsFloat(data["SOM"], 0))
		},
	}
}

func FinancialAnalysis(prompt string) *Step {
	return &Step{
		Name:   "financial_analysis",
		Topic:  "funding OR revenue OR burn OR valuation",
		Prompt: promptOr(prompt, financialAnalysisPrompt),
		UseWeb: true,
		Merge: func(p *model.StartupProfile, data map[string]any) {
			// Burn may legitimately be negative (profitable), so no floor.
			p.CashBurn12M = common.AsFloat(data["cash_burn_12m"], 0)
			p.RunwayMonths = common.AsFloat(data["runway_months"], 0)
			p.ImpliedValuation = common.AsFloat(data["implied_valuation"], 0)
		},
	}
}

func CompetitiveIntel(prompt string) *Step {
	return &Step{
		Name:   "competitive_intel",
		Topic:  "competitor or competition",
		Prompt: promptOr(prompt, competitiveIntelPrompt),
		Merge: func(p *model.StartupProfile, data map[string]any) {
			items, _ := data["top_competitors"].([]any)
			comps := []model.Competitor{}
			seen := map[string]bool{}
			for _, item := range items {
				if len(comps) == maxCompetitors {
					break
				}
				entry, ok := item.(map[string]any)
				if !ok {
					continue
				}
				name := common.AsString(entry["name"], "")
				if name == "" || seen[strings.ToLower(name)] {
					continue
				}
				seen[strings.ToLower(name)] = true
				comps = append(comps, model.Competitor{
					Name:           name,
					Differentiator: common.AsString(entry["differentiator"], ""),
					URL:            common.AsString(entry["url"], ""),
				})
			}
			p.TopCompetitors = comps
		},
	}
}

func RiskAssessment(prompt string) *Step {
	return &Step{
		Name:           "risk_assessment",
		Topic:          "risk",
		Prompt:         promptOr(prompt, riskAssessmentPrompt),
		ProfileContext: true,
		Merge: func(p *model.StartupProfile, data map[string]any) {
			p.RiskFlags = common.AsStringSlice(data["risk_flags"])
			p.RiskScore = common.Clamp01(common.AsFloat(data["risk_score"], 0))
		},
	}
}

func promptOr(configured, def string) string {
	if strings.TrimSpace(configured) != "" {
		return configured
	}
	return def
}
