package model

// Competitor is one entry in the competitive landscape.
type Competitor struct {
	Name           string `json:"name"`
	Differentiator string `json:"differentiator"`
	URL            string `json:"url,omitempty"`
}

// StartupProfile accumulates everything the pipeline learns about one startup.
// Fields are grouped by the enrichment step that owns them; a step never
// writes outside its own cluster, and StartupID is assigned exactly once.
// Zero values double as the documented defaults, so a serialized profile
// always carries the full key set.
type StartupProfile struct {
	StartupID string `json:"startup_id"`
	Name      string `json:"name"`

	// Identity metadata, set by the deck extraction step.
	Sector       string `json:"sector"`
	Website      string `json:"website"`
	FundingStage string `json:"funding_stage"`

	// Technical due-diligence
	TechMaturity string `json:"tech_maturity"`
	MoatStrength string `json:"moat_strength"`

	// Founder profiling
	FounderFitScore float64 `json:"founder_fit_score"`
	PriorExits      int     `json:"prior_exits"`

	// Market sizing, USD millions
	TAM float64 `json:"TAM"`
	SAM float64 `json:"SAM"`
	SOM float64 `json:"SOM"`

	// Financial analysis
	CashBurn12M      float64 `json:"cash_burn_12m"`
	RunwayMonths     float64 `json:"runway_months"`
	ImpliedValuation float64 `json:"implied_valuation"`

	// Competitive intelligence, capped at three entries
	TopCompetitors []Competitor `json:"top_competitors"`

	// Risk assessment
	RiskFlags []string `json:"risk_flags"`
	RiskScore float64  `json:"risk_score"`
}

// NewProfile returns an empty profile with non-nil slices so the canonical
// JSON form always serializes arrays, never null.
func NewProfile() *StartupProfile {
	return &StartupProfile{
		TopCompetitors: []Competitor{},
		RiskFlags:      []string{},
	}
}
