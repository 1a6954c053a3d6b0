package memo

import (
	"fmt"
	"strings"

	"github.com/dealdesk/memopipe/internal/core/model"
)

// Markdown renders the final investment memo. It is a pure projection of the
// profile: every value is already resolved to a genuine value or its default
// by the time the pipeline hands the profile over.
func Markdown(p *model.StartupProfile, execSummary string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Investment Memo – %s\n\n", orNA(p.Name))
	fmt.Fprintf(&b, "**Sector:** %s  \n", orNA(p.Sector))
	fmt.Fprintf(&b, "**Website:** %s  \n", orNA(p.Website))
	fmt.Fprintf(&b, "**Funding Stage:** %s  \n", orNA(p.FundingStage))
	b.WriteString("\n---\n\n")

	if strings.TrimSpace(execSummary) != "" {
		b.WriteString("## Executive Summary\n")
		b.WriteString(strings.TrimSpace(execSummary))
		b.WriteString("\n\n")
	}

	b.WriteString("## Technical Due-Diligence\n")
	fmt.Fprintf(&b, "*Maturity:* **%s**  \n", orNA(p.TechMaturity))
	fmt.Fprintf(&b, "*Moat:* %s\n\n", orNA(p.MoatStrength))

	b.WriteString("## Founder Fit\n")
	fmt.Fprintf(&b, "*Score:* %.2f  \n", p.FounderFitScore)
	fmt.Fprintf(&b, "*Prior exits:* %d\n\n", p.PriorExits)

	b.WriteString("## Market Size (USD m)\n")
	fmt.Fprintf(&b, "TAM %.1f • SAM %.1f • SOM %.1f\n\n", p.TAM, p.SAM, p.SOM)

	b.WriteString("## Financials\n")
	fmt.Fprintf(&b, "Burn 12m: %.1f  \n", p.CashBurn12M)
	fmt.Fprintf(&b, "Runway: %.1f months  \n", p.RunwayMonths)
	fmt.Fprintf(&b, "Implied valuation: %.1f\n\n", p.ImpliedValuation)

	b.WriteString("## Competition\n")
	for _, c := range p.TopCompetitors {
		fmt.Fprintf(&b, "- **%s** – %s\n", c.Name, c.Differentiator)
	}
	if len(p.TopCompetitors) == 0 {
		b.WriteString("No direct competitors listed.\n")
	}
	b.WriteString("\n")

	b.WriteString("## Risk Assessment\n")
	fmt.Fprintf(&b, "*Score:* %.2f  \n", p.RiskScore)
	fmt.Fprintf(&b, "Flags: %s\n", strings.Join(p.RiskFlags, ", "))

	return b.String()
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return "N/A"
	}
	return s
}
