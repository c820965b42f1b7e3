package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/chronos/internal/contract"
	"github.com/alexanderramin/chronos/internal/optimizer"
)

func riskStyle(r optimizer.Risk) string {
	switch r {
	case optimizer.RiskLow:
		return StyleGreen.Render("low")
	case optimizer.RiskMedium:
		return StyleYellow.Render("medium")
	default:
		return StyleRed.Render("high")
	}
}

// FormatProposal renders the optimizer output: the gap to target and each
// strategy with its change list.
func FormatProposal(p *contract.OptimizeProposal) string {
	var b strings.Builder
	b.WriteString(Header("Optimization"))
	b.WriteString("\n")
	fmt.Fprintf(&b, "Current: %s   Target: %s   ",
		Bold(FormatDays(p.CurrentDurationDays)), Bold(FormatDays(p.TargetDurationDays)))
	if p.Achievable {
		b.WriteString(StyleGreen.Render("achievable"))
	} else {
		b.WriteString(StyleRed.Render("not achievable"))
	}
	b.WriteString("\n\n")

	if len(p.Strategies) == 0 {
		b.WriteString(Dim("No applicable strategies: nothing on the critical path can be cut.") + "\n")
		return b.String()
	}

	for _, s := range p.Strategies {
		marker := " "
		if s.Recommended {
			marker = StyleGreen.Render("★")
		}
		fmt.Fprintf(&b, "%s %s %s\n", marker, Bold(s.ID), Dim(s.Description))
		fmt.Fprintf(&b, "  saves %s, cost %.0f, risk %s\n",
			FormatDays(s.TotalSavingsDays), s.Cost, riskStyle(s.Risk))
		for _, c := range s.Changes {
			if c.IsLag() {
				fmt.Fprintf(&b, "    %s: lag on link from %s → %d (%s)\n",
					c.Outline, c.PredecessorOutline, c.NewLag, FormatDays(c.SavingsDays))
			} else {
				fmt.Fprintf(&b, "    %s: duration → %s (%s)\n",
					c.Outline, c.NewDuration, FormatDays(c.SavingsDays))
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}
