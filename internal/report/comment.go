package report

import (
	"fmt"
	"strings"

	"github.com/rh-ai-quickstart/issue-triage/pkg/models"
)

// commentMarker identifies triage comments so a re-run can find and update
// its previous comment instead of posting a duplicate.
const commentMarker = "<!-- issue-triage-analysis -->"

// IsTriageComment reports whether body was produced by Comment.
func IsTriageComment(body string) bool {
	return strings.Contains(body, commentMarker)
}

// Comment renders a FinalAnalysis as a GitHub issue comment body. The output
// is deterministic for a given analysis.
func Comment(a models.FinalAnalysis) string {
	var b strings.Builder

	b.WriteString(commentMarker + "\n")
	b.WriteString("## Triage Analysis\n\n")

	fmt.Fprintf(&b, "| | |\n|---|---|\n")
	fmt.Fprintf(&b, "| Suggested Priority | **%s** (%d/10) |\n", PriorityLabel(a.PriorityScore), a.PriorityScore)
	fmt.Fprintf(&b, "| Overlap | %s |\n", enumLabel(string(a.OverlapLevel)))
	fmt.Fprintf(&b, "| Stage | %s |\n", enumLabel(string(a.DevelopmentStage)))
	fmt.Fprintf(&b, "| Platform Fit | %s |\n", enumLabel(string(a.PlatformFit)))
	fmt.Fprintf(&b, "| Broad Appeal | %s |\n\n", enumLabel(string(a.BroadAppeal)))

	if a.OverallRecommendation != "" {
		fmt.Fprintf(&b, "**Recommendation:** %s\n\n", a.OverallRecommendation)
	}
	if a.TechnicalSummary != "" {
		fmt.Fprintf(&b, "**Technical Analysis:** %s\n\n", a.TechnicalSummary)
	}
	writeClarification(&b, a.ClarificationNeeded)

	if a.AppealSummary != "" {
		fmt.Fprintf(&b, "**Audience:** %s\n\n", a.AppealSummary)
		if len(a.PersonasWhoUnderstand) > 0 {
			fmt.Fprintf(&b, "- Resonates with: %s\n", strings.Join(a.PersonasWhoUnderstand, ", "))
		}
		if len(a.PersonasWhoDont) > 0 {
			fmt.Fprintf(&b, "- Less relevant for: %s\n", strings.Join(a.PersonasWhoDont, ", "))
		}
		if len(a.PersonasWhoUnderstand) > 0 || len(a.PersonasWhoDont) > 0 {
			b.WriteString("\n")
		}
	}

	writePlatformFeatures(&b, &a)
	writeRelations(&b, "Related Quickstarts (Use Case)", a.UseCaseOverlap)
	writeRelations(&b, "Related Quickstarts (Technology)", a.SimilarStack)
	writeGapsFilled(&b, a.FillsPortfolioGap)

	b.WriteString("---\n")
	b.WriteString("*Generated automatically by the triage bot. Maintainers make the final call.*\n")

	return b.String()
}
