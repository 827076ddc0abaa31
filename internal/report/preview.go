package report

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rh-ai-quickstart/issue-triage/pkg/models"
)

var (
	boldStyle   = lipgloss.NewStyle().Bold(true)
	greenStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("34"))
	blueStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("33"))
	cyanStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("44"))
	yellowStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	redStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))

	highPriorityStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("34"))
)

func overlapBadge(l models.OverlapLevel) string {
	switch l {
	case models.OverlapUnique:
		return cyanStyle.Render("UNIQUE")
	case models.OverlapPossible:
		return yellowStyle.Render("POSSIBLE OVERLAP")
	default:
		return dimStyle.Render("UNCLEAR")
	}
}

func stageBadge(s models.DevelopmentStage) string {
	switch s {
	case models.StageHasCode:
		return greenStyle.Render("HAS CODE")
	case models.StageDetailedPlan:
		return blueStyle.Render("DETAILED PLAN")
	case models.StageDetailedConcept:
		return cyanStyle.Render("DETAILED CONCEPT")
	default:
		return dimStyle.Render("CONCEPT SUMMARY")
	}
}

func fitBadge(f models.PlatformFit) string {
	switch f {
	case models.FitExcellent:
		return greenStyle.Render("EXCELLENT")
	case models.FitGood:
		return blueStyle.Render("GOOD")
	case models.FitModerate:
		return yellowStyle.Render("MODERATE")
	default:
		return redStyle.Render("POOR")
	}
}

func appealBadge(a models.BroadAppeal) string {
	switch a {
	case models.AppealUniversal:
		return greenStyle.Render("UNIVERSAL")
	case models.AppealBusinessSpecific:
		return blueStyle.Render("BUSINESS SPECIFIC")
	default:
		return dimStyle.Render("TECHNICAL ONLY")
	}
}

func priorityBadge(score int) string {
	text := fmt.Sprintf("%d/10", score)
	switch {
	case score >= 8:
		return highPriorityStyle.Render(text)
	case score >= 5:
		return blueStyle.Render(text)
	default:
		return dimStyle.Render(text)
	}
}

// PriorityLabel buckets a score into High, Medium, or Low.
func PriorityLabel(score int) string {
	switch {
	case score >= 8:
		return "High"
	case score >= 5:
		return "Medium"
	default:
		return "Low"
	}
}

// Preview formats one analysis for terminal display. includeStatus controls
// the classification badge block at the top.
func Preview(analysis models.FinalAnalysis, includeStatus bool) string {
	var lines []string

	if includeStatus {
		lines = append(lines,
			fmt.Sprintf("%s %s", boldStyle.Render("Suggested Priority:"), priorityBadge(analysis.PriorityScore)),
			fmt.Sprintf("%s %s  %s %s",
				boldStyle.Render("Overlap:"), overlapBadge(analysis.OverlapLevel),
				boldStyle.Render("Stage:"), stageBadge(analysis.DevelopmentStage)),
			fmt.Sprintf("%s %s  %s %s",
				boldStyle.Render("Platform Fit:"), fitBadge(analysis.PlatformFit),
				boldStyle.Render("Broad Appeal:"), appealBadge(analysis.BroadAppeal)),
			"",
		)
	}

	if analysis.OverallRecommendation != "" {
		lines = append(lines,
			boldStyle.Render("Recommendation:"),
			"  "+analysis.OverallRecommendation,
			"",
		)
	}

	if analysis.TechnicalSummary != "" {
		lines = append(lines,
			boldStyle.Render("Technical Analysis:"),
			"  "+analysis.TechnicalSummary,
			"",
		)
	}

	if analysis.AppealSummary != "" {
		lines = append(lines,
			boldStyle.Render("Audience Analysis:"),
			"  "+analysis.AppealSummary,
			"",
		)
	}

	if len(analysis.PersonasWhoUnderstand) > 0 || len(analysis.PersonasWhoDont) > 0 {
		if len(analysis.PersonasWhoUnderstand) > 0 {
			lines = append(lines, fmt.Sprintf("  %s %s",
				greenStyle.Render("Resonates with:"),
				strings.Join(analysis.PersonasWhoUnderstand, ", ")))
		}
		if len(analysis.PersonasWhoDont) > 0 {
			lines = append(lines, fmt.Sprintf("  %s %s",
				dimStyle.Render("Less relevant for:"),
				strings.Join(analysis.PersonasWhoDont, ", ")))
		}
		lines = append(lines, "")
	}

	if len(analysis.FeaturesNew) > 0 || len(analysis.FeaturesReused) > 0 {
		lines = append(lines, boldStyle.Render("Platform Features:"))
		if len(analysis.FeaturesNew) > 0 {
			lines = append(lines, fmt.Sprintf("  %s %s",
				greenStyle.Render("New demonstrations:"),
				strings.Join(featureLabels(analysis.FeaturesNew, 5), ", ")))
		}
		if len(analysis.FeaturesReused) > 0 {
			lines = append(lines, fmt.Sprintf("  %s %s",
				dimStyle.Render("Seen in published quickstarts:"),
				strings.Join(featureLabels(analysis.FeaturesReused, 5), ", ")))
		}
		lines = append(lines, "")
	}

	lines = append(lines, relationLines("Related Quickstarts (Use Case):", analysis.UseCaseOverlap)...)
	lines = append(lines, relationLines("Related Quickstarts (Technology):", analysis.SimilarStack)...)

	if len(analysis.AdjacentGaps) > 0 {
		lines = append(lines, boldStyle.Render("Identified Gaps:"))
		for _, gap := range clampStrings(analysis.AdjacentGaps, 3) {
			lines = append(lines, "  - "+gap)
		}
		lines = append(lines, "")
	}

	return strings.Join(lines, "\n")
}

func relationLines(header string, relations []models.Relation) []string {
	if len(relations) == 0 {
		return nil
	}
	lines := []string{boldStyle.Render(header)}
	if len(relations) > 3 {
		relations = relations[:3]
	}
	for _, r := range relations {
		reason := r.Reason
		if len(reason) > 70 {
			reason = reason[:70] + "..."
		}
		if reason != "" {
			lines = append(lines, fmt.Sprintf("  - %s: %s", r.Name, reason))
		} else {
			lines = append(lines, "  - "+r.Name)
		}
	}
	return append(lines, "")
}

func clampStrings(items []string, limit int) []string {
	if len(items) > limit {
		return items[:limit]
	}
	return items
}
