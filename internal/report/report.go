package report

import (
	"fmt"
	"io"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/rh-ai-quickstart/issue-triage/internal/catalog"
	"github.com/rh-ai-quickstart/issue-triage/pkg/models"
)

const maxTitleLen = 85

// IssueEntry is one issue's row in a batch report. A nil Analysis means the
// issue was fetched but never analyzed.
type IssueEntry struct {
	Number      int
	Title       string
	SubmittedBy string
	Analysis    *models.FinalAnalysis
	AnalyzedAt  time.Time
}

// Report is everything a batch report renders: the portfolio blind-spot
// analysis, the catalog features used to list undemonstrated ones, and the
// per-issue results.
type Report struct {
	GeneratedAt  time.Time
	Portfolio    *models.PortfolioAnalysis
	Features     []catalog.Feature
	Demonstrated map[string]bool
	Issues       []IssueEntry
}

var numberedItemRe = regexp.MustCompile(`\d+\.\s+`)

// WriteMarkdown renders the report as markdown. Issues are ordered by
// priority, highest first, with unanalyzed issues last.
func WriteMarkdown(w io.Writer, rep Report) error {
	var b strings.Builder

	b.WriteString("# Quickstart Suggestions Triage Report\n\n")
	if !rep.GeneratedAt.IsZero() {
		fmt.Fprintf(&b, "Generated: %s\n\n", rep.GeneratedAt.Format("2006-01-02 15:04 MST"))
	}

	writePrioritySummary(&b, rep.Issues)
	if rep.Portfolio != nil {
		writePortfolioSection(&b, rep.Portfolio, rep.Features, rep.Demonstrated)
	}

	issues := make([]IssueEntry, len(rep.Issues))
	copy(issues, rep.Issues)
	sort.SliceStable(issues, func(i, j int) bool {
		return issuePriority(issues[i]) > issuePriority(issues[j])
	})
	for _, issue := range issues {
		writeIssueSection(&b, issue)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func issuePriority(e IssueEntry) int {
	if e.Analysis == nil {
		return -1
	}
	return e.Analysis.PriorityScore
}

func writePrioritySummary(b *strings.Builder, issues []IssueEntry) {
	var high, medium, low int
	for _, e := range issues {
		if e.Analysis == nil {
			continue
		}
		switch {
		case e.Analysis.PriorityScore >= 8:
			high++
		case e.Analysis.PriorityScore >= 5:
			medium++
		default:
			low++
		}
	}
	b.WriteString("## Summary\n\n")
	fmt.Fprintf(b, "- Issues analyzed: %d\n", high+medium+low)
	fmt.Fprintf(b, "- High priority (8+): %d\n", high)
	fmt.Fprintf(b, "- Medium priority (5-7): %d\n", medium)
	fmt.Fprintf(b, "- Low priority: %d\n\n", low)
}

func writePortfolioSection(b *strings.Builder, p *models.PortfolioAnalysis, features []catalog.Feature, demonstrated map[string]bool) {
	b.WriteString("## Portfolio Blind Spots Analysis (based SOLELY on PUBLISHED quickstarts)\n\n")
	if p.Summary != "" {
		b.WriteString(p.Summary + "\n\n")
	}

	var undemonstrated []string
	for _, f := range features {
		if !demonstrated[f.ID] {
			undemonstrated = append(undemonstrated, FeatureDisplayName(f.ID))
		}
	}
	if len(undemonstrated) > 0 {
		b.WriteString("**Platform Features Not Yet Demonstrated:** ")
		b.WriteString(strings.Join(undemonstrated, ", "))
		b.WriteString("\n\n")
	}

	writeBulletList(b, "Underserved Industries", p.UnderservedIndustries, 5)
	writeBulletList(b, "Missing Use Cases", p.MissingUseCases, 5)
	writeBulletList(b, "Undemonstrated Capabilities", p.UndemonstratedCapabilities, 5)
	writeBulletList(b, "Expected Adjacent Quickstarts", p.ExpectedAdjacencies, 4)
	writeStrategicGaps(b, p.Notes)
}

func writeBulletList(b *strings.Builder, header string, items []string, limit int) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(b, "**%s:**\n\n", header)
	for _, item := range clampStrings(items, limit) {
		b.WriteString("- " + item + "\n")
	}
	b.WriteString("\n")
}

// writeStrategicGaps renders the free-text portfolio notes, splitting
// "1. ... 2. ..." runs into separate bullets when the model numbered them.
func writeStrategicGaps(b *strings.Builder, notes string) {
	notes = strings.TrimSpace(notes)
	if notes == "" {
		return
	}
	if rest, ok := stripLabel(notes, "strategic gaps:"); ok {
		notes = rest
	}
	b.WriteString("**Strategic Gaps:**\n\n")
	parts := numberedItemRe.Split(notes, -1)
	var items []string
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			items = append(items, p)
		}
	}
	if len(items) > 1 {
		for _, item := range items {
			b.WriteString("- " + item + "\n")
		}
	} else {
		b.WriteString(notes + "\n")
	}
	b.WriteString("\n")
}

func stripLabel(s, label string) (string, bool) {
	if len(s) >= len(label) && strings.EqualFold(s[:len(label)], label) {
		return strings.TrimSpace(s[len(label):]), true
	}
	return s, false
}

func writeIssueSection(b *strings.Builder, e IssueEntry) {
	title := e.Title
	if len(title) > maxTitleLen {
		title = title[:maxTitleLen] + "..."
	}
	fmt.Fprintf(b, "## Issue #%d: %s\n\n", e.Number, title)
	if e.SubmittedBy != "" {
		fmt.Fprintf(b, "Submitted by: %s\n\n", e.SubmittedBy)
	}

	a := e.Analysis
	if a == nil {
		b.WriteString("Not yet analyzed.\n\n")
		return
	}

	fmt.Fprintf(b, "- **Suggested Priority:** %s (%d/10)\n", PriorityLabel(a.PriorityScore), a.PriorityScore)
	fmt.Fprintf(b, "- **Overlap:** %s\n", enumLabel(string(a.OverlapLevel)))
	fmt.Fprintf(b, "- **Stage:** %s\n", enumLabel(string(a.DevelopmentStage)))
	fmt.Fprintf(b, "- **Platform Fit:** %s\n", enumLabel(string(a.PlatformFit)))
	fmt.Fprintf(b, "- **Broad Appeal:** %s\n\n", enumLabel(string(a.BroadAppeal)))

	if a.OverallRecommendation != "" {
		fmt.Fprintf(b, "**Recommendation:** %s\n\n", a.OverallRecommendation)
	}
	if a.TechnicalSummary != "" {
		fmt.Fprintf(b, "**Summary:** %s\n\n", a.TechnicalSummary)
	}
	writeClarification(b, a.ClarificationNeeded)
	writeAudience(b, a)
	writePlatformFeatures(b, a)
	writeRelations(b, "Use Case Similarities", a.UseCaseOverlap)
	writeRelations(b, "Tech/Stack Similarities", a.SimilarStack)
	writeGapsFilled(b, a.FillsPortfolioGap)
	writeBulletList(b, "Identified Gaps", a.AdjacentGaps, 3)

	if !e.AnalyzedAt.IsZero() {
		fmt.Fprintf(b, "Analyzed: %s\n\n", e.AnalyzedAt.Format("2006-01-02 15:04 MST"))
	}
}

// writeClarification renders the clarification request. Category headers like
// "Use Case Details (to assess overlap):" become bold lines and their "- "
// items become nested bullets.
func writeClarification(b *strings.Builder, clarification string) {
	clarification = strings.TrimSpace(clarification)
	if clarification == "" {
		return
	}
	b.WriteString("**Further Info Needed:**\n\n")
	for _, line := range strings.Split(clarification, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		lower := strings.ToLower(line)
		switch {
		case strings.HasPrefix(lower, "use case details") || strings.HasPrefix(lower, "technical details"):
			fmt.Fprintf(b, "**%s**\n", line)
		case strings.HasPrefix(line, "- "):
			b.WriteString("  * " + line[2:] + "\n")
		default:
			b.WriteString(line + "\n")
		}
	}
	b.WriteString("\n")
}

func writeAudience(b *strings.Builder, a *models.FinalAnalysis) {
	if a.AppealSummary == "" && len(a.PersonaEvaluations) == 0 {
		return
	}
	b.WriteString("**Audience Analysis:**\n\n")
	if a.AppealSummary != "" {
		b.WriteString(a.AppealSummary + "\n\n")
	}
	for _, ev := range a.PersonaEvaluations {
		marker := "-"
		if ev.Relevant() {
			marker = "+"
		}
		fmt.Fprintf(b, "%s %s: %s\n", marker, ev.PersonaName, ev.Explanation)
	}
	if len(a.PersonaEvaluations) > 0 {
		b.WriteString("\n")
	}
}

func writePlatformFeatures(b *strings.Builder, a *models.FinalAnalysis) {
	if len(a.FeaturesNew) == 0 && len(a.FeaturesReused) == 0 {
		return
	}
	b.WriteString("**Platform Features:**\n\n")
	if len(a.FeaturesNew) > 0 {
		fmt.Fprintf(b, "- New to quickstarts: %s\n", strings.Join(featureLabels(a.FeaturesNew, 8), ", "))
	}
	if len(a.FeaturesReused) > 0 {
		fmt.Fprintf(b, "- Previously demonstrated: %s\n", strings.Join(featureLabels(a.FeaturesReused, 8), ", "))
	}
	b.WriteString("\n")
}

func writeRelations(b *strings.Builder, header string, relations []models.Relation) {
	if len(relations) == 0 {
		return
	}
	fmt.Fprintf(b, "**%s:**\n\n", header)
	if len(relations) > 3 {
		relations = relations[:3]
	}
	for _, r := range relations {
		if r.Reason != "" {
			fmt.Fprintf(b, "- %s: %s\n", r.Name, r.Reason)
		} else {
			b.WriteString("- " + r.Name + "\n")
		}
	}
	b.WriteString("\n")
}

// writeGapsFilled groups "Category: value" gap markers so repeated categories
// collapse into one line.
func writeGapsFilled(b *strings.Builder, gaps []string) {
	if len(gaps) == 0 {
		return
	}
	grouped := map[string][]string{}
	var order []string
	for _, gap := range gaps {
		cat, val := gap, ""
		if i := strings.Index(gap, ": "); i >= 0 {
			cat, val = gap[:i], gap[i+2:]
		}
		if _, seen := grouped[cat]; !seen {
			order = append(order, cat)
		}
		if val != "" {
			grouped[cat] = append(grouped[cat], val)
		} else if grouped[cat] == nil {
			grouped[cat] = []string{}
		}
	}
	b.WriteString("**Fills Catalog Gaps:**\n\n")
	for _, cat := range order {
		if vals := grouped[cat]; len(vals) > 0 {
			fmt.Fprintf(b, "- %s: %s\n", cat, strings.Join(vals, ", "))
		} else {
			b.WriteString("- " + cat + "\n")
		}
	}
	b.WriteString("\n")
}

// enumLabel turns an enum token like DETAILED_PLAN into "Detailed Plan".
func enumLabel(token string) string {
	words := strings.Fields(strings.ReplaceAll(strings.ToLower(token), "_", " "))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
