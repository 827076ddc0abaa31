package agents

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/rh-ai-quickstart/issue-triage/internal/llm"
	"github.com/rh-ai-quickstart/issue-triage/pkg/models"
)

// Coordinator merges specialist outputs into a FinalAnalysis. The merge is
// deterministic; the only model call is the optional guardrail check on the
// technical summary.
type Coordinator struct {
	// Guard validates the technical summary when set. A failed check never
	// blocks the analysis, it only annotates the audit record.
	Guard llm.Completer
	Log   *zap.SugaredLogger
}

// Merge synthesizes the specialist outputs for one issue. Nil inputs mean
// the corresponding agent did not run; their fields keep conservative
// defaults. The errors slice is carried into the audit record verbatim.
func (c *Coordinator) Merge(
	ctx context.Context,
	in Input,
	technical *models.TechnicalAnalysis,
	appeal *models.BroadAppealAnalysis,
	platform *models.PlatformAnalysis,
	errs []string,
) models.FinalAnalysis {
	final := models.NewFinalAnalysis()

	if technical != nil {
		final.OverlapLevel = technical.OverlapLevel
		final.DevelopmentStage = technical.DevelopmentStage
		final.UseCaseOverlap = technical.UseCaseOverlap
		final.SimilarStack = technical.SimilarStack
		final.AdjacentGaps = technical.AdjacentGaps
		final.ClarificationNeeded = technical.ClarificationNeeded
		final.TechnicalSummary = technical.Summary
	}

	if appeal != nil {
		final.BroadAppeal = appeal.BroadAppeal
		final.PersonasWhoUnderstand = appeal.PersonasWhoUnderstand
		final.PersonasWhoDont = appeal.PersonasWhoDont
		final.PersonaEvaluations = appeal.Evaluations
		final.AppealSummary = appeal.Summary
	}

	if platform != nil {
		final.FeaturesIdentified = platform.FeaturesIdentified
		final.FeaturesNew = platform.FeaturesNew
		final.FeaturesReused = platform.FeaturesReused
		final.PlatformFit = platform.PlatformFit
	}

	final.FillsPortfolioGap = detectGapsFilled(in.Issue.Title, in.Issue.Body, final.TechnicalSummary, in.PortfolioGaps)
	final.OverallRecommendation = recommendation(final, appeal != nil)
	final.PriorityScore = priorityScore(final)
	final.RawAnalysis = auditRecord(final, errs)

	if c.Guard != nil && final.TechnicalSummary != "" {
		result := llm.ValidateSummary(ctx, c.Guard, final.TechnicalSummary)
		if !result.IsSafe {
			c.log().Warnw("guardrail flagged technical summary",
				"issue", in.Issue.Number, "category", result.Category, "reason", result.Reason)
			final.RawAnalysis = fmt.Sprintf("[Guardrail warning: %s]\n\n%s", result.Reason, final.RawAnalysis)
		}
	}

	return final
}

// gapVocab pairs a gap area name with the issue-text keywords that indicate
// the area. Vocabularies are ordered slices so matching is deterministic.
type gapVocab struct {
	name     string
	keywords []string
}

// Gap keyword vocabularies. A gap counts as filled when the gap description
// names a known area and the issue text matches one of its keywords.
var (
	industryKeywords = []gapVocab{
		{"healthcare", []string{"healthcare", "medical", "clinical", "patient", "hospital", "diagnostic", "health"}},
		{"financial services", []string{"financial", "banking", "fraud", "trading", "credit", "loan", "mortgage", "compliance"}},
		{"manufacturing", []string{"manufacturing", "factory", "quality control", "defect", "production", "assembly", "industrial"}},
		{"retail", []string{"retail", "inventory", "e-commerce", "shopping", "store", "merchandis"}},
		{"legal", []string{"legal", "law", "contract", "court", "litigation", "compliance", "regulatory"}},
	}

	useCaseKeywords = []gapVocab{
		{"document intelligence", []string{"document", "invoice", "form", "ocr", "pdf", "extraction", "contract analysis"}},
		{"computer vision", []string{"computer vision", "image", "video", "visual", "camera", "object detection", "cv"}},
		{"fraud detection", []string{"fraud", "anomaly detection", "suspicious", "risk scoring"}},
		{"predictive maintenance", []string{"predictive maintenance", "equipment failure", "sensor", "iot", "time series"}},
		{"customer service", []string{"customer service", "call center", "chatbot", "support ticket", "helpdesk"}},
	}

	capabilityKeywords = []gapVocab{
		{"computer vision", []string{"computer vision", "image classification", "object detection", "visual"}},
		{"fine-tuning", []string{"fine-tuning", "fine tuning", "model customization", "domain adaptation"}},
		{"speech", []string{"speech", "audio", "voice", "transcription", "stt", "tts"}},
		{"batch processing", []string{"batch", "bulk", "large-scale", "offline processing"}},
	}
)

// detectGapsFilled matches the issue text and technical summary against the
// portfolio gaps using the keyword vocabularies. Results are deduplicated
// and labeled by gap kind.
func detectGapsFilled(title, body, summary string, gaps models.PortfolioGaps) []string {
	if gaps.Empty() {
		return nil
	}

	searchText := strings.ToLower(title) + " " + strings.ToLower(body) + " " + strings.ToLower(summary)

	var filled []string
	filled = append(filled, matchGaps(gaps.Industries, industryKeywords, "Industry", searchText)...)
	filled = append(filled, matchGaps(gaps.UseCases, useCaseKeywords, "Use Case", searchText)...)
	filled = append(filled, matchGaps(gaps.Capabilities, capabilityKeywords, "Capability", searchText)...)

	seen := map[string]bool{}
	var out []string
	for _, g := range filled {
		if !seen[g] {
			seen[g] = true
			out = append(out, g)
		}
	}
	return out
}

// matchGaps scans each gap description for vocabulary area names in order
// and records an area once the issue text hits one of its keywords. An area
// name without a keyword hit does not stop the scan.
func matchGaps(gaps []string, vocab []gapVocab, label, searchText string) []string {
	var out []string
	for _, gap := range gaps {
		gapLower := strings.ToLower(gap)
		for _, v := range vocab {
			if !strings.Contains(gapLower, v.name) {
				continue
			}
			if containsAny(searchText, v.keywords) {
				out = append(out, fmt.Sprintf("%s: %s", label, titleCase(v.name)))
				break
			}
		}
	}
	return out
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// titleCase uppercases the first letter of each space-separated word.
func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// recommendation builds a one-line overall recommendation from the merged
// analysis.
func recommendation(final models.FinalAnalysis, hasAppeal bool) string {
	var parts []string

	switch final.OverlapLevel {
	case models.OverlapUnique:
		parts = append(parts, "Unique use case - no overlap with existing quickstarts.")
	case models.OverlapPossible:
		parts = append(parts, fmt.Sprintf("Possible overlap with %d existing quickstart(s) - review recommended.",
			len(final.UseCaseOverlap)))
	default:
		parts = append(parts, "Use case needs clarification before overlap can be assessed.")
	}

	switch final.DevelopmentStage {
	case models.StageHasCode:
		parts = append(parts, "Contributor has existing code/prototype.")
	case models.StageDetailedPlan:
		parts = append(parts, "Detailed implementation plan ready for development.")
	case models.StageDetailedConcept:
		parts = append(parts, "Well-described concept - needs some planning before implementation.")
	default:
		parts = append(parts, "Brief concept summary - needs follow-up for details.")
	}

	if hasAppeal && final.AppealSummary != "" {
		appeal := strings.ReplaceAll(string(final.BroadAppeal), "_", " ")
		parts = append(parts, fmt.Sprintf("Appeal: %s.", titleCase(strings.ToLower(appeal))))
	}

	if len(final.FeaturesNew) > 0 {
		parts = append(parts, fmt.Sprintf("Would demonstrate %d new platform feature(s).", len(final.FeaturesNew)))
	}

	if len(final.FillsPortfolioGap) > 0 {
		shown := final.FillsPortfolioGap
		if len(shown) > 2 {
			shown = shown[:2]
		}
		parts = append(parts, fmt.Sprintf("Fills catalog gap: %s.", strings.Join(shown, ", ")))
	}

	return strings.Join(parts, " ")
}

// priorityScore computes a 1-10 score. Base is 4; unique use cases, mature
// proposals, broad appeal, new features, and gap coverage raise it.
func priorityScore(final models.FinalAnalysis) int {
	score := 4

	switch final.OverlapLevel {
	case models.OverlapUnique:
		score++
	case models.OverlapUnclear:
		score--
	}

	switch final.DevelopmentStage {
	case models.StageHasCode:
		score += 2
	case models.StageDetailedPlan:
		score++
	case models.StageDetailedConcept:
		// neutral
	default:
		score -= 3
	}

	switch final.BroadAppeal {
	case models.AppealUniversal:
		score++
	case models.AppealTechnicalOnly:
		score--
	}

	if n := len(final.FeaturesNew); n > 0 {
		score += min(n, 2)
	}
	if n := len(final.FillsPortfolioGap); n > 0 {
		score += min(n, 2)
	}

	if score < 1 {
		return 1
	}
	if score > 10 {
		return 10
	}
	return score
}

// auditRecord serializes the coordinator's view of the run for later review.
// The record is a pure function of the merged analysis: identical inputs
// always produce identical bytes.
func auditRecord(final models.FinalAnalysis, errs []string) string {
	if errs == nil {
		errs = []string{}
	}
	raw := map[string]any{
		"technical": map[string]any{
			"overlap_level":     string(final.OverlapLevel),
			"development_stage": string(final.DevelopmentStage),
			"summary":           final.TechnicalSummary,
		},
		"broad_appeal": map[string]any{
			"level":               string(final.BroadAppeal),
			"personas_understand": final.PersonasWhoUnderstand,
			"personas_dont":       final.PersonasWhoDont,
		},
		"platform": map[string]any{
			"fit":             string(final.PlatformFit),
			"features_new":    final.FeaturesNew,
			"features_reused": final.FeaturesReused,
		},
		"coordinator": map[string]any{
			"priority_score": final.PriorityScore,
			"recommendation": final.OverallRecommendation,
		},
		"errors": errs,
	}
	out, err := json.MarshalIndent(raw, "", "  ")
	if err != nil {
		return ""
	}
	return string(out)
}

func (c *Coordinator) log() *zap.SugaredLogger {
	if c.Log != nil {
		return c.Log
	}
	return zap.NewNop().Sugar()
}
