package agents

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/rh-ai-quickstart/issue-triage/internal/llm"
	"github.com/rh-ai-quickstart/issue-triage/pkg/models"
)

// Body limits for the technical analyst. The tool path keeps the context
// smaller because tool results share the window with the issue body.
const (
	technicalBodyLimit = 10000
	fallbackBodyLimit  = 15000
)

var technicalDefaultResponse = map[string]any{
	"overlap_level":     "UNCLEAR",
	"development_stage": "CONCEPT_SUMMARY",
	"use_case_overlap":  []any{},
	"similar_stack":     []any{},
	"summary":           "Unable to parse analysis. Please review manually.",
}

// TechnicalAnalyst evaluates a proposal for use-case overlap and maturity.
// It drives a tool-calling loop over the research index and falls back to
// direct prompting when the loop fails.
type TechnicalAnalyst struct {
	Client llm.Completer
	// Tools is the research toolset offered to the model. Empty means the
	// fallback path is used directly.
	Tools         []llm.Tool
	MaxIterations int
	Org           string
	TitlePrefix   string
	Log           *zap.SugaredLogger
}

// Analyze runs the technical analysis for one issue. The second return value
// lists non-fatal errors for the coordinator's audit record. A total failure
// still yields a usable analysis whose summary records the error.
func (a *TechnicalAnalyst) Analyze(ctx context.Context, in Input) (models.TechnicalAnalysis, []string) {
	title := StripTitlePrefix(in.Issue.Title, a.prefix())

	if len(a.Tools) > 0 {
		analysis, err := a.analyzeWithTools(ctx, in, title)
		if err == nil {
			return analysis, nil
		}
		a.log().Warnw("tool-calling analysis failed, falling back to direct prompt",
			"issue", in.Issue.Number, "error", err)
		analysis, errs := a.fallback(ctx, in, title, err.Error())
		if len(errs) > 0 {
			// Total failure: keep the tool-loop error alongside the
			// fallback error so the audit record shows both.
			errs = append([]string{fmt.Sprintf("Technical Analyst error: %v", err)}, errs...)
		}
		return analysis, errs
	}
	return a.fallback(ctx, in, title, "research tools unavailable")
}

func (a *TechnicalAnalyst) analyzeWithTools(ctx context.Context, in Input, title string) (models.TechnicalAnalysis, error) {
	system := technicalSystemPrompt(quickstartsContext(in.Quickstarts), a.Org, reposContext(in.OrgRepos))
	user := technicalUserPrompt(title, in.Issue.Number, in.Issue.User, truncateBody(in.Issue.Body, technicalBodyLimit))

	loop := llm.NewLoop(llm.LoopConfig{
		Client:        a.Client,
		Tools:         a.Tools,
		MaxIterations: a.MaxIterations,
		Logger:        a.log(),
	})

	text, _, err := loop.Run(ctx, llm.Request{
		System:      system,
		Messages:    []llm.Message{{Role: "user", Content: user}},
		Temperature: 0.3,
	})
	if err != nil {
		return models.TechnicalAnalysis{}, err
	}

	parsed := llm.ParseJSONResponse(text, technicalDefaultResponse)
	return buildTechnicalAnalysis(parsed, ""), nil
}

// fallback prompts without tools. The fallback note is carried into the
// summary so maintainers can see the degraded path was taken.
func (a *TechnicalAnalyst) fallback(ctx context.Context, in Input, title, reason string) (models.TechnicalAnalysis, []string) {
	system := fallbackSystemPrompt(quickstartsContext(in.Quickstarts), a.Org, reposContext(in.OrgRepos))
	user := fallbackUserPrompt(title, in.Issue.Number, in.Issue.User, truncateBody(in.Issue.Body, fallbackBodyLimit))

	text, err := a.Client.Complete(ctx, llm.Request{
		System:      system,
		Messages:    []llm.Message{{Role: "user", Content: user}},
		Temperature: 0.3,
	})
	if err != nil {
		analysis := models.NewTechnicalAnalysis()
		analysis.Summary = fmt.Sprintf("Analysis failed: %v", err)
		return analysis, []string{fmt.Sprintf("Technical Analyst error: %v", err)}
	}

	parsed := llm.ParseJSONResponse(text, technicalDefaultResponse)
	return buildTechnicalAnalysis(parsed, fmt.Sprintf("Fallback: %s", reason)), nil
}

// buildTechnicalAnalysis converts a parsed response into a TechnicalAnalysis,
// applying the consistency rules that keep model output coherent.
func buildTechnicalAnalysis(resp map[string]any, fallbackNote string) models.TechnicalAnalysis {
	summary := stringField(resp, "summary")
	if fallbackNote != "" {
		summary = fmt.Sprintf("(%s) %s", fallbackNote, summary)
	}

	overlap := models.ParseOverlapLevel(stringField(resp, "overlap_level"))
	stage := models.ParseDevelopmentStage(stringField(resp, "development_stage"))
	useCaseOverlap := relationsField(resp, "use_case_overlap")
	clarification := stringField(resp, "clarification_needed")

	// A listed use-case overlap contradicts a UNIQUE rating.
	if len(useCaseOverlap) > 0 && overlap == models.OverlapUnique {
		overlap = models.OverlapPossible
	}

	if needsClarification(overlap, stage) && strings.TrimSpace(clarification) == "" {
		clarification = defaultClarification(overlap, stage)
	}

	return models.TechnicalAnalysis{
		OverlapLevel:        overlap,
		DevelopmentStage:    stage,
		UseCaseOverlap:      useCaseOverlap,
		SimilarStack:        relationsField(resp, "similar_stack"),
		AdjacentGaps:        stringsField(resp, "adjacent_gaps"),
		ClarificationNeeded: clarification,
		Summary:             summary,
	}
}

// needsClarification reports whether follow-up detail should be requested.
// Clarification is skipped only when the overlap rating is conclusive and
// the proposal is mature.
func needsClarification(overlap models.OverlapLevel, stage models.DevelopmentStage) bool {
	overlapClear := overlap == models.OverlapUnique || overlap == models.OverlapPossible
	stageMature := stage == models.StageHasCode || stage == models.StageDetailedPlan
	return !(overlapClear && stageMature)
}

// defaultClarification synthesizes a clarification request when the model
// did not provide one.
func defaultClarification(overlap models.OverlapLevel, stage models.DevelopmentStage) string {
	var parts []string

	if overlap == models.OverlapUnclear {
		parts = append(parts, `
Use Case Details (to assess overlap):
- The specific problem or workflow being addressed, to help distinguish from existing quickstarts
- The intended target audience and their pain points
- Context on how the use case relates to what is already in the catalog`)
	}

	if stage == models.StageConceptSummary || stage == models.StageDetailedConcept {
		parts = append(parts, `
Technical Details (to elevate to DETAILED_PLAN):
- Specific technology choices and frameworks under consideration
- The proposed architecture and component interactions
- The intended implementation approach and phasing`)
	}

	return strings.Join(parts, "\n")
}

func (a *TechnicalAnalyst) prefix() string {
	if a.TitlePrefix != "" {
		return a.TitlePrefix
	}
	return DefaultTitlePrefix
}

func (a *TechnicalAnalyst) log() *zap.SugaredLogger {
	if a.Log != nil {
		return a.Log
	}
	return zap.NewNop().Sugar()
}

// stringField reads a string value from a parsed response map.
func stringField(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}

// stringsField reads a list of strings, tolerating []any from JSON decoding.
func stringsField(m map[string]any, key string) []string {
	raw, ok := m[key].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok && s != "" {
			out = append(out, s)
		}
	}
	return out
}

// relationsField reads a list of {name, reason} objects.
func relationsField(m map[string]any, key string) []models.Relation {
	raw, ok := m[key].([]any)
	if !ok {
		return nil
	}
	out := make([]models.Relation, 0, len(raw))
	for _, v := range raw {
		entry, ok := v.(map[string]any)
		if !ok {
			continue
		}
		name, _ := entry["name"].(string)
		if name == "" {
			continue
		}
		reason, _ := entry["reason"].(string)
		out = append(out, models.Relation{Name: name, Reason: reason})
	}
	return out
}
