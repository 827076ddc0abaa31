package agents

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/rh-ai-quickstart/issue-triage/internal/catalog"
	"github.com/rh-ai-quickstart/issue-triage/internal/llm"
	"github.com/rh-ai-quickstart/issue-triage/pkg/models"
)

// maxCoverageFeaturesShown caps the per-quickstart feature list in the
// catalog context.
const maxCoverageFeaturesShown = 8

// PortfolioAnalyst surveys the whole catalog for blind spots. It runs once
// per batch, not per issue, and its gap descriptor feeds priority scoring.
type PortfolioAnalyst struct {
	Client  llm.Completer
	Catalog *catalog.Store
	Log     *zap.SugaredLogger
}

// Analyze reviews the catalog and reports underserved industries, missing
// use cases, and undemonstrated capabilities. An empty catalog yields a
// placeholder analysis rather than an error.
func (p *PortfolioAnalyst) Analyze(ctx context.Context) (models.PortfolioAnalysis, []string) {
	quickstarts, err := p.Catalog.Quickstarts()
	if err != nil {
		return models.PortfolioAnalysis{
			Summary: "No quickstarts found in catalog.",
			Notes:   "Unable to analyze portfolio - catalog is empty.",
		}, []string{fmt.Sprintf("Portfolio Analyst: %v", err)}
	}
	if len(quickstarts) == 0 {
		return models.PortfolioAnalysis{
			Summary: "No quickstarts found in catalog.",
			Notes:   "Unable to analyze portfolio - catalog is empty.",
		}, nil
	}

	features, err := p.Catalog.LoadFeatures()
	if err != nil {
		p.log().Warnw("features unavailable for portfolio context", "error", err)
	}
	coverage, err := p.Catalog.LoadCoverage()
	if err != nil {
		p.log().Warnw("coverage unavailable for portfolio context", "error", err)
	}

	user := portfolioUserPrompt(catalogContext(quickstarts, features, coverage))

	text, err := p.Client.Complete(ctx, llm.Request{
		System:      portfolioAnalystSystemPrompt,
		Messages:    []llm.Message{{Role: "user", Content: user}},
		Temperature: 0.4,
		MaxTokens:   2000,
	})
	if err != nil {
		return models.PortfolioAnalysis{
			Notes: fmt.Sprintf("Portfolio analysis failed: %v", err),
		}, []string{fmt.Sprintf("Portfolio Analyst error: %v", err)}
	}

	parsed := llm.ParseJSONResponse(text, nil)
	return models.PortfolioAnalysis{
		UnderservedIndustries:      stringsField(parsed, "underserved_industries"),
		MissingUseCases:            stringsField(parsed, "missing_use_cases"),
		UndemonstratedCapabilities: stringsField(parsed, "undemonstrated_capabilities"),
		ExpectedAdjacencies:        stringsField(parsed, "expected_adjacencies"),
		Summary:                    stringField(parsed, "summary"),
		Notes:                      stringField(parsed, "notes"),
	}, nil
}

// catalogContext describes the current catalog and feature inventory for the
// portfolio prompt.
func catalogContext(quickstarts []catalog.Quickstart, features []catalog.Feature, coverage map[string][]string) string {
	lines := []string{"## Current Quickstart Catalog\n"}

	for _, qs := range quickstarts {
		lines = append(lines, fmt.Sprintf("### %s", orDefault(qs.Name, qs.ID)))
		lines = append(lines, fmt.Sprintf("Description: %s", orDefault(qs.Description, "No description")))
		if qsFeatures := coverage[qs.ID]; len(qsFeatures) > 0 {
			if len(qsFeatures) > maxCoverageFeaturesShown {
				qsFeatures = qsFeatures[:maxCoverageFeaturesShown]
			}
			lines = append(lines, fmt.Sprintf("Features: %s", strings.Join(qsFeatures, ", ")))
		}
		lines = append(lines, "")
	}

	lines = append(lines, "\n## Platform Features Catalog")
	names := make([]string, 0, len(features))
	for _, f := range features {
		names = append(names, orDefault(f.Name, f.ID))
	}
	lines = append(lines, fmt.Sprintf("Available features: %s", strings.Join(names, ", ")))

	return strings.Join(lines, "\n")
}

func (p *PortfolioAnalyst) log() *zap.SugaredLogger {
	if p.Log != nil {
		return p.Log
	}
	return zap.NewNop().Sugar()
}
