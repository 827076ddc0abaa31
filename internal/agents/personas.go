package agents

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/rh-ai-quickstart/issue-triage/internal/catalog"
	"github.com/rh-ai-quickstart/issue-triage/internal/llm"
	"github.com/rh-ai-quickstart/issue-triage/pkg/models"
)

// Issue body limit for persona evaluations. Personas judge relevance, not
// implementation detail, so a short excerpt is enough.
const personaBodyLimit = 5000

// PersonaPanel asks a roster of professional personas whether a proposal is
// relevant to their work, then classifies overall broad appeal.
type PersonaPanel struct {
	Client  llm.Completer
	Catalog *catalog.Store
	// Workers bounds concurrent persona evaluations. 0 means one goroutine
	// per persona.
	Workers int
	Log     *zap.SugaredLogger
}

// Evaluate runs every configured persona against the issue and aggregates
// the verdicts. Individual persona failures degrade to a NONE rating; only
// a missing roster yields an error entry.
func (p *PersonaPanel) Evaluate(ctx context.Context, in Input) (models.BroadAppealAnalysis, []string) {
	personas, err := p.Catalog.LoadPersonas()
	if err != nil {
		analysis := models.NewBroadAppealAnalysis()
		analysis.Summary = "No personas configured for evaluation."
		return analysis, []string{fmt.Sprintf("Persona Panel: %v", err)}
	}
	if len(personas) == 0 {
		analysis := models.NewBroadAppealAnalysis()
		analysis.Summary = "No personas configured for evaluation."
		return analysis, []string{"Persona Panel: no personas found in personas.yaml"}
	}

	evaluations := make([]models.PersonaEvaluation, len(personas))

	g, gctx := errgroup.WithContext(ctx)
	if p.Workers > 0 {
		g.SetLimit(p.Workers)
	}
	for i, persona := range personas {
		g.Go(func() error {
			evaluations[i] = p.evaluateOne(gctx, persona, in.Issue.Title, in.Issue.Body)
			return nil
		})
	}
	// Workers never return errors; Wait is just the join point.
	_ = g.Wait()

	appeal := determineBroadAppeal(evaluations)

	var understand, dont []string
	for _, e := range evaluations {
		if e.Relevant() {
			understand = append(understand, e.PersonaName)
		} else {
			dont = append(dont, e.PersonaName)
		}
	}

	var summary string
	switch appeal {
	case models.AppealUniversal:
		summary = "This quickstart has broad professional appeal."
	case models.AppealBusinessSpecific:
		summary = "This quickstart appeals to specific business domains."
	default:
		summary = "This quickstart is primarily technical in nature."
	}

	return models.BroadAppealAnalysis{
		BroadAppeal:           appeal,
		PersonasWhoUnderstand: understand,
		PersonasWhoDont:       dont,
		Evaluations:           evaluations,
		Summary:               summary,
	}, nil
}

// evaluateOne runs a single persona. The persona's own system prompt frames
// the evaluation; failures degrade to NONE with the error as explanation.
func (p *PersonaPanel) evaluateOne(ctx context.Context, persona catalog.Persona, title, body string) models.PersonaEvaluation {
	user := personaUserPrompt(title, truncateBody(body, personaBodyLimit))

	text, err := p.Client.Complete(ctx, llm.Request{
		System:      persona.SystemPrompt,
		Messages:    []llm.Message{{Role: "user", Content: user}},
		Temperature: 0.3,
		MaxTokens:   500,
	})
	if err != nil {
		p.log().Debugw("persona evaluation failed", "persona", persona.ID, "error", err)
		return models.PersonaEvaluation{
			PersonaID:   persona.ID,
			PersonaName: persona.Name,
			Relevance:   models.RelevanceNone,
			Explanation: fmt.Sprintf("Evaluation failed: %v", err),
		}
	}

	relevance, explanation := parsePersonaResponse(text)
	return models.PersonaEvaluation{
		PersonaID:   persona.ID,
		PersonaName: persona.Name,
		Relevance:   relevance,
		Explanation: explanation,
	}
}

// parsePersonaResponse extracts a relevance rating, falling back to scanning
// the raw text when the model did not return JSON.
func parsePersonaResponse(content string) (models.Relevance, string) {
	parsed := llm.ParseJSONResponse(content, nil)
	if len(parsed) > 0 {
		rating, _ := parsed["relevance"].(string)
		explanation, _ := parsed["explanation"].(string)
		return models.ParseRelevance(rating), explanation
	}

	upper := strings.ToUpper(content)
	relevance := models.RelevanceNone
	switch {
	case strings.Contains(upper, "HIGH"):
		relevance = models.RelevanceHigh
	case strings.Contains(upper, "MEDIUM"):
		relevance = models.RelevanceMedium
	case strings.Contains(upper, "LOW"):
		relevance = models.RelevanceLow
	}

	explanation := content
	if runes := []rune(explanation); len(runes) > 200 {
		explanation = string(runes[:200])
	}
	if explanation == "" {
		explanation = "Unable to parse response"
	}
	return relevance, explanation
}

// determineBroadAppeal classifies overall appeal from the panel's verdicts.
// UNIVERSAL needs 4+ relevant personas or 3+ HIGH ratings; BUSINESS_SPECIFIC
// needs 2+ relevant; anything less is TECHNICAL_ONLY.
func determineBroadAppeal(evaluations []models.PersonaEvaluation) models.BroadAppeal {
	var high, medium int
	for _, e := range evaluations {
		switch e.Relevance {
		case models.RelevanceHigh:
			high++
		case models.RelevanceMedium:
			medium++
		}
	}
	relevant := high + medium

	switch {
	case relevant >= 4 || high >= 3:
		return models.AppealUniversal
	case relevant >= 2:
		return models.AppealBusinessSpecific
	default:
		return models.AppealTechnicalOnly
	}
}

func (p *PersonaPanel) log() *zap.SugaredLogger {
	if p.Log != nil {
		return p.Log
	}
	return zap.NewNop().Sugar()
}
