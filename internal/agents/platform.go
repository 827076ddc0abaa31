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

// Issue body limit for the platform specialist prompt.
const platformBodyLimit = 6000

var platformDefaultResponse = map[string]any{
	"features_identified": []any{},
	"platform_fit":        "MODERATE",
	"notes":               "Unable to parse platform analysis",
}

// PlatformSpecialist identifies which platform features a proposal would
// demonstrate and rates how well it showcases the platform.
type PlatformSpecialist struct {
	Client  llm.Completer
	Catalog *catalog.Store
	Log     *zap.SugaredLogger
}

// Analyze identifies platform features for one issue. Feature IDs the model
// invents are discarded; valid IDs are split into new versus already
// demonstrated using the coverage map.
func (p *PlatformSpecialist) Analyze(ctx context.Context, in Input) (models.PlatformAnalysis, []string) {
	features, err := p.Catalog.LoadFeatures()
	if err != nil {
		analysis := models.NewPlatformAnalysis()
		analysis.Notes = "No features catalog configured."
		return analysis, []string{fmt.Sprintf("Platform Specialist: %v", err)}
	}
	if len(features) == 0 {
		analysis := models.NewPlatformAnalysis()
		analysis.Notes = "No features catalog configured."
		return analysis, []string{"Platform Specialist: no features found in features.yaml"}
	}

	validIDs := make(map[string]bool, len(features))
	for _, f := range features {
		validIDs[f.ID] = true
	}

	demonstrated, err := p.Catalog.DemonstratedFeatures()
	if err != nil {
		p.log().Warnw("coverage map unavailable, treating all features as new", "error", err)
		demonstrated = map[string]bool{}
	}

	user := platformUserPrompt(featuresContext(features, demonstrated), in.Issue.Title,
		truncateBody(in.Issue.Body, platformBodyLimit))

	text, err := p.Client.Complete(ctx, llm.Request{
		System:      platformSpecialistSystemPrompt,
		Messages:    []llm.Message{{Role: "user", Content: user}},
		Temperature: 0.3,
		MaxTokens:   1000,
	})
	if err != nil {
		analysis := models.NewPlatformAnalysis()
		analysis.Notes = fmt.Sprintf("Platform analysis failed: %v", err)
		return analysis, []string{fmt.Sprintf("Platform Specialist error: %v", err)}
	}

	parsed := llm.ParseJSONResponse(text, platformDefaultResponse)
	return buildPlatformAnalysis(parsed, validIDs, demonstrated), nil
}

// buildPlatformAnalysis converts a parsed response into a PlatformAnalysis.
func buildPlatformAnalysis(resp map[string]any, validIDs, demonstrated map[string]bool) models.PlatformAnalysis {
	identified := featureRefsField(resp, "features_identified")
	featuresNew, featuresReused := classifyFeatures(identified, validIDs, demonstrated)

	var noteParts []string
	if s := stringField(resp, "fit_explanation"); s != "" {
		noteParts = append(noteParts, s)
	}
	if s := stringField(resp, "notes"); s != "" {
		noteParts = append(noteParts, s)
	}
	if len(featuresNew) > 0 {
		noteParts = append(noteParts, fmt.Sprintf("Would demonstrate %d new feature(s): %s",
			len(featuresNew), strings.Join(featuresNew, ", ")))
	}

	return models.PlatformAnalysis{
		FeaturesIdentified: identified,
		FeaturesNew:        featuresNew,
		FeaturesReused:     featuresReused,
		PlatformFit:        models.ParsePlatformFit(stringField(resp, "platform_fit")),
		Notes:              strings.Join(noteParts, " | "),
	}
}

// classifyFeatures splits model-identified features into new and reused,
// dropping IDs that are not in the catalog.
func classifyFeatures(identified []models.FeatureRef, validIDs, demonstrated map[string]bool) (featuresNew, featuresReused []string) {
	for _, f := range identified {
		if !validIDs[f.ID] {
			continue
		}
		if demonstrated[f.ID] {
			featuresReused = append(featuresReused, f.ID)
		} else {
			featuresNew = append(featuresNew, f.ID)
		}
	}
	return featuresNew, featuresReused
}

// featuresContext describes every catalog feature grouped by category, with
// its coverage status, for the system prompt.
func featuresContext(features []catalog.Feature, demonstrated map[string]bool) string {
	lines := []string{"## Available OpenShift AI Features\n"}

	byCategory := map[string][]catalog.Feature{}
	var order []string
	for _, f := range features {
		cat := orDefault(f.Category, "Other")
		if _, seen := byCategory[cat]; !seen {
			order = append(order, cat)
		}
		byCategory[cat] = append(byCategory[cat], f)
	}

	for _, cat := range order {
		lines = append(lines, fmt.Sprintf("### %s", cat))
		for _, f := range byCategory[cat] {
			status := "NOT YET DEMONSTRATED"
			if demonstrated[f.ID] {
				status = "ALREADY DEMONSTRATED"
			}
			lines = append(lines, fmt.Sprintf("- **%s** (%s): %s [%s]",
				f.ID, orDefault(f.Name, f.ID), f.Description, status))
		}
		lines = append(lines, "")
	}

	return strings.Join(lines, "\n")
}

// featureRefsField reads a list of {id, reason} objects.
func featureRefsField(m map[string]any, key string) []models.FeatureRef {
	raw, ok := m[key].([]any)
	if !ok {
		return nil
	}
	out := make([]models.FeatureRef, 0, len(raw))
	for _, v := range raw {
		entry, ok := v.(map[string]any)
		if !ok {
			continue
		}
		id, _ := entry["id"].(string)
		if id == "" {
			continue
		}
		reason, _ := entry["reason"].(string)
		out = append(out, models.FeatureRef{ID: id, Reason: reason})
	}
	return out
}

func (p *PlatformSpecialist) log() *zap.SugaredLogger {
	if p.Log != nil {
		return p.Log
	}
	return zap.NewNop().Sugar()
}
