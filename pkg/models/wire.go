package models

// Wire-format conversion for persisted analyses. The on-disk representation is
// a plain string-keyed map: enum fields serialize to their canonical uppercase
// token, list and string fields pass through unchanged. This format is the
// cache compatibility contract and must stay stable across versions.

// ToMap converts a FinalAnalysis to its wire map.
func (a FinalAnalysis) ToMap() map[string]any {
	evals := make([]map[string]any, 0, len(a.PersonaEvaluations))
	for _, e := range a.PersonaEvaluations {
		evals = append(evals, map[string]any{
			"name":        e.PersonaName,
			"relevance":   string(e.Relevance),
			"explanation": e.Explanation,
		})
	}

	return map[string]any{
		"overlap_level":           string(a.OverlapLevel),
		"development_stage":       string(a.DevelopmentStage),
		"use_case_overlap":        relationsToMaps(a.UseCaseOverlap),
		"similar_stack":           relationsToMaps(a.SimilarStack),
		"adjacent_gaps":           stringsToAny(a.AdjacentGaps),
		"clarification_needed":    a.ClarificationNeeded,
		"summary":                 a.TechnicalSummary,
		"broad_appeal":            string(a.BroadAppeal),
		"personas_who_understand": stringsToAny(a.PersonasWhoUnderstand),
		"personas_who_dont":       stringsToAny(a.PersonasWhoDont),
		"persona_evaluations":     evals,
		"appeal_summary":          a.AppealSummary,
		"features_identified":     featureRefsToMaps(a.FeaturesIdentified),
		"features_new":            stringsToAny(a.FeaturesNew),
		"features_reused":         stringsToAny(a.FeaturesReused),
		"platform_fit":            string(a.PlatformFit),
		"overall_recommendation":  a.OverallRecommendation,
		"priority_score":          a.PriorityScore,
		"fills_portfolio_gap":     stringsToAny(a.FillsPortfolioGap),
		"raw_analysis":            a.RawAnalysis,
	}
}

// FinalAnalysisFromMap rebuilds a FinalAnalysis from its wire map. Missing or
// malformed fields take their conservative defaults.
func FinalAnalysisFromMap(m map[string]any) FinalAnalysis {
	a := NewFinalAnalysis()
	if m == nil {
		return a
	}

	a.OverlapLevel = ParseOverlapLevel(mapString(m, "overlap_level", string(OverlapUnclear)))
	a.DevelopmentStage = ParseDevelopmentStage(mapString(m, "development_stage", string(StageConceptSummary)))
	a.UseCaseOverlap = relationsFromAny(m["use_case_overlap"])
	a.SimilarStack = relationsFromAny(m["similar_stack"])
	a.AdjacentGaps = stringsFromAny(m["adjacent_gaps"])
	a.ClarificationNeeded = mapString(m, "clarification_needed", "")
	a.TechnicalSummary = mapString(m, "summary", "")

	a.BroadAppeal = ParseBroadAppeal(mapString(m, "broad_appeal", string(AppealTechnicalOnly)))
	a.PersonasWhoUnderstand = stringsFromAny(m["personas_who_understand"])
	a.PersonasWhoDont = stringsFromAny(m["personas_who_dont"])
	a.PersonaEvaluations = evaluationsFromAny(m["persona_evaluations"])
	a.AppealSummary = mapString(m, "appeal_summary", "")

	a.FeaturesIdentified = featureRefsFromAny(m["features_identified"])
	a.FeaturesNew = stringsFromAny(m["features_new"])
	a.FeaturesReused = stringsFromAny(m["features_reused"])
	a.PlatformFit = ParsePlatformFit(mapString(m, "platform_fit", string(FitModerate)))

	a.OverallRecommendation = mapString(m, "overall_recommendation", "")
	a.PriorityScore = mapInt(m, "priority_score", 5)
	a.FillsPortfolioGap = stringsFromAny(m["fills_portfolio_gap"])
	a.RawAnalysis = mapString(m, "raw_analysis", "")

	return a
}

// ToMap converts a PortfolioAnalysis to its wire map.
func (p PortfolioAnalysis) ToMap() map[string]any {
	return map[string]any{
		"underserved_industries":      stringsToAny(p.UnderservedIndustries),
		"missing_use_cases":           stringsToAny(p.MissingUseCases),
		"undemonstrated_capabilities": stringsToAny(p.UndemonstratedCapabilities),
		"expected_adjacencies":        stringsToAny(p.ExpectedAdjacencies),
		"summary":                     p.Summary,
		"notes":                       p.Notes,
	}
}

// PortfolioAnalysisFromMap rebuilds a PortfolioAnalysis from its wire map.
func PortfolioAnalysisFromMap(m map[string]any) PortfolioAnalysis {
	if m == nil {
		return PortfolioAnalysis{}
	}
	return PortfolioAnalysis{
		UnderservedIndustries:      stringsFromAny(m["underserved_industries"]),
		MissingUseCases:            stringsFromAny(m["missing_use_cases"]),
		UndemonstratedCapabilities: stringsFromAny(m["undemonstrated_capabilities"]),
		ExpectedAdjacencies:        stringsFromAny(m["expected_adjacencies"]),
		Summary:                    mapString(m, "summary", ""),
		Notes:                      mapString(m, "notes", ""),
	}
}

func relationsToMaps(rels []Relation) []map[string]any {
	out := make([]map[string]any, 0, len(rels))
	for _, r := range rels {
		out = append(out, map[string]any{"name": r.Name, "reason": r.Reason})
	}
	return out
}

func featureRefsToMaps(refs []FeatureRef) []map[string]any {
	out := make([]map[string]any, 0, len(refs))
	for _, r := range refs {
		out = append(out, map[string]any{"id": r.ID, "reason": r.Reason})
	}
	return out
}

// stringsToAny copies a string slice so the wire map never aliases the source.
func stringsToAny(ss []string) []string {
	out := make([]string, len(ss))
	copy(out, ss)
	return out
}

func mapString(m map[string]any, key, def string) string {
	if v, ok := m[key].(string); ok {
		return v
	}
	return def
}

func mapInt(m map[string]any, key string, def int) int {
	switch v := m[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		// JSON numbers decode as float64.
		return int(v)
	default:
		return def
	}
}

// stringsFromAny accepts either []string or []any (the shape produced by
// JSON decoding) and returns a string slice.
func stringsFromAny(v any) []string {
	switch vs := v.(type) {
	case []string:
		out := make([]string, len(vs))
		copy(out, vs)
		return out
	case []any:
		var out []string
		for _, e := range vs {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

func relationsFromAny(v any) []Relation {
	var out []Relation
	for _, m := range mapsFromAny(v) {
		name, _ := m["name"].(string)
		reason, _ := m["reason"].(string)
		if name != "" || reason != "" {
			out = append(out, Relation{Name: name, Reason: reason})
		}
	}
	return out
}

func featureRefsFromAny(v any) []FeatureRef {
	var out []FeatureRef
	for _, m := range mapsFromAny(v) {
		id, _ := m["id"].(string)
		reason, _ := m["reason"].(string)
		if id != "" {
			out = append(out, FeatureRef{ID: id, Reason: reason})
		}
	}
	return out
}

func evaluationsFromAny(v any) []PersonaEvaluation {
	var out []PersonaEvaluation
	for _, m := range mapsFromAny(v) {
		name, _ := m["name"].(string)
		expl, _ := m["explanation"].(string)
		out = append(out, PersonaEvaluation{
			PersonaName: name,
			Relevance:   ParseRelevance(mapString(m, "relevance", string(RelevanceNone))),
			Explanation: expl,
		})
	}
	return out
}

func mapsFromAny(v any) []map[string]any {
	switch vs := v.(type) {
	case []map[string]any:
		return vs
	case []any:
		var out []map[string]any
		for _, e := range vs {
			if m, ok := e.(map[string]any); ok {
				out = append(out, m)
			}
		}
		return out
	default:
		return nil
	}
}
