package models

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestParseOverlapLevel(t *testing.T) {
	cases := []struct {
		in   string
		want OverlapLevel
	}{
		{"UNIQUE", OverlapUnique},
		{"possible overlap", OverlapPossible},
		{"POSSIBLE_OVERLAP", OverlapPossible},
		{"Unclear", OverlapUnclear},
		{"banana", OverlapUnclear},
		{"", OverlapUnclear},
	}
	for _, c := range cases {
		if got := ParseOverlapLevel(c.in); got != c.want {
			t.Errorf("ParseOverlapLevel(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestParseDevelopmentStageFallback(t *testing.T) {
	if got := ParseDevelopmentStage("has code"); got != StageHasCode {
		t.Errorf("expected HAS_CODE, got %q", got)
	}
	if got := ParseDevelopmentStage("something else"); got != StageConceptSummary {
		t.Errorf("expected fallback CONCEPT_SUMMARY, got %q", got)
	}
}

func TestParsePlatformFitFallback(t *testing.T) {
	if got := ParsePlatformFit(""); got != FitModerate {
		t.Errorf("expected fallback MODERATE, got %q", got)
	}
	if got := ParsePlatformFit("excellent"); got != FitExcellent {
		t.Errorf("expected EXCELLENT, got %q", got)
	}
}

func TestFinalAnalysisDefaults(t *testing.T) {
	a := NewFinalAnalysis()
	if a.OverlapLevel != OverlapUnclear {
		t.Errorf("default overlap = %q", a.OverlapLevel)
	}
	if a.DevelopmentStage != StageConceptSummary {
		t.Errorf("default stage = %q", a.DevelopmentStage)
	}
	if a.BroadAppeal != AppealTechnicalOnly {
		t.Errorf("default appeal = %q", a.BroadAppeal)
	}
	if a.PlatformFit != FitModerate {
		t.Errorf("default fit = %q", a.PlatformFit)
	}
}

func TestFinalAnalysisRoundTrip(t *testing.T) {
	a := NewFinalAnalysis()
	a.OverlapLevel = OverlapPossible
	a.DevelopmentStage = StageDetailedPlan
	a.UseCaseOverlap = []Relation{{Name: "doc-chat", Reason: "same document Q&A flow"}}
	a.SimilarStack = []Relation{{Name: "rag-starter", Reason: "both use RAG"}}
	a.AdjacentGaps = []string{"multilingual support"}
	a.ClarificationNeeded = "Target audience detail would clarify scope"
	a.TechnicalSummary = "A document chat assistant"
	a.BroadAppeal = AppealUniversal
	a.PersonasWhoUnderstand = []string{"Nurse", "Analyst"}
	a.PersonasWhoDont = []string{"Chef"}
	a.PersonaEvaluations = []PersonaEvaluation{
		{PersonaName: "Nurse", Relevance: RelevanceHigh, Explanation: "patient records"},
		{PersonaName: "Chef", Relevance: RelevanceNone, Explanation: "no fit"},
	}
	a.AppealSummary = "Broad professional appeal."
	a.FeaturesIdentified = []FeatureRef{{ID: "vllm", Reason: "model serving"}}
	a.FeaturesNew = []string{"vllm"}
	a.FeaturesReused = []string{"pipelines"}
	a.PlatformFit = FitGood
	a.OverallRecommendation = "Review recommended."
	a.PriorityScore = 7
	a.FillsPortfolioGap = []string{"Industry: Healthcare"}
	a.RawAnalysis = `{"k":"v"}`

	// Round-trip through JSON, matching how the store persists the map.
	raw, err := json.Marshal(a.ToMap())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	got := FinalAnalysisFromMap(m)
	// PersonaID is not part of the wire format.
	want := a
	if !reflect.DeepEqual(got, want) {
		t.Errorf("round-trip mismatch:\n got: %+v\nwant: %+v", got, want)
	}
}

func TestFinalAnalysisFromMapEmpty(t *testing.T) {
	got := FinalAnalysisFromMap(nil)
	if got.OverlapLevel != OverlapUnclear || got.PlatformFit != FitModerate {
		t.Errorf("nil map should produce defaults, got %+v", got)
	}
	got = FinalAnalysisFromMap(map[string]any{"priority_score": float64(3)})
	if got.PriorityScore != 3 {
		t.Errorf("priority_score from float64 = %d, want 3", got.PriorityScore)
	}
}

func TestPortfolioAnalysisRoundTrip(t *testing.T) {
	p := PortfolioAnalysis{
		UnderservedIndustries:      []string{"Healthcare: no clinical demos"},
		MissingUseCases:            []string{"Fraud detection: often requested"},
		UndemonstratedCapabilities: []string{"Speech: no audio quickstart"},
		ExpectedAdjacencies:        []string{"Given doc-chat, customers expect OCR intake"},
		Summary:                    "Several verticals have no coverage.",
		Notes:                      "Catalog skews toward chat applications.",
	}

	raw, err := json.Marshal(p.ToMap())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	got := PortfolioAnalysisFromMap(m)
	if !reflect.DeepEqual(got, p) {
		t.Errorf("round-trip mismatch:\n got: %+v\nwant: %+v", got, p)
	}
}

func TestPortfolioGaps(t *testing.T) {
	p := PortfolioAnalysis{UnderservedIndustries: []string{"Legal"}}
	g := p.Gaps()
	if g.Empty() {
		t.Error("gaps should not be empty")
	}
	if len(g.Industries) != 1 || g.Industries[0] != "Legal" {
		t.Errorf("unexpected gaps: %+v", g)
	}
	if !(PortfolioGaps{}).Empty() {
		t.Error("zero gaps should be empty")
	}
}
