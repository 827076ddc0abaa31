package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/rh-ai-quickstart/issue-triage/pkg/models"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "analyses.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleAnalysis() models.FinalAnalysis {
	fa := models.NewFinalAnalysis()
	fa.OverlapLevel = models.OverlapUnique
	fa.DevelopmentStage = models.StageHasCode
	fa.TechnicalSummary = "A fraud detection quickstart with working code."
	fa.PriorityScore = 8
	fa.FeaturesIdentified = []models.FeatureRef{{ID: "kserve", Reason: "model serving"}}
	fa.FeaturesNew = []string{"kserve"}
	return fa
}

func TestAnalysisRoundTrip(t *testing.T) {
	s := openTestStore(t)

	if err := s.PutAnalysis(42, "[Quickstart suggestion]: Fraud detection", sampleAnalysis()); err != nil {
		t.Fatalf("PutAnalysis: %v", err)
	}

	got, err := s.GetAnalysis(42, time.Hour)
	if err != nil {
		t.Fatalf("GetAnalysis: %v", err)
	}
	if got == nil {
		t.Fatal("expected cached analysis")
	}
	if got.IssueTitle != "[Quickstart suggestion]: Fraud detection" {
		t.Errorf("title = %q", got.IssueTitle)
	}
	if got.Analysis.OverlapLevel != models.OverlapUnique {
		t.Errorf("overlap = %v", got.Analysis.OverlapLevel)
	}
	if got.Analysis.PriorityScore != 8 {
		t.Errorf("score = %d", got.Analysis.PriorityScore)
	}
	if len(got.Analysis.FeaturesNew) != 1 || got.Analysis.FeaturesNew[0] != "kserve" {
		t.Errorf("features new = %+v", got.Analysis.FeaturesNew)
	}
	if len(got.Analysis.FeaturesIdentified) != 1 || got.Analysis.FeaturesIdentified[0].Reason != "model serving" {
		t.Errorf("features identified = %+v", got.Analysis.FeaturesIdentified)
	}
}

func TestGetAnalysisMissing(t *testing.T) {
	s := openTestStore(t)

	got, err := s.GetAnalysis(99, time.Hour)
	if err != nil {
		t.Fatalf("GetAnalysis: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil, got %+v", got)
	}
}

func TestPutAnalysisReplaces(t *testing.T) {
	s := openTestStore(t)

	first := sampleAnalysis()
	if err := s.PutAnalysis(7, "v1", first); err != nil {
		t.Fatal(err)
	}

	second := sampleAnalysis()
	second.PriorityScore = 3
	if err := s.PutAnalysis(7, "v2", second); err != nil {
		t.Fatal(err)
	}

	got, err := s.GetAnalysis(7, 0)
	if err != nil || got == nil {
		t.Fatalf("GetAnalysis: %+v, %v", got, err)
	}
	if got.IssueTitle != "v2" || got.Analysis.PriorityScore != 3 {
		t.Errorf("got %q score %d", got.IssueTitle, got.Analysis.PriorityScore)
	}

	all, err := s.AllAnalyses()
	if err != nil {
		t.Fatalf("AllAnalyses: %v", err)
	}
	if len(all) != 1 {
		t.Errorf("got %d analyses", len(all))
	}
}

func TestGetAnalysisTTL(t *testing.T) {
	s := openTestStore(t)

	if err := s.PutAnalysis(1, "t", sampleAnalysis()); err != nil {
		t.Fatal(err)
	}

	// A nanosecond TTL is already expired by read time.
	got, err := s.GetAnalysis(1, time.Nanosecond)
	if err != nil {
		t.Fatalf("GetAnalysis: %v", err)
	}
	if got != nil {
		t.Error("expired entry should read as missing")
	}

	// Zero TTL disables expiry.
	got, err = s.GetAnalysis(1, 0)
	if err != nil || got == nil {
		t.Errorf("zero TTL read: %+v, %v", got, err)
	}
}

func TestPortfolioRoundTrip(t *testing.T) {
	s := openTestStore(t)

	got, err := s.GetPortfolio(time.Hour)
	if err != nil {
		t.Fatalf("GetPortfolio empty: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil portfolio, got %+v", got)
	}

	p := models.PortfolioAnalysis{
		UnderservedIndustries:      []string{"healthcare", "finance"},
		UndemonstratedCapabilities: []string{"agentic workflows"},
		Summary:                    "Catalog skews toward serving demos.",
	}
	if err := s.PutPortfolio(p); err != nil {
		t.Fatalf("PutPortfolio: %v", err)
	}

	got, err = s.GetPortfolio(time.Hour)
	if err != nil {
		t.Fatalf("GetPortfolio: %v", err)
	}
	if got == nil {
		t.Fatal("expected portfolio")
	}
	if len(got.UnderservedIndustries) != 2 || got.UnderservedIndustries[0] != "healthcare" {
		t.Errorf("industries = %v", got.UnderservedIndustries)
	}

	// Replacement keeps the singleton row.
	p2 := models.PortfolioAnalysis{UnderservedIndustries: []string{"energy"}}
	if err := s.PutPortfolio(p2); err != nil {
		t.Fatalf("PutPortfolio replace: %v", err)
	}
	got, _ = s.GetPortfolio(0)
	if got == nil || len(got.UnderservedIndustries) != 1 {
		t.Errorf("replaced portfolio = %+v", got)
	}
}

func TestClear(t *testing.T) {
	s := openTestStore(t)

	s.PutAnalysis(1, "a", sampleAnalysis())
	s.PutPortfolio(models.PortfolioAnalysis{})

	if err := s.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}

	if got, _ := s.GetAnalysis(1, 0); got != nil {
		t.Error("analysis survived clear")
	}
	if got, _ := s.GetPortfolio(0); got != nil {
		t.Error("portfolio survived clear")
	}
}
