package agents

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/rh-ai-quickstart/issue-triage/internal/llm"
	"github.com/rh-ai-quickstart/issue-triage/pkg/models"
)

func TestBuildTechnicalAnalysisConsistency(t *testing.T) {
	t.Run("overlap list downgrades unique", func(t *testing.T) {
		got := buildTechnicalAnalysis(map[string]any{
			"overlap_level":     "UNIQUE",
			"development_stage": "HAS_CODE",
			"use_case_overlap": []any{
				map[string]any{"name": "rag-chatbot", "reason": "same retrieval use case"},
			},
			"summary": "A proposal.",
		}, "")
		if got.OverlapLevel != models.OverlapPossible {
			t.Errorf("OverlapLevel = %s, want POSSIBLE_OVERLAP", got.OverlapLevel)
		}
	})

	t.Run("clarification synthesized when missing", func(t *testing.T) {
		got := buildTechnicalAnalysis(map[string]any{
			"overlap_level":     "UNCLEAR",
			"development_stage": "CONCEPT_SUMMARY",
			"summary":           "Vague idea.",
		}, "")
		if !strings.Contains(got.ClarificationNeeded, "Use Case Details (to assess overlap):") {
			t.Error("expected use case clarification section")
		}
		if !strings.Contains(got.ClarificationNeeded, "Technical Details (to elevate to DETAILED_PLAN):") {
			t.Error("expected technical clarification section")
		}
	})

	t.Run("no technical section when stage mature", func(t *testing.T) {
		got := buildTechnicalAnalysis(map[string]any{
			"overlap_level":     "UNCLEAR",
			"development_stage": "HAS_CODE",
		}, "")
		if strings.Contains(got.ClarificationNeeded, "Technical Details") {
			t.Error("mature stage must not get a technical details section")
		}
		if !strings.Contains(got.ClarificationNeeded, "Use Case Details") {
			t.Error("unclear overlap still needs a use case section")
		}
	})

	t.Run("mature and clear skips clarification", func(t *testing.T) {
		got := buildTechnicalAnalysis(map[string]any{
			"overlap_level":     "UNIQUE",
			"development_stage": "DETAILED_PLAN",
			"summary":           "Ready to build.",
		}, "")
		if got.ClarificationNeeded != "" {
			t.Errorf("ClarificationNeeded = %q, want empty", got.ClarificationNeeded)
		}
	})

	t.Run("model clarification preserved", func(t *testing.T) {
		got := buildTechnicalAnalysis(map[string]any{
			"overlap_level":        "UNCLEAR",
			"development_stage":    "CONCEPT_SUMMARY",
			"clarification_needed": "Custom request from the model.",
		}, "")
		if got.ClarificationNeeded != "Custom request from the model." {
			t.Errorf("ClarificationNeeded = %q", got.ClarificationNeeded)
		}
	})

	t.Run("fallback note prefixes summary", func(t *testing.T) {
		got := buildTechnicalAnalysis(map[string]any{
			"overlap_level":     "UNIQUE",
			"development_stage": "HAS_CODE",
			"summary":           "A proposal.",
		}, "Fallback: tools unavailable")
		if !strings.HasPrefix(got.Summary, "(Fallback: tools unavailable) ") {
			t.Errorf("Summary = %q", got.Summary)
		}
	})

	t.Run("spoken enum variants parse", func(t *testing.T) {
		got := buildTechnicalAnalysis(map[string]any{
			"overlap_level":     "possible overlap",
			"development_stage": "detailed plan",
		}, "")
		if got.OverlapLevel != models.OverlapPossible {
			t.Errorf("OverlapLevel = %s", got.OverlapLevel)
		}
		if got.DevelopmentStage != models.StageDetailedPlan {
			t.Errorf("DevelopmentStage = %s", got.DevelopmentStage)
		}
	})
}

func TestTechnicalAnalystToolPath(t *testing.T) {
	var sawTools bool
	client := &stubCompleter{
		withTools: func(req llm.Request, tools []llm.Tool) (*llm.ToolResponse, error) {
			sawTools = len(tools) > 0
			return &llm.ToolResponse{Text: `{
				"overlap_level": "UNIQUE",
				"development_stage": "HAS_CODE",
				"use_case_overlap": [],
				"similar_stack": [],
				"adjacent_gaps": ["healthcare"],
				"clarification_needed": "",
				"summary": "A clinical triage demo."
			}`}, nil
		},
	}

	analyst := &TechnicalAnalyst{
		Client: client,
		Tools: []llm.Tool{{
			Name: "search_content",
			Func: func(context.Context, json.RawMessage) (string, error) { return "{}", nil },
		}},
		Org: "rh-ai-quickstart",
	}

	in := Input{Issue: testIssue(12, "[Quickstart suggestion]: Clinical triage", "A detailed body.")}
	got, errs := analyst.Analyze(context.Background(), in)

	if !sawTools {
		t.Error("expected tools to be offered to the model")
	}
	if len(errs) != 0 {
		t.Errorf("unexpected errors: %v", errs)
	}
	if got.OverlapLevel != models.OverlapUnique || got.DevelopmentStage != models.StageHasCode {
		t.Errorf("got %s/%s", got.OverlapLevel, got.DevelopmentStage)
	}
	if len(got.AdjacentGaps) != 1 || got.AdjacentGaps[0] != "healthcare" {
		t.Errorf("AdjacentGaps = %v", got.AdjacentGaps)
	}
}

func TestTechnicalAnalystUnparseableResponse(t *testing.T) {
	client := &stubCompleter{
		withTools: func(req llm.Request, tools []llm.Tool) (*llm.ToolResponse, error) {
			return &llm.ToolResponse{Text: "I cannot answer in the requested format."}, nil
		},
	}

	analyst := &TechnicalAnalyst{
		Client: client,
		Tools: []llm.Tool{{
			Name: "search_content",
			Func: func(context.Context, json.RawMessage) (string, error) { return "{}", nil },
		}},
	}

	got, errs := analyst.Analyze(context.Background(), Input{Issue: testIssue(3, "Title", "Body")})

	if len(errs) != 0 {
		t.Errorf("unexpected errors: %v", errs)
	}
	if got.OverlapLevel != models.OverlapUnclear || got.DevelopmentStage != models.StageConceptSummary {
		t.Errorf("got %s/%s, want conservative defaults", got.OverlapLevel, got.DevelopmentStage)
	}
	// The clarification request is synthesized from the ratings, not a
	// canned parse-error string.
	if !strings.Contains(got.ClarificationNeeded, "Use Case Details") {
		t.Errorf("ClarificationNeeded = %q", got.ClarificationNeeded)
	}
	if strings.Contains(got.ClarificationNeeded, "Unable to parse") {
		t.Errorf("ClarificationNeeded carries a parse-error placeholder: %q", got.ClarificationNeeded)
	}
}

func TestTechnicalAnalystFallsBack(t *testing.T) {
	client := &stubCompleter{
		withTools: func(req llm.Request, tools []llm.Tool) (*llm.ToolResponse, error) {
			return nil, errors.New("tool calling unsupported")
		},
		complete: func(req llm.Request) (string, error) {
			if !strings.Contains(req.System, "Red Hat AI Quickstarts program") {
				t.Error("fallback should use the direct-prompt system template")
			}
			return `{"overlap_level": "UNIQUE", "development_stage": "HAS_CODE", "summary": "A demo."}`, nil
		},
	}

	analyst := &TechnicalAnalyst{
		Client: client,
		Tools: []llm.Tool{{
			Name: "search_content",
			Func: func(context.Context, json.RawMessage) (string, error) { return "{}", nil },
		}},
	}

	in := Input{Issue: testIssue(3, "Title", "Body")}
	got, errs := analyst.Analyze(context.Background(), in)

	if len(errs) != 0 {
		t.Errorf("fallback success should not report errors, got %v", errs)
	}
	if !strings.HasPrefix(got.Summary, "(Fallback:") {
		t.Errorf("Summary = %q, want fallback prefix", got.Summary)
	}
}

func TestTechnicalAnalystTotalFailure(t *testing.T) {
	client := &stubCompleter{
		withTools: func(req llm.Request, tools []llm.Tool) (*llm.ToolResponse, error) {
			return nil, errors.New("rate limited")
		},
		complete: func(req llm.Request) (string, error) {
			return "", errors.New("still rate limited")
		},
	}

	analyst := &TechnicalAnalyst{
		Client: client,
		Tools: []llm.Tool{{
			Name: "search_content",
			Func: func(context.Context, json.RawMessage) (string, error) { return "{}", nil },
		}},
	}

	got, errs := analyst.Analyze(context.Background(), Input{Issue: testIssue(9, "Title", "Body")})

	if !strings.HasPrefix(got.Summary, "Analysis failed:") {
		t.Errorf("Summary = %q", got.Summary)
	}
	if got.OverlapLevel != models.OverlapUnclear {
		t.Errorf("OverlapLevel = %s, want conservative default", got.OverlapLevel)
	}
	if len(errs) != 2 {
		t.Fatalf("errs = %v, want tool-loop and fallback errors", errs)
	}
	if !strings.Contains(errs[0], "rate limited") || !strings.Contains(errs[1], "still rate limited") {
		t.Errorf("errs = %v", errs)
	}
}

func TestTruncateBody(t *testing.T) {
	long := strings.Repeat("x", 50)
	got := truncateBody(long, 10)
	if !strings.HasSuffix(got, "[... truncated for length ...]") {
		t.Errorf("missing truncation marker: %q", got)
	}
	if got[:10] != long[:10] {
		t.Error("prefix not preserved")
	}
	if truncateBody("short", 10) != "short" {
		t.Error("short bodies must pass through")
	}
}

func TestStripTitlePrefix(t *testing.T) {
	got := StripTitlePrefix("[Quickstart suggestion]:  Fraud demo", DefaultTitlePrefix)
	if got != "Fraud demo" {
		t.Errorf("StripTitlePrefix() = %q", got)
	}
	if StripTitlePrefix("Plain title", DefaultTitlePrefix) != "Plain title" {
		t.Error("unprefixed titles must pass through")
	}
}
