package agents

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rh-ai-quickstart/issue-triage/internal/catalog"
	"github.com/rh-ai-quickstart/issue-triage/internal/github"
	"github.com/rh-ai-quickstart/issue-triage/internal/llm"
)

// stubCompleter satisfies llm.Completer with test-supplied behavior.
type stubCompleter struct {
	complete  func(req llm.Request) (string, error)
	withTools func(req llm.Request, tools []llm.Tool) (*llm.ToolResponse, error)
}

func (s *stubCompleter) Complete(_ context.Context, req llm.Request) (string, error) {
	return s.complete(req)
}

func (s *stubCompleter) CompleteWithTools(_ context.Context, req llm.Request, tools []llm.Tool) (*llm.ToolResponse, error) {
	if s.withTools != nil {
		return s.withTools(req, tools)
	}
	text, err := s.complete(req)
	if err != nil {
		return nil, err
	}
	return &llm.ToolResponse{Text: text}, nil
}

// fixedCompleter always answers with the same text.
func fixedCompleter(text string) *stubCompleter {
	return &stubCompleter{complete: func(llm.Request) (string, error) { return text, nil }}
}

func testIssue(number int, title, body string) github.Issue {
	return github.Issue{Number: number, Title: title, Body: body, User: "contributor"}
}

// writeCatalogDir lays out a catalog data directory for tests. Empty file
// contents are skipped.
func writeCatalogDir(t *testing.T, files map[string]string) *catalog.Store {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		if content == "" {
			continue
		}
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
			t.Fatalf("writing %s: %v", name, err)
		}
	}
	return catalog.NewStore(dir)
}

const testFeaturesYAML = `features:
  - id: vllm
    name: vLLM Serving
    category: Serving
    description: High-throughput model serving
  - id: rag
    name: Retrieval Augmented Generation
    category: Patterns
    description: Retrieval-backed chat
  - id: pipelines
    name: Data Science Pipelines
    category: MLOps
    description: Workflow orchestration
`

const testCoverageYAML = `coverage:
  rag-chatbot:
    - rag
`

const testPersonasYAML = `personas:
  - id: nurse
    name: Hospital Nurse
    system_prompt: You are a hospital nurse evaluating AI demos.
  - id: banker
    name: Retail Banker
    system_prompt: You are a retail banker evaluating AI demos.
  - id: teacher
    name: High School Teacher
    system_prompt: You are a teacher evaluating AI demos.
  - id: lawyer
    name: Corporate Lawyer
    system_prompt: You are a corporate lawyer evaluating AI demos.
  - id: mechanic
    name: Auto Mechanic
    system_prompt: You are an auto mechanic evaluating AI demos.
`

const testCatalogYAML = `quickstarts:
  - id: rag-chatbot
    name: RAG Chatbot
    repo: rag-chatbot
    description: Retrieval-augmented chatbot over your documents
  - id: fraud-detection
    name: Fraud Detection
    repo: fraud-detection
    description: Transaction fraud scoring demo
`
