package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"
)

// fakeCompleter scripts responses for loop tests.
type fakeCompleter struct {
	withTools func(req Request, tools []Tool) (*ToolResponse, error)
	complete  func(req Request) (string, error)

	toolCallsMade int
	completeCalls int
}

func (f *fakeCompleter) Complete(_ context.Context, req Request) (string, error) {
	f.completeCalls++
	if f.complete == nil {
		return "", errors.New("unexpected Complete call")
	}
	return f.complete(req)
}

func (f *fakeCompleter) CompleteWithTools(_ context.Context, req Request, tools []Tool) (*ToolResponse, error) {
	f.toolCallsMade++
	if f.withTools == nil {
		return nil, errors.New("unexpected CompleteWithTools call")
	}
	return f.withTools(req, tools)
}

func echoTool(name string) Tool {
	return Tool{
		Name:        name,
		Description: "echoes its input",
		Parameters:  map[string]any{"text": map[string]any{"type": "string"}},
		Required:    []string{"text"},
		Func: func(_ context.Context, args json.RawMessage) (string, error) {
			return string(args), nil
		},
	}
}

func TestLoopReturnsOnPlainText(t *testing.T) {
	client := &fakeCompleter{
		withTools: func(req Request, _ []Tool) (*ToolResponse, error) {
			return &ToolResponse{Text: "final answer"}, nil
		},
	}
	loop := NewLoop(LoopConfig{Client: client, Tools: []Tool{echoTool("echo")}})

	text, transcript, err := loop.Run(context.Background(), Request{
		Messages: []Message{{Role: "user", Content: "hello"}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "final answer" {
		t.Errorf("text = %q", text)
	}
	if len(transcript) != 1 {
		t.Errorf("transcript length = %d, want 1", len(transcript))
	}
	if client.toolCallsMade != 1 || client.completeCalls != 0 {
		t.Errorf("calls: withTools=%d complete=%d", client.toolCallsMade, client.completeCalls)
	}
}

func TestLoopExecutesToolsAndContinues(t *testing.T) {
	client := &fakeCompleter{}
	client.withTools = func(req Request, _ []Tool) (*ToolResponse, error) {
		if client.toolCallsMade == 1 {
			return &ToolResponse{
				Text: "let me check",
				ToolCalls: []ToolCall{
					{ID: "call_1", Name: "echo", Arguments: json.RawMessage(`{"text":"a"}`)},
					{ID: "call_2", Name: "echo", Arguments: json.RawMessage(`{"text":"b"}`)},
				},
			}, nil
		}
		// Second turn: verify tool results landed in call order.
		last := req.Messages[len(req.Messages)-1]
		secondLast := req.Messages[len(req.Messages)-2]
		if secondLast.ToolCallID != "call_1" || last.ToolCallID != "call_2" {
			return nil, fmt.Errorf("tool results out of order: %q then %q",
				secondLast.ToolCallID, last.ToolCallID)
		}
		return &ToolResponse{Text: "done"}, nil
	}
	loop := NewLoop(LoopConfig{Client: client, Tools: []Tool{echoTool("echo")}})

	text, transcript, err := loop.Run(context.Background(), Request{
		Messages: []Message{{Role: "user", Content: "go"}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "done" {
		t.Errorf("text = %q", text)
	}
	// user + assistant + two tool results
	if len(transcript) != 4 {
		t.Errorf("transcript length = %d, want 4", len(transcript))
	}
}

func TestLoopUnknownToolYieldsErrorResult(t *testing.T) {
	client := &fakeCompleter{}
	client.withTools = func(req Request, _ []Tool) (*ToolResponse, error) {
		if client.toolCallsMade == 1 {
			return &ToolResponse{ToolCalls: []ToolCall{
				{ID: "c1", Name: "missing_tool", Arguments: json.RawMessage(`{}`)},
			}}, nil
		}
		last := req.Messages[len(req.Messages)-1]
		if !last.IsError || !strings.Contains(last.Content, "unknown tool") {
			return nil, fmt.Errorf("expected structured error result, got %+v", last)
		}
		return &ToolResponse{Text: "recovered"}, nil
	}
	loop := NewLoop(LoopConfig{Client: client, Tools: []Tool{echoTool("echo")}})

	text, _, err := loop.Run(context.Background(), Request{
		Messages: []Message{{Role: "user", Content: "go"}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "recovered" {
		t.Errorf("text = %q", text)
	}
}

func TestLoopToolFailureDoesNotAbortSiblings(t *testing.T) {
	failing := Tool{
		Name: "boom",
		Func: func(_ context.Context, _ json.RawMessage) (string, error) {
			return "", errors.New("disk on fire")
		},
	}
	panicking := Tool{
		Name: "panic",
		Func: func(_ context.Context, _ json.RawMessage) (string, error) {
			panic("unreachable state")
		},
	}

	client := &fakeCompleter{}
	client.withTools = func(req Request, _ []Tool) (*ToolResponse, error) {
		if client.toolCallsMade == 1 {
			return &ToolResponse{ToolCalls: []ToolCall{
				{ID: "c1", Name: "boom", Arguments: json.RawMessage(`{}`)},
				{ID: "c2", Name: "panic", Arguments: json.RawMessage(`{}`)},
				{ID: "c3", Name: "echo", Arguments: json.RawMessage(`{"text":"ok"}`)},
			}}, nil
		}
		results := req.Messages[len(req.Messages)-3:]
		if !results[0].IsError || !strings.Contains(results[0].Content, "disk on fire") {
			return nil, fmt.Errorf("first result should carry tool error: %+v", results[0])
		}
		if !results[1].IsError || !strings.Contains(results[1].Content, "panicked") {
			return nil, fmt.Errorf("second result should carry panic error: %+v", results[1])
		}
		if results[2].IsError {
			return nil, fmt.Errorf("third tool should have succeeded: %+v", results[2])
		}
		return &ToolResponse{Text: "all handled"}, nil
	}
	loop := NewLoop(LoopConfig{Client: client, Tools: []Tool{failing, panicking, echoTool("echo")}})

	text, _, err := loop.Run(context.Background(), Request{
		Messages: []Message{{Role: "user", Content: "go"}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "all handled" {
		t.Errorf("text = %q", text)
	}
}

func TestLoopBudgetForcesFinalAnswer(t *testing.T) {
	client := &fakeCompleter{
		// The model asks for another tool call on every turn.
		withTools: func(_ Request, _ []Tool) (*ToolResponse, error) {
			return &ToolResponse{ToolCalls: []ToolCall{
				{ID: "c", Name: "echo", Arguments: json.RawMessage(`{"text":"again"}`)},
			}}, nil
		},
		complete: func(_ Request) (string, error) {
			return "forced answer", nil
		},
	}
	loop := NewLoop(LoopConfig{Client: client, Tools: []Tool{echoTool("echo")}, MaxIterations: 3})

	text, _, err := loop.Run(context.Background(), Request{
		Messages: []Message{{Role: "user", Content: "go"}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "forced answer" {
		t.Errorf("text = %q", text)
	}
	if client.toolCallsMade != 3 {
		t.Errorf("tool-enabled calls = %d, want 3", client.toolCallsMade)
	}
	if client.completeCalls != 1 {
		t.Errorf("forced plain calls = %d, want 1", client.completeCalls)
	}
}

func TestLoopPropagatesModelError(t *testing.T) {
	client := &fakeCompleter{
		withTools: func(_ Request, _ []Tool) (*ToolResponse, error) {
			return nil, errors.New("rate limited")
		},
	}
	loop := NewLoop(LoopConfig{Client: client})

	_, _, err := loop.Run(context.Background(), Request{
		Messages: []Message{{Role: "user", Content: "go"}},
	})
	if err == nil || !strings.Contains(err.Error(), "rate limited") {
		t.Fatalf("expected model error, got %v", err)
	}
}
