package llm

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// DefaultMaxIterations bounds the tool loop when no explicit budget is set.
const DefaultMaxIterations = 15

// Loop drives a bounded conversation between the model and a fixed toolset.
// Each iteration sends the transcript, executes whatever tool calls come back,
// and appends the results. The loop ends when the model answers in plain text.
// If the iteration budget runs out, one final call is made with tools disabled
// so a textual answer is always produced.
type Loop struct {
	client        Completer
	tools         []Tool
	maxIterations int
	log           *zap.SugaredLogger
}

// LoopConfig configures a tool loop.
type LoopConfig struct {
	Client        Completer
	Tools         []Tool
	MaxIterations int // 0 means DefaultMaxIterations
	Logger        *zap.SugaredLogger
}

// NewLoop creates a tool loop.
func NewLoop(cfg LoopConfig) *Loop {
	maxIter := cfg.MaxIterations
	if maxIter <= 0 {
		maxIter = DefaultMaxIterations
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Loop{
		client:        cfg.Client,
		tools:         cfg.Tools,
		maxIterations: maxIter,
		log:           log,
	}
}

// Run executes the loop and returns the model's final text along with the
// full transcript, user prompt included.
func (l *Loop) Run(ctx context.Context, req Request) (string, []Message, error) {
	messages := make([]Message, len(req.Messages))
	copy(messages, req.Messages)

	for iteration := 0; iteration < l.maxIterations; iteration++ {
		resp, err := l.client.CompleteWithTools(ctx, Request{
			System:      req.System,
			Messages:    messages,
			Temperature: req.Temperature,
			MaxTokens:   req.MaxTokens,
		}, l.tools)
		if err != nil {
			return "", messages, fmt.Errorf("tool loop iteration %d: %w", iteration+1, err)
		}

		if len(resp.ToolCalls) == 0 {
			return resp.Text, messages, nil
		}

		messages = append(messages, Message{
			Role:      "assistant",
			Content:   resp.Text,
			ToolCalls: resp.ToolCalls,
		})

		// Execute every call in this turn. Results are appended in call order
		// so the model can correlate them by ID.
		for _, tc := range resp.ToolCalls {
			result := l.execute(ctx, tc)
			messages = append(messages, result)
		}
	}

	// Budget exhausted. Force one last call without tools so the caller still
	// gets a textual answer.
	l.log.Warnw("tool loop hit iteration budget, forcing final answer",
		"max_iterations", l.maxIterations)

	text, err := l.client.Complete(ctx, Request{
		System:      req.System,
		Messages:    messages,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	})
	if err != nil {
		return "", messages, fmt.Errorf("forced final answer: %w", err)
	}
	return text, messages, nil
}

// execute dispatches one tool call. An unknown tool name or a failing tool
// yields a structured error result for that call only, never a loop abort.
func (l *Loop) execute(ctx context.Context, tc ToolCall) Message {
	tool, ok := l.lookup(tc.Name)
	if !ok {
		l.log.Debugw("model requested unknown tool", "tool", tc.Name)
		return Message{
			Role:       "tool",
			ToolCallID: tc.ID,
			Content:    errorPayload(fmt.Sprintf("unknown tool: %s", tc.Name)),
			IsError:    true,
		}
	}

	content, err := safeInvoke(ctx, tool, tc.Arguments)
	if err != nil {
		l.log.Debugw("tool call failed", "tool", tc.Name, "error", err)
		return Message{
			Role:       "tool",
			ToolCallID: tc.ID,
			Content:    errorPayload(err.Error()),
			IsError:    true,
		}
	}
	return Message{Role: "tool", ToolCallID: tc.ID, Content: content}
}

func (l *Loop) lookup(name string) (Tool, bool) {
	for _, t := range l.tools {
		if t.Name == name {
			return t, true
		}
	}
	return Tool{}, false
}

// safeInvoke runs a tool function, converting panics into errors so one bad
// tool cannot take down the loop.
func safeInvoke(ctx context.Context, tool Tool, args []byte) (content string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("tool %s panicked: %v", tool.Name, r)
		}
	}()
	return tool.Func(ctx, args)
}
