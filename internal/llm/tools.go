package llm

import (
	"context"
	"encoding/json"

	"github.com/anthropics/anthropic-sdk-go"
)

// Tool is a callable function offered to the model during the tool loop.
type Tool struct {
	// Name is the tool name the model calls it by.
	Name string
	// Description tells the model what the tool does and when to use it.
	Description string
	// Parameters is the JSON Schema "properties" object for the arguments.
	Parameters map[string]any
	// Required lists the required argument names.
	Required []string
	// Func executes the tool. It returns a JSON string payload. Errors are
	// caught by the loop and converted to structured error results.
	Func func(ctx context.Context, args json.RawMessage) (string, error)
}

// toolParams converts tools to SDK tool definitions.
func toolParams(tools []Tool) []anthropic.ToolUnionParam {
	out := make([]anthropic.ToolUnionParam, 0, len(tools))
	for _, t := range tools {
		out = append(out, anthropic.ToolUnionParam{
			OfTool: &anthropic.ToolParam{
				Name:        t.Name,
				Description: anthropic.String(t.Description),
				InputSchema: anthropic.ToolInputSchemaParam{
					Properties: t.Parameters,
					Required:   t.Required,
				},
			},
		})
	}
	return out
}

// errorPayload builds the structured error result for a failed tool call.
func errorPayload(msg string) string {
	raw, err := json.Marshal(map[string]string{"error": msg})
	if err != nil {
		return `{"error":"tool failed"}`
	}
	return string(raw)
}
