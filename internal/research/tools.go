package research

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rh-ai-quickstart/issue-triage/internal/llm"
)

// Tool payloads mirror what the agents expect to read back: always valid
// JSON, with misses reported in-band rather than as call failures.

func jsonPayload(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("encoding tool result: %w", err)
	}
	return string(data), nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// Tools returns the research tool set backed by the content index.
func Tools(ix *Index) []llm.Tool {
	return []llm.Tool{
		searchContentTool(ix),
		readmeTool(ix),
		codeTool(ix),
		helmTool(ix),
		similarTool(ix),
	}
}

func searchContentTool(ix *Index) llm.Tool {
	return llm.Tool{
		Name:        "search_content",
		Description: "Search indexed quickstart content by keyword. Use this to find relevant code, documentation, and examples from existing quickstarts.",
		Parameters: map[string]any{
			"query": map[string]any{
				"type":        "string",
				"description": "Search query describing what you're looking for",
			},
			"limit": map[string]any{
				"type":        "integer",
				"description": "Maximum number of results (default: 5, max: 10)",
			},
			"quickstart_ids": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"description": "Optional list of quickstart IDs to search within",
			},
		},
		Required: []string{"query"},
		Func: func(_ context.Context, args json.RawMessage) (string, error) {
			var in struct {
				Query         string   `json:"query"`
				Limit         int      `json:"limit"`
				QuickstartIDs []string `json:"quickstart_ids"`
			}
			if err := json.Unmarshal(args, &in); err != nil {
				return "", fmt.Errorf("decoding arguments: %w", err)
			}
			if in.Limit <= 0 || in.Limit > 10 {
				in.Limit = 5
			}

			docs, err := ix.Search(in.Query, SearchOptions{
				Limit:         in.Limit,
				QuickstartIDs: in.QuickstartIDs,
			})
			if err != nil {
				return jsonPayload(map[string]any{"error": err.Error(), "results": []any{}})
			}

			results := make([]map[string]any, 0, len(docs))
			for _, d := range docs {
				results = append(results, map[string]any{
					"quickstart": d.QuickstartID,
					"file":       d.FilePath,
					"heading":    d.Heading,
					"content":    truncate(d.Content, 500),
					"score":      d.Score,
				})
			}
			return jsonPayload(map[string]any{
				"results": results,
				"count":   len(results),
				"query":   in.Query,
			})
		},
	}
}

func readmeTool(ix *Index) llm.Tool {
	return llm.Tool{
		Name:        "get_quickstart_readme",
		Description: "Get the full README documentation for a specific quickstart. Use this to understand what a quickstart does and how it works.",
		Parameters: map[string]any{
			"quickstart_id": map[string]any{
				"type":        "string",
				"description": "ID of the quickstart to retrieve README for",
			},
		},
		Required: []string{"quickstart_id"},
		Func: func(_ context.Context, args json.RawMessage) (string, error) {
			var in struct {
				QuickstartID string `json:"quickstart_id"`
			}
			if err := json.Unmarshal(args, &in); err != nil {
				return "", fmt.Errorf("decoding arguments: %w", err)
			}

			chunks, err := ix.ReadmeChunks(in.QuickstartID)
			if err != nil {
				return jsonPayload(map[string]any{"found": false, "error": err.Error()})
			}
			if len(chunks) == 0 {
				return jsonPayload(map[string]any{
					"found": false,
					"error": fmt.Sprintf("no README found for quickstart %q", in.QuickstartID),
				})
			}

			parts := make([]string, len(chunks))
			for i, c := range chunks {
				parts[i] = c.Content
			}
			return jsonPayload(map[string]any{
				"found":         true,
				"quickstart_id": in.QuickstartID,
				"content":       strings.Join(parts, "\n\n"),
				"chunks":        len(chunks),
			})
		},
	}
}

func codeTool(ix *Index) llm.Tool {
	return llm.Tool{
		Name:        "get_quickstart_code",
		Description: "Get code files from a quickstart, optionally filtered by a file pattern.",
		Parameters: map[string]any{
			"quickstart_id": map[string]any{
				"type":        "string",
				"description": "ID of the quickstart",
			},
			"file_pattern": map[string]any{
				"type":        "string",
				"description": "Optional pattern to filter files (e.g. '.py', 'model')",
			},
		},
		Required: []string{"quickstart_id"},
		Func: func(_ context.Context, args json.RawMessage) (string, error) {
			var in struct {
				QuickstartID string `json:"quickstart_id"`
				FilePattern  string `json:"file_pattern"`
			}
			if err := json.Unmarshal(args, &in); err != nil {
				return "", fmt.Errorf("decoding arguments: %w", err)
			}

			query := "code implementation function class"
			if in.FilePattern != "" {
				query = "code implementation " + in.FilePattern
			}
			docs, err := ix.Search(query, SearchOptions{
				Limit:         10,
				QuickstartIDs: []string{in.QuickstartID},
				ContentTypes:  []string{TypeCode, TypeNotebook},
			})
			if err != nil {
				return jsonPayload(map[string]any{"found": false, "error": err.Error()})
			}
			if in.FilePattern != "" {
				docs = filterByPath(docs, in.FilePattern)
			}
			if len(docs) == 0 {
				return jsonPayload(map[string]any{
					"found": false,
					"error": fmt.Sprintf("no code files found for quickstart %q", in.QuickstartID),
				})
			}

			files := make([]map[string]any, 0, len(docs))
			for _, d := range docs {
				files = append(files, map[string]any{
					"file":    d.FilePath,
					"content": d.Content,
				})
			}
			return jsonPayload(map[string]any{
				"found":         true,
				"quickstart_id": in.QuickstartID,
				"code_files":    files,
				"count":         len(files),
			})
		},
	}
}

func helmTool(ix *Index) llm.Tool {
	return llm.Tool{
		Name:        "get_quickstart_helm",
		Description: "Get Helm chart values and configuration for a quickstart. Use this to understand deployment configuration.",
		Parameters: map[string]any{
			"quickstart_id": map[string]any{
				"type":        "string",
				"description": "ID of the quickstart",
			},
		},
		Required: []string{"quickstart_id"},
		Func: func(_ context.Context, args json.RawMessage) (string, error) {
			var in struct {
				QuickstartID string `json:"quickstart_id"`
			}
			if err := json.Unmarshal(args, &in); err != nil {
				return "", fmt.Errorf("decoding arguments: %w", err)
			}

			docs, err := ix.Search("helm values configuration deployment", SearchOptions{
				Limit:         10,
				QuickstartIDs: []string{in.QuickstartID},
				ContentTypes:  []string{TypeHelmValues, TypeHelmChart},
			})
			if err != nil {
				return jsonPayload(map[string]any{"found": false, "error": err.Error()})
			}
			if len(docs) == 0 {
				return jsonPayload(map[string]any{
					"found": false,
					"error": fmt.Sprintf("no Helm charts found for quickstart %q", in.QuickstartID),
				})
			}

			files := make([]map[string]any, 0, len(docs))
			for _, d := range docs {
				files = append(files, map[string]any{
					"file":    d.FilePath,
					"content": d.Content,
				})
			}
			return jsonPayload(map[string]any{
				"found":         true,
				"quickstart_id": in.QuickstartID,
				"helm_files":    files,
				"count":         len(files),
			})
		},
	}
}

func similarTool(ix *Index) llm.Tool {
	return llm.Tool{
		Name:        "find_similar_quickstarts",
		Description: "Find published quickstarts similar to a description. Use this to check whether a proposal overlaps with existing quickstarts.",
		Parameters: map[string]any{
			"description": map[string]any{
				"type":        "string",
				"description": "Description of the proposed quickstart",
			},
			"limit": map[string]any{
				"type":        "integer",
				"description": "Maximum number of quickstarts to return (default: 5)",
			},
		},
		Required: []string{"description"},
		Func: func(_ context.Context, args json.RawMessage) (string, error) {
			var in struct {
				Description string `json:"description"`
				Limit       int    `json:"limit"`
			}
			if err := json.Unmarshal(args, &in); err != nil {
				return "", fmt.Errorf("decoding arguments: %w", err)
			}
			if in.Limit <= 0 {
				in.Limit = 5
			}

			// Over-fetch README chunks, then keep the best chunk per
			// quickstart.
			docs, err := ix.Search(in.Description, SearchOptions{
				Limit:        in.Limit * 3,
				ContentTypes: []string{TypeReadme},
			})
			if err != nil {
				return jsonPayload(map[string]any{"error": err.Error(), "results": []any{}})
			}

			best := map[string]Document{}
			var order []string
			for _, d := range docs {
				prev, seen := best[d.QuickstartID]
				if !seen {
					order = append(order, d.QuickstartID)
				}
				if !seen || d.Score > prev.Score {
					best[d.QuickstartID] = d
				}
			}

			results := make([]map[string]any, 0, len(order))
			for _, id := range order {
				if len(results) == in.Limit {
					break
				}
				d := best[id]
				results = append(results, map[string]any{
					"quickstart_id": d.QuickstartID,
					"score":         d.Score,
					"summary":       truncate(d.Content, 300),
				})
			}
			return jsonPayload(map[string]any{
				"results":     results,
				"count":       len(results),
				"description": truncate(in.Description, 200),
			})
		},
	}
}

func filterByPath(docs []Document, pattern string) []Document {
	pattern = strings.ToLower(pattern)
	var kept []Document
	for _, d := range docs {
		if strings.Contains(strings.ToLower(d.FilePath), pattern) {
			kept = append(kept, d)
		}
	}
	if len(kept) == 0 {
		return docs
	}
	return kept
}
