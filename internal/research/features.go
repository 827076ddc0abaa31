package research

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rh-ai-quickstart/issue-triage/internal/catalog"
	"github.com/rh-ai-quickstart/issue-triage/internal/llm"
)

// FeatureTools returns read-only tools over the platform feature catalog.
// Agents use these to map proposals onto tracked platform capabilities.
func FeatureTools(store *catalog.Store) []llm.Tool {
	return []llm.Tool{
		searchFeaturesTool(store),
		getFeatureTool(store),
		listFeaturesByCategoryTool(store),
		getFeatureCoverageTool(store),
		getAllFeaturesTool(store),
	}
}

func searchFeaturesTool(store *catalog.Store) llm.Tool {
	return llm.Tool{
		Name:        "search_features",
		Description: "Search for platform features matching a query. Use this to find features by name, description, or keywords.",
		Parameters: map[string]any{
			"query": map[string]any{
				"type":        "string",
				"description": "Search query to match against feature names, descriptions, and keywords",
			},
		},
		Required: []string{"query"},
		Func: func(_ context.Context, args json.RawMessage) (string, error) {
			var in struct {
				Query string `json:"query"`
			}
			if err := json.Unmarshal(args, &in); err != nil {
				return "", fmt.Errorf("decoding arguments: %w", err)
			}

			features, err := store.LoadFeatures()
			if err != nil {
				return jsonPayload(map[string]any{"error": err.Error(), "matches": []any{}})
			}

			query := strings.ToLower(in.Query)
			var matches []map[string]any
			for _, f := range features {
				searchable := strings.ToLower(
					f.Name + " " + f.Description + " " + f.Category + " " + strings.Join(f.Keywords, " "),
				)
				if strings.Contains(searchable, query) {
					matches = append(matches, map[string]any{
						"id":          f.ID,
						"name":        f.Name,
						"category":    f.Category,
						"description": f.Description,
					})
				}
			}
			return jsonPayload(map[string]any{
				"query":   in.Query,
				"matches": matches,
				"count":   len(matches),
			})
		},
	}
}

func getFeatureTool(store *catalog.Store) llm.Tool {
	return llm.Tool{
		Name:        "get_feature",
		Description: "Get detailed information about a specific platform feature by its ID.",
		Parameters: map[string]any{
			"feature_id": map[string]any{
				"type":        "string",
				"description": "The feature ID (e.g. 'kserve', 'vllm', 'rag')",
			},
		},
		Required: []string{"feature_id"},
		Func: func(_ context.Context, args json.RawMessage) (string, error) {
			var in struct {
				FeatureID string `json:"feature_id"`
			}
			if err := json.Unmarshal(args, &in); err != nil {
				return "", fmt.Errorf("decoding arguments: %w", err)
			}

			features, err := store.LoadFeatures()
			if err != nil {
				return jsonPayload(map[string]any{"found": false, "error": err.Error()})
			}
			for _, f := range features {
				if f.ID == in.FeatureID {
					return jsonPayload(map[string]any{"found": true, "feature": f})
				}
			}
			return jsonPayload(map[string]any{
				"found": false,
				"error": fmt.Sprintf("feature %q not found", in.FeatureID),
			})
		},
	}
}

func listFeaturesByCategoryTool(store *catalog.Store) llm.Tool {
	return llm.Tool{
		Name:        "list_features_by_category",
		Description: "List all platform features in a specific category (e.g. 'Model Serving', 'ML Pipelines').",
		Parameters: map[string]any{
			"category": map[string]any{
				"type":        "string",
				"description": "Category name to filter by",
			},
		},
		Required: []string{"category"},
		Func: func(_ context.Context, args json.RawMessage) (string, error) {
			var in struct {
				Category string `json:"category"`
			}
			if err := json.Unmarshal(args, &in); err != nil {
				return "", fmt.Errorf("decoding arguments: %w", err)
			}

			features, err := store.LoadFeatures()
			if err != nil {
				return jsonPayload(map[string]any{"error": err.Error(), "features": []any{}})
			}

			category := strings.ToLower(in.Category)
			var matches []map[string]any
			for _, f := range features {
				if strings.ToLower(f.Category) == category {
					matches = append(matches, map[string]any{
						"id":          f.ID,
						"name":        f.Name,
						"description": f.Description,
					})
				}
			}
			// Fall back to a partial match when nothing matched exactly.
			if len(matches) == 0 {
				for _, f := range features {
					if strings.Contains(strings.ToLower(f.Category), category) {
						matches = append(matches, map[string]any{
							"id":          f.ID,
							"name":        f.Name,
							"category":    f.Category,
							"description": f.Description,
						})
					}
				}
			}
			return jsonPayload(map[string]any{
				"category": in.Category,
				"features": matches,
				"count":    len(matches),
			})
		},
	}
}

func getFeatureCoverageTool(store *catalog.Store) llm.Tool {
	return llm.Tool{
		Name:        "get_feature_coverage",
		Description: "Check which quickstarts demonstrate specific features. Omit feature_ids to get the full coverage matrix.",
		Parameters: map[string]any{
			"feature_ids": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"description": "List of feature IDs to check coverage for. Omit to get all coverage.",
			},
		},
		Func: func(_ context.Context, args json.RawMessage) (string, error) {
			var in struct {
				FeatureIDs []string `json:"feature_ids"`
			}
			if len(args) > 0 {
				if err := json.Unmarshal(args, &in); err != nil {
					return "", fmt.Errorf("decoding arguments: %w", err)
				}
			}

			coverage, err := store.LoadCoverage()
			if err != nil {
				return jsonPayload(map[string]any{"error": err.Error()})
			}

			// Invert quickstart -> features into feature -> quickstarts.
			byFeature := map[string][]string{}
			for qs, ids := range coverage {
				for _, id := range ids {
					byFeature[id] = append(byFeature[id], qs)
				}
			}

			if len(in.FeatureIDs) == 0 {
				return jsonPayload(map[string]any{
					"coverage":               byFeature,
					"total_features_tracked": len(byFeature),
				})
			}

			result := map[string]any{}
			for _, id := range in.FeatureIDs {
				qs := byFeature[id]
				if qs == nil {
					qs = []string{}
				}
				result[id] = map[string]any{"quickstarts": qs, "count": len(qs)}
			}
			return jsonPayload(map[string]any{
				"requested": in.FeatureIDs,
				"coverage":  result,
			})
		},
	}
}

func getAllFeaturesTool(store *catalog.Store) llm.Tool {
	return llm.Tool{
		Name:        "get_all_features",
		Description: "Get a complete list of all platform features, organized by category.",
		Parameters:  map[string]any{},
		Func: func(_ context.Context, _ json.RawMessage) (string, error) {
			features, err := store.LoadFeatures()
			if err != nil {
				return jsonPayload(map[string]any{"error": err.Error()})
			}

			byCategory := map[string][]map[string]any{}
			var categories []string
			for _, f := range features {
				category := f.Category
				if category == "" {
					category = "Other"
				}
				if _, ok := byCategory[category]; !ok {
					categories = append(categories, category)
				}
				byCategory[category] = append(byCategory[category], map[string]any{
					"id":          f.ID,
					"name":        f.Name,
					"description": f.Description,
				})
			}
			return jsonPayload(map[string]any{
				"categories":           categories,
				"features_by_category": byCategory,
				"total_features":       len(features),
			})
		},
	}
}
