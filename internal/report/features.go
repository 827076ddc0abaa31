// Package report renders analysis results: a terminal preview for single
// issues, a markdown batch report, and a GitHub comment body.
package report

// featureDisplayNames maps catalog feature IDs to reader-facing names.
var featureDisplayNames = map[string]string{
	// Model Serving
	"kserve":         "KServe",
	"modelmesh":      "ModelMesh",
	"vllm":           "vLLM",
	"tgis":           "TGIS",
	"caikit":         "Caikit",
	"openvino":       "OpenVINO",
	"nvidia_nim":     "NVIDIA NIM",
	"custom_runtime": "Custom Runtime",
	"cpu_inference":  "CPU Inference",
	// Model Training
	"training":    "Model Training",
	"fine_tuning": "Fine-tuning",
	"instructlab": "InstructLab",
	// ML Pipelines
	"pipelines":     "Data Science Pipelines",
	"feature_store": "Feature Store (Feast)",
	// Model Management
	"model_registry": "Model Registry",
	"lm_eval":        "LM-Eval",
	// Governance & Trust
	"guardrails": "Guardrails",
	"trustyai":   "TrustyAI",
	// Observability
	"opentelemetry": "OpenTelemetry",
	"prometheus":    "Prometheus",
	// Data & Storage
	"vector_db":      "Vector DB",
	"object_storage": "Object Storage",
	// Agent Frameworks
	"llamastack": "LlamaStack",
	"langgraph":  "LangGraph",
	"mcp":        "MCP",
	// RAG Components
	"rag":        "RAG",
	"embeddings": "Embeddings",
	// Development Environment
	"workbench":   "Workbench",
	"ds_projects": "DS Projects",
	// Infrastructure
	"distributed_workloads": "Distributed Workloads",
	"accelerator_profiles":  "GPU / Accelerators",
}

// FeatureDisplayName returns the reader-facing name for a feature ID, or the
// ID itself when no mapping exists.
func FeatureDisplayName(id string) string {
	if name, ok := featureDisplayNames[id]; ok {
		return name
	}
	return id
}

func featureLabels(ids []string, limit int) []string {
	if len(ids) > limit {
		ids = ids[:limit]
	}
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = FeatureDisplayName(id)
	}
	return out
}
