package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/anthropics/anthropic-sdk-go"
	"go.uber.org/zap"

	"github.com/rh-ai-quickstart/issue-triage/internal/agents"
	"github.com/rh-ai-quickstart/issue-triage/internal/catalog"
	"github.com/rh-ai-quickstart/issue-triage/internal/config"
	"github.com/rh-ai-quickstart/issue-triage/internal/github"
	"github.com/rh-ai-quickstart/issue-triage/internal/llm"
	"github.com/rh-ai-quickstart/issue-triage/internal/research"
	"github.com/rh-ai-quickstart/issue-triage/internal/store"
)

func newLLMClient(cfg *config.Config) (*llm.Client, error) {
	clientCfg := llm.ClientConfig{
		Model:         anthropic.Model(cfg.Anthropic.Model),
		UseAWSBedrock: cfg.Anthropic.UseAWSBedrock,
		AWSRegion:     cfg.Anthropic.AWSRegion,
		AWSProfile:    cfg.Anthropic.AWSProfile,
	}
	if !cfg.Anthropic.UseAWSBedrock {
		key, err := config.GetAPIKey(cfg)
		if err != nil {
			return nil, fmt.Errorf("set ANTHROPIC_API_KEY or configure anthropic.api_key: %w", err)
		}
		clientCfg.APIKey = key
	}
	return llm.NewClient(clientCfg)
}

func newGitHubClient(cfg *config.Config) *github.Client {
	return github.NewClient(github.ClientConfig{
		Org:         cfg.GitHub.Org,
		Repo:        cfg.GitHub.Repo,
		Token:       config.GetGitHubToken(cfg),
		TitlePrefix: cfg.GitHub.TitlePrefix,
		CacheDir:    githubCacheDir(cfg),
		CacheTTL:    cfg.GitHub.CacheTTL,
	})
}

func githubCacheDir(cfg *config.Config) string {
	return filepath.Join(cfg.CacheDir(), "github")
}

func newCatalogStore(cfg *config.Config) *catalog.Store {
	return catalog.NewStore(cfg.Catalog.Dir)
}

// openStore opens the analysis cache. A failure is not fatal: the pipeline
// runs without caching.
func openStore(cfg *config.Config, log *zap.SugaredLogger) *store.Store {
	path := store.DefaultPath(cfg.CacheDir())
	s, err := store.Open(path)
	if err != nil {
		log.Warnw("analysis cache unavailable", "path", path, "error", err)
		return nil
	}
	return s
}

// openResearchTools opens the content index and returns the technical
// analyst's toolset. A missing index means no tools: the analyst falls back
// to context-only analysis.
func openResearchTools(cfg *config.Config, cat *catalog.Store, log *zap.SugaredLogger) ([]llm.Tool, func()) {
	path := cfg.IndexPath()
	if _, err := os.Stat(path); err != nil {
		log.Debugw("research index missing, run 'triage sync' to build it", "path", path)
		return nil, func() {}
	}
	ix, err := research.Open(path)
	if err != nil {
		log.Warnw("research index unavailable", "path", path, "error", err)
		return nil, func() {}
	}
	tools := append(research.Tools(ix), research.FeatureTools(cat)...)
	return tools, func() { ix.Close() }
}

// newBatchRunner assembles the full analysis pipeline from configuration.
func newBatchRunner(cfg *config.Config, client *llm.Client, cat *catalog.Store, db *store.Store, tools []llm.Tool, log *zap.SugaredLogger) *agents.BatchRunner {
	var guard llm.Completer
	if cfg.Analysis.Guardrails {
		guard = client
	}
	graph := &agents.Graph{
		Technical: &agents.TechnicalAnalyst{
			Client:        client,
			Tools:         tools,
			MaxIterations: cfg.Analysis.MaxToolIterations,
			Org:           cfg.GitHub.Org,
			TitlePrefix:   cfg.GitHub.TitlePrefix,
			Log:           log,
		},
		Panel: &agents.PersonaPanel{
			Client:  client,
			Catalog: cat,
			Workers: cfg.Analysis.PersonaWorkers,
			Log:     log,
		},
		Platform: &agents.PlatformSpecialist{
			Client:  client,
			Catalog: cat,
			Log:     log,
		},
		Coordinator: &agents.Coordinator{
			Guard: guard,
			Log:   log,
		},
		Log: log,
	}
	return &agents.BatchRunner{
		Graph: graph,
		Portfolio: &agents.PortfolioAnalyst{
			Client:  client,
			Catalog: cat,
			Log:     log,
		},
		Store:   db,
		Workers: cfg.Analysis.Workers,
		Log:     log,
	}
}
