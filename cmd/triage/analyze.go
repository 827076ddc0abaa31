package main

import (
	"fmt"
	"strconv"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/rh-ai-quickstart/issue-triage/internal/agents"
	"github.com/rh-ai-quickstart/issue-triage/internal/config"
	"github.com/rh-ai-quickstart/issue-triage/internal/github"
	"github.com/rh-ai-quickstart/issue-triage/internal/report"
)

var (
	analyzeForce      bool
	analyzeNoPersonas bool
	analyzeNoPlatform bool
	analyzeComment    bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <issue-number>",
	Short: "Analyze a single quickstart suggestion issue",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		number, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid issue number %q", args[0])
		}

		cfg, err := config.Load()
		if err != nil {
			return err
		}
		log := newLogger()
		defer log.Sync()

		client, err := newLLMClient(cfg)
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		gh := newGitHubClient(cfg)
		issue, err := gh.GetIssue(ctx, number)
		if err != nil {
			return fmt.Errorf("fetching issue #%d: %w", number, err)
		}

		cat := newCatalogStore(cfg)
		quickstarts, err := cat.Quickstarts()
		if err != nil {
			log.Warnw("catalog unavailable", "error", err)
		}
		repos, err := gh.FetchOrgRepos(ctx, analyzeForce)
		if err != nil {
			log.Warnw("org repository listing unavailable", "error", err)
		}

		db := openStore(cfg, log)
		if db != nil {
			defer db.Close()
		}
		tools, closeTools := openResearchTools(cfg, cat, log)
		defer closeTools()

		runner := newBatchRunner(cfg, client, cat, db, tools, log)

		color.New(color.Bold).Printf("Analyzing issue #%d: %s\n\n", issue.Number, issue.Title)

		_, results, err := runner.Run(ctx, []github.Issue{*issue}, quickstarts, repos, agents.BatchOptions{
			IncludePersonas: cfg.Analysis.Personas && !analyzeNoPersonas,
			IncludePlatform: cfg.Analysis.Platform && !analyzeNoPlatform,
			SkipPortfolio:   !cfg.Analysis.Portfolio,
			ForceReanalyze:  analyzeForce,
			CacheTTL:        cfg.Cache.TTL,
		})
		if err != nil {
			return err
		}

		result := results[0]
		if result.FromCache {
			color.New(color.Faint).Println("(cached result, use --force to reanalyze)")
			fmt.Println()
		}

		if analyzeComment {
			fmt.Println(report.Comment(result.Analysis))
			return nil
		}
		fmt.Println(report.Preview(result.Analysis, true))

		in, out := client.Tracker().Total()
		log.Debugw("token usage", "input", in, "output", out, "calls", client.Tracker().Calls())
		return nil
	},
}

func init() {
	analyzeCmd.Flags().BoolVar(&analyzeForce, "force", false, "Bypass cached results")
	analyzeCmd.Flags().BoolVar(&analyzeNoPersonas, "no-personas", false, "Skip the persona panel")
	analyzeCmd.Flags().BoolVar(&analyzeNoPlatform, "no-platform", false, "Skip the platform specialist")
	analyzeCmd.Flags().BoolVar(&analyzeComment, "comment", false, "Print a GitHub comment body instead of the terminal preview")
}
