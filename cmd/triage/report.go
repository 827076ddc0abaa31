package main

import (
	"context"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/rh-ai-quickstart/issue-triage/internal/agents"
	"github.com/rh-ai-quickstart/issue-triage/internal/catalog"
	"github.com/rh-ai-quickstart/issue-triage/internal/config"
	"github.com/rh-ai-quickstart/issue-triage/internal/github"
	"github.com/rh-ai-quickstart/issue-triage/internal/report"
	"github.com/rh-ai-quickstart/issue-triage/internal/tui"
	"github.com/rh-ai-quickstart/issue-triage/pkg/models"
)

var (
	reportForce      bool
	reportPlain      bool
	reportNoPersonas bool
	reportNoPlatform bool
	reportOutput     string
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Analyze all open suggestion issues and render a report",
	RunE: func(cmd *cobra.Command, args []string) error {
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
		issues, err := gh.FetchIssues(ctx, reportForce)
		if err != nil {
			return fmt.Errorf("fetching issues: %w", err)
		}
		if len(issues) == 0 {
			fmt.Printf("No open issues with the %q prefix found in %s/%s.\n",
				cfg.GitHub.TitlePrefix, cfg.GitHub.Org, cfg.GitHub.Repo)
			return nil
		}

		cat := newCatalogStore(cfg)
		quickstarts, err := cat.Quickstarts()
		if err != nil {
			log.Warnw("catalog unavailable", "error", err)
		}
		repos, err := gh.FetchOrgRepos(ctx, reportForce)
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
		opts := agents.BatchOptions{
			IncludePersonas: cfg.Analysis.Personas && !reportNoPersonas,
			IncludePlatform: cfg.Analysis.Platform && !reportNoPlatform,
			SkipPortfolio:   !cfg.Analysis.Portfolio,
			ForceReanalyze:  reportForce,
			CacheTTL:        cfg.Cache.TTL,
		}

		var portfolio *models.PortfolioAnalysis
		var results []agents.IssueResult
		if reportPlain {
			portfolio, results, err = runBatchPlain(ctx, runner, issues, quickstarts, repos, opts)
		} else {
			portfolio, results, err = runBatchTUI(ctx, runner, issues, quickstarts, repos, opts)
		}
		if err != nil {
			return err
		}

		features, _ := cat.LoadFeatures()
		demonstrated, _ := cat.DemonstratedFeatures()

		rep := report.Report{
			GeneratedAt:  time.Now(),
			Portfolio:    portfolio,
			Features:     features,
			Demonstrated: demonstrated,
			Issues:       toEntries(results),
		}

		out := os.Stdout
		if reportOutput != "" {
			f, err := os.Create(reportOutput)
			if err != nil {
				return fmt.Errorf("creating report file: %w", err)
			}
			defer f.Close()
			out = f
		}
		if err := report.WriteMarkdown(out, rep); err != nil {
			return err
		}
		if reportOutput != "" {
			color.New(color.FgGreen).Printf("Report written to %s\n", reportOutput)
		}
		return nil
	},
}

func toEntries(results []agents.IssueResult) []report.IssueEntry {
	entries := make([]report.IssueEntry, len(results))
	for i, r := range results {
		analysis := r.Analysis
		entries[i] = report.IssueEntry{
			Number:     r.IssueNumber,
			Title:      r.IssueTitle,
			Analysis:   &analysis,
			AnalyzedAt: r.AnalyzedAt,
		}
	}
	return entries
}

// runBatchPlain runs the batch with line-per-issue progress output.
func runBatchPlain(
	ctx context.Context,
	runner *agents.BatchRunner,
	issues []github.Issue,
	quickstarts []catalog.Quickstart,
	repos []github.Repo,
	opts agents.BatchOptions,
) (*models.PortfolioAnalysis, []agents.IssueResult, error) {
	dim := color.New(color.Faint)
	opts.OnIssueStart = func(number int, title string) {
		fmt.Printf("Analyzing #%d: %s\n", number, title)
	}
	opts.OnIssueCached = func(number int, title string) {
		dim.Printf("Cached    #%d: %s\n", number, title)
	}
	return runner.Run(ctx, issues, quickstarts, repos, opts)
}

// runBatchTUI runs the batch behind a live progress display.
func runBatchTUI(
	ctx context.Context,
	runner *agents.BatchRunner,
	issues []github.Issue,
	quickstarts []catalog.Quickstart,
	repos []github.Repo,
	opts agents.BatchOptions,
) (*models.PortfolioAnalysis, []agents.IssueResult, error) {
	prog := tea.NewProgram(tui.NewProgress(len(issues)))

	opts.OnIssueStart = func(number int, title string) {
		prog.Send(tui.StageMsg{Stage: "Analyzing issues"})
		prog.Send(tui.IssueStartedMsg{Number: number, Title: title})
	}
	opts.OnIssueComplete = func(number int, title string) {
		prog.Send(tui.IssueFinishedMsg{Number: number, Title: title})
	}
	opts.OnIssueCached = func(number int, title string) {
		prog.Send(tui.IssueFinishedMsg{Number: number, Title: title, Cached: true})
	}

	var portfolio *models.PortfolioAnalysis
	var results []agents.IssueResult
	var runErr error
	go func() {
		if !opts.SkipPortfolio {
			prog.Send(tui.StageMsg{Stage: "Analyzing portfolio"})
		}
		portfolio, results, runErr = runner.Run(ctx, issues, quickstarts, repos, opts)
		prog.Send(tui.DoneMsg{Err: runErr})
	}()

	if _, err := prog.Run(); err != nil {
		return nil, nil, fmt.Errorf("progress display: %w", err)
	}
	return portfolio, results, runErr
}

func init() {
	reportCmd.Flags().BoolVar(&reportForce, "force", false, "Bypass cached analyses and GitHub cache")
	reportCmd.Flags().BoolVar(&reportPlain, "plain", false, "Disable the live progress display")
	reportCmd.Flags().BoolVar(&reportNoPersonas, "no-personas", false, "Skip the persona panel")
	reportCmd.Flags().BoolVar(&reportNoPlatform, "no-platform", false, "Skip the platform specialist")
	reportCmd.Flags().StringVarP(&reportOutput, "output", "o", "", "Write the markdown report to a file")
}
