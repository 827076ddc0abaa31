package agents

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/rh-ai-quickstart/issue-triage/internal/catalog"
	"github.com/rh-ai-quickstart/issue-triage/internal/github"
	"github.com/rh-ai-quickstart/issue-triage/internal/store"
	"github.com/rh-ai-quickstart/issue-triage/pkg/models"
)

// DefaultMaxWorkers bounds concurrent issue analyses. Each issue fans out
// to up to three parallel model calls internally, so 6 concurrent issues
// means roughly 18 simultaneous API requests.
const DefaultMaxWorkers = 6

// IssueResult is the analysis outcome for a single issue in a batch.
type IssueResult struct {
	IssueNumber int
	IssueTitle  string
	Analysis    models.FinalAnalysis
	AnalyzedAt  time.Time
	FromCache   bool
}

// BatchOptions configures a batch run.
type BatchOptions struct {
	IncludePersonas bool
	IncludePlatform bool
	// ForceReanalyze bypasses cached analyses and the cached portfolio.
	ForceReanalyze bool
	// SkipPortfolio skips the portfolio analyst; gap scoring is then off.
	SkipPortfolio bool
	// CacheTTL bounds how old a cached analysis may be. 0 means no expiry.
	CacheTTL time.Duration

	// Progress callbacks, all optional.
	OnIssueStart    func(number int, title string)
	OnIssueComplete func(number int, title string)
	OnIssueCached   func(number int, title string)
}

// BatchRunner analyzes a set of issues: the portfolio analyst runs once,
// then issues are analyzed concurrently with its gap descriptor threaded in.
type BatchRunner struct {
	Graph     *Graph
	Portfolio *PortfolioAnalyst
	// Store caches analyses between runs. Nil disables caching.
	Store *store.Store
	// Workers bounds concurrent issue analyses. 0 means DefaultMaxWorkers.
	Workers int
	Log     *zap.SugaredLogger
}

// Run executes the batch. Results come back in input order regardless of
// completion order. Individual issue failures yield placeholder analyses,
// never a batch abort.
func (r *BatchRunner) Run(
	ctx context.Context,
	issues []github.Issue,
	quickstarts []catalog.Quickstart,
	repos []github.Repo,
	opts BatchOptions,
) (*models.PortfolioAnalysis, []IssueResult, error) {
	runID := uuid.NewString()
	r.log().Debugw("starting batch analysis", "run", runID, "issues", len(issues))

	var portfolio *models.PortfolioAnalysis
	var gaps models.PortfolioGaps

	if !opts.SkipPortfolio && r.Portfolio != nil {
		portfolio = r.runPortfolio(ctx, opts)
		if portfolio != nil {
			gaps = portfolio.Gaps()
		}
	}

	workers := r.Workers
	if workers <= 0 {
		workers = DefaultMaxWorkers
	}

	results := make([]IssueResult, len(issues))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, issue := range issues {
		g.Go(func() error {
			results[i] = r.analyzeOne(gctx, Input{
				Issue:         issue,
				Quickstarts:   quickstarts,
				OrgRepos:      repos,
				PortfolioGaps: gaps,
			}, opts)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return portfolio, results, err
	}

	r.log().Debugw("batch analysis complete", "run", runID)
	return portfolio, results, nil
}

// runPortfolio returns the cached portfolio analysis when fresh, otherwise
// runs the analyst and caches the result. Failure degrades to nil.
func (r *BatchRunner) runPortfolio(ctx context.Context, opts BatchOptions) *models.PortfolioAnalysis {
	if r.Store != nil && !opts.ForceReanalyze {
		cached, err := r.Store.GetPortfolio(opts.CacheTTL)
		if err != nil {
			r.log().Warnw("portfolio cache read failed", "error", err)
		} else if cached != nil {
			r.log().Debugw("using cached portfolio analysis")
			return cached
		}
	}

	analysis, errs := r.Portfolio.Analyze(ctx)
	if len(errs) > 0 {
		r.log().Warnw("portfolio analysis degraded", "errors", errs)
	}

	if r.Store != nil {
		if err := r.Store.PutPortfolio(analysis); err != nil {
			r.log().Warnw("portfolio cache write failed", "error", err)
		}
	}
	return &analysis
}

// analyzeOne handles one issue: cache check, analysis, cache write. A panic
// in the graph is contained here so one bad issue cannot sink the batch.
func (r *BatchRunner) analyzeOne(ctx context.Context, in Input, opts BatchOptions) (result IssueResult) {
	number := in.Issue.Number
	title := in.Issue.Title

	defer func() {
		if rec := recover(); rec != nil {
			r.log().Errorw("issue analysis panicked", "issue", number, "panic", rec)
			result = IssueResult{
				IssueNumber: number,
				IssueTitle:  title,
				Analysis:    models.NewFinalAnalysis(),
			}
		}
	}()

	if r.Store != nil && !opts.ForceReanalyze {
		cached, err := r.Store.GetAnalysis(number, opts.CacheTTL)
		if err != nil {
			r.log().Warnw("analysis cache read failed", "issue", number, "error", err)
		} else if cached != nil {
			r.log().Debugw("using cached analysis", "issue", number)
			if opts.OnIssueCached != nil {
				opts.OnIssueCached(number, title)
			}
			return IssueResult{
				IssueNumber: number,
				IssueTitle:  title,
				Analysis:    cached.Analysis,
				AnalyzedAt:  cached.AnalyzedAt,
				FromCache:   true,
			}
		}
	}

	if opts.OnIssueStart != nil {
		opts.OnIssueStart(number, title)
	}

	analysis := r.Graph.AnalyzeIssue(ctx, in, Options{
		IncludePersonas: opts.IncludePersonas,
		IncludePlatform: opts.IncludePlatform,
	})

	if r.Store != nil {
		if err := r.Store.PutAnalysis(number, title, analysis); err != nil {
			r.log().Warnw("analysis cache write failed", "issue", number, "error", err)
		}
	}

	if opts.OnIssueComplete != nil {
		opts.OnIssueComplete(number, title)
	}

	return IssueResult{
		IssueNumber: number,
		IssueTitle:  title,
		Analysis:    analysis,
		AnalyzedAt:  time.Now(),
	}
}

func (r *BatchRunner) log() *zap.SugaredLogger {
	if r.Log != nil {
		return r.Log
	}
	return zap.NewNop().Sugar()
}
