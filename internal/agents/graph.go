package agents

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/rh-ai-quickstart/issue-triage/pkg/models"
)

// Options toggles the optional specialists for one analysis run.
type Options struct {
	IncludePersonas bool
	IncludePlatform bool
}

// Graph is the per-issue analysis workflow: the technical analyst, persona
// panel, and platform specialist fan out in parallel, then the coordinator
// merges their outputs.
type Graph struct {
	Technical   *TechnicalAnalyst
	Panel       *PersonaPanel
	Platform    *PlatformSpecialist
	Coordinator *Coordinator
	Log         *zap.SugaredLogger
}

// AnalyzeIssue runs the workflow for one issue. Specialist failures degrade
// to conservative defaults with the error recorded in the audit blob; the
// result is always a total FinalAnalysis.
func (g *Graph) AnalyzeIssue(ctx context.Context, in Input, opts Options) models.FinalAnalysis {
	var (
		technical *models.TechnicalAnalysis
		appeal    *models.BroadAppealAnalysis
		platform  *models.PlatformAnalysis

		mu   sync.Mutex
		errs []string
		wg   sync.WaitGroup
	)

	record := func(agentErrs []string) {
		if len(agentErrs) == 0 {
			return
		}
		mu.Lock()
		errs = append(errs, agentErrs...)
		mu.Unlock()
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		t, agentErrs := g.Technical.Analyze(ctx, in)
		technical = &t
		record(agentErrs)
	}()

	if opts.IncludePersonas && g.Panel != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			a, agentErrs := g.Panel.Evaluate(ctx, in)
			appeal = &a
			record(agentErrs)
		}()
	}

	if opts.IncludePlatform && g.Platform != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p, agentErrs := g.Platform.Analyze(ctx, in)
			platform = &p
			record(agentErrs)
		}()
	}

	wg.Wait()

	if len(errs) > 0 {
		g.log().Debugw("analysis completed with agent errors",
			"issue", in.Issue.Number, "errors", errs)
	}

	return g.Coordinator.Merge(ctx, in, technical, appeal, platform, errs)
}

func (g *Graph) log() *zap.SugaredLogger {
	if g.Log != nil {
		return g.Log
	}
	return zap.NewNop().Sugar()
}
