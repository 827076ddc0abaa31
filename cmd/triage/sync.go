package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rh-ai-quickstart/issue-triage/internal/catalog"
	"github.com/rh-ai-quickstart/issue-triage/internal/config"
	"github.com/rh-ai-quickstart/issue-triage/internal/research"
)

var syncWatch bool

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Build the research index from local quickstart checkouts",
	Long: `Sync walks the configured quickstarts directory and indexes each
catalog quickstart's README, code, and Helm files so the technical analyst
can search them during analysis.

With --watch, sync stays running and re-indexes when catalog data files
change.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		log := newLogger()
		defer log.Sync()

		if cfg.Research.QuickstartsDir == "" {
			return fmt.Errorf("research.quickstarts_dir is not configured")
		}

		cat := newCatalogStore(cfg)

		indexPath := cfg.IndexPath()
		if err := os.MkdirAll(filepath.Dir(indexPath), 0o755); err != nil {
			return fmt.Errorf("creating index directory: %w", err)
		}
		ix, err := research.Open(indexPath)
		if err != nil {
			return fmt.Errorf("opening research index: %w", err)
		}
		defer ix.Close()

		indexer := research.NewIndexer(ix)
		if err := syncAll(cfg, cat, indexer, log); err != nil {
			return err
		}

		if !syncWatch {
			return nil
		}

		watcher, err := cat.Watch(func(name string) {
			color.New(color.Faint).Printf("%s changed, re-indexing\n", name)
			if err := syncAll(cfg, cat, indexer, log); err != nil {
				log.Warnw("re-index failed", "error", err)
			}
		})
		if err != nil {
			return fmt.Errorf("watching catalog dir: %w", err)
		}
		defer watcher.Close()

		fmt.Println("Watching catalog data files. Press Ctrl+C to stop.")
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		<-sig
		return nil
	},
}

// syncAll indexes every catalog quickstart that has a local checkout.
func syncAll(cfg *config.Config, cat *catalog.Store, indexer *research.Indexer, log *zap.SugaredLogger) error {
	quickstarts, err := cat.Quickstarts()
	if err != nil {
		return fmt.Errorf("loading catalog: %w", err)
	}

	var indexed, skipped int
	for _, qs := range quickstarts {
		dir := filepath.Join(cfg.Research.QuickstartsDir, qs.ID)
		if _, err := os.Stat(dir); err != nil {
			skipped++
			log.Debugw("no local checkout", "quickstart", qs.ID, "dir", dir)
			continue
		}
		n, err := indexer.SyncQuickstart(qs.ID, dir)
		if err != nil {
			log.Warnw("indexing failed", "quickstart", qs.ID, "error", err)
			continue
		}
		indexed++
		fmt.Printf("Indexed %s (%d documents)\n", qs.ID, n)
	}

	if err := cat.TouchSyncTime(time.Now()); err != nil {
		log.Warnw("recording sync time failed", "error", err)
	}

	color.New(color.FgGreen).Printf("Synced %d quickstart(s)", indexed)
	if skipped > 0 {
		color.New(color.Faint).Printf(", %d without local checkouts", skipped)
	}
	fmt.Println()
	return nil
}

func init() {
	syncCmd.Flags().BoolVar(&syncWatch, "watch", false, "Re-index when catalog data files change")
}
