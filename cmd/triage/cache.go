package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/rh-ai-quickstart/issue-triage/internal/config"
	"github.com/rh-ai-quickstart/issue-triage/internal/github"
	"github.com/rh-ai-quickstart/issue-triage/internal/store"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage cached analyses and GitHub data",
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete cached analyses, the portfolio analysis, and GitHub data",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		db, err := store.Open(store.DefaultPath(cfg.CacheDir()))
		if err != nil {
			return fmt.Errorf("opening analysis cache: %w", err)
		}
		defer db.Close()
		if err := db.Clear(); err != nil {
			return fmt.Errorf("clearing analysis cache: %w", err)
		}

		ghCache := github.NewCache(githubCacheDir(cfg), cfg.GitHub.CacheTTL)
		if err := ghCache.Clear(); err != nil {
			return fmt.Errorf("clearing GitHub cache: %w", err)
		}

		color.New(color.FgGreen).Println("Caches cleared.")
		return nil
	},
}

var cachePathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the cache directory",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.Load()
		if err != nil {
			cfg = config.Default()
		}
		fmt.Println(cfg.CacheDir())
	},
}

func init() {
	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cachePathCmd)
}
