// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pdiddy/paper-digest/internal/export"
)

var slidesCmd = &cobra.Command{
	Use:   "slides [paper-id]",
	Short: "Export a saved summary as an HTML slide deck",
	Long: `Slides reads the saved summary for an arXiv identifier and renders it
as a standalone HTML deck under the slides directory. Each top-level
heading in the summary becomes one slide. Run generate first.`,
	Args: cobra.ExactArgs(1),
	RunE: runSlides,
}

func init() {
	slidesCmd.Flags().String("input", "", "summary file override (default: summaries_dir/{id}_summary.md)")
	slidesCmd.Flags().String("output-dir", "", "slides directory override")

	rootCmd.AddCommand(slidesCmd)
}

func runSlides(cmd *cobra.Command, args []string) error {
	paperID := args[0]

	summaryPath, _ := cmd.Flags().GetString("input")
	if summaryPath == "" {
		summaryPath = filepath.Join(cfg.Paths.SummariesDir, paperID+"_summary.md")
	}
	if dir, _ := cmd.Flags().GetString("output-dir"); dir != "" {
		cfg.Paths.SlidesDir = dir
	}
	content, err := os.ReadFile(summaryPath)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("no saved summary for %s: run generate first", paperID)
		}
		return fmt.Errorf("reading summary: %w", err)
	}

	// Title and authors are decoration on the first slide; a metadata
	// failure falls back to the bare identifier.
	title, authors := paperID, ""
	fetcher, _, manager := newFetchers(&cfg)
	if manager != nil {
		defer manager.Close()
	}
	if paper, ferr := fetcher.Fetch(cmd.Context(), paperID); ferr == nil && paper.Title != "" {
		title = paper.Title
		authors = paper.AuthorList()
	}

	path, err := export.Export(string(content), paperID, title, authors, cfg.Paths.SlidesDir)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "Slides saved to: %s\n", path)
	return nil
}
