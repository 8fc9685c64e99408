// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/paper-digest/internal/summary"
)

var batchCmd = &cobra.Command{
	Use:   "batch [ids-file]",
	Short: "Generate summaries for every identifier in a file",
	Long: `Batch reads arXiv identifiers from a file (one per line; blank lines
and lines starting with # are skipped) and generates a summary for each.
A failed paper is reported and the run continues with the next one.`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	batchCmd.Flags().Bool("download", true, "download each paper's PDF")
	batchCmd.Flags().Bool("no-download", false, "skip PDF downloads")
	batchCmd.Flags().Bool("no-pdf-llm", false, "skip the PDF digest step before prompting")
	batchCmd.Flags().String("output", "", "summaries directory override")
	batchCmd.Flags().StringP("api-key", "k", "", "API key override for this run")

	rootCmd.AddCommand(batchCmd)
}

// readIDFile returns the identifiers listed in path, in file order.
func readIDFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var ids []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		ids = append(ids, line)
	}
	return ids, scanner.Err()
}

func runBatch(cmd *cobra.Command, args []string) error {
	ids, err := readIDFile(args[0])
	if err != nil {
		return fmt.Errorf("reading identifier file: %w", err)
	}
	if len(ids) == 0 {
		return fmt.Errorf("no identifiers found in %s", args[0])
	}

	download, _ := cmd.Flags().GetBool("download")
	if noDownload, _ := cmd.Flags().GetBool("no-download"); noDownload {
		download = false
	}
	noPDFLLM, _ := cmd.Flags().GetBool("no-pdf-llm")
	if out, _ := cmd.Flags().GetString("output"); out != "" {
		cfg.Paths.SummariesDir = out
	}
	if key, _ := cmd.Flags().GetString("api-key"); key != "" {
		cfg.API.APIKey = key
	}

	p, err := newPipeline(&cfg, os.Stdout)
	if err != nil {
		return err
	}
	defer p.Close()

	opts := summary.Options{
		Download:  download,
		UsePDFLLM: cfg.Summary.PDFEnhanceEnabled && !noPDFLLM,
	}

	failed := 0
	for i, id := range ids {
		fmt.Fprintf(os.Stdout, "[%d/%d] %s\n", i+1, len(ids), id)
		if _, _, err := p.Generator.Generate(cmd.Context(), id, opts); err != nil {
			failed++
			fmt.Fprintf(os.Stderr, "  failed: %v\n", err)
		}
	}

	fmt.Fprintf(os.Stdout, "Batch complete: %d succeeded, %d failed\n", len(ids)-failed, failed)
	if failed > 0 {
		return fmt.Errorf("%d paper(s) failed", failed)
	}
	return nil
}
