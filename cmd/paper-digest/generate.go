// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/paper-digest/internal/summary"
)

var generateCmd = &cobra.Command{
	Use:   "generate [paper-id]",
	Short: "Generate a summary for one arXiv paper",
	Long: `Generate collects metadata, the papers.cool Kimi digest, local comments
and optionally the PDF for a single arXiv identifier, then produces a
structured Chinese summary and saves it under the summaries directory.
An existing summary for the same paper is overwritten.`,
	Args: cobra.ExactArgs(1),
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().Bool("download", true, "download the paper PDF")
	generateCmd.Flags().Bool("no-download", false, "skip the PDF download")
	generateCmd.Flags().BoolP("force", "f", false, "re-download the PDF even if it exists")
	generateCmd.Flags().Bool("no-pdf-llm", false, "skip the PDF digest step before prompting")
	generateCmd.Flags().StringP("api-key", "k", "", "API key override for this run")
	generateCmd.Flags().StringArray("comment", nil, "extra comment appended to the prompt (repeatable)")

	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	paperID := args[0]

	download, _ := cmd.Flags().GetBool("download")
	if noDownload, _ := cmd.Flags().GetBool("no-download"); noDownload {
		download = false
	}
	force, _ := cmd.Flags().GetBool("force")
	noPDFLLM, _ := cmd.Flags().GetBool("no-pdf-llm")
	comments, _ := cmd.Flags().GetStringArray("comment")
	if key, _ := cmd.Flags().GetString("api-key"); key != "" {
		cfg.API.APIKey = key
	}

	p, err := newPipeline(&cfg, os.Stdout)
	if err != nil {
		return err
	}
	defer p.Close()

	text, path, err := p.Generator.Generate(cmd.Context(), paperID, summary.Options{
		Download:     download,
		Force:        force,
		UsePDFLLM:    cfg.Summary.PDFEnhanceEnabled && !noPDFLLM,
		TempComments: comments,
	})
	if err != nil {
		printNetworkHint(err)
		return err
	}

	rule := strings.Repeat("=", 60)
	fmt.Fprintln(os.Stdout, rule)
	fmt.Fprintln(os.Stdout, text)
	fmt.Fprintln(os.Stdout, rule)
	fmt.Fprintf(os.Stdout, "Saved: %s\n", path)
	return nil
}

// printNetworkHint adds a remediation line when the failure looks like
// a connectivity problem rather than a bad input.
func printNetworkHint(err error) {
	msg := strings.ToLower(err.Error())
	for _, marker := range []string{"connection", "timeout", "502", "ssl", "no such host"} {
		if strings.Contains(msg, marker) {
			fmt.Fprintln(os.Stderr, "Hint: network access to arxiv.org or papers.cool appears to be failing.")
			fmt.Fprintln(os.Stderr, "Check connectivity, or enable flex_mode in paper-digest.yaml to allow direct API fallback.")
			return
		}
	}
}
