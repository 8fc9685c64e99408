// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect the effective configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration and API key status",
	RunE:  runConfigShow,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	out, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("rendering config: %w", err)
	}
	os.Stdout.Write(out)

	fmt.Fprintln(os.Stdout)
	fmt.Fprintf(os.Stdout, "text provider: %s (%s)\n", cfg.API.Text.Provider, cfg.API.Text.Model)
	fmt.Fprintf(os.Stdout, "vl provider:   %s (%s)\n", cfg.API.VL.Provider, cfg.API.VL.Model)
	fmt.Fprintf(os.Stdout, "key env var:   %s_API_KEY\n", strings.ToUpper(cfg.API.Text.Provider))
	if cfg.API.APIKey != "" {
		fmt.Fprintln(os.Stdout, "api key:       configured ✓")
	} else {
		fmt.Fprintln(os.Stdout, "api key:       not configured ✗")
	}
	return nil
}
