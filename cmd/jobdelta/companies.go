package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var companiesCmd = &cobra.Command{
	Use:   "companies",
	Short: "List configured job boards",
	Long:  "Reads the config and prints every configured board in polling order.",
	RunE:  runCompanies,
}

func init() {
	rootCmd.AddCommand(companiesCmd)
}

func runCompanies(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true
	cfg, err := loadConfig(cfgPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%-20s %-10s %s\n", "Slug", "Provider", "Status")
	fmt.Fprintln(out, strings.Repeat("─", 40))

	enabled := 0
	for _, c := range cfg.Companies {
		status := "disabled"
		if c.Enabled {
			status = "enabled"
			enabled++
		}
		fmt.Fprintf(out, "%-20s %-10s %s\n", c.Slug, c.Provider, status)
	}

	fmt.Fprintf(out, "\nTotal: %d boards (%d enabled, %d disabled)\n", len(cfg.Companies), enabled, len(cfg.Companies)-enabled)
	return nil
}
