// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pgmlint/pgmlint/pkg/lintconfig"
	"github.com/pgmlint/pgmlint/pkg/lintlog"
	"github.com/pgmlint/pgmlint/pkg/pipeline"
	"github.com/pgmlint/pgmlint/pkg/report"
)

func lintCmd() *cobra.Command {
	var (
		configPath string
		format     string
		outputDir  string
		strategy   string
	)

	cmd := &cobra.Command{
		Use:   "lint <path>...",
		Short: "Lint a migration history (raw SQL folder or Liquibase changelog); use - to read raw SQL from stdin",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := lintconfig.Load(configPath, cmd.Flags())
			if err != nil {
				return err
			}
			if strategy != "" {
				cfg.Strategy = lintconfig.Strategy(strategy)
			}

			p := pipeline.New(cfg, lintlog.New())
			findings, err := p.Run(args)
			if err != nil {
				return err
			}

			reporter, err := reporterFor(format)
			if err != nil {
				return err
			}
			return reporter.Emit(findings, outputDir)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "path to a pgmlint YAML config file")
	cmd.Flags().StringVar(&format, "format", "text", "report format: text, sonarqube, sarif")
	cmd.Flags().StringVar(&outputDir, "output-dir", "", "directory to write the report to (stdout if empty)")
	cmd.Flags().StringVar(&strategy, "strategy", "", "loader strategy: auto or bridge (overrides config)")
	cmd.Flags().String("liquibase-helper-path", "", "path to the Liquibase changelog helper binary")
	cmd.Flags().Bool("run-in-transaction-default", true, "default run_in_transaction for the raw SQL loader")

	return cmd
}

func reporterFor(format string) (report.Reporter, error) {
	switch format {
	case "text", "":
		return report.TextReporter{}, nil
	case "sonarqube":
		return report.SonarQubeReporter{}, nil
	case "sarif":
		return report.SARIFReporter{}, nil
	default:
		return nil, fmt.Errorf("unknown report format %q", format)
	}
}
