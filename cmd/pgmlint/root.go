// SPDX-License-Identifier: Apache-2.0

package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Version is set at build time via -ldflags.
var Version = "development"

func init() {
	viper.SetEnvPrefix("PGMLINT")
	viper.AutomaticEnv()
}

var rootCmd = &cobra.Command{
	Use:          "pgmlint",
	Short:        "Static analysis for PostgreSQL schema migration histories",
	SilenceUsage: true,
	Version:      Version,
}

// Execute runs the root command.
func Execute() error {
	rootCmd.AddCommand(lintCmd())
	return rootCmd.Execute()
}
