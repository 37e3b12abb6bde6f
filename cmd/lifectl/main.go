// Package main provides lifectl, an operator CLI for the events backend.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/EPFL-Life/life-sub001/internal/config"
	"github.com/EPFL-Life/life-sub001/internal/logger"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:           "lifectl",
	Short:         "Operate the EPFL Life events backend",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		loaded, err := config.LoadConfig()
		if err != nil {
			return err
		}

		cfg = loaded
		slog.SetDefault(logger.Setup(cfg.LogLevel, cfg.LogFormat))

		return nil
	},
}

func init() {
	rootCmd.AddCommand(seedCmd, eventsCmd, geocodeCmd, tokenCmd)
	eventsCmd.AddCommand(eventsListCmd)
	eventsListCmd.Flags().String("tag", "", "only list events carrying this tag")
	tokenCmd.Flags().Bool("admin", false, "grant the admin role to the user before issuing the token")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
