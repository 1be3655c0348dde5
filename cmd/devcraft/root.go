package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/devcraft/internal/config"
	"github.com/aretw0/devcraft/internal/logging"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "devcraft",
	Short: "DevCraft marketing site and contact form service",
	Long: `devcraft serves the DevCraft site with its contact form workflow, and offers
tools to render pages, inspect content and read the delivered messages.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().StringP("config", "c", "", "YAML configuration file")
	rootCmd.PersistentFlags().String("log-level", "", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "", "Log format (text, json)")
}

// loadConfig resolves defaults, the --config file, DEVCRAFT_* variables and
// the logging flags, in that order of precedence.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	v := config.New()
	flags := map[string]string{
		"log.level":  "log-level",
		"log.format": "log-format",
	}
	for key, name := range flags {
		if f := cmd.Flags().Lookup(name); f != nil && f.Changed {
			if err := v.BindPFlag(key, f); err != nil {
				return nil, err
			}
		}
	}
	path, _ := cmd.Flags().GetString("config")
	return config.Read(v, path)
}

func newLogger(cfg *config.Config) *slog.Logger {
	return logging.New(cfg.Log.Level, cfg.Log.Format)
}
