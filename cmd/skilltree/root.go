package main

import (
	"fmt"

	"skilltree/internal/config"
	"skilltree/internal/ui"

	"github.com/spf13/cobra"
)

var version = "0.3.0"

var configPath string

var rootCmd = &cobra.Command{
	Use:   "skilltree",
	Short: "skilltree - merge and view skill trees",
	Long: ui.Brand.Sprint("skilltree") + " - merge skill tree sources and serve an interactive viewer\n" +
		ui.Subtle.Sprint("Sources are YAML, JSON or TOML files selected by glob patterns"),
	Version:       version,
	SilenceUsage:  true,
}

func init() {
	rootCmd.SetVersionTemplate("skilltree {{ .Version }}\n")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (default: search $SKILLTREE_CONFIG, ./skilltree.yaml, ~/.config/skilltree)")

	rootCmd.AddCommand(
		serveCmd(),
		mergeCmd(),
		hashCmd(),
	)
}

// loadConfig loads the config named by --config, or searches for one
func loadConfig() (*config.Config, error) {
	var (
		cfg  *config.Config
		path string
		err  error
	)
	if configPath != "" {
		cfg, path, err = config.LoadFromPath(configPath)
	} else {
		cfg, path, err = config.Load()
	}
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}
