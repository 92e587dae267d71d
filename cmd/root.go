package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/tokenomics-cli/internal/config"
	"github.com/sells-group/tokenomics-cli/internal/extract"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "tokenomics-cli",
	Short: "Fundraising and vesting reports for crypto tokens",
	Long:  "Resolves a token on Dropstab and Cryptorank, renders their pages through a headless browser, extracts funding rounds, investors and vesting data, and writes combined text reports.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		// A broken rules override fails here, before any search or render.
		if err := checkRules(cfg.Extract.RulesFile); err != nil {
			return fmt.Errorf("check extraction rules: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

// checkRules loads the extraction rules and logs where they came from.
func checkRules(path string) error {
	if _, err := extract.LoadRules(path); err != nil {
		return err
	}
	source := path
	if source == "" {
		source = "embedded"
	}
	zap.L().Debug("extraction rules loaded", zap.String("source", source))
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
