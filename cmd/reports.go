package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os/signal"
	"sort"
	"strings"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/tokenomics-cli/internal/output"
	"github.com/sells-group/tokenomics-cli/internal/report"
)

var (
	linksToken       string
	linksJSON        bool
	fundraisingToken string
	vestingToken     string
	metadataSymbol   string
	reportToken      string
	reportSymbol     string
	reportOutputDir  string
	reportSkipMeta   bool
)

var linksCmd = &cobra.Command{
	Use:   "links",
	Short: "Resolve the token's slug on every provider",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := initEnv(cfg, "links")
		if err != nil {
			return err
		}
		defer env.Close()

		links := env.Aggregator.Links(cmd.Context(), strings.TrimSpace(linksToken))
		return printLinks(cmd.OutOrStdout(), links, linksJSON)
	},
}

var fundraisingCmd = &cobra.Command{
	Use:   "fundraising",
	Short: "Print the combined fundraising report",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := initEnv(cfg, "fundraising")
		if err != nil {
			return err
		}
		defer env.Close()

		_, err = fmt.Fprint(cmd.OutOrStdout(), env.Aggregator.FundraisingReport(cmd.Context(), strings.TrimSpace(fundraisingToken)))
		return err
	},
}

var vestingCmd = &cobra.Command{
	Use:   "vesting",
	Short: "Print the combined vesting report",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := initEnv(cfg, "vesting")
		if err != nil {
			return err
		}
		defer env.Close()

		_, err = fmt.Fprint(cmd.OutOrStdout(), env.Aggregator.VestingReport(cmd.Context(), strings.TrimSpace(vestingToken)))
		return err
	},
}

var metadataCmd = &cobra.Command{
	Use:   "metadata",
	Short: "Print CoinMarketCap metadata for a symbol",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := initEnv(cfg, "metadata")
		if err != nil {
			return err
		}
		defer env.Close()

		info, err := env.CMC.Info(cmd.Context(), metadataSymbol)
		if err != nil {
			return eris.Wrap(err, "metadata")
		}
		_, err = fmt.Fprint(cmd.OutOrStdout(), report.Metadata(info))
		return err
	},
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Write metadata, fundraising and tokenomics reports to the output directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := initEnv(cfg, "report")
		if err != nil {
			return err
		}
		defer env.Close()

		token := strings.TrimSpace(reportToken)
		symbol := reportSymbol
		if symbol == "" {
			symbol = token
		}
		dir := reportOutputDir
		if dir == "" {
			dir = cfg.Report.OutputDir
		}
		w := output.NewWriter(dir, zap.L().Named("output"))

		switch {
		case reportSkipMeta:
		case env.CMC == nil:
			zap.L().Warn("skipping metadata: coinmarketcap.key not set", zap.String("symbol", symbol))
		default:
			info, err := env.CMC.Info(ctx, symbol)
			if err != nil {
				// Best effort: the provider reports are still written.
				zap.L().Warn("metadata lookup failed", zap.String("symbol", symbol), zap.Error(err))
				break
			}
			if _, err := w.Write(output.CategoryMetadata, report.Metadata(info)); err != nil {
				return err
			}
		}

		if _, err := w.Write(output.CategoryFundraising, env.Aggregator.FundraisingReport(ctx, token)); err != nil {
			return err
		}
		if _, err := w.Write(output.CategoryTokenomics, env.Aggregator.VestingReport(ctx, token)); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "reports for %s written to %s\n", token, dir)
		return nil
	},
}

// printLinks writes one "provider: slug" line per provider in name order, or
// the map as indented JSON.
func printLinks(out io.Writer, links map[string]string, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(links)
	}
	names := make([]string, 0, len(links))
	for name := range links {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		slug := links[name]
		if slug == "" {
			slug = "(not found)"
		}
		if _, err := fmt.Fprintf(out, "%s: %s\n", name, slug); err != nil {
			return err
		}
	}
	return nil
}

func init() {
	linksCmd.Flags().StringVar(&linksToken, "token", "", "token ticker, e.g. ARB (required)")
	linksCmd.Flags().BoolVar(&linksJSON, "json", false, "print the slugs as JSON")
	_ = linksCmd.MarkFlagRequired("token")

	fundraisingCmd.Flags().StringVar(&fundraisingToken, "token", "", "token ticker (required)")
	_ = fundraisingCmd.MarkFlagRequired("token")

	vestingCmd.Flags().StringVar(&vestingToken, "token", "", "token ticker (required)")
	_ = vestingCmd.MarkFlagRequired("token")

	metadataCmd.Flags().StringVar(&metadataSymbol, "symbol", "", "coin symbol (required)")
	_ = metadataCmd.MarkFlagRequired("symbol")

	reportCmd.Flags().StringVar(&reportToken, "token", "", "token ticker (required)")
	reportCmd.Flags().StringVar(&reportSymbol, "symbol", "", "CoinMarketCap symbol (default: the token)")
	reportCmd.Flags().StringVar(&reportOutputDir, "out", "", "output directory (default from config)")
	reportCmd.Flags().BoolVar(&reportSkipMeta, "skip-metadata", false, "do not fetch CoinMarketCap metadata")
	_ = reportCmd.MarkFlagRequired("token")

	rootCmd.AddCommand(linksCmd, fundraisingCmd, vestingCmd, metadataCmd, reportCmd)
}
