package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/shyim/pagespeed-api/internal/analysis"
	"github.com/shyim/pagespeed-api/internal/config"
	"github.com/shyim/pagespeed-api/internal/models"
	"github.com/shyim/pagespeed-api/internal/output"
	"github.com/shyim/pagespeed-api/internal/pagespeed"
)

// All linker flags will be set at build time.
var version = "dev"

func newRootCmd() *cobra.Command {
	v := config.New()

	root := &cobra.Command{
		Use:           "pagespeed",
		Short:         "Analyze web page performance with PageSpeed Insights",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().String("pagespeed-api-key", "", "PageSpeed Insights API key (env PAGESPEED_API_KEY)")
	root.PersistentFlags().String("pagespeed-api-url", "", "PageSpeed Insights endpoint (env PAGESPEED_API_URL)")
	root.PersistentFlags().Duration("pagespeed-timeout", config.DefaultTimeout, "Timeout of a single PageSpeed request")
	root.PersistentFlags().Int("pagespeed-max-retries", config.DefaultMaxRetries, "Retries for failed PageSpeed requests")

	if err := v.BindPFlags(root.PersistentFlags()); err != nil {
		fmt.Fprintf(os.Stderr, "failed to bind flags: %v\n", err)
	}

	root.AddCommand(newAnalyzeCmd(v))

	return root
}

func newAnalyzeCmd(v *viper.Viper) *cobra.Command {
	var (
		device   string
		format   string
		strategy string
	)

	cmd := &cobra.Command{
		Use:   "analyze <url>",
		Short: "Run an audit and print metrics and recommendations",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d := models.Device(strings.ToLower(device))
			if !d.Valid() {
				return fmt.Errorf("invalid device '%s'. must be mobile, desktop", device)
			}

			s := analysis.Strategy(strings.ToLower(strategy))
			switch s {
			case "all":
				s = ""
			case analysis.StrategyDetailed, analysis.StrategySimple:
			default:
				return fmt.Errorf("invalid strategy '%s'. must be detailed, simple, all", strategy)
			}

			format = strings.ToLower(format)
			if format != "text" && format != "json" {
				return fmt.Errorf("invalid output format '%s'. must be text, json", format)
			}

			cfg, err := config.FromViper(v)
			if err != nil {
				return err
			}

			client := pagespeed.NewClient(pagespeed.Options{
				Endpoint:   cfg.PageSpeedEndpoint,
				APIKey:     cfg.PageSpeedAPIKey,
				Timeout:    cfg.PageSpeedTimeout,
				MaxRetries: cfg.PageSpeedMaxRetries,
			})

			return runAnalyze(cmd.Context(), analysis.NewAnalyzer(client), args[0], d, format, s, cmd)
		},
	}

	cmd.Flags().StringVarP(&device, "device", "d", string(models.DeviceMobile), "Emulated device: mobile or desktop")
	cmd.Flags().StringVarP(&format, "output", "o", "text", "Output format: text or json")
	cmd.Flags().StringVarP(&strategy, "strategy", "s", "all", "Recommendations to show: detailed, simple or all")

	return cmd
}

func runAnalyze(ctx context.Context, analyzer *analysis.Analyzer, url string, device models.Device, format string, strategy analysis.Strategy, cmd *cobra.Command) error {
	start := time.Now()
	result, _, err := analyzer.Analyze(ctx, url, device)
	if err != nil {
		return fmt.Errorf("failed to analyze %s: %w", url, err)
	}

	out := cmd.OutOrStdout()
	if format == "json" {
		return output.WriteJSON(out, result)
	}

	if err := output.WriteText(out, result, strategy); err != nil {
		return err
	}
	fmt.Fprintf(out, "\nAnalysis completed in %v.\n", time.Since(start).Round(time.Millisecond))
	return nil
}
