package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Vicking28/daily-ai-news/internal/pipeline"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	flagConfig string
	flagDryRun bool
	flagTo     []string
	flagDebug  bool
)

var rootCmd = &cobra.Command{
	Use:   "daily-ai-news",
	Short: "Daily AI news podcast generator",
	Long: `daily-ai-news aggregates AI news from RSS feeds, curates the top stories
with an LLM, turns them into a spoken podcast episode, and emails the
audio and script to the configured recipients.

Running without a subcommand triggers one pipeline run immediately.`,
	RunE: runOnce,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "path to config file")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "enable debug logging")
	rootCmd.Flags().BoolVar(&flagDryRun, "dry-run", false, "generate the script but skip TTS and delivery")
	rootCmd.Flags().StringSliceVar(&flagTo, "to", nil, "override recipients (first is To, rest are BCC)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("daily-ai-news %s (commit: %s, built: %s)\n", version, commit, date)
	},
}

func runOnce(cmd *cobra.Command, args []string) error {
	log, err := newLogger(flagDebug)
	if err != nil {
		return err
	}
	defer log.Sync()

	p, err := buildPipeline(flagConfig, log, flagDryRun)
	if err != nil {
		return err
	}

	res, err := p.Run(cmd.Context(), pipeline.RunOptions{
		DryRun:     flagDryRun,
		Recipients: flagTo,
	})
	if err != nil {
		return err
	}

	if flagDryRun {
		fmt.Println(res.Script)
	}
	return nil
}

func newLogger(debug bool) (*zap.SugaredLogger, error) {
	cfg := zap.NewProductionConfig()
	if debug {
		cfg = zap.NewDevelopmentConfig()
	}
	log, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("building logger: %w", err)
	}
	return log.Sugar(), nil
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func SetVersionInfo(v, c, d string) {
	version = v
	commit = c
	date = d
}
