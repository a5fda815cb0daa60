// Package cmd provides CLI commands for commonmeta.
package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func setupLogger() {
	logLevel := strings.ToUpper(os.Getenv("LOG_LEVEL"))
	if logLevel == "" {
		logLevel = "INFO"
	}

	var level slog.Level
	switch logLevel {
	case "DEBUG":
		level = slog.LevelDebug
	case "INFO":
		level = slog.LevelInfo
	case "WARN", "WARNING":
		level = slog.LevelWarn
	case "ERROR":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	handler := slog.NewTextHandler(os.Stderr, opts)
	logger := slog.New(handler)

	slog.SetDefault(logger)
}

var cfg *Config

var rootCmd = &cobra.Command{
	Use:   "commonmeta",
	Short: "Convert scholarly metadata between formats",
	Long: `Commonmeta reads scholarly metadata from DOIs, URLs, files or raw records,
normalizes it and writes it in another format.

Readers include Crossref, DataCite, OpenAlex, schema.org, CodeMeta, CFF, RIS,
CSL-JSON, JSON Feed, InvenioRDM, KBase and commonmeta. Writers include BibTeX,
RIS, CSL-JSON, DataCite, schema.org, Crossref XML, InvenioRDM and commonmeta.

Settings are read from $XDG_CONFIG_HOME/commonmeta/config.yaml and from
COMMONMETA_* environment variables, which may also be set in a .env file.

Examples:
  commonmeta convert 10.7554/elife.01567 --to bibtex
  commonmeta convert https://github.com/citation-file-format/ruby-cff --to schemaorg
  commonmeta convert record.json.gz --via crossref --to commonmeta -o out.json
  commonmeta agency 10.5061/dryad.8515`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = LoadConfig()
		return err
	},
}

// Execute runs the root command.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// a missing .env file is not an error
	_ = godotenv.Load()
	setupLogger()
	rootCmd.AddCommand(convertCmd)
	rootCmd.AddCommand(formatsCmd)
	rootCmd.AddCommand(agencyCmd)
	rootCmd.AddCommand(validateCmd)
}
