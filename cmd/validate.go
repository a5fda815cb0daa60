package cmd

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/lehigh-university-libraries/commonmeta/fetch"
	"github.com/lehigh-university-libraries/commonmeta/hub"
	"github.com/lehigh-university-libraries/commonmeta/metadata"
)

var (
	validateVia     string
	validateStrict  bool
	validateVerbose bool
)

var validateCmd = &cobra.Command{
	Use:   "validate <input>...",
	Short: "Check records without converting",
	Long: `Read one or more inputs and check every record against the
commonmeta model: a type is set, contributors carry a name and a role,
identifiers are absolute and dates are ISO-8601.

--strict additionally requires an identifier, a title and a contributor,
the fields registration agencies insist on.

Examples:
  commonmeta validate 10.7554/elife.01567
  commonmeta validate records.ris --strict
  cat record.xml | commonmeta validate - --via dublincore --verbose`,
	Args: cobra.MinimumNArgs(1),
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().StringVarP(&validateVia, "via", "f", "", "Input format (default: detect)")
	validateCmd.Flags().BoolVar(&validateStrict, "strict", false, "Require identifier, title and contributor")
	validateCmd.Flags().BoolVarP(&validateVerbose, "verbose", "v", false, "Show a summary of every record")
}

func runValidate(cmd *cobra.Command, args []string) error {
	client := metadata.NewWithClient(fetch.NewClient(cfg.FetchOptions()...))
	inputs, err := readInputs(cmd.InOrStdin(), args)
	if err != nil {
		return err
	}
	list, err := client.ReadAll(cmd.Context(), inputs, validateVia)
	if err != nil {
		return err
	}

	opts := hub.DefaultValidationOptions()
	if validateStrict {
		opts = hub.StrictValidationOptions()
	}
	failed := reportValidation(cmd.OutOrStdout(), list, opts, validateVerbose)
	if failed > 0 {
		return fmt.Errorf("%d of %d records failed validation", failed, len(list.Items))
	}
	return nil
}

// reportValidation validates every live record and returns how many failed.
func reportValidation(out io.Writer, list *metadata.List, opts hub.ValidationOptions, verbose bool) int {
	failed := 0
	for i, m := range list.Items {
		if m.IsNotFound() {
			slog.Warn("record not found", "id", m.ID)
			failed++
			continue
		}
		res := hub.Validate(m, opts)
		status := "ok"
		if !res.IsValid() {
			status = "invalid"
			failed++
		}
		fmt.Fprintf(out, "%s  %s (%s)\n", status, recordLabel(i, m), m.Type)
		for _, e := range res.Errors {
			fmt.Fprintf(out, "    error    %s\n", e)
		}
		for _, w := range res.Warnings {
			fmt.Fprintf(out, "    warning  %s\n", w)
		}
		if verbose {
			fmt.Fprintf(out, "    title: %s\n", truncate(m.Title(), 60))
			fmt.Fprintf(out, "    contributors: %d  subjects: %d  references: %d  relations: %d\n",
				len(m.Contributors), len(m.Subjects), len(m.References), len(m.Relations))
			if d := hub.PrimaryDate(m.Date); d != "" {
				fmt.Fprintf(out, "    date: %s\n", d)
			}
		}
	}
	return failed
}

func recordLabel(i int, m *hub.Metadata) string {
	if m.ID != "" {
		return m.ID
	}
	return fmt.Sprintf("record %d", i+1)
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
