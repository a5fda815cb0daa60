package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/lehigh-university-libraries/commonmeta/fetch"
	"github.com/lehigh-university-libraries/commonmeta/metadata"
)

var (
	via        string
	to         string
	outputFile string
	depositor  string
	email      string
	registrant string
	stripHTML  bool
	compact    bool
)

var convertCmd = &cobra.Command{
	Use:   "convert <input>...",
	Short: "Convert metadata to another format",
	Long: `Read one or more inputs and write them in the target format.

An input is a DOI, a URL, a GitHub repository, a local file (optionally
.gz or .zst compressed) or "-" for stdin. The reader is detected unless
--via names one. Several inputs are written as one batch document.

Examples:
  commonmeta convert 10.7554/elife.01567
  commonmeta convert 10.5061/dryad.8515 --to datacite
  commonmeta convert 10.7554/elife.01567 10.5061/dryad.8515 --to csl
  cat record.ris | commonmeta convert - --via ris --to bibtex
  commonmeta convert 10.7554/elife.01567 --to crossref_xml --depositor "My Press" --email doi@example.org`,
	Args: cobra.MinimumNArgs(1),
	RunE: runConvert,
}

func init() {
	convertCmd.Flags().StringVarP(&via, "via", "f", "", "Input format (default: detect)")
	convertCmd.Flags().StringVarP(&to, "to", "t", "commonmeta", "Output format")
	convertCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file (default: stdout)")
	convertCmd.Flags().StringVar(&depositor, "depositor", "", "Crossref depositor name")
	convertCmd.Flags().StringVar(&email, "email", "", "Crossref depositor email")
	convertCmd.Flags().StringVar(&registrant, "registrant", "", "Crossref registrant")
	convertCmd.Flags().BoolVar(&stripHTML, "strip-html", false, "Strip HTML from descriptions")
	convertCmd.Flags().BoolVar(&compact, "compact", false, "Write JSON without indentation")
}

func runConvert(cmd *cobra.Command, args []string) (err error) {
	client := metadata.NewWithClient(fetch.NewClient(cfg.FetchOptions()...), metadata.WithStripHTML(stripHTML))

	inputs, err := readInputs(cmd.InOrStdin(), args)
	if err != nil {
		return err
	}
	list, err := client.ReadAll(cmd.Context(), inputs, via)
	if err != nil {
		return err
	}
	for _, m := range list.Items {
		if m.IsNotFound() {
			slog.Warn("record not found", "id", m.ID)
		}
	}

	opts := cfg.SerializeOptions()
	opts.Pretty = !compact
	if depositor != "" {
		opts.Depositor = depositor
	}
	if email != "" {
		opts.Email = email
	}
	if registrant != "" {
		opts.Registrant = registrant
	}

	res, err := list.Write(to, opts)
	if err != nil {
		return err
	}
	if res.Skipped > 0 {
		slog.Info("skipped records", "count", res.Skipped)
	}
	for _, e := range res.Errors {
		slog.Error("validation", "format", res.Format, "error", e)
	}

	output := io.Writer(os.Stdout)
	if outputFile != "" {
		f, err := os.Create(outputFile)
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer func() {
			if cerr := f.Close(); cerr != nil && err == nil {
				err = fmt.Errorf("closing output file: %w", cerr)
			}
		}()
		output = f
	}
	if _, err := output.Write(res.Output); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	if !res.Valid {
		return fmt.Errorf("%s output failed validation with %d errors", res.Format, len(res.Errors))
	}
	return nil
}

// readInputs replaces a "-" argument with the content of stdin.
func readInputs(stdin io.Reader, args []string) ([]string, error) {
	inputs := make([]string, 0, len(args))
	for _, arg := range args {
		if arg != "-" {
			inputs = append(inputs, arg)
			continue
		}
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("reading stdin: %w", err)
		}
		inputs = append(inputs, string(data))
	}
	return inputs, nil
}
