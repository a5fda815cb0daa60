package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lehigh-university-libraries/commonmeta/fetch"
	"github.com/lehigh-university-libraries/commonmeta/hub"
)

var agencyCmd = &cobra.Command{
	Use:   "agency <doi>",
	Short: "Show the registration agency of a DOI",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		doi := hub.NormalizeDOI(args[0])
		if doi == "" {
			return fmt.Errorf("%q is not a DOI", args[0])
		}
		ra, err := fetch.NewClient(cfg.FetchOptions()...).RegistrationAgency(cmd.Context(), doi)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), ra)
		return nil
	},
}
