package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lehigh-university-libraries/commonmeta/format"
)

var formatsCmd = &cobra.Command{
	Use:   "formats",
	Short: "List supported formats",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		for _, name := range format.DefaultRegistry.List() {
			f, _ := format.Get(name)
			_, canRead := f.(format.Parser)
			_, canWrite := f.(format.Serializer)
			mode := ""
			switch {
			case canRead && canWrite:
				mode = "read/write"
			case canRead:
				mode = "read"
			case canWrite:
				mode = "write"
			}
			fmt.Fprintf(out, "  %-14s %-10s %s\n", name, mode, f.Description())
		}
		return nil
	},
}
