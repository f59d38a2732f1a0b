package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/aomi-research/edinet-cli/internal/model"
)

var fieldsCmd = &cobra.Command{
	Use:   "fields",
	Short: "List the logical fields defined in the mapping registry",
	RunE: func(cmd *cobra.Command, _ []string) error {
		reg, err := initRegistry()
		if err != nil {
			return err
		}

		only, _ := cmd.Flags().GetString("type")

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ISSUER TYPE\tFIELD\tDISPLAY NAME\tCANDIDATES")
		for _, issuer := range reg.IssuerTypes() {
			if only != "" && issuer != model.IssuerType(only) {
				continue
			}
			profile, err := reg.Profile(issuer)
			if err != nil {
				return err
			}
			for _, f := range profile.Fields {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
					issuer, f.Name, f.Rule.DisplayName,
					strings.Join(f.Rule.CandidateIdentifiers, ", "))
			}
		}
		return w.Flush()
	},
}

func init() {
	fieldsCmd.Flags().String("type", "", "limit to one issuer type")
	rootCmd.AddCommand(fieldsCmd)
}
