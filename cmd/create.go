// =============================================================================
// Stock Adjustment Tool - Create Command
// =============================================================================
//
// COMMAND USAGE:
//   stockadj create
//
// Reads <work>/input/template.xlsx, validates it, clears the output
// directory and writes one workbook per (adjustment type, distributor).
// Nothing is written or cleared when the input is rejected.
//
// =============================================================================

package cmd

import (
	"github.com/spf13/cobra"
)

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create the output workbooks from the input template",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, cleanup, err := bootstrap(cmd)
		if err != nil {
			return err
		}
		defer cleanup()

		return a.CreateFiles(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(createCmd)
}
