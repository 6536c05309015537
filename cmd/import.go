// =============================================================================
// Stock Adjustment Tool - Import Command
// =============================================================================
//
// COMMAND USAGE:
//   stockadj import outbound   - upload DCG_*.xlsx
//   stockadj import inbound    - upload DCT_*.xlsx
//
// Files are uploaded one at a time in name order after a single login. The
// first failure stops the run; the outcome of every attempted file is
// written to the reports directory.
//
// =============================================================================

package cmd

import (
	"fmt"
	"strings"

	"github.com/ginjaninja78/stock-adjustment-tool/internal/types"
	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:       "import outbound|inbound",
	Short:     "Upload the output workbooks of one adjustment type",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"outbound", "inbound"},
	RunE: func(cmd *cobra.Command, args []string) error {
		adjType, err := parseAdjustmentType(args[0])
		if err != nil {
			return err
		}

		a, cleanup, err := bootstrap(cmd)
		if err != nil {
			return err
		}
		defer cleanup()

		return a.Import(cmd.Context(), adjType)
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
}

// parseAdjustmentType accepts the type name or its file prefix, in any case.
func parseAdjustmentType(arg string) (types.AdjustmentType, error) {
	for _, t := range types.AdjustmentTypes {
		if strings.EqualFold(arg, string(t)) || strings.EqualFold(arg, t.Prefix()) {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown adjustment type %q (want outbound or inbound)", arg)
}
