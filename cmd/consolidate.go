// =============================================================================
// Order Consolidator - Consolidate Command
// =============================================================================
//
// COMMAND USAGE:
//   takko consolidate [files...]
//
// Each marketplace order export becomes a workbook with one row per
// recipient, written to the output directory.
//
// =============================================================================

package cmd

import (
	"github.com/spf13/cobra"

	"github.com/donghyeon/takkobebe/internal/converter"
)

var consolidateCmd = &cobra.Command{
	Use:   "consolidate [files...]",
	Short: "Merge order exports into one row per recipient",
	Long: `The consolidate command groups the rows of each order export by recipient
(name, phone number and address) and writes one row per recipient with an
order manifest, a per-item quantity summary and the customer's comments.

Without arguments every spreadsheet in the input directory is processed.
Files are processed concurrently; an error in one file does not affect the
others.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBatch(cmd.Context(), cmd.OutOrStdout(), "Order Consolidation", args,
			func(c *converter.Converter) fileProcessor { return c.ConsolidateFile })
	},
}

func init() {
	rootCmd.AddCommand(consolidateCmd)
}
