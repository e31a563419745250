// =============================================================================
// Order Consolidator - Invoice Command
// =============================================================================
//
// COMMAND USAGE:
//   takko invoice [files...]
//
// Each consolidated sheet, with a tracking-number column filled in by the
// carrier, becomes a workbook with one numbered row per line item.
//
// =============================================================================

package cmd

import (
	"github.com/spf13/cobra"

	"github.com/donghyeon/takkobebe/internal/converter"
)

var invoiceCmd = &cobra.Command{
	Use:   "invoice [files...]",
	Short: "Expand tracking numbers to one row per line item",
	Long: `The invoice command reads consolidated sheets that carry a tracking number
per recipient and writes the bulk registration sheet: one row per line item
with the recipient's tracking number.

The tracking-number column is located by name; accepted names are set with
tracking_column_aliases in the configuration file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBatch(cmd.Context(), cmd.OutOrStdout(), "Invoice Expansion", args,
			func(c *converter.Converter) fileProcessor { return c.ExpandInvoiceFile })
	},
}

func init() {
	rootCmd.AddCommand(invoiceCmd)
}
