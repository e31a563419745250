// =============================================================================
// Order Consolidator - Invoice Expander
// =============================================================================
//
// After the consolidated sheet has been handed to a carrier, every row
// carries one tracking number per recipient. The marketplace, however,
// expects tracking numbers per line item. The expander decodes each row's
// manifest and writes one output row per line item, numbering the rows
// 1..N across the whole invoice (the counter is never reset per input row).
//
// FAILURE POLICY:
//   The first manifest that fails to decode aborts the expansion. No
//   partial output is returned.
//
// =============================================================================

package invoice

import (
	"errors"

	"github.com/donghyeon/takkobebe/internal/manifest"
	"github.com/donghyeon/takkobebe/internal/types"
)

// Expand flattens all invoice rows into numbered line-item rows.
func Expand(rows []types.InvoiceRow) ([]types.ExpandedInvoiceRow, error) {
	manifests := make([]manifest.Manifest, len(rows))
	total := 0
	for i, row := range rows {
		m, err := manifest.Decode(row.Manifest)
		if err != nil {
			var decErr *manifest.DecodeError
			if errors.As(err, &decErr) {
				decErr.Row = row.SourceRow
			}
			return nil, err
		}
		manifests[i] = m
		total += m.Len()
	}

	out := make([]types.ExpandedInvoiceRow, 0, total)
	seq := 1
	for i, m := range manifests {
		for _, p := range m.Pairs() {
			out = append(out, types.ExpandedInvoiceRow{
				Sequence:       seq,
				OrderID:        p.OrderID,
				GoodOrderID:    p.GoodOrderID,
				TrackingNumber: rows[i].TrackingNumber,
			})
			seq++
		}
	}
	return out, nil
}
