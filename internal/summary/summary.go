// =============================================================================
// Order Consolidator - Detail Summarizer
// =============================================================================
//
// This module renders the two human-readable cells of a consolidated row:
//   - the order detail ("주문 내역"), e.g. "머그컵: 2개, 파랑 1개; 접시: 3개"
//   - the comment summary ("주문시 남기는 글"), e.g. "빨리, 파손주의"
//
// QUANTITY AGGREGATION:
//   Goods are visited order by order, then row by row. Quantities of goods
//   with the same name and option are summed. A blank quantity contributes
//   nothing: it neither starts a sum at zero nor resets an existing one.
//
// DETAIL RENDERING:
//   <name>: <entry>, <entry>; <name>: <entry>
//   where <entry> is "<option> " (if any) followed by "<quantity>개" (if
//   any). An entry with neither part renders as an empty string.
//
// =============================================================================

package summary

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/donghyeon/takkobebe/internal/grouping"
	"github.com/donghyeon/takkobebe/internal/types"
)

// quantityUnit is appended to every rendered quantity.
const quantityUnit = "개"

// Details maps good name -> option -> summed quantity, both levels in
// first-seen order. An empty option key stands for "no option".
type Details = types.OrderedMap[string, *types.OrderedMap[string, decimal.NullDecimal]]

// Summary is the rendered text of one recipient.
type Summary struct {
	Details  string
	Comments string
}

// Summarize renders both summary cells for a recipient.
func Summarize(r types.Recipient) Summary {
	return Summary{
		Details:  RenderDetails(CombineDetails(r.Orders)),
		Comments: RenderComments(r.Items),
	}
}

// CombineDetails aggregates quantities across all of a recipient's orders.
func CombineDetails(orders []types.Order) *Details {
	details := types.NewOrderedMap[string, *types.OrderedMap[string, decimal.NullDecimal]]()

	for _, order := range orders {
		for _, good := range order.Goods {
			options, ok := details.Get(good.GoodName)
			if !ok {
				options = types.NewOrderedMap[string, decimal.NullDecimal]()
				details.Set(good.GoodName, options)
			}

			current, ok := options.Get(good.Option)
			if !ok {
				options.Set(good.Option, good.Quantity)
				continue
			}
			options.Set(good.Option, addQuantity(current, good.Quantity))
		}
	}

	return details
}

// addQuantity sums two nullable quantities; a blank side is ignored.
func addQuantity(a, b decimal.NullDecimal) decimal.NullDecimal {
	switch {
	case !b.Valid:
		return a
	case !a.Valid:
		return b
	default:
		return decimal.NewNullDecimal(a.Decimal.Add(b.Decimal))
	}
}

// RenderDetails renders aggregated details to the order detail cell.
func RenderDetails(details *Details) string {
	parts := make([]string, 0, details.Len())

	details.Each(func(name string, options *types.OrderedMap[string, decimal.NullDecimal]) {
		entries := make([]string, 0, options.Len())
		options.Each(func(option string, qty decimal.NullDecimal) {
			entries = append(entries, renderEntry(option, qty))
		})
		parts = append(parts, name+": "+strings.Join(entries, ", "))
	})

	return strings.Join(parts, "; ")
}

func renderEntry(option string, qty decimal.NullDecimal) string {
	var b strings.Builder
	if option != "" {
		b.WriteString(option)
		b.WriteString(" ")
	}
	if qty.Valid {
		b.WriteString(qty.Decimal.String())
		b.WriteString(quantityUnit)
	}
	return b.String()
}

// RenderComments joins the distinct non-empty comments of the recipient's
// raw rows in first-seen order.
func RenderComments(items []types.LineItem) string {
	comments := make([]string, len(items))
	for i, item := range items {
		comments[i] = item.Comment
	}
	return strings.Join(grouping.DistinctNonEmpty(comments), ", ")
}
