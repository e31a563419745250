// =============================================================================
// Order Consolidator - Grouping Module
// =============================================================================
//
// This module builds the recipient -> order -> line item hierarchy from the
// flat rows of an order export.
//
// GROUPING LOGIC:
//   1. Rows are partitioned by recipient Identity (name, phone, address)
//      using exact field equality, in order of first occurrence.
//   2. Within a recipient, rows are partitioned by order id, again in order
//      of first occurrence. Row order inside an order is preserved.
//   3. Zip codes are resolved once per recipient over all of its rows.
//
// Both passes are a single scan over the input with an insertion-ordered
// map, so grouping is linear in the number of rows.
//
// =============================================================================

package grouping

import (
	"github.com/donghyeon/takkobebe/internal/types"
)

// GroupRecipients partitions items into one Recipient per distinct
// identity, in order of first occurrence. An empty input yields no
// recipients.
func GroupRecipients(items []types.LineItem) []types.Recipient {
	groups := types.NewOrderedMap[types.Identity, []types.LineItem]()
	for _, item := range items {
		rows, _ := groups.Get(item.Recipient)
		groups.Set(item.Recipient, append(rows, item))
	}

	recipients := make([]types.Recipient, 0, groups.Len())
	groups.Each(func(id types.Identity, rows []types.LineItem) {
		recipients = append(recipients, newRecipient(id, rows))
	})
	return recipients
}

// newRecipient builds a Recipient from the rows that share its identity.
func newRecipient(id types.Identity, rows []types.LineItem) types.Recipient {
	zips := make([]string, len(rows))
	oldZips := make([]string, len(rows))
	for i, row := range rows {
		zips[i] = row.ZipCode
		oldZips[i] = row.OldZipCode
	}

	return types.Recipient{
		Identity:   id,
		ZipCode:    ResolveZip(zips),
		OldZipCode: ResolveZip(oldZips),
		Orders:     GroupOrders(rows),
		Items:      rows,
	}
}

// GroupOrders partitions one recipient's rows by order id. Orders appear in
// order of first occurrence and each keeps its rows in input order.
func GroupOrders(rows []types.LineItem) []types.Order {
	groups := types.NewOrderedMap[string, []types.LineItem]()
	for _, row := range rows {
		goods, _ := groups.Get(row.OrderID)
		groups.Set(row.OrderID, append(goods, row))
	}

	orders := make([]types.Order, 0, groups.Len())
	groups.Each(func(orderID string, goods []types.LineItem) {
		orders = append(orders, newOrder(orderID, goods))
	})
	return orders
}

func newOrder(orderID string, goods []types.LineItem) types.Order {
	ids := make([]string, len(goods))
	comments := make([]string, 0, len(goods))
	for i, g := range goods {
		ids[i] = g.GoodOrderID
		comments = append(comments, g.Comment)
	}

	return types.Order{
		OrderID:      orderID,
		GoodOrderIDs: ids,
		Goods:        goods,
		Comments:     DistinctNonEmpty(comments),
	}
}

// ResolveZip collects the distinct values of a zip column. A single
// distinct value becomes a scalar; anything else keeps the whole
// collection.
func ResolveZip(values []string) types.ZipValue {
	distinct := Distinct(values)
	if len(distinct) == 1 {
		return types.SingleZip(distinct[0])
	}
	return types.AmbiguousZip(distinct)
}

// Distinct returns the distinct values in first-seen order.
func Distinct(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// DistinctNonEmpty is Distinct with empty strings dropped.
func DistinctNonEmpty(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range Distinct(values) {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
