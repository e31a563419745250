package grouping

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donghyeon/takkobebe/internal/types"
)

var (
	alice = types.Identity{Name: "김철수", Phone: "010-1111-2222", Address: "서울시 강남구 1"}
	bob   = types.Identity{Name: "이영희", Phone: "010-3333-4444", Address: "부산시 해운대구 2"}
)

func item(who types.Identity, orderID, goodID string) types.LineItem {
	return types.LineItem{
		Recipient:   who,
		OrderID:     orderID,
		GoodOrderID: goodID,
		GoodName:    "머그컵",
		ZipCode:     "06236",
		OldZipCode:  "135-080",
	}
}

func TestGroupRecipientsFirstOccurrenceOrder(t *testing.T) {
	rows := []types.LineItem{
		item(bob, "O1", "L1"),
		item(alice, "O2", "L2"),
		item(bob, "O3", "L3"),
		item(bob, "O1", "L4"),
	}

	recipients := GroupRecipients(rows)
	require.Len(t, recipients, 2)
	assert.Equal(t, bob, recipients[0].Identity)
	assert.Equal(t, alice, recipients[1].Identity)

	orders := recipients[0].Orders
	require.Len(t, orders, 2)
	assert.Equal(t, "O1", orders[0].OrderID)
	assert.Equal(t, []string{"L1", "L4"}, orders[0].GoodOrderIDs)
	assert.Equal(t, "O3", orders[1].OrderID)
	assert.Equal(t, []string{"L3"}, orders[1].GoodOrderIDs)
}

func TestGroupRecipientsExactIdentityMatch(t *testing.T) {
	spaced := bob
	spaced.Name = bob.Name + " "
	upper := types.Identity{Name: "KIM", Phone: "1", Address: "a"}
	lower := types.Identity{Name: "kim", Phone: "1", Address: "a"}

	recipients := GroupRecipients([]types.LineItem{
		item(bob, "O1", "L1"),
		item(spaced, "O1", "L2"),
		item(upper, "O2", "L3"),
		item(lower, "O2", "L4"),
	})
	assert.Len(t, recipients, 4)
}

func TestGroupRecipientsEmpty(t *testing.T) {
	assert.Empty(t, GroupRecipients(nil))
}

// Every input row must land in exactly one order of exactly one recipient,
// keeping its relative order.
func TestGroupRecipientsIsPartition(t *testing.T) {
	rows := []types.LineItem{
		item(alice, "O1", "L1"),
		item(bob, "O2", "L2"),
		item(alice, "O3", "L3"),
		item(alice, "O1", "L4"),
		item(bob, "O2", "L5"),
		item(bob, "O4", "L6"),
	}

	seen := map[string]int{}
	for _, r := range GroupRecipients(rows) {
		var flat []types.LineItem
		for _, o := range r.Orders {
			for i, g := range o.Goods {
				assert.Equal(t, o.OrderID, g.OrderID)
				assert.Equal(t, o.GoodOrderIDs[i], g.GoodOrderID)
				assert.Equal(t, r.Identity, g.Recipient)
				seen[g.GoodOrderID]++
			}
			flat = append(flat, o.Goods...)
		}
		assert.Len(t, flat, len(r.Items))
	}

	require.Len(t, seen, len(rows))
	for id, n := range seen {
		assert.Equal(t, 1, n, "line item %s", id)
	}
}

func TestGroupOrdersCollectsComments(t *testing.T) {
	a := item(alice, "O1", "L1")
	a.Comment = "문 앞에 놓아주세요"
	b := item(alice, "O1", "L2")
	c := item(alice, "O1", "L3")
	c.Comment = "문 앞에 놓아주세요"
	d := item(alice, "O1", "L4")
	d.Comment = "빨리"

	orders := GroupOrders([]types.LineItem{a, b, c, d})
	want := []types.Order{{
		OrderID:      "O1",
		GoodOrderIDs: []string{"L1", "L2", "L3", "L4"},
		Goods:        []types.LineItem{a, b, c, d},
		Comments:     []string{"문 앞에 놓아주세요", "빨리"},
	}}
	if diff := cmp.Diff(want, orders); diff != "" {
		t.Errorf("GroupOrders mismatch (-want +got):\n%s", diff)
	}
}

func TestResolveZip(t *testing.T) {
	tests := []struct {
		name      string
		values    []string
		ambiguous bool
		want      []string
	}{
		{"single", []string{"06236", "06236"}, false, []string{"06236"}},
		{"disagree", []string{"06236", "48094", "06236"}, true, []string{"06236", "48094"}},
		{"blank and value", []string{"", "06236"}, true, []string{"", "06236"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			z := ResolveZip(tc.values)
			assert.Equal(t, tc.ambiguous, z.IsAmbiguous())
			assert.Equal(t, tc.want, z.Values())
		})
	}
}

func TestRecipientZipResolution(t *testing.T) {
	a := item(alice, "O1", "L1")
	b := item(alice, "O2", "L2")
	b.ZipCode = "48094"

	r := GroupRecipients([]types.LineItem{a, b})[0]
	assert.True(t, r.ZipCode.IsAmbiguous())
	assert.Equal(t, "06236, 48094", r.ZipCode.String())
	assert.False(t, r.OldZipCode.IsAmbiguous())
	assert.Equal(t, "135-080", r.OldZipCode.String())
}
