package summary

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donghyeon/takkobebe/internal/grouping"
	"github.com/donghyeon/takkobebe/internal/types"
)

var who = types.Identity{Name: "김철수", Phone: "010-1111-2222", Address: "서울시"}

func qty(n int64) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.NewFromInt(n))
}

func good(orderID, id, name, option string, q decimal.NullDecimal) types.LineItem {
	return types.LineItem{
		Recipient:   who,
		OrderID:     orderID,
		GoodOrderID: id,
		GoodName:    name,
		Option:      option,
		Quantity:    q,
	}
}

func recipient(t *testing.T, items ...types.LineItem) types.Recipient {
	t.Helper()
	rs := grouping.GroupRecipients(items)
	require.Len(t, rs, 1)
	return rs[0]
}

func TestCombineDetailsSumsSameNameAndOption(t *testing.T) {
	r := recipient(t,
		good("O1", "L1", "Mug", "Blue", qty(3)),
		good("O2", "L2", "Mug", "Blue", qty(5)),
	)

	details := CombineDetails(r.Orders)
	options, ok := details.Get("Mug")
	require.True(t, ok)
	total, ok := options.Get("Blue")
	require.True(t, ok)
	require.True(t, total.Valid)
	assert.True(t, total.Decimal.Equal(decimal.NewFromInt(8)))
}

func TestCombineDetailsBlankQuantityContributesNothing(t *testing.T) {
	r := recipient(t,
		good("O1", "L1", "Mug", "", decimal.NullDecimal{}),
		good("O1", "L2", "Mug", "", qty(2)),
		good("O1", "L3", "Mug", "", decimal.NullDecimal{}),
	)
	assert.Equal(t, "Mug: 2개", RenderDetails(CombineDetails(r.Orders)))
}

func TestRenderDetails(t *testing.T) {
	tests := []struct {
		name  string
		items []types.LineItem
		want  string
	}{
		{
			name: "option omitted when blank",
			items: []types.LineItem{
				good("O1", "L1", "Mug", "", qty(2)),
				good("O1", "L2", "Mug", "Blue", qty(1)),
			},
			want: "Mug: 2개, Blue 1개",
		},
		{
			name: "several goods keep first-seen order",
			items: []types.LineItem{
				good("O1", "L1", "접시", "흰색", qty(1)),
				good("O2", "L2", "머그컵", "", qty(2)),
				good("O2", "L3", "접시", "흰색", qty(2)),
			},
			want: "접시: 흰색 3개; 머그컵: 2개",
		},
		{
			name: "quantity omitted when blank",
			items: []types.LineItem{
				good("O1", "L1", "Mug", "Red", decimal.NullDecimal{}),
			},
			want: "Mug: Red ",
		},
		{
			name: "neither option nor quantity",
			items: []types.LineItem{
				good("O1", "L1", "Mug", "", decimal.NullDecimal{}),
				good("O1", "L2", "Mug", "Blue", qty(1)),
			},
			want: "Mug: , Blue 1개",
		},
		{
			name: "fractional quantity",
			items: []types.LineItem{
				good("O1", "L1", "쌀", "kg", decimal.NewNullDecimal(decimal.RequireFromString("1.5"))),
			},
			want: "쌀: kg 1.5개",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := recipient(t, tc.items...)
			assert.Equal(t, tc.want, RenderDetails(CombineDetails(r.Orders)))
		})
	}
}

func TestRenderComments(t *testing.T) {
	comments := []string{"", "ship fast", "ship fast", "fragile"}
	items := make([]types.LineItem, len(comments))
	for i, c := range comments {
		items[i] = good("O1", "L", "Mug", "", qty(1))
		items[i].Comment = c
	}
	assert.Equal(t, "ship fast, fragile", RenderComments(items))
	assert.Equal(t, "", RenderComments(nil))
}

func TestSummarize(t *testing.T) {
	a := good("O1", "L1", "Mug", "", qty(2))
	a.Comment = "빨리"
	b := good("O1", "L2", "Mug", "Blue", qty(1))

	s := Summarize(recipient(t, a, b))
	assert.Equal(t, Summary{Details: "Mug: 2개, Blue 1개", Comments: "빨리"}, s)
}
