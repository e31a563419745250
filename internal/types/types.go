// =============================================================================
// Order Consolidator - Shared Types
// =============================================================================
//
// This package contains the data model shared by the grouping, summary,
// manifest, invoice and converter packages. Keeping the types here avoids
// import cycles between those packages.
//
// DATA FLOW:
//   LineItem rows -> Recipient (-> Order) -> ConsolidatedRow
//   InvoiceRow -> ExpandedInvoiceRow
//
// =============================================================================

package types

import (
	"strings"

	"github.com/shopspring/decimal"
)

// =============================================================================
// COLUMN NAMES
// =============================================================================

// Column headers of the marketplace order export (forward pass input).
const (
	ColRecipientName  = "수취인 이름"
	ColRecipientPhone = "수취인 핸드폰 번호"
	ColAddress        = "수취인 전체주소"
	ColZipCode        = "수취인 우편번호"
	ColOldZipCode     = "수취인 구 우편번호 (6자리)"
	ColOrderID        = "주문 번호"
	ColGoodOrderID    = "상품주문번호"
	ColGoodName       = "상품명"
	ColOption         = "옵션정보"
	ColQuantity       = "상품수량"
	ColComment        = "주문시 남기는 글"
)

// Column headers produced by the forward pass. The manifest column is also
// the key column of the reconciliation pass input.
const (
	ColManifest = "상품주문번호 리스트"
	ColDetails  = "주문 내역"
)

// Column headers of the reconciliation pass output.
const (
	ColSequence       = "번호"
	ColCarrierID      = "배송업체번호"
	ColTrackingNumber = "송장번호"
	ColShipDate       = "배송일"
	ColDeliveredDate  = "배송완료일"
)

// OrderInputColumns lists every column the forward pass requires.
var OrderInputColumns = []string{
	ColRecipientName,
	ColRecipientPhone,
	ColAddress,
	ColZipCode,
	ColOldZipCode,
	ColOrderID,
	ColGoodOrderID,
	ColGoodName,
	ColOption,
	ColQuantity,
	ColComment,
}

// ConsolidatedColumns is the header row of the forward pass output.
var ConsolidatedColumns = []string{
	ColRecipientName,
	ColRecipientPhone,
	ColAddress,
	ColZipCode,
	ColOldZipCode,
	ColManifest,
	ColDetails,
	ColComment,
}

// ExpandedInvoiceColumns is the header row of the reconciliation output.
var ExpandedInvoiceColumns = []string{
	ColSequence,
	ColOrderID,
	ColGoodOrderID,
	ColCarrierID,
	ColTrackingNumber,
	ColShipDate,
	ColDeliveredDate,
}

// =============================================================================
// LINE ITEMS
// =============================================================================

// Identity is the exact-match key of a recipient. No trimming or case
// folding is applied: two identities that differ only in whitespace are
// different recipients.
type Identity struct {
	Name    string
	Phone   string
	Address string
}

// LineItem is one row of the order export. Blank option and comment cells
// are represented by the empty string.
type LineItem struct {
	OrderID     string
	GoodOrderID string
	GoodName    string
	Option      string

	// Quantity is invalid when the cell was blank or not a number.
	Quantity decimal.NullDecimal

	Comment    string
	Recipient  Identity
	ZipCode    string
	OldZipCode string

	// SourceRow is the 1-based row number in the source sheet.
	SourceRow int
}

// =============================================================================
// ZIP CODES
// =============================================================================

// ZipValue is either a single zip code shared by all of a recipient's rows
// or, when the rows disagree, the distinct values in first-seen order.
type ZipValue struct {
	values []string
}

// SingleZip returns an unambiguous zip value.
func SingleZip(v string) ZipValue {
	return ZipValue{values: []string{v}}
}

// AmbiguousZip returns a zip value holding several distinct candidates.
func AmbiguousZip(vs []string) ZipValue {
	return ZipValue{values: append([]string(nil), vs...)}
}

// IsAmbiguous reports whether the recipient's rows disagreed.
func (z ZipValue) IsAmbiguous() bool {
	return len(z.values) > 1
}

// Values returns the distinct values in first-seen order.
func (z ZipValue) Values() []string {
	return append([]string(nil), z.values...)
}

// String renders the value for a single spreadsheet cell. Ambiguous values
// are joined with ", ".
func (z ZipValue) String() string {
	return strings.Join(z.values, ", ")
}

// =============================================================================
// GROUPED HIERARCHY
// =============================================================================

// Order is the set of line items of one recipient sharing an order id.
type Order struct {
	OrderID string

	// GoodOrderIDs and Goods keep the row order of the input.
	GoodOrderIDs []string
	Goods        []LineItem

	// Comments holds the distinct non-empty comments in first-seen order.
	Comments []string
}

// Recipient is one distinct Identity with all of its orders.
type Recipient struct {
	Identity   Identity
	ZipCode    ZipValue
	OldZipCode ZipValue

	// Orders are kept in order of first appearance in the table.
	Orders []Order

	// Items are the recipient's raw rows in input order.
	Items []LineItem
}

// =============================================================================
// OUTPUT ROWS
// =============================================================================

// ConsolidatedRow is the forward pass output, one per recipient.
type ConsolidatedRow struct {
	Identity       Identity
	ZipCode        ZipValue
	OldZipCode     ZipValue
	Manifest       string
	DetailSummary  string
	CommentSummary string
}

// Cells renders the row in ConsolidatedColumns order.
func (r ConsolidatedRow) Cells() []any {
	return []any{
		r.Identity.Name,
		r.Identity.Phone,
		r.Identity.Address,
		r.ZipCode.String(),
		r.OldZipCode.String(),
		r.Manifest,
		r.DetailSummary,
		r.CommentSummary,
	}
}

// InvoiceRow is one consolidated row after the operator attached a
// tracking number.
type InvoiceRow struct {
	Manifest       string
	TrackingNumber string

	// SourceRow is the 1-based row number in the invoice sheet.
	SourceRow int
}

// ExpandedInvoiceRow is one line item of the reconciliation output. Carrier
// and date fields are always blank.
type ExpandedInvoiceRow struct {
	Sequence       int
	OrderID        string
	GoodOrderID    string
	CarrierID      string
	TrackingNumber string
	ShipDate       string
	DeliveredDate  string
}

// Cells renders the row in ExpandedInvoiceColumns order.
func (r ExpandedInvoiceRow) Cells() []any {
	return []any{
		r.Sequence,
		r.OrderID,
		r.GoodOrderID,
		r.CarrierID,
		r.TrackingNumber,
		r.ShipDate,
		r.DeliveredDate,
	}
}
