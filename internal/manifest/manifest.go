// =============================================================================
// Order Consolidator - Manifest Codec
// =============================================================================
//
// The manifest is the only part of a consolidated row that remembers which
// line items it was built from. It maps every order id of the recipient to
// the ordered list of its line-item ids and is stored as JSON text in the
// "상품주문번호 리스트" cell:
//
//   {"2024010112345":["2024010154321","2024010154322"],"2024010199999":["..."]}
//
// Key order is significant. encoding/json sorts map keys, so the object is
// written and read token by token to keep the recipient's order sequence.
//
// =============================================================================

package manifest

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/donghyeon/takkobebe/internal/types"
)

// Entry is one order and its line-item ids.
type Entry struct {
	OrderID      string
	GoodOrderIDs []string
}

// Manifest is the ordered order -> line-item hierarchy of one recipient.
type Manifest []Entry

// Pair is one flattened (order id, line-item id) reference.
type Pair struct {
	OrderID     string
	GoodOrderID string
}

// FromOrders builds the manifest of a recipient's orders.
func FromOrders(orders []types.Order) Manifest {
	m := make(Manifest, len(orders))
	for i, o := range orders {
		m[i] = Entry{
			OrderID:      o.OrderID,
			GoodOrderIDs: append([]string(nil), o.GoodOrderIDs...),
		}
	}
	return m
}

// Pairs flattens the manifest in encoded order.
func (m Manifest) Pairs() []Pair {
	var pairs []Pair
	for _, e := range m {
		for _, id := range e.GoodOrderIDs {
			pairs = append(pairs, Pair{OrderID: e.OrderID, GoodOrderID: id})
		}
	}
	return pairs
}

// Len returns the total number of line items.
func (m Manifest) Len() int {
	n := 0
	for _, e := range m {
		n += len(e.GoodOrderIDs)
	}
	return n
}

// =============================================================================
// ENCODING
// =============================================================================

// Encode renders the manifest as compact JSON. Non-ASCII text and HTML
// characters are written as-is.
func Encode(m Manifest) (string, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range m {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeJSON(&buf, e.OrderID); err != nil {
			return "", err
		}
		buf.WriteByte(':')

		ids := e.GoodOrderIDs
		if ids == nil {
			ids = []string{}
		}
		if err := writeJSON(&buf, ids); err != nil {
			return "", err
		}
	}
	buf.WriteByte('}')
	return buf.String(), nil
}

func writeJSON(buf *bytes.Buffer, v any) error {
	var tmp bytes.Buffer
	enc := json.NewEncoder(&tmp)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode manifest: %w", err)
	}
	// Encoder.Encode terminates every value with a newline.
	buf.Write(bytes.TrimSuffix(tmp.Bytes(), []byte("\n")))
	return nil
}

// =============================================================================
// DECODING
// =============================================================================

// DecodeError reports a manifest cell that is not a JSON object of order
// ids to arrays of line-item ids.
type DecodeError struct {
	// Row is the 1-based sheet row of the cell, or 0 when unknown.
	Row  int
	Text string
	Err  error
}

func (e *DecodeError) Error() string {
	if e.Row > 0 {
		return fmt.Sprintf("row %d: invalid %q value %q: %v", e.Row, types.ColManifest, e.Text, e.Err)
	}
	return fmt.Sprintf("invalid %q value %q: %v", types.ColManifest, e.Text, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Decode parses manifest text, keeping the key order of the text. Array
// elements may be JSON strings or numbers; numbers keep their literal text.
func Decode(text string) (Manifest, error) {
	m, err := decode(text)
	if err != nil {
		return nil, &DecodeError{Text: text, Err: err}
	}
	return m, nil
}

func decode(text string) (Manifest, error) {
	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()

	if err := expectDelim(dec, '{', "object"); err != nil {
		return nil, err
	}

	m := Manifest{}
	seen := make(map[string]struct{})
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("expected order id, got %v", tok)
		}
		if _, dup := seen[key]; dup {
			return nil, fmt.Errorf("duplicate order id %q", key)
		}
		seen[key] = struct{}{}

		ids, err := decodeIDs(dec)
		if err != nil {
			return nil, fmt.Errorf("order %q: %w", key, err)
		}
		m = append(m, Entry{OrderID: key, GoodOrderIDs: ids})
	}

	if err := expectDelim(dec, '}', "end of object"); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.New("unexpected data after object")
	}
	return m, nil
}

func decodeIDs(dec *json.Decoder) ([]string, error) {
	if err := expectDelim(dec, '[', "array"); err != nil {
		return nil, err
	}

	ids := []string{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		switch v := tok.(type) {
		case string:
			ids = append(ids, v)
		case json.Number:
			ids = append(ids, v.String())
		default:
			return nil, fmt.Errorf("expected line-item id, got %v", tok)
		}
	}

	if err := expectDelim(dec, ']', "end of array"); err != nil {
		return nil, err
	}
	return ids, nil
}

func expectDelim(dec *json.Decoder, want json.Delim, what string) error {
	tok, err := dec.Token()
	if err == io.EOF {
		return fmt.Errorf("expected %s, got end of input", what)
	}
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return fmt.Errorf("expected %s, got %v", what, tok)
	}
	return nil
}
