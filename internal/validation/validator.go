// =============================================================================
// Order Consolidator - Validation Module
// =============================================================================
//
// This module checks that an uploaded table has the columns a pass needs
// before any row is processed.
//
// VALIDATION RULES:
//   - Forward pass: every column of types.OrderInputColumns must exist.
//   - Reconciliation pass: the manifest column must exist, and at least one
//     column must be named after one of the tracking-number aliases. When
//     several columns match, the first one in table column order wins.
//
// Address and phone formats are never validated.
//
// =============================================================================

package validation

import (
	"fmt"
	"strings"

	"github.com/donghyeon/takkobebe/internal/types"
)

// =============================================================================
// SCHEMA ERROR
// =============================================================================

// SchemaError reports a table that lacks required columns. Its message is
// meant to be shown to the operator as-is.
type SchemaError struct {
	// Missing lists the required columns that were not found.
	Missing []string

	// Candidates lists the accepted names when no alias column matched.
	Candidates []string
}

// Error implements the error interface.
func (e *SchemaError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		quoted := make([]string, len(e.Missing))
		for i, m := range e.Missing {
			quoted[i] = fmt.Sprintf("%q", m)
		}
		parts = append(parts, fmt.Sprintf("%s 열이 존재하지 않습니다.", strings.Join(quoted, ", ")))
	}
	if len(e.Candidates) > 0 {
		parts = append(parts, fmt.Sprintf(
			"운송장번호를 찾을 수 없습니다. 운송장번호를 나타내는 열이 %q 이 중 최소 하나의 이름과 일치하여야 합니다.",
			e.Candidates))
	}
	return strings.Join(parts, " ")
}

// =============================================================================
// COLUMN CHECKS
// =============================================================================

// RequireColumns returns a SchemaError naming every required column that
// is not present in headers.
func RequireColumns(headers []string, required []string) error {
	present := make(map[string]struct{}, len(headers))
	for _, h := range headers {
		present[h] = struct{}{}
	}

	var missing []string
	for _, col := range required {
		if _, ok := present[col]; !ok {
			missing = append(missing, col)
		}
	}

	if len(missing) > 0 {
		return &SchemaError{Missing: missing}
	}
	return nil
}

// ValidateOrderSheet checks the forward pass input columns.
func ValidateOrderSheet(headers []string) error {
	return RequireColumns(headers, types.OrderInputColumns)
}

// FindTrackingColumn returns the first header, in table column order, that
// equals one of the aliases.
func FindTrackingColumn(headers []string, aliases []string) (string, error) {
	accepted := make(map[string]struct{}, len(aliases))
	for _, a := range aliases {
		accepted[a] = struct{}{}
	}

	for _, h := range headers {
		if _, ok := accepted[h]; ok {
			return h, nil
		}
	}
	return "", &SchemaError{Candidates: append([]string(nil), aliases...)}
}

// ValidateInvoiceSheet checks the reconciliation pass input columns and
// returns the name of the tracking-number column.
func ValidateInvoiceSheet(headers []string, aliases []string) (string, error) {
	if err := RequireColumns(headers, []string{types.ColManifest}); err != nil {
		return "", err
	}
	return FindTrackingColumn(headers, aliases)
}
