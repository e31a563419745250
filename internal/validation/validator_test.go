package validation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donghyeon/takkobebe/internal/types"
)

var aliases = []string{"운송장", "운송장번호", "운송장 번호", "송장", "송장번호", "송장 번호"}

func TestValidateOrderSheet(t *testing.T) {
	require.NoError(t, ValidateOrderSheet(types.OrderInputColumns))

	headers := []string{types.ColRecipientName, types.ColRecipientPhone}
	err := ValidateOrderSheet(headers)
	require.Error(t, err)

	var schemaErr *SchemaError
	require.True(t, errors.As(err, &schemaErr))
	assert.Len(t, schemaErr.Missing, len(types.OrderInputColumns)-2)
	assert.Contains(t, schemaErr.Missing, types.ColGoodOrderID)
	assert.Contains(t, err.Error(), types.ColGoodOrderID)
}

func TestFindTrackingColumn(t *testing.T) {
	tests := []struct {
		name    string
		headers []string
		want    string
	}{
		{"exact alias", []string{"이름", "송장번호"}, "송장번호"},
		{"first in column order", []string{"송장", "운송장번호"}, "송장"},
		{"alias with space", []string{"운송장 번호"}, "운송장 번호"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := FindTrackingColumn(tc.headers, aliases)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestFindTrackingColumnNoMatch(t *testing.T) {
	_, err := FindTrackingColumn([]string{"이름", "송장번호 "}, aliases)
	require.Error(t, err)

	var schemaErr *SchemaError
	require.True(t, errors.As(err, &schemaErr))
	assert.Equal(t, aliases, schemaErr.Candidates)
	assert.Contains(t, err.Error(), "운송장번호를 찾을 수 없습니다")
}

func TestValidateInvoiceSheet(t *testing.T) {
	col, err := ValidateInvoiceSheet([]string{types.ColManifest, "운송장"}, aliases)
	require.NoError(t, err)
	assert.Equal(t, "운송장", col)

	_, err = ValidateInvoiceSheet([]string{"운송장"}, aliases)
	var schemaErr *SchemaError
	require.True(t, errors.As(err, &schemaErr))
	assert.Equal(t, []string{types.ColManifest}, schemaErr.Missing)

	_, err = ValidateInvoiceSheet([]string{types.ColManifest}, aliases)
	require.True(t, errors.As(err, &schemaErr))
	assert.NotEmpty(t, schemaErr.Candidates)
}
