package sheet

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestReadCSV(t *testing.T) {
	data := "\xEF\xBB\xBF 이름 ,주문 번호,\n김철수 ,2024010112345\n,,\n이영희,2024010112346,extra\n"

	tbl, err := Read(strings.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, []string{"이름", "주문 번호", "Column_3"}, tbl.Headers)
	require.Len(t, tbl.Rows, 2)

	assert.Equal(t, 2, tbl.Rows[0].Number)
	assert.Equal(t, "김철수 ", tbl.Value(tbl.Rows[0], "이름"))
	assert.Equal(t, "", tbl.Value(tbl.Rows[0], "Column_3"))
	assert.Equal(t, 4, tbl.Rows[1].Number)
	assert.Equal(t, "2024010112346", tbl.Value(tbl.Rows[1], "주문 번호"))
	assert.Equal(t, "", tbl.Value(tbl.Rows[1], "없는 열"))
}

func TestReadHTML(t *testing.T) {
	doc := `<html><head><meta charset="utf-8"></head><body>
<table border="1">
  <thead><tr><th>수취인 이름</th><th>상품수량</th></tr></thead>
  <tbody>
    <tr><td> 김철수 </td><td>2</td></tr>
    <tr><td>이영희</td><td><b>1</b></td></tr>
  </tbody>
</table>
<table><tr><td>ignored</td></tr></table>
</body></html>`

	tbl, err := Read(strings.NewReader(doc))
	require.NoError(t, err)
	assert.Equal(t, []string{"수취인 이름", "상품수량"}, tbl.Headers)
	require.Len(t, tbl.Rows, 2)
	assert.Equal(t, "김철수", tbl.Value(tbl.Rows[0], "수취인 이름"))
	assert.Equal(t, "1", tbl.Value(tbl.Rows[1], "상품수량"))
}

func TestReadHTMLWithoutTable(t *testing.T) {
	_, err := Read(strings.NewReader("<html><body>nothing</body></html>"))
	require.Error(t, err)
}

func TestReadEmpty(t *testing.T) {
	_, err := Read(strings.NewReader(""))
	assert.ErrorIs(t, err, ErrEmptyTable)
}

func TestWriteThenReadXLSX(t *testing.T) {
	out := &Output{
		SheetName: "송장 번호 일괄등록",
		Headers:   []string{"번호", "상품주문번호", "송장번호"},
		Rows: [][]any{
			{1, "2024010154321", "T-999"},
			{2, "2024010154322", "T-999"},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, out))

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, "송장 번호 일괄등록", f.GetSheetName(0))

	tbl, err := Read(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, out.Headers, tbl.Headers)
	require.Len(t, tbl.Rows, 2)
	assert.Equal(t, []string{"2", "2024010154322", "T-999"}, tbl.Rows[1].Cells)
}

func TestReadXLSXKeepsLongNumbers(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]any{"주문 번호", "상품수량"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]any{2024010112345, 3}))

	var buf bytes.Buffer
	_, err := f.WriteTo(&buf)
	require.NoError(t, err)
	require.NoError(t, f.Close())

	tbl, err := Read(&buf)
	require.NoError(t, err)
	require.Len(t, tbl.Rows, 1)
	assert.Equal(t, "2024010112345", tbl.Value(tbl.Rows[0], "주문 번호"))
	assert.Equal(t, "3", tbl.Value(tbl.Rows[0], "상품수량"))
}

func TestSaveAndReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "combined.xlsx")
	require.NoError(t, Save(path, &Output{
		SheetName: "주문 내역 정리",
		Headers:   []string{"주문 내역"},
		Rows:      [][]any{{"머그컵: 2개"}},
	}))

	tbl, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "머그컵: 2개", tbl.Value(tbl.Rows[0], "주문 내역"))
}

func TestVisualWidth(t *testing.T) {
	assert.Equal(t, 4.0, VisualWidth("abc"))
	assert.Equal(t, 1.0, VisualWidth(""))
	// Three Hangul syllables and one space.
	assert.Equal(t, 1+4+3*0.75, VisualWidth("주문 번"))
}

func TestColumnWidths(t *testing.T) {
	out := &Output{
		Headers: []string{"a", "번호"},
		Rows:    [][]any{{"abcdef", 7}, {strings.Repeat("x", 400)}},
	}
	widths := columnWidths(out)
	assert.Equal(t, []float64{maxColumnWidth, VisualWidth("번호")}, widths)
}
