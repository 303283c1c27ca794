package tabular

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/kevinwang15/sheetmerge"
)

func writeTemp(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestHeaderNames(t *testing.T) {
	tests := []struct {
		header []string
		width  int
		want   []string
	}{
		{[]string{"key", "value"}, 2, []string{"key", "value"}},
		{[]string{"a", "", "a", "", ""}, 6, []string{"a", "__EMPTY", "a_1", "__EMPTY_1", "__EMPTY_2", "__EMPTY_3"}},
		{[]string{"a", "a_1", "a"}, 3, []string{"a", "a_1", "a_2"}},
		{nil, 1, []string{"__EMPTY"}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, headerNames(tt.header, tt.width), "header %q", tt.header)
	}
}

func TestCSVRows(t *testing.T) {
	data := []byte("\xEF\xBB\xBFkey,value,,value\n" +
		"a.b,hello,x,dup\n" +
		"\n" +
		",,,\n" +
		"\"quoted, key\",5,,\n" +
		"only.key\n")
	wb, err := Decode(context.Background(), "edits.csv", data)
	require.NoError(t, err)
	defer wb.Close()
	assert.Equal(t, []string{"Sheet1"}, wb.SheetNames())

	rows, err := wb.Rows(context.Background(), "Sheet1")
	require.NoError(t, err)
	require.Len(t, rows, 3, "blank rows are skipped")

	assert.Equal(t, sheetmerge.Row{"key": "a.b", "value": "hello", "__EMPTY": "x", "value_1": "dup"}, rows[0])
	assert.Equal(t, sheetmerge.Row{"key": "quoted, key", "value": "5"}, rows[1])
	_, hasValue := rows[2]["value"]
	assert.False(t, hasValue, "empty cells are absent")
}

func TestCSVUnknownSheet(t *testing.T) {
	wb, err := Decode(context.Background(), "edits.csv", []byte("key,value\na,b\n"))
	require.NoError(t, err)

	_, err = wb.Rows(context.Background(), "Translations")
	require.True(t, errors.Is(err, sheetmerge.ErrSheetNotFound))
	var snf *sheetmerge.SheetNotFoundError
	require.True(t, errors.As(err, &snf))
	assert.Equal(t, []string{"Sheet1"}, snf.Available)
}

func TestCSVMalformed(t *testing.T) {
	for _, in := range []string{"key,value\n\"a\"x\"b,1\n", "key,value\n\"unterminated,1\n"} {
		_, err := Decode(context.Background(), "bad.csv", []byte(in))
		assert.True(t, errors.Is(err, sheetmerge.ErrParse), "%q: got %v", in, err)
	}
}

func TestCSVHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Decode(ctx, "edits.csv", []byte("key,value\na,b\n"))
	assert.ErrorIs(t, err, context.Canceled)
}

func buildWorkbook(t *testing.T) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	_, err := f.NewSheet("Translations")
	require.NoError(t, err)
	cells := map[string]any{
		"A1": "key", "B1": "value", "C1": "flag",
		"A2": "app.title", "B2": "Hello",
		"A3": "app.count", "B3": 5, "C3": true,
		"A4": "app.ratio", "B4": 2.5,
		"A6": "app.code", "B6": "007",
	}
	for ref, v := range cells {
		require.NoError(t, f.SetCellValue("Translations", ref, v))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func TestXLSXTypedRows(t *testing.T) {
	path := writeTemp(t, "edits.xlsx", buildWorkbook(t))

	rows, err := ReadRows(context.Background(), path, "Translations")
	require.NoError(t, err)
	require.Len(t, rows, 4)

	assert.Equal(t, sheetmerge.Row{"key": "app.title", "value": "Hello"}, rows[0])
	assert.Equal(t, json.Number("5"), rows[1]["value"])
	assert.Equal(t, true, rows[1]["flag"])
	assert.Equal(t, json.Number("2.5"), rows[2]["value"])
	assert.Equal(t, "007", rows[3]["value"], "text cells stay strings")
}

func TestXLSXHeaderFromUsedRange(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	cells := map[string]any{
		"B3": "key", "C3": "value",
		"B4": "a.b", "C4": "world",
		"B6": "a.c", "C6": 7,
	}
	for ref, v := range cells {
		require.NoError(t, f.SetCellValue("Sheet1", ref, v))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	wb, err := Decode(context.Background(), "edits.xlsx", buf.Bytes())
	require.NoError(t, err)
	defer wb.Close()

	rows, err := wb.Rows(context.Background(), "Sheet1")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, sheetmerge.Row{"key": "a.b", "value": "world"}, rows[0])
	assert.Equal(t, sheetmerge.Row{"key": "a.c", "value": json.Number("7")}, rows[1])
}

func TestCSVHeaderAfterBlankRecords(t *testing.T) {
	wb, err := Decode(context.Background(), "edits.csv", []byte(`,,
,,
,key,value
,a.b,world
`))
	require.NoError(t, err)

	rows, err := wb.Rows(context.Background(), "Sheet1")
	require.NoError(t, err)
	assert.Equal(t, []sheetmerge.Row{{"key": "a.b", "value": "world"}}, rows)
}

func TestXLSXSheetNotFound(t *testing.T) {
	path := writeTemp(t, "edits.xlsx", buildWorkbook(t))

	_, err := ReadRows(context.Background(), path, "Missing")
	require.True(t, errors.Is(err, sheetmerge.ErrSheetNotFound))
	var snf *sheetmerge.SheetNotFoundError
	require.True(t, errors.As(err, &snf))
	assert.Equal(t, []string{"Sheet1", "Translations"}, snf.Available)
}

func TestDetectFormat(t *testing.T) {
	xlsx := buildWorkbook(t)
	tests := []struct {
		name    string
		file    string
		data    []byte
		want    Format
		invalid bool
	}{
		{name: "csv", file: "a.csv", data: []byte("key,value\n"), want: FormatCSV},
		{name: "empty csv", file: "a.csv", data: nil, want: FormatCSV},
		{name: "xlsx", file: "a.xlsx", data: xlsx, want: FormatXLSX},
		{name: "xlsx by content", file: "upload", data: xlsx, want: FormatXLSX},
		{name: "csv by content", file: "upload", data: []byte("key,value\n"), want: FormatCSV},
		{name: "xlsx named csv", file: "a.csv", data: xlsx, invalid: true},
		{name: "text named xlsx", file: "a.xlsx", data: []byte("key,value\n"), invalid: true},
		{name: "legacy xls", file: "a.xls", data: []byte("anything"), invalid: true},
		{name: "png", file: "a.png", data: []byte("\x89PNG\r\n\x1a\n0000"), invalid: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, mime, err := DetectFormat(tt.file, tt.data)
			if tt.invalid {
				require.True(t, errors.Is(err, sheetmerge.ErrInputValidation), "got %v (mime %s)", err, mime)
				return
			}
			require.NoError(t, err, "mime %s", mime)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCorruptWorkbookIsParseError(t *testing.T) {
	xlsx := buildWorkbook(t)
	// Keep the zip signature so sniffing accepts it, then truncate.
	_, err := Decode(context.Background(), "broken.xlsx", xlsx[:len(xlsx)/3])
	assert.True(t, errors.Is(err, sheetmerge.ErrParse) || errors.Is(err, sheetmerge.ErrInputValidation), "got %v", err)
}
