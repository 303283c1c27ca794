// Package tabular decodes spreadsheet and CSV files into header-keyed rows.
package tabular

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/kevinwang15/sheetmerge"
	"github.com/kevinwang15/sheetmerge/internal/logger"
)

// Workbook is a decoded tabular source with one or more named sheets.
type Workbook interface {
	// SheetNames lists the sheets in workbook order.
	SheetNames() []string
	// Rows decodes one sheet. The first row is the header.
	Rows(ctx context.Context, sheet string) ([]sheetmerge.Row, error)
	Close() error
}

// Open reads the file at path and picks a decoder from its extension and content.
func Open(ctx context.Context, path string) (Workbook, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("sheetmerge: read table: %w", err)
	}
	return Decode(ctx, filepath.Base(path), data)
}

// Decode is Open for content already in memory; name supplies the extension.
func Decode(ctx context.Context, name string, data []byte) (Workbook, error) {
	format, mime, err := DetectFormat(name, data)
	if err != nil {
		return nil, err
	}
	logger.FromContext(ctx).Debug("decoding table", "name", name, "format", format, "mime", mime, "bytes", len(data))

	switch format {
	case FormatCSV:
		return decodeCSV(ctx, data)
	default:
		return decodeXLSX(data)
	}
}

// ReadRows opens path and decodes sheet in one step.
func ReadRows(ctx context.Context, path, sheet string) ([]sheetmerge.Row, error) {
	wb, err := Open(ctx, path)
	if err != nil {
		return nil, err
	}
	defer wb.Close()
	return wb.Rows(ctx, sheet)
}

func sheetNotFound(sheet string, available []string) error {
	return &sheetmerge.SheetNotFoundError{Sheet: sheet, Available: append([]string(nil), available...)}
}

// headerNames applies the naming rules for header cells: an empty cell is
// named __EMPTY, and a repeated name gets a _1, _2, ... suffix.
func headerNames(header []string, width int) []string {
	names := make([]string, width)
	seen := make(map[string]int, width)
	for i := 0; i < width; i++ {
		base := ""
		if i < len(header) {
			base = header[i]
		}
		if base == "" {
			base = "__EMPTY"
		}
		name := base
		if n := seen[base]; n > 0 {
			for {
				name = base + "_" + strconv.Itoa(n)
				n++
				if seen[name] == 0 {
					break
				}
			}
			seen[base] = n
		} else {
			seen[base] = 1
		}
		seen[name] = 1
		names[i] = name
	}
	return names
}

// usedRange reports the first row and column holding a non-empty cell. The
// header is read from that row, as spreadsheet tools do for a sheet's range.
func usedRange(records [][]string) (top, left int, ok bool) {
	top, left = -1, -1
	for r, rec := range records {
		for c, raw := range rec {
			if raw == "" {
				continue
			}
			if top < 0 {
				top = r
			}
			if left < 0 || c < left {
				left = c
			}
			break
		}
	}
	return top, left, top >= 0
}

// buildRows turns records into header-keyed rows. cell converts a raw cell to
// its value and reports false for an empty cell; r and c are the record
// coordinates. Rows with no cells are skipped.
func buildRows(ctx context.Context, records [][]string, cell func(r, c int, raw string) (any, bool)) ([]sheetmerge.Row, error) {
	top, left, ok := usedRange(records)
	if !ok {
		return nil, nil
	}
	width := 0
	for _, rec := range records[top:] {
		width = max(width, len(rec)-left)
	}
	var header []string
	if left < len(records[top]) {
		header = records[top][left:]
	}
	names := headerNames(header, width)

	rows := make([]sheetmerge.Row, 0, len(records)-top-1)
	for r := top + 1; r < len(records); r++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		row := make(sheetmerge.Row)
		for c := left; c < len(records[r]); c++ {
			if v, ok := cell(r, c, records[r][c]); ok {
				row[names[c-left]] = v
			}
		}
		if len(row) > 0 {
			rows = append(rows, row)
		}
	}
	return rows, nil
}

func isJSONNumber(s string) bool {
	if s == "" || (s[0] != '-' && (s[0] < '0' || s[0] > '9')) {
		return false
	}
	var n json.Number
	return json.Unmarshal([]byte(s), &n) == nil
}
