package tabular

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/kevinwang15/sheetmerge"
)

// XLSXWorkbook reads Office Open XML workbooks. Numeric cells decode as
// json.Number, boolean cells as bool, everything else as string.
type XLSXWorkbook struct {
	f *excelize.File
}

func decodeXLSX(data []byte) (*XLSXWorkbook, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, &sheetmerge.ParseError{Source: "XLSX workbook", Err: err}
	}
	return &XLSXWorkbook{f: f}, nil
}

func (w *XLSXWorkbook) SheetNames() []string { return w.f.GetSheetList() }

func (w *XLSXWorkbook) Rows(ctx context.Context, sheet string) ([]sheetmerge.Row, error) {
	if idx, err := w.f.GetSheetIndex(sheet); err != nil || idx < 0 {
		return nil, sheetNotFound(sheet, w.SheetNames())
	}
	records, err := w.f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, &sheetmerge.ParseError{Source: fmt.Sprintf("sheet %q", sheet), Err: err}
	}

	var cellErr error
	rows, err := buildRows(ctx, records, func(r, c int, raw string) (any, bool) {
		if raw == "" {
			return nil, false
		}
		v, err := w.typedCell(sheet, r, c, raw)
		if err != nil && cellErr == nil {
			cellErr = err
		}
		return v, true
	})
	if err != nil {
		return nil, err
	}
	if cellErr != nil {
		return nil, &sheetmerge.ParseError{Source: fmt.Sprintf("sheet %q", sheet), Err: cellErr}
	}
	return rows, nil
}

// typedCell converts a raw cell. r and c are zero-based record coordinates.
func (w *XLSXWorkbook) typedCell(sheet string, r, c int, raw string) (any, error) {
	ref, err := excelize.CoordinatesToCellName(c+1, r+1)
	if err != nil {
		return raw, err
	}
	typ, err := w.f.GetCellType(sheet, ref)
	if err != nil {
		return raw, err
	}
	switch typ {
	case excelize.CellTypeBool:
		return raw == "1" || raw == "TRUE" || raw == "true", nil
	case excelize.CellTypeNumber, excelize.CellTypeUnset:
		// Plain numeric cells carry no type attribute.
		if isJSONNumber(raw) {
			return json.Number(raw), nil
		}
	}
	return raw, nil
}

func (w *XLSXWorkbook) Close() error { return w.f.Close() }
