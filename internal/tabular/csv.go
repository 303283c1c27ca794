package tabular

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"io"

	"github.com/kevinwang15/sheetmerge"
)

// CSVSheetName is the only sheet a CSV file exposes.
const CSVSheetName = "Sheet1"

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSVWorkbook is a single-sheet workbook read from comma separated text.
// Every cell is a string.
type CSVWorkbook struct {
	records [][]string
}

func decodeCSV(ctx context.Context, data []byte) (*CSVWorkbook, error) {
	r := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(data, utf8BOM)))
	r.FieldsPerRecord = -1

	var records [][]string
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rec, err := r.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, &sheetmerge.ParseError{Source: "CSV table", Err: err}
		}
		records = append(records, rec)
	}
	return &CSVWorkbook{records: records}, nil
}

func (w *CSVWorkbook) SheetNames() []string { return []string{CSVSheetName} }

func (w *CSVWorkbook) Rows(ctx context.Context, sheet string) ([]sheetmerge.Row, error) {
	if sheet != CSVSheetName {
		return nil, sheetNotFound(sheet, w.SheetNames())
	}
	return buildRows(ctx, w.records, func(_, _ int, raw string) (any, bool) {
		return raw, raw != ""
	})
}

func (w *CSVWorkbook) Close() error { return nil }
