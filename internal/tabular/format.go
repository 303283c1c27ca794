package tabular

import (
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/kevinwang15/sheetmerge"
)

// Format is the decoder chosen for a table file.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

const (
	mimeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	mimeXLS  = "application/vnd.ms-excel"
	mimeZip  = "application/zip"
)

// detectMIME tries the stdlib sniffer first and asks mimetype when the answer
// is too generic to tell workbooks apart.
func detectMIME(data []byte) string {
	if len(data) == 0 {
		return "text/plain"
	}
	mt := http.DetectContentType(data)
	if mt != "application/octet-stream" && mt != mimeZip {
		return mt
	}
	return mimetype.Detect(data).String()
}

func hasPrefix(s, p string) bool { return len(s) >= len(p) && s[:len(p)] == p }

func isWorkbookMIME(mt string) bool {
	return hasPrefix(mt, mimeXLSX) || hasPrefix(mt, mimeZip) || hasPrefix(mt, "application/vnd.ms-excel.sheet.macroenabled")
}

// DetectFormat checks that name and content agree on a supported table type.
func DetectFormat(name string, data []byte) (Format, string, error) {
	mt := detectMIME(data)
	ext := strings.ToLower(filepath.Ext(name))

	invalid := func(reason string) (Format, string, error) {
		return "", mt, &sheetmerge.ValidationError{Field: "table file", Reason: reason}
	}

	switch ext {
	case ".csv":
		if !hasPrefix(mt, "text/") {
			return invalid("expected CSV text, found " + mt)
		}
		return FormatCSV, mt, nil
	case ".xlsx", ".xlsm":
		if !isWorkbookMIME(mt) {
			return invalid("expected an XLSX workbook, found " + mt)
		}
		return FormatXLSX, mt, nil
	case ".xls":
		return invalid("legacy .xls workbooks are not supported, save the file as .xlsx")
	}

	// No usable extension: go by content alone.
	switch {
	case isWorkbookMIME(mt):
		return FormatXLSX, mt, nil
	case hasPrefix(mt, mimeXLS), hasPrefix(mt, "application/x-ole-storage"):
		return invalid("legacy .xls workbooks are not supported, save the file as .xlsx")
	case hasPrefix(mt, "text/"):
		return FormatCSV, mt, nil
	default:
		return invalid("unsupported file type " + mt)
	}
}
