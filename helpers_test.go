package sheetmerge

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	jsonpatch "github.com/evanphx/json-patch/v5"
	gyaml "github.com/goccy/go-yaml"
	"github.com/pmezard/go-difflib/difflib"
)

// --- helpers for tests ---

func mustDecode(t *testing.T, s string) any {
	t.Helper()
	doc, err := DecodeDocument([]byte(s))
	if err != nil {
		t.Fatalf("DecodeDocument(%s): %v", s, err)
	}
	return doc
}

// compactJSON renders doc through MarshalDocument and compacts it for comparisons.
func compactJSON(t *testing.T, doc any) string {
	t.Helper()
	b, err := MarshalDocument(doc)
	if err != nil {
		t.Fatalf("MarshalDocument: %v", err)
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, b); err != nil {
		t.Fatalf("compact: %v\n%s", err, b)
	}
	return buf.String()
}

func mustDecodePatch(t *testing.T, s string) jsonpatch.Patch {
	t.Helper()
	patch, err := jsonpatch.DecodePatch([]byte(s))
	if err != nil {
		t.Fatalf("jsonpatch decode error: %v", err)
	}
	return patch
}

func unifiedDiff(before, after string) string {
	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(before),
		B:        difflib.SplitLines(after),
		FromFile: "before",
		ToFile:   "after",
		Context:  2,
	})
	if err != nil {
		return err.Error()
	}
	return diff
}

func diffStats(diff string) (adds, removes int) {
	for _, line := range strings.Split(diff, "\n") {
		if len(line) == 0 {
			continue
		}
		switch line[0] {
		case '+':
			if !strings.HasPrefix(line, "+++") {
				adds++
			}
		case '-':
			if !strings.HasPrefix(line, "---") {
				removes++
			}
		}
	}
	return
}

// leafPaths lists the path of every scalar and empty container in doc.
func leafPaths(doc any) []Path {
	var out []Path
	var walk func(n any, cur Path)
	walk = func(n any, cur Path) {
		switch v := n.(type) {
		case gyaml.MapSlice:
			if len(v) == 0 && len(cur) > 0 {
				out = append(out, cur)
			}
			for _, item := range v {
				walk(item.Value, append(append(Path(nil), cur...), KeySegment(keyString(item.Key))))
			}
		case []any:
			if len(v) == 0 && len(cur) > 0 {
				out = append(out, cur)
			}
			for i, item := range v {
				walk(item, append(append(Path(nil), cur...), IndexSegment(i)))
			}
		default:
			out = append(out, cur)
		}
	}
	walk(doc, nil)
	return out
}

func row(kv ...any) Row {
	r := Row{}
	for i := 0; i+1 < len(kv); i += 2 {
		r[kv[i].(string)] = kv[i+1]
	}
	return r
}
