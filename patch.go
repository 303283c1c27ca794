package sheetmerge

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	jsonpatch "github.com/evanphx/json-patch/v5"
)

type patchOp struct {
	Op    string          `json:"op"`
	Path  string          `json:"path"`
	Value json.RawMessage `json:"value,omitempty"`
}

// Pointer renders p as an RFC 6901 JSON Pointer.
func (p Path) Pointer() string {
	var b strings.Builder
	esc := strings.NewReplacer("~", "~0", "/", "~1")
	for _, seg := range p {
		b.WriteByte('/')
		if seg.IsIndex {
			b.WriteString(strconv.Itoa(seg.Index))
			continue
		}
		b.WriteString(esc.Replace(seg.Key))
	}
	return b.String()
}

func (cs *ChangeSet) patchOps() ([]patchOp, error) {
	ops := make([]patchOp, 0, cs.Len())
	for _, c := range cs.Records() {
		if !c.Keep {
			continue
		}
		var buf bytes.Buffer
		if err := (&docEncoder{buf: &buf}).encode(c.NewValue); err != nil {
			return nil, fmt.Errorf("sheetmerge: patch value for %s: %w", c.Path, err)
		}
		op := "add"
		if c.HadOld {
			op = "replace"
		}
		ops = append(ops, patchOp{Op: op, Path: ParsePath(c.Path).Pointer(), Value: buf.Bytes()})
	}
	return ops, nil
}

// Patch renders the kept changes as an RFC 6902 JSON Patch: "replace" where
// the path existed in the original document, "add" otherwise. Parents that
// the merge would create are not created by the patch; apply it with
// EnsurePathExistsOnAdd for those.
func (cs *ChangeSet) Patch() (jsonpatch.Patch, error) {
	ops, err := cs.patchOps()
	if err != nil {
		return nil, err
	}
	b, err := json.Marshal(ops)
	if err != nil {
		return nil, fmt.Errorf("sheetmerge: encode patch: %w", err)
	}
	patch, err := jsonpatch.DecodePatch(b)
	if err != nil {
		return nil, fmt.Errorf("sheetmerge: decode patch: %w", err)
	}
	return patch, nil
}

// PatchJSON is Patch encoded as indented JSON with ops in change set order.
func (cs *ChangeSet) PatchJSON() ([]byte, error) {
	ops, err := cs.patchOps()
	if err != nil {
		return nil, err
	}
	b, err := json.MarshalIndent(ops, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("sheetmerge: encode patch: %w", err)
	}
	return append(b, '\n'), nil
}
