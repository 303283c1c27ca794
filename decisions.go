package sheetmerge

import (
	"bytes"
	"fmt"
	"os"

	gyaml "github.com/goccy/go-yaml"
)

const decisionsVersion = 1

const decisionsHeader = `# sheetmerge review decisions
# Set keep: false to discard a change. old/new hold JSON literals.
`

type decisionsFile struct {
	Version int             `yaml:"version"`
	Changes []decisionEntry `yaml:"changes"`
}

type decisionEntry struct {
	Path string `yaml:"path"`
	Keep bool   `yaml:"keep"`
	Old  string `yaml:"old,omitempty"`
	New  string `yaml:"new"`
}

// MarshalDecisions encodes a change set with its keep flags as YAML so a
// review can be resumed by a later run.
func MarshalDecisions(cs *ChangeSet) ([]byte, error) {
	f := decisionsFile{Version: decisionsVersion, Changes: []decisionEntry{}}
	for _, c := range cs.Records() {
		e := decisionEntry{Path: c.Path, Keep: c.Keep, New: FormatValue(c.NewValue, true)}
		if c.HadOld {
			e.Old = FormatValue(c.OldValue, true)
		}
		f.Changes = append(f.Changes, e)
	}

	var buf bytes.Buffer
	buf.WriteString(decisionsHeader)
	enc := gyaml.NewEncoder(&buf, gyaml.Indent(2), gyaml.IndentSequence(true))
	if err := enc.Encode(f); err != nil {
		return nil, fmt.Errorf("sheetmerge: encode decisions: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("sheetmerge: encode decisions: %w", err)
	}
	return buf.Bytes(), nil
}

// UnmarshalDecisions decodes a file written by MarshalDecisions.
func UnmarshalDecisions(data []byte) (*ChangeSet, error) {
	var f decisionsFile
	if err := gyaml.UnmarshalWithOptions(data, &f, gyaml.DisallowUnknownField()); err != nil {
		return nil, &ParseError{Source: "decisions file", Err: err}
	}
	if f.Version != decisionsVersion {
		return nil, &ParseError{Source: "decisions file", Err: fmt.Errorf("unsupported version %d", f.Version)}
	}

	cs := NewChangeSet()
	for i, e := range f.Changes {
		if e.New == "" {
			return nil, &ParseError{Source: "decisions file", Err: fmt.Errorf("change %d (%s): missing new value", i, e.Path)}
		}
		nv, err := DecodeDocument([]byte(e.New))
		if err != nil {
			return nil, &ParseError{Source: "decisions file", Err: fmt.Errorf("change %d (%s): new: %w", i, e.Path, err)}
		}
		c := Change{Path: e.Path, NewValue: nv, Keep: e.Keep}
		if e.Old != "" {
			ov, err := DecodeDocument([]byte(e.Old))
			if err != nil {
				return nil, &ParseError{Source: "decisions file", Err: fmt.Errorf("change %d (%s): old: %w", i, e.Path, err)}
			}
			c.OldValue, c.HadOld = ov, true
		}
		cs.put(c)
	}
	return cs, nil
}

// WriteDecisionsFile writes MarshalDecisions output to path.
func WriteDecisionsFile(path string, cs *ChangeSet) error {
	b, err := MarshalDecisions(cs)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("sheetmerge: write decisions: %w", err)
	}
	return nil
}

// ReadDecisionsFile reads a change set written by WriteDecisionsFile.
func ReadDecisionsFile(path string) (*ChangeSet, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("sheetmerge: read decisions: %w", err)
	}
	return UnmarshalDecisions(b)
}
