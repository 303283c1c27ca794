package sheetmerge

import "strings"

// Row is one decoded table record, column name to cell value. Empty cells are absent.
type Row map[string]any

// Detection is the result of comparing table rows against a document.
type Detection struct {
	// Working is the original with every detected change applied, whatever
	// the later keep/discard decisions are.
	Working any
	Changes *ChangeSet

	Rows    int // rows seen
	Skipped int // rows without a string key or without a value
}

type detectOptions struct {
	keyPrefix string
	trimSpace bool
}

// DetectOption customizes Detect.
type DetectOption func(*detectOptions)

// WithKeyPrefix ignores rows whose path does not start with prefix.
func WithKeyPrefix(prefix string) DetectOption {
	return func(o *detectOptions) { o.keyPrefix = prefix }
}

// WithTrimSpace trims surrounding whitespace from paths read from the key column.
func WithTrimSpace() DetectOption {
	return func(o *detectOptions) { o.trimSpace = true }
}

// Detect compares each row's value column with the document value at the
// path in its key column. Rows whose key is not a string or whose value is
// absent are skipped. Values are compared without coercion.
//
// The original document is never modified. When several rows target the same
// path the last one wins and the record keeps its first position, unless a
// later record overlaps the path: then it moves behind it, so applying every
// record in order reproduces Working. A record whose final value equals the
// original is dropped when nothing after it overlaps its path.
func Detect(original any, rows []Row, keyColumn, valueColumn string, opts ...DetectOption) (*Detection, error) {
	if keyColumn == "" {
		return nil, &ValidationError{Field: "key column", Reason: "required"}
	}
	if valueColumn == "" {
		return nil, &ValidationError{Field: "value column", Reason: "required"}
	}

	var o detectOptions
	for _, opt := range opts {
		opt(&o)
	}

	det := &Detection{
		Working: Clone(original),
		Changes: NewChangeSet(),
	}
	for _, row := range rows {
		det.Rows++

		path, ok := row[keyColumn].(string)
		if !ok {
			det.Skipped++
			continue
		}
		newValue, ok := row[valueColumn]
		if !ok {
			det.Skipped++
			continue
		}
		if o.trimSpace {
			path = strings.TrimSpace(path)
		}
		if o.keyPrefix != "" && !strings.HasPrefix(path, o.keyPrefix) {
			det.Skipped++
			continue
		}

		p := ParsePath(path)
		oldValue, had := p.Read(det.Working)
		if had && strictEqual(oldValue, newValue) {
			continue
		}
		det.Working = p.Write(det.Working, newValue)

		if i, seen := det.Changes.index(path); seen {
			prev := det.Changes.At(i)
			overlapped := det.Changes.overlapsAfter(i, p)
			if !overlapped && prev.HadOld && strictEqual(prev.OldValue, newValue) {
				det.Changes.drop(path)
				continue
			}
			prev.NewValue = newValue
			if overlapped {
				det.Changes.drop(path)
			}
			det.Changes.put(prev)
			continue
		}
		if isContainer(oldValue) {
			oldValue = Clone(oldValue)
		}
		det.Changes.put(Change{
			Path:     path,
			OldValue: oldValue,
			HadOld:   had,
			NewValue: newValue,
			Keep:     true,
		})
	}
	return det, nil
}
