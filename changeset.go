package sheetmerge

// Change is one detected difference between the document and the table.
type Change struct {
	Path     string
	OldValue any
	// HadOld is false when the path did not exist in the document.
	HadOld   bool
	NewValue any
	Keep     bool
}

// ChangeSet is the ordered result of one detection run. No two records address
// the same location: a.b and a["b"] are one path. Only the Keep flag changes
// after detection.
type ChangeSet struct {
	records []Change
	byPath  map[string]int
}

// NewChangeSet builds a set from records, e.g. ones reloaded from a decisions
// file. A later record for an already seen path replaces the earlier one.
func NewChangeSet(records ...Change) *ChangeSet {
	cs := &ChangeSet{byPath: make(map[string]int, len(records))}
	for _, r := range records {
		cs.put(r)
	}
	return cs
}

// pathKey is the canonical spelling records are indexed by.
func pathKey(path string) string { return ParsePath(path).String() }

func (cs *ChangeSet) index(path string) (int, bool) {
	if cs == nil {
		return 0, false
	}
	i, ok := cs.byPath[pathKey(path)]
	return i, ok
}

func (cs *ChangeSet) put(r Change) {
	if i, ok := cs.index(r.Path); ok {
		cs.records[i] = r
		return
	}
	cs.byPath[pathKey(r.Path)] = len(cs.records)
	cs.records = append(cs.records, r)
}

// drop removes the record for path, keeping the order of the rest.
func (cs *ChangeSet) drop(path string) {
	i, ok := cs.index(path)
	if !ok {
		return
	}
	cs.records = append(cs.records[:i], cs.records[i+1:]...)
	delete(cs.byPath, pathKey(path))
	for j := i; j < len(cs.records); j++ {
		cs.byPath[pathKey(cs.records[j].Path)] = j
	}
}

// overlapsAfter reports whether a record after position i addresses p, one of
// its ancestors or one of its descendants.
func (cs *ChangeSet) overlapsAfter(i int, p Path) bool {
	for _, r := range cs.records[i+1:] {
		if ParsePath(r.Path).overlaps(p) {
			return true
		}
	}
	return false
}

// Toggle flips Keep on the record for path and reports whether one existed.
func (cs *ChangeSet) Toggle(path string) bool {
	if cs == nil {
		return false
	}
	i, ok := cs.index(path)
	if !ok {
		return false
	}
	cs.records[i].Keep = !cs.records[i].Keep
	return true
}

// SetKeep sets Keep on the record for path and reports whether one existed.
func (cs *ChangeSet) SetKeep(path string, keep bool) bool {
	if cs == nil {
		return false
	}
	i, ok := cs.index(path)
	if !ok {
		return false
	}
	cs.records[i].Keep = keep
	return true
}

// Len returns the number of records.
func (cs *ChangeSet) Len() int {
	if cs == nil {
		return 0
	}
	return len(cs.records)
}

// At returns the i-th record.
func (cs *ChangeSet) At(i int) Change { return cs.records[i] }

// Lookup returns the record for path.
func (cs *ChangeSet) Lookup(path string) (Change, bool) {
	if cs == nil {
		return Change{}, false
	}
	i, ok := cs.index(path)
	if !ok {
		return Change{}, false
	}
	return cs.records[i], true
}

// Records returns a copy of the records in order.
func (cs *ChangeSet) Records() []Change {
	if cs == nil {
		return nil
	}
	return append([]Change(nil), cs.records...)
}

// Kept returns how many records are marked to keep.
func (cs *ChangeSet) Kept() int {
	n := 0
	for _, r := range cs.Records() {
		if r.Keep {
			n++
		}
	}
	return n
}
