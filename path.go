package sheetmerge

import (
	"fmt"
	"strconv"
	"strings"

	gyaml "github.com/goccy/go-yaml"
)

// maxIndex bounds how far a write may pad a sequence. Larger bracket numbers
// are treated as mapping keys instead of allocating huge sequences.
const maxIndex = 1 << 20

// Segment is one step of a Path: either a mapping key or a sequence index.
type Segment struct {
	Key     string
	Index   int
	IsIndex bool
}

// KeySegment returns a mapping-key segment.
func KeySegment(k string) Segment { return Segment{Key: k} }

// IndexSegment returns a sequence-index segment.
func IndexSegment(i int) Segment { return Segment{Index: i, IsIndex: true} }

// key is the mapping key this segment addresses; index segments address their decimal form.
func (s Segment) key() string {
	if s.IsIndex {
		return strconv.Itoa(s.Index)
	}
	return s.Key
}

// index reports the sequence position this segment addresses, if any.
// Decimal keys address sequences too, as in "items.0.name".
func (s Segment) index() (int, bool) {
	if s.IsIndex {
		return s.Index, s.Index >= 0
	}
	return parseIndex(s.Key)
}

// Path locates a value inside a document, e.g. "a.b[0].c".
type Path []Segment

// ParsePath splits a dotted/bracketed path into segments. It never fails:
// text that is not a well-formed bracket group is kept as part of a key.
//
//	a.b[0].c       -> a, b, [0], c
//	a["x.y"].z     -> a, x.y, z
//	a[name]        -> a, name
func ParsePath(s string) Path {
	var (
		p    Path
		key  strings.Builder
		open = true // a (possibly empty) key segment is pending
	)
	for i := 0; i < len(s); {
		switch s[i] {
		case '.':
			if open {
				p = append(p, KeySegment(key.String()))
			}
			key.Reset()
			open = true
			i++
		case '[':
			seg, n, ok := parseBracket(s[i:])
			if !ok {
				key.WriteByte('[')
				open = true
				i++
				continue
			}
			if key.Len() > 0 {
				p = append(p, KeySegment(key.String()))
				key.Reset()
			}
			p = append(p, seg)
			open = false
			i += n
		default:
			key.WriteByte(s[i])
			open = true
			i++
		}
	}
	if open {
		p = append(p, KeySegment(key.String()))
	}
	return p
}

// parseBracket parses a bracket group at the start of s and returns the
// segment and the number of bytes consumed.
func parseBracket(s string) (Segment, int, bool) {
	if len(s) < 2 || s[0] != '[' {
		return Segment{}, 0, false
	}
	if q := s[1]; q == '"' || q == '\'' {
		var b strings.Builder
		for i := 2; i < len(s); i++ {
			switch c := s[i]; {
			case c == '\\' && i+1 < len(s):
				i++
				b.WriteByte(s[i])
			case c == q:
				if i+1 < len(s) && s[i+1] == ']' {
					return KeySegment(b.String()), i + 2, true
				}
				return Segment{}, 0, false
			default:
				b.WriteByte(c)
			}
		}
		return Segment{}, 0, false
	}
	end := strings.IndexByte(s, ']')
	if end < 0 {
		return Segment{}, 0, false
	}
	body := s[1:end]
	if i, ok := parseIndex(body); ok {
		return IndexSegment(i), end + 1, true
	}
	return KeySegment(body), end + 1, true
}

func parseIndex(s string) (int, bool) {
	if s == "" || (len(s) > 1 && s[0] == '0') {
		return 0, false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil || n > maxIndex {
		return 0, false
	}
	return n, true
}

// String renders the path in a form ParsePath reads back to the same segments.
func (p Path) String() string {
	var b strings.Builder
	for i, seg := range p {
		switch {
		case seg.IsIndex:
			fmt.Fprintf(&b, "[%d]", seg.Index)
		case needsQuoting(seg.Key, i == len(p)-1):
			b.WriteString(`["`)
			b.WriteString(strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(seg.Key))
			b.WriteString(`"]`)
		default:
			if i > 0 {
				b.WriteByte('.')
			}
			b.WriteString(seg.Key)
		}
	}
	return b.String()
}

// overlaps reports whether one path is a prefix of the other. Index and
// decimal key segments match each other since both can address a sequence.
func (p Path) overlaps(q Path) bool {
	n := min(len(p), len(q))
	for i := 0; i < n; i++ {
		if p[i].key() != q[i].key() {
			return false
		}
	}
	return true
}

func needsQuoting(k string, last bool) bool {
	if strings.ContainsAny(k, ".[]") {
		return true
	}
	// A lone empty key renders as "" which already parses back to one empty key.
	return k == "" && !last
}

// Read resolves path inside doc. The boolean is false when any segment is absent.
func Read(doc any, path string) (any, bool) {
	return ParsePath(path).Read(doc)
}

// Read resolves p inside doc.
func (p Path) Read(doc any) (any, bool) {
	cur := doc
	for _, seg := range p {
		switch n := cur.(type) {
		case gyaml.MapSlice:
			v, ok := lookupKey(n, seg.key())
			if !ok {
				return nil, false
			}
			cur = v
		case []any:
			i, ok := seg.index()
			if !ok || i >= len(n) {
				return nil, false
			}
			cur = n[i]
		default:
			return nil, false
		}
	}
	return cur, true
}

// Write sets value at path, creating intermediate mappings or sequences as
// needed. Existing containers are modified in place; the returned root must be
// used by the caller because a missing or scalar root is replaced.
func Write(doc any, path string, value any) any {
	return ParsePath(path).Write(doc, value)
}

// Write sets value at p inside doc. See the package-level Write.
func (p Path) Write(doc any, value any) any {
	if len(p) == 0 {
		return value
	}
	seg, rest := p[0], p[1:]

	switch n := doc.(type) {
	case gyaml.MapSlice:
		k := seg.key()
		for i := range n {
			if keyEquals(n[i].Key, k) {
				n[i].Value = rest.Write(n[i].Value, value)
				return n
			}
		}
		return append(n, gyaml.MapItem{Key: k, Value: rest.Write(nil, value)})
	case []any:
		i, ok := seg.index()
		if !ok {
			// Named properties on a sequence have no JSON representation.
			return n
		}
		for len(n) <= i {
			n = append(n, nil)
		}
		n[i] = rest.Write(n[i], value)
		return n
	}

	// Missing or scalar: replace with the container the segment asks for.
	if seg.IsIndex {
		if seg.Index < 0 {
			return doc
		}
		n := make([]any, seg.Index+1)
		n[seg.Index] = rest.Write(nil, value)
		return n
	}
	return gyaml.MapSlice{{Key: seg.Key, Value: rest.Write(nil, value)}}
}

func lookupKey(ms gyaml.MapSlice, k string) (any, bool) {
	for i := range ms {
		if keyEquals(ms[i].Key, k) {
			return ms[i].Value, true
		}
	}
	return nil, false
}

func keyEquals(k interface{}, want string) bool {
	switch vv := k.(type) {
	case string:
		return vv == want
	case fmt.Stringer:
		return vv.String() == want
	default:
		return false
	}
}
