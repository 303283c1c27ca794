package sheetmerge

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/pmezard/go-difflib/difflib"
)

// DiffOptions controls how Diff renders the comparison.
type DiffOptions struct {
	// Context is the number of unchanged lines shown around each change.
	Context int
	// SideBySide renders two columns instead of a unified diff.
	SideBySide bool
	// Width is the total width of a side-by-side rendering.
	Width    int
	FromName string
	ToName   string
}

// DefaultDiffOptions mirrors a split review view that shows changed hunks only.
func DefaultDiffOptions() DiffOptions {
	return DiffOptions{Context: 3, Width: 120, FromName: "Original", ToName: "Updated"}
}

// Diff renders the line difference between the canonical renderings of two
// documents. Identical documents produce an empty string.
func Diff(original, final any, opts DiffOptions) (string, error) {
	a, err := MarshalDocument(original)
	if err != nil {
		return "", err
	}
	b, err := MarshalDocument(final)
	if err != nil {
		return "", err
	}
	return DiffText(string(a), string(b), opts)
}

// DiffText renders the line difference between two text blobs.
func DiffText(a, b string, opts DiffOptions) (string, error) {
	opts = opts.withDefaults()
	if opts.SideBySide {
		return sideBySide(difflib.SplitLines(a), difflib.SplitLines(b), opts), nil
	}
	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(a),
		B:        difflib.SplitLines(b),
		FromFile: opts.FromName,
		ToFile:   opts.ToName,
		Context:  opts.Context,
	})
	if err != nil {
		return "", fmt.Errorf("sheetmerge: diff: %w", err)
	}
	return diff, nil
}

func (o DiffOptions) withDefaults() DiffOptions {
	def := DefaultDiffOptions()
	if o.Context < 0 {
		o.Context = 0
	}
	if o.Width <= 0 {
		o.Width = def.Width
	}
	if o.FromName == "" {
		o.FromName = def.FromName
	}
	if o.ToName == "" {
		o.ToName = def.ToName
	}
	return o
}

const gutter = " | "

// sideBySide lays out grouped opcodes in two columns, each line prefixed by
// its line number and a +/- marker.
func sideBySide(a, b []string, opts DiffOptions) string {
	groups := difflib.NewMatcher(a, b).GetGroupedOpCodes(opts.Context)
	if len(groups) == 0 {
		return ""
	}

	col := (opts.Width - len(gutter)) / 2
	if col < 16 {
		col = 16
	}
	var sb strings.Builder
	row := func(left, right string) {
		sb.WriteString(runewidth.FillRight(runewidth.Truncate(left, col, "…"), col))
		sb.WriteString(gutter)
		sb.WriteString(strings.TrimRight(runewidth.Truncate(right, col, "…"), " "))
		sb.WriteByte('\n')
	}
	cell := func(lines []string, i int, mark byte) string {
		return fmt.Sprintf("%4d %c %s", i+1, mark, strings.TrimRight(lines[i], "\r\n"))
	}

	row(opts.FromName, opts.ToName)
	row(strings.Repeat("-", col), strings.Repeat("-", col))
	for gi, group := range groups {
		if gi > 0 {
			row("  ...", "  ...")
		}
		for _, op := range group {
			switch op.Tag {
			case 'e':
				for i, j := op.I1, op.J1; i < op.I2; i, j = i+1, j+1 {
					row(cell(a, i, ' '), cell(b, j, ' '))
				}
			case 'd':
				for i := op.I1; i < op.I2; i++ {
					row(cell(a, i, '-'), "")
				}
			case 'i':
				for j := op.J1; j < op.J2; j++ {
					row("", cell(b, j, '+'))
				}
			case 'r':
				n := max(op.I2-op.I1, op.J2-op.J1)
				for k := 0; k < n; k++ {
					var left, right string
					if i := op.I1 + k; i < op.I2 {
						left = cell(a, i, '-')
					}
					if j := op.J1 + k; j < op.J2 {
						right = cell(b, j, '+')
					}
					row(left, right)
				}
			}
		}
	}
	return sb.String()
}
