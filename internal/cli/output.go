package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/tidwall/pretty"

	"github.com/kevinwang15/sheetmerge"
)

// writeDocument writes the canonical rendering of doc, colored when w is a terminal.
func writeDocument(w io.Writer, doc any) error {
	b, err := sheetmerge.MarshalDocument(doc)
	if err != nil {
		return err
	}
	if isTerminal(w) {
		b = pretty.Color(b, nil)
	}
	_, err = w.Write(b)
	return err
}

// writeFile creates path and hands it to write.
func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("sheetmerge: create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("sheetmerge: close %s: %w", path, err)
	}
	return nil
}

func printChanges(w io.Writer, changes []sheetmerge.Change) {
	for _, c := range changes {
		mark := "keep"
		if !c.Keep {
			mark = "discard"
		}
		fmt.Fprintf(w, "%-7s %s: %s -> %s\n",
			mark,
			c.Path,
			sheetmerge.FormatValue(c.OldValue, c.HadOld),
			sheetmerge.FormatValue(c.NewValue, true),
		)
	}
}
