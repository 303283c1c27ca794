package cli

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/spf13/cobra"

	"github.com/kevinwang15/sheetmerge"
	"github.com/kevinwang15/sheetmerge/internal/config"
	"github.com/kevinwang15/sheetmerge/internal/logger"
	"github.com/kevinwang15/sheetmerge/internal/tabular"
)

// inputFlags are the flags of every command that needs a document and a change set.
type inputFlags struct {
	json        string
	table       string
	sheet       string
	keyColumn   string
	valueColumn string
	keyPrefix   string
	trimKeys    bool
	decisions   string
	saveConfig  bool
}

func (f *inputFlags) register(cmd *cobra.Command, decisionsUsage string) {
	fl := cmd.Flags()
	fl.StringVar(&f.json, "json", "", "JSON translation file")
	fl.StringVar(&f.table, "table", "", "spreadsheet (.xlsx) or CSV file with the edits")
	fl.StringVar(&f.sheet, "sheet", "", "sheet to read (a CSV file has one sheet, Sheet1)")
	fl.StringVar(&f.keyColumn, "key-column", "", "column holding the path of each value")
	fl.StringVar(&f.valueColumn, "value-column", "", "column holding the new value")
	fl.StringVar(&f.keyPrefix, "key-prefix", "", "only use rows whose path starts with this prefix")
	fl.BoolVar(&f.trimKeys, "trim-keys", false, "trim whitespace around paths")
	fl.StringVar(&f.decisions, "decisions", "", decisionsUsage)
	fl.BoolVar(&f.saveConfig, "save-config", false, "write the sheet, column and key settings to the config file for later runs")
}

// merge overlays flags the user set explicitly on the config file values.
func (f *inputFlags) merge(cmd *cobra.Command, a *app) {
	fl := cmd.Flags()
	set := func(name string, dst *string, v string) {
		if fl.Changed(name) {
			*dst = v
		}
	}
	set("sheet", &a.cfg.Sheet, f.sheet)
	set("key-column", &a.cfg.KeyColumn, f.keyColumn)
	set("value-column", &a.cfg.ValueColumn, f.valueColumn)
	set("key-prefix", &a.cfg.KeyPrefix, f.keyPrefix)
	if fl.Changed("trim-keys") {
		a.cfg.TrimKeys = f.trimKeys
	}
}

// readDocument loads the JSON file after checking it looks like JSON.
func readDocument(path string) (any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &sheetmerge.ValidationError{Field: "JSON file", Reason: "no such file " + path}
		}
		return nil, err
	}
	if !strings.EqualFold(filepath.Ext(path), ".json") {
		if mt := mimetype.Detect(data); !mt.Is("application/json") {
			return nil, &sheetmerge.ValidationError{Field: "JSON file", Reason: "found " + mt.String()}
		}
	}
	return sheetmerge.DecodeDocument(data)
}

// openSession loads the inputs into a reviewing session. With restore set and
// no table given, the change set comes from the decisions file instead of a
// fresh detection.
func (a *app) openSession(cmd *cobra.Command, f *inputFlags, restore bool) (*sheetmerge.Session, error) {
	ctx := cmd.Context()
	log := logger.FromContext(ctx)
	f.merge(cmd, a)

	if f.json == "" || (f.table == "" && !(restore && f.decisions != "")) {
		if a.interactive {
			if err := promptFiles(ctx, f, restore); err != nil {
				return nil, err
			}
		}
	}
	if f.json == "" {
		return nil, &sheetmerge.ValidationError{Field: "json", Reason: "required"}
	}

	if restore && f.decisions != "" && f.table == "" {
		doc, err := readDocument(f.json)
		if err != nil {
			return nil, err
		}
		cs, err := sheetmerge.ReadDecisionsFile(f.decisions)
		if err != nil {
			return nil, err
		}
		s := sheetmerge.NewSession()
		s.Restore(doc, cs)
		log.Info("restored review decisions", "path", f.decisions, "changes", cs.Len(), "kept", cs.Kept())
		return s, nil
	}

	if f.table == "" {
		return nil, &sheetmerge.ValidationError{Field: "table", Reason: "required"}
	}
	if !a.interactive {
		if missing := a.cfg.Missing(); len(missing) > 0 {
			return nil, &sheetmerge.ValidationError{Field: strings.Join(missing, ", "), Reason: "required"}
		}
	}

	doc, err := readDocument(f.json)
	if err != nil {
		return nil, err
	}
	wb, err := tabular.Open(ctx, f.table)
	if err != nil {
		return nil, err
	}
	defer wb.Close()

	if len(a.cfg.Missing()) > 0 && a.interactive {
		if err := promptFields(ctx, a.cfg, wb.SheetNames()); err != nil {
			return nil, err
		}
	}
	if missing := a.cfg.Missing(); len(missing) > 0 {
		return nil, &sheetmerge.ValidationError{Field: strings.Join(missing, ", "), Reason: "required"}
	}
	if err := a.cfg.Validate(); err != nil {
		return nil, err
	}
	if f.saveConfig {
		path := a.cfgPath
		if path == "" {
			path = config.FileName
		}
		if err := a.cfg.Save(path); err != nil {
			return nil, err
		}
		log.Info("saved settings", "path", path)
	}

	rows, err := wb.Rows(ctx, a.cfg.Sheet)
	if err != nil {
		return nil, err
	}
	s := sheetmerge.NewSession()
	det, err := s.Detect(sheetmerge.Inputs{
		Document:    doc,
		Rows:        rows,
		KeyColumn:   a.cfg.KeyColumn,
		ValueColumn: a.cfg.ValueColumn,
		Options:     a.cfg.DetectOptions(),
	})
	if err != nil {
		return nil, err
	}
	log.Info("detected changes",
		"table", f.table,
		"sheet", a.cfg.Sheet,
		"rows", det.Rows,
		"skipped", det.Skipped,
		"changes", det.Changes.Len(),
	)
	if msg := a.notify.Skipped(det.Skipped); msg != "" {
		log.Warn(msg)
	}
	return s, nil
}
