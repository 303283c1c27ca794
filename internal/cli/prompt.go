package cli

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/kevinwang15/sheetmerge/internal/config"
)

func notEmpty(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New("required")
	}
	return nil
}

// promptFiles asks for the input file paths that were not given as flags.
func promptFiles(ctx context.Context, f *inputFlags, restore bool) error {
	var fields []huh.Field
	if f.json == "" {
		fields = append(fields, huh.NewInput().
			Title("JSON file").
			Description("The translation file to update").
			Value(&f.json).
			Validate(notEmpty))
	}
	if f.table == "" && !(restore && f.decisions != "") {
		fields = append(fields, huh.NewInput().
			Title("Table file").
			Description("Spreadsheet (.xlsx) or CSV file with the edits").
			Value(&f.table).
			Validate(notEmpty))
	}
	if len(fields) == 0 {
		return nil
	}
	return huh.NewForm(huh.NewGroup(fields...)).RunWithContext(ctx)
}

// promptFields asks for the missing sheet and column names. The sheet is
// offered as a choice among the workbook's sheets.
func promptFields(ctx context.Context, cfg *config.Config, sheets []string) error {
	var fields []huh.Field
	if cfg.Sheet == "" {
		opts := make([]huh.Option[string], 0, len(sheets))
		for _, name := range sheets {
			opts = append(opts, huh.NewOption(name, name))
		}
		fields = append(fields, huh.NewSelect[string]().
			Title("Sheet").
			Options(opts...).
			Value(&cfg.Sheet))
	}
	if cfg.KeyColumn == "" {
		fields = append(fields, huh.NewInput().
			Title("Key column").
			Description("Column holding the path, e.g. key").
			Value(&cfg.KeyColumn).
			Validate(notEmpty))
	}
	if cfg.ValueColumn == "" {
		fields = append(fields, huh.NewInput().
			Title("Value column").
			Description("Column holding the new value").
			Value(&cfg.ValueColumn).
			Validate(notEmpty))
	}
	if len(fields) == 0 {
		return nil
	}
	return huh.NewForm(huh.NewGroup(fields...)).RunWithContext(ctx)
}
