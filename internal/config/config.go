// Package config loads the optional .sheetmerge.yaml file and validates the
// merged settings a command runs with.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/kevinwang15/sheetmerge"
)

// FileName is the config file looked up in the working directory when no --config is given.
const FileName = ".sheetmerge.yaml"

// DiffConfig controls the diff presenter.
type DiffConfig struct {
	Context    int  `yaml:"context" validate:"gte=0"`
	SideBySide bool `yaml:"side_by_side"`
	Width      int  `yaml:"width" validate:"gte=40"`
}

// LogConfig mirrors the --log-* flags.
type LogConfig struct {
	Level string `yaml:"level" validate:"omitempty,oneof=debug info warn error disabled"`
	JSON  bool   `yaml:"json"`
}

// Config models .sheetmerge.yaml. Command-line flags override file values.
type Config struct {
	Sheet       string     `yaml:"sheet" validate:"required"`
	KeyColumn   string     `yaml:"key_column" validate:"required"`
	ValueColumn string     `yaml:"value_column" validate:"required"`
	KeyPrefix   string     `yaml:"key_prefix,omitempty"`
	TrimKeys    bool       `yaml:"trim_keys,omitempty"`
	Output      string     `yaml:"output" validate:"required"`
	Locale      string     `yaml:"locale,omitempty" validate:"omitempty,bcp47_language_tag"`
	Diff        DiffConfig `yaml:"diff"`
	Log         LogConfig  `yaml:"log"`
}

// Default returns the settings used when neither file nor flags provide a value.
func Default() *Config {
	return &Config{
		Output: sheetmerge.DefaultExportName,
		Diff: DiffConfig{
			Context: 3,
			Width:   120,
		},
		Log: LogConfig{Level: "info"},
	}
}

// Load reads path over the defaults. A missing file is not an error unless
// required is set, which the CLI does when --config was passed explicitly.
func Load(path string, required bool) (*Config, error) {
	cfg := Default()
	if path == "" {
		path = FileName
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && !required {
			return cfg, nil
		}
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, &sheetmerge.ParseError{Source: path, Err: err}
	}
	return cfg, nil
}

// Save writes cfg as YAML.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("config: encode: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return nil
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks the merged settings. The first failing field is reported as
// a *sheetmerge.ValidationError.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return fmt.Errorf("config: %w", err)
	}
	fe := fieldErrs[0]
	return &sheetmerge.ValidationError{Field: fieldName(fe), Reason: reason(fe)}
}

// Validate checks the diff section on its own, for commands that do not
// need the table settings.
func (d DiffConfig) Validate() error {
	err := validate.Struct(d)
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return err
	}
	fe := fieldErrs[0]
	return &sheetmerge.ValidationError{Field: "diff." + fieldName(fe), Reason: reason(fe)}
}

// Missing lists the required top-level fields that are still empty, in declaration order.
func (c *Config) Missing() []string {
	err := validate.Struct(c)
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return nil
	}
	var out []string
	for _, fe := range fieldErrs {
		if fe.Tag() == "required" {
			out = append(out, fieldName(fe))
		}
	}
	return out
}

func fieldName(fe validator.FieldError) string {
	// Namespace is "Config.diff.width"; drop the root type name.
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		ns = ns[i+1:]
	}
	return ns
}

func reason(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "required"
	case "oneof":
		return "must be one of " + fe.Param()
	case "gte":
		return "must be at least " + fe.Param()
	case "bcp47_language_tag":
		return "not a language tag"
	default:
		return fe.Tag()
	}
}

// DiffOptions converts the diff section for the presenter.
func (c *Config) DiffOptions() sheetmerge.DiffOptions {
	opts := sheetmerge.DefaultDiffOptions()
	opts.Context = c.Diff.Context
	opts.SideBySide = c.Diff.SideBySide
	opts.Width = c.Diff.Width
	return opts
}

// DetectOptions converts the key filtering settings.
func (c *Config) DetectOptions() []sheetmerge.DetectOption {
	var opts []sheetmerge.DetectOption
	if c.KeyPrefix != "" {
		opts = append(opts, sheetmerge.WithKeyPrefix(c.KeyPrefix))
	}
	if c.TrimKeys {
		opts = append(opts, sheetmerge.WithTrimSpace())
	}
	return opts
}
