package sheetmerge

import (
	"errors"
	"fmt"
	"strings"
)

// Error kinds surfaced to the collaborator. Match them with errors.Is.
var (
	ErrInputValidation = errors.New("input validation failed")
	ErrSheetNotFound   = errors.New("sheet not found")
	ErrParse           = errors.New("parse error")
)

// ValidationError reports a missing or unusable input before any processing starts.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("sheetmerge: invalid %s", e.Field)
	}
	return fmt.Sprintf("sheetmerge: invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool { return target == ErrInputValidation }

// SheetNotFoundError names the requested sheet and what the workbook offered instead.
type SheetNotFoundError struct {
	Sheet     string
	Available []string
}

func (e *SheetNotFoundError) Error() string {
	if len(e.Available) == 0 {
		return fmt.Sprintf("sheetmerge: sheet %q not found", e.Sheet)
	}
	return fmt.Sprintf("sheetmerge: sheet %q not found (available: %s)", e.Sheet, strings.Join(e.Available, ", "))
}

func (e *SheetNotFoundError) Is(target error) bool { return target == ErrSheetNotFound }

// ParseError wraps a decoding failure of one input source.
type ParseError struct {
	Source string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("sheetmerge: failed to parse %s: %v", e.Source, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

func (e *ParseError) Is(target error) bool { return target == ErrParse }
