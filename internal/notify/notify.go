// Package notify renders the user-facing notifications of the CLI in the
// user's language.
package notify

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"

	"github.com/kevinwang15/sheetmerge"
)

//go:embed locales/*.json
var localeFS embed.FS

// Supported lists the bundled languages. The first one is the fallback.
var Supported = []language.Tag{language.English, language.German}

var matcher = language.NewMatcher(Supported)

// Notifier localizes messages for one language.
type Notifier struct {
	tag       language.Tag
	localizer *i18n.Localizer
}

func newBundle() (*i18n.Bundle, error) {
	bundle := i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("json", json.Unmarshal)
	for _, name := range []string{"locales/active.en.json", "locales/active.de.json"} {
		if _, err := bundle.LoadMessageFileFS(localeFS, name); err != nil {
			return nil, fmt.Errorf("notify: load %s: %w", name, err)
		}
	}
	return bundle, nil
}

var bundle, bundleErr = newBundle()

// New returns a Notifier for the closest supported match of the given
// language preferences, each a BCP 47 tag or an Accept-Language list.
func New(prefs ...string) *Notifier {
	tag, _ := language.MatchStrings(matcher, prefs...)
	base, _ := tag.Base()
	tag = language.Make(base.String())

	n := &Notifier{tag: tag}
	if bundleErr == nil {
		n.localizer = i18n.NewLocalizer(bundle, tag.String(), language.English.String())
	}
	return n
}

// FromEnv picks the language from an explicit choice, then LC_ALL,
// LC_MESSAGES and LANG.
func FromEnv(explicit string) *Notifier {
	prefs := []string{explicit}
	for _, key := range []string{"LC_ALL", "LC_MESSAGES", "LANG"} {
		prefs = append(prefs, posixLocale(os.Getenv(key)))
	}
	return New(prefs...)
}

// posixLocale turns "de_DE.UTF-8" into "de-DE".
func posixLocale(s string) string {
	if i := strings.IndexAny(s, ".@"); i >= 0 {
		s = s[:i]
	}
	if s == "C" || s == "POSIX" {
		return ""
	}
	return strings.ReplaceAll(s, "_", "-")
}

// Language reports the language messages are rendered in.
func (n *Notifier) Language() language.Tag { return n.tag }

// Message renders id with optional template data. count selects the plural
// form when the message has one; pass -1 for messages without plurals.
func (n *Notifier) Message(id string, data map[string]any, count int) string {
	if n == nil || n.localizer == nil {
		return id
	}
	cfg := &i18n.LocalizeConfig{MessageID: id, TemplateData: data}
	if count >= 0 {
		cfg.PluralCount = count
	}
	msg, err := n.localizer.Localize(cfg)
	if err != nil {
		return id
	}
	return msg
}

// Error renders err as a notification. Unknown errors are shown verbatim.
func (n *Notifier) Error(err error) string {
	if err == nil {
		return ""
	}
	var (
		ve  *sheetmerge.ValidationError
		snf *sheetmerge.SheetNotFoundError
		pe  *sheetmerge.ParseError
	)
	switch {
	case errors.As(err, &ve):
		switch {
		case ve.Field == "JSON file":
			return n.Message("invalid_json_file", nil, -1)
		case ve.Field == "table file":
			return n.Message("invalid_table_file", map[string]any{"Reason": ve.Reason}, -1)
		case ve.Reason == "required":
			return n.Message("missing_fields", map[string]any{"Fields": ve.Field}, -1)
		default:
			return n.Message("invalid_field", map[string]any{"Field": ve.Field, "Reason": ve.Reason}, -1)
		}
	case errors.As(err, &snf):
		if len(snf.Available) == 0 {
			return n.Message("sheet_not_found", map[string]any{"Sheet": snf.Sheet}, -1)
		}
		return n.Message("sheet_not_found_available", map[string]any{
			"Sheet":     snf.Sheet,
			"Available": strings.Join(snf.Available, ", "),
		}, -1)
	case errors.As(err, &pe):
		detail := err.Error()
		if pe.Err != nil {
			detail = pe.Err.Error()
		}
		return n.Message("parse_failed", map[string]any{"Source": pe.Source, "Detail": detail}, -1)
	case errors.Is(err, sheetmerge.ErrNoDetection):
		return n.Message("no_detection", nil, -1)
	default:
		return n.Message("unexpected_error", map[string]any{"Detail": err.Error()}, -1)
	}
}

// Changes summarizes a change set.
func (n *Notifier) Changes(cs *sheetmerge.ChangeSet) string {
	if cs.Len() == 0 {
		return n.Message("no_changes", nil, -1)
	}
	return n.Message("changes_detected", map[string]any{"Count": cs.Len(), "Kept": cs.Kept()}, cs.Len())
}

// Skipped reports rows ignored by detection, or "" when none were.
func (n *Notifier) Skipped(count int) string {
	if count == 0 {
		return ""
	}
	return n.Message("rows_skipped", map[string]any{"Count": count}, count)
}
