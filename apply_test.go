package sheetmerge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func detectFixture(t *testing.T) (any, *ChangeSet) {
	t.Helper()
	original := mustDecode(t, `{"lang":{"en":{"title":"Hello","body":"Text"},"de":{"title":"Hallo"}},"version":1}`)
	rows := []Row{
		row("key", "lang.en.title", "value", "Hello!"),
		row("key", "lang.de.body", "value", "Text auf Deutsch"),
		row("key", "lang.en.body", "value", "Text"),
		row("key", "lang.fr[1]", "value", "Bonjour"),
	}
	det, err := Detect(original, rows, "key", "value")
	require.NoError(t, err)
	return original, det.Changes
}

func TestApplyKeepsOnlyKeptChanges(t *testing.T) {
	original, cs := detectFixture(t)
	require.Equal(t, 3, cs.Len())

	require.True(t, cs.Toggle("lang.de.body"))
	final := Apply(original, cs)

	assert.Equal(t,
		`{"lang":{"en":{"title":"Hello!","body":"Text"},"de":{"title":"Hallo"},"fr":[null,"Bonjour"]},"version":1}`,
		compactJSON(t, final))
}

func TestApplyIsIdempotentAndPure(t *testing.T) {
	original, cs := detectFixture(t)
	before := compactJSON(t, original)

	first := compactJSON(t, Apply(original, cs))
	second := compactJSON(t, Apply(original, cs))

	assert.Equal(t, first, second)
	assert.Equal(t, before, compactJSON(t, original), "original must not be modified")
	assert.Equal(t, 3, cs.Kept(), "change set must not be modified")
}

func TestApplyWithEverythingDiscardedEqualsOriginal(t *testing.T) {
	original := mustDecode(t, `{"a":{"b":"hello"}}`)
	det, err := Detect(original, []Row{row("key", "a.b", "value", "world")}, "key", "value")
	require.NoError(t, err)

	require.True(t, det.Changes.Toggle("a.b"))
	assert.Equal(t, `{"a":{"b":"hello"}}`, compactJSON(t, Apply(original, det.Changes)))

	out, err := MarshalDocument(Apply(original, det.Changes))
	require.NoError(t, err)
	in, err := MarshalDocument(original)
	require.NoError(t, err)
	assert.Equal(t, string(in), string(out))
}

func TestApplyFinalValuesAreNotShared(t *testing.T) {
	original := mustDecode(t, `{}`)
	cs := NewChangeSet(Change{Path: "a", NewValue: mustDecode(t, `{"x":1}`), Keep: true})

	final := Apply(original, cs)
	Write(final, "a.y", "added")

	again := Apply(original, cs)
	assert.Equal(t, `{"a":{"x":1}}`, compactJSON(t, again))
}

func TestApplyNilChangeSet(t *testing.T) {
	original := mustDecode(t, `{"a":1}`)
	assert.Equal(t, `{"a":1}`, compactJSON(t, Apply(original, nil)))
}
