package sheetmerge

import (
	"strings"
	"testing"
)

// topLevelKeys lists the keys rendered at two-space indent, in output order.
func topLevelKeys(out string) []string {
	var keys []string
	for _, line := range strings.Split(out, "\n") {
		if !strings.HasPrefix(line, `  "`) || strings.HasPrefix(line, `   `) {
			continue
		}
		rest := strings.TrimPrefix(line, `  "`)
		if i := strings.Index(rest, `":`); i >= 0 {
			keys = append(keys, rest[:i])
		}
	}
	return keys
}

func TestPreservesKeyOrder(t *testing.T) {
	tests := []struct {
		name  string
		input string
		path  string
	}{
		{name: "simple order", input: `{"zebra":"1","apple":"2","middle":"3"}`, path: "apple"},
		{name: "nested order", input: `{"third":"3","first":{"zulu":"z","alpha":"a","bravo":"b"},"second":"2"}`, path: "first.alpha"},
		{name: "deep change", input: `{"zoo":"animals","bar":"drinks","nested":{"last":{"x":"1"},"first":"1"}}`, path: "nested.last.x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			original := mustDecode(t, tt.input)
			det, err := Detect(original, []Row{row("k", tt.path, "v", "changed"), row("k", "newkey", "v", "999")}, "k", "v")
			if err != nil {
				t.Fatalf("Detect: %v", err)
			}

			in, err := MarshalDocument(original)
			if err != nil {
				t.Fatalf("MarshalDocument: %v", err)
			}
			out, err := MarshalDocument(Apply(original, det.Changes))
			if err != nil {
				t.Fatalf("MarshalDocument: %v", err)
			}
			t.Logf("Output:\n%s", out)

			inputKeys := topLevelKeys(string(in))
			outputKeys := topLevelKeys(string(out))
			if len(outputKeys) != len(inputKeys)+1 || outputKeys[len(outputKeys)-1] != "newkey" {
				t.Fatalf("expected new key appended at the end, got %v", outputKeys)
			}
			for i := range inputKeys {
				if inputKeys[i] != outputKeys[i] {
					t.Errorf("Key order not preserved at position %d: expected %q, got %q", i, inputKeys[i], outputKeys[i])
				}
			}
		})
	}
}

func TestNewKeysAppendedAtEnd(t *testing.T) {
	original := mustDecode(t, `{"first":"1","second":"2","third":"3"}`)
	rows := []Row{
		row("key", "fourth", "value", "4"),
		row("key", "fifth", "value", "5"),
	}
	det, err := Detect(original, rows, "key", "value")
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}

	out, err := MarshalDocument(Apply(original, det.Changes))
	if err != nil {
		t.Fatalf("MarshalDocument: %v", err)
	}
	got := strings.Join(topLevelKeys(string(out)), ",")
	if got != "first,second,third,fourth,fifth" {
		t.Fatalf("unexpected key order %s", got)
	}
}

func TestSingleLineDiffOnValueUpdate(t *testing.T) {
	original := mustDecode(t, `{"cfg":{"a":"1","b":"x","cors":"*","c":2.0}}`)
	det, err := Detect(original, []Row{row("key", "cfg.a", "value", "10")}, "key", "value")
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}

	in, _ := MarshalDocument(original)
	out, err := MarshalDocument(Apply(original, det.Changes))
	if err != nil {
		t.Fatalf("MarshalDocument: %v", err)
	}

	diff := unifiedDiff(string(in), string(out))
	adds, removes := diffStats(diff)
	if adds != 1 || removes != 1 {
		t.Fatalf("expected exactly 1 line to change, got +%d/-%d\n%s", adds, removes, diff)
	}
	// Untouched number literals keep their spelling.
	if !strings.Contains(string(out), `"c": 2.0`) {
		t.Fatalf("expected literal 2.0 to survive; got:\n%s", out)
	}
}

func TestFinalNewlinePresent(t *testing.T) {
	for _, in := range []string{`{}`, `[]`, `"x"`, `{"a":[{"b":null}]}`} {
		out, err := MarshalDocument(mustDecode(t, in))
		if err != nil {
			t.Fatalf("MarshalDocument(%s): %v", in, err)
		}
		if !strings.HasSuffix(string(out), "\n") || strings.HasSuffix(string(out), "\n\n") {
			t.Fatalf("expected exactly one trailing newline for %s, got %q", in, out)
		}
	}
}
