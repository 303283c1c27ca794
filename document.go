package sheetmerge

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	gyaml "github.com/goccy/go-yaml"
)

// DefaultExportName is the file name the final document is offered under.
const DefaultExportName = "final-output.json"

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// DecodeDocument parses one JSON value into a document tree. Objects become
// gyaml.MapSlice in source order, arrays []any, numbers json.Number (the
// literal is kept), strings, bools and nil. A duplicated object key keeps its
// first position and its last value.
func DecodeDocument(data []byte) (any, error) {
	data = bytes.TrimPrefix(data, utf8BOM)

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	doc, err := decodeValue(dec)
	if err != nil {
		if errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		return nil, &ParseError{Source: "JSON document", Err: err}
	}
	if tok, err := dec.Token(); err != io.EOF {
		if err == nil {
			err = fmt.Errorf("unexpected trailing data %v at offset %d", tok, dec.InputOffset())
		}
		return nil, &ParseError{Source: "JSON document", Err: err}
	}
	return doc, nil
}

// ReadDocumentFile reads and decodes the JSON document at path.
func ReadDocumentFile(path string) (any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("sheetmerge: read document: %w", err)
	}
	return DecodeDocument(data)
}

func decodeValue(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	delim, ok := tok.(json.Delim)
	if !ok {
		return tok, nil
	}

	switch delim {
	case '{':
		ms := gyaml.MapSlice{}
		for dec.More() {
			kt, err := dec.Token()
			if err != nil {
				return nil, err
			}
			key, ok := kt.(string)
			if !ok {
				return nil, fmt.Errorf("object key %v is not a string", kt)
			}
			v, err := decodeValue(dec)
			if err != nil {
				return nil, err
			}
			ms = setKey(ms, key, v)
		}
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		return ms, nil
	case '[':
		items := []any{}
		for dec.More() {
			v, err := decodeValue(dec)
			if err != nil {
				return nil, err
			}
			items = append(items, v)
		}
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		return items, nil
	default:
		return nil, fmt.Errorf("unexpected delimiter %q", delim)
	}
}

func setKey(ms gyaml.MapSlice, key string, v any) gyaml.MapSlice {
	for i := range ms {
		if keyEquals(ms[i].Key, key) {
			ms[i].Value = v
			return ms
		}
	}
	return append(ms, gyaml.MapItem{Key: key, Value: v})
}

// MarshalDocument encodes doc as JSON indented by two spaces, keeping mapping
// order and number literals, followed by a newline.
func MarshalDocument(doc any) ([]byte, error) {
	var compact bytes.Buffer
	enc := &docEncoder{buf: &compact}
	if err := enc.encode(doc); err != nil {
		return nil, fmt.Errorf("sheetmerge: marshal document: %w", err)
	}

	var out bytes.Buffer
	if err := json.Indent(&out, compact.Bytes(), "", "  "); err != nil {
		return nil, fmt.Errorf("sheetmerge: marshal document: %w", err)
	}
	out.WriteByte('\n')
	return out.Bytes(), nil
}

// WriteDocumentFile writes the canonical rendering of doc to path.
func WriteDocumentFile(path string, doc any) error {
	b, err := MarshalDocument(doc)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("sheetmerge: write %s: %w", path, err)
	}
	return nil
}

type docEncoder struct {
	buf     *bytes.Buffer
	scratch bytes.Buffer
	str     *json.Encoder
}

func (e *docEncoder) encode(v any) error {
	switch vv := v.(type) {
	case nil:
		e.buf.WriteString("null")
	case bool:
		if vv {
			e.buf.WriteString("true")
		} else {
			e.buf.WriteString("false")
		}
	case string:
		return e.encodeString(vv)
	case json.Number:
		if !json.Valid([]byte(vv)) {
			return fmt.Errorf("invalid number literal %q", string(vv))
		}
		e.buf.WriteString(string(vv))
	case gyaml.MapSlice:
		e.buf.WriteByte('{')
		for i, item := range vv {
			if i > 0 {
				e.buf.WriteByte(',')
			}
			if err := e.encodeString(keyString(item.Key)); err != nil {
				return err
			}
			e.buf.WriteByte(':')
			if err := e.encode(item.Value); err != nil {
				return err
			}
		}
		e.buf.WriteByte('}')
	case []any:
		e.buf.WriteByte('[')
		for i, item := range vv {
			if i > 0 {
				e.buf.WriteByte(',')
			}
			if err := e.encode(item); err != nil {
				return err
			}
		}
		e.buf.WriteByte(']')
	default:
		b, err := json.Marshal(vv)
		if err != nil {
			return err
		}
		e.buf.Write(b)
	}
	return nil
}

func (e *docEncoder) encodeString(s string) error {
	if e.str == nil {
		e.str = json.NewEncoder(&e.scratch)
		e.str.SetEscapeHTML(false)
	}
	e.scratch.Reset()
	if err := e.str.Encode(s); err != nil {
		return err
	}
	e.buf.Write(bytes.TrimSuffix(e.scratch.Bytes(), []byte{'\n'}))
	return nil
}

func keyString(k any) string {
	switch kk := k.(type) {
	case string:
		return kk
	case fmt.Stringer:
		return kk.String()
	default:
		return fmt.Sprint(kk)
	}
}
