package ir

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"golang.org/x/text/unicode/norm"
)

// MarshalCanonical produces RFC 8785 style canonical JSON.
// Every byte sequence used for fingerprints or golden files comes from here.
//
// Key differences from standard json.Marshal:
// 1. Object keys sorted by UTF-16 code units (not UTF-8 bytes)
// 2. No HTML escaping (< > & are NOT escaped)
// 3. Strings are NFC normalized
// 4. NaN and Inf are rejected
// 5. Floats use the shortest round-trip form
func MarshalCanonical(v any) ([]byte, error) {
	return marshal(v, writer{nfc: true})
}

// MarshalSorted is MarshalCanonical without NFC normalization: strings and
// keys are written byte for byte. Use it for JSON that is sent or stored,
// where a field name or a bound must keep its exact code points.
func MarshalSorted(v any) ([]byte, error) {
	return marshal(v, writer{})
}

func marshal(v any, w writer) ([]byte, error) {
	var buf bytes.Buffer
	if err := w.write(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// writer renders a document tree. nfc selects fingerprint form.
type writer struct {
	nfc bool
}

// MustMarshalCanonical is like MarshalCanonical but panics on error.
// Use only in tests or when the input is known to be valid.
func MustMarshalCanonical(v any) []byte {
	data, err := MarshalCanonical(v)
	if err != nil {
		panic(err)
	}
	return data
}

func (w writer) write(buf *bytes.Buffer, v any) error {
	switch val := v.(type) {
	case nil:
		buf.WriteString("null")
	case string:
		return w.writeString(buf, val)
	case bool:
		if val {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	case int:
		buf.WriteString(strconv.FormatInt(int64(val), 10))
	case int32:
		buf.WriteString(strconv.FormatInt(int64(val), 10))
	case int64:
		buf.WriteString(strconv.FormatInt(val, 10))
	case uint64:
		buf.WriteString(strconv.FormatUint(val, 10))
	case float32:
		return writeCanonicalFloat(buf, float64(val))
	case float64:
		return writeCanonicalFloat(buf, val)
	case json.Number:
		n, err := NormalizeNumber(val)
		if err != nil {
			return err
		}
		return w.write(buf, n)
	case []any:
		return w.writeArray(buf, val)
	case []map[string]any:
		arr := make([]any, len(val))
		for i, elem := range val {
			arr[i] = elem
		}
		return w.writeArray(buf, arr)
	case []string:
		arr := make([]any, len(val))
		for i, elem := range val {
			arr[i] = elem
		}
		return w.writeArray(buf, arr)
	case map[string]any:
		return w.writeObject(buf, val)
	case Sourcer:
		return w.write(buf, val.Source())
	default:
		return fmt.Errorf("unsupported type for canonical JSON: %T", v)
	}
	return nil
}

// Sourcer is implemented by values that render themselves as a document
// tree. Query clauses satisfy it, so they can be nested inside plain maps.
type Sourcer interface {
	Source() map[string]any
}

// writeCanonicalFloat writes a finite float in shortest round-trip form.
// Integral values inside the exact int range print without a fraction,
// matching the ECMAScript number serialization RFC 8785 uses.
func writeCanonicalFloat(buf *bytes.Buffer, f float64) error {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return fmt.Errorf("non-finite number is forbidden in canonical JSON: %v", f)
	}
	if f == 0 {
		buf.WriteByte('0') // -0 prints as 0
		return nil
	}
	abs := math.Abs(f)
	if abs >= 1e-6 && abs < 1e21 {
		buf.WriteString(strconv.FormatFloat(f, 'f', -1, 64))
		return nil
	}
	buf.WriteString(strconv.FormatFloat(f, 'e', -1, 64))
	return nil
}

// writeString writes a JSON string, NFC normalized in fingerprint form.
// Only control characters (U+0000-U+001F), backslash and quote are escaped.
func (w writer) writeString(buf *bytes.Buffer, s string) error {
	normalized := s
	if w.nfc {
		normalized = norm.NFC.String(s)
	}

	var tmp bytes.Buffer
	enc := json.NewEncoder(&tmp)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(normalized); err != nil {
		return err
	}

	out := tmp.Bytes()
	if len(out) > 0 && out[len(out)-1] == '\n' {
		out = out[:len(out)-1]
	}

	// encoding/json escapes U+2028 and U+2029 for JavaScript embedding.
	buf.Write(unescapeLineSeparators(out))
	return nil
}

// unescapeLineSeparators converts \u2028 and \u2029 escapes back to the
// literal characters. An escape preceded by an odd run of backslashes is
// literal text (\\u2028) and is left alone.
func unescapeLineSeparators(data []byte) []byte {
	if !bytes.Contains(data, []byte(`\u202`)) {
		return data
	}

	result := make([]byte, 0, len(data))
	for i := 0; i < len(data); i++ {
		if data[i] == '\\' && i+5 < len(data) &&
			data[i+1] == 'u' && data[i+2] == '2' && data[i+3] == '0' && data[i+4] == '2' &&
			(data[i+5] == '8' || data[i+5] == '9') {
			run := 0
			for j := len(result) - 1; j >= 0 && result[j] == '\\'; j-- {
				run++
			}
			if run%2 == 0 {
				if data[i+5] == '8' {
					result = append(result, "\u2028"...)
				} else {
					result = append(result, "\u2029"...)
				}
				i += 5
				continue
			}
		}
		result = append(result, data[i])
	}
	return result
}

func (w writer) writeArray(buf *bytes.Buffer, arr []any) error {
	buf.WriteByte('[')
	for i, elem := range arr {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := w.write(buf, elem); err != nil {
			return fmt.Errorf("array[%d]: %w", i, err)
		}
	}
	buf.WriteByte(']')
	return nil
}

func (w writer) writeObject(buf *bytes.Buffer, obj map[string]any) error {
	buf.WriteByte('{')
	for i, k := range SortedKeys(obj) {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := w.writeString(buf, k); err != nil {
			return fmt.Errorf("key %q: %w", k, err)
		}
		buf.WriteByte(':')
		if err := w.write(buf, obj[k]); err != nil {
			return fmt.Errorf("value for key %q: %w", k, err)
		}
	}
	buf.WriteByte('}')
	return nil
}
