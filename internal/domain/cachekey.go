package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"unicode/utf16"
)

const hexDigits = "0123456789abcdef"

// CacheKey derives the cache key for a request: the SHA-256, hex encoded, of
//
//	{"model": ..., "options": {...}, "prompt": ..., "provider": ...}
//
// rendered with keys sorted at every level, ", " and ": " separators and
// non-ASCII characters escaped as \uXXXX. Keys produced here match those of
// deployments that hash json.dumps(payload, sort_keys=True).
func CacheKey(provider, model, prompt string, opts Options) (string, error) {
	if opts == nil {
		opts = Options{}
	}

	payload := map[string]any{
		"provider": provider,
		"model":    model,
		"prompt":   prompt,
		"options":  map[string]any(opts),
	}

	var b strings.Builder
	if err := writeCanonical(&b, payload); err != nil {
		return "", fmt.Errorf("failed to encode cache key payload: %w", err)
	}

	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:]), nil
}

//nolint:cyclop // one arm per JSON kind
func writeCanonical(b *strings.Builder, v any) error {
	switch val := v.(type) {
	case nil:
		b.WriteString("null")
	case string:
		writeString(b, val)
	case bool:
		b.WriteString(strconv.FormatBool(val))
	case json.Number:
		return writeNumber(b, val)
	case float64:
		b.WriteString(formatFloat(val))
	case float32:
		b.WriteString(formatFloat(float64(val)))
	case map[string]any:
		return writeObject(b, val)
	case []any:
		return writeArray(b, val)
	default:
		return writeReflected(b, reflect.ValueOf(v))
	}
	return nil
}

func writeReflected(b *strings.Builder, rv reflect.Value) error {
	//nolint:exhaustive // everything else is rejected below
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		b.WriteString(strconv.FormatInt(rv.Int(), 10))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		b.WriteString(strconv.FormatUint(rv.Uint(), 10))
	case reflect.String:
		writeString(b, rv.String())
	case reflect.Bool:
		b.WriteString(strconv.FormatBool(rv.Bool()))
	case reflect.Float32, reflect.Float64:
		b.WriteString(formatFloat(rv.Float()))
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return fmt.Errorf("unsupported map key type %s", rv.Type().Key())
		}
		obj := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			obj[iter.Key().String()] = iter.Value().Interface()
		}
		return writeObject(b, obj)
	case reflect.Slice, reflect.Array:
		arr := make([]any, rv.Len())
		for i := range arr {
			arr[i] = rv.Index(i).Interface()
		}
		return writeArray(b, arr)
	default:
		return fmt.Errorf("unsupported option value of type %s", rv.Type())
	}
	return nil
}

func writeObject(b *strings.Builder, obj map[string]any) error {
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	b.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			b.WriteString(", ")
		}
		writeString(b, k)
		b.WriteString(": ")
		if err := writeCanonical(b, obj[k]); err != nil {
			return err
		}
	}
	b.WriteByte('}')
	return nil
}

func writeArray(b *strings.Builder, arr []any) error {
	b.WriteByte('[')
	for i, item := range arr {
		if i > 0 {
			b.WriteString(", ")
		}
		if err := writeCanonical(b, item); err != nil {
			return err
		}
	}
	b.WriteByte(']')
	return nil
}

func writeNumber(b *strings.Builder, n json.Number) error {
	if i, err := strconv.ParseInt(string(n), 10, 64); err == nil {
		b.WriteString(strconv.FormatInt(i, 10))
		return nil
	}
	f, err := strconv.ParseFloat(string(n), 64)
	if err != nil {
		return fmt.Errorf("invalid number %q: %w", n, err)
	}
	b.WriteString(formatFloat(f))
	return nil
}

// formatFloat renders f the way a shortest-repr float is printed: fixed notation
// with a trailing ".0" for decimal exponents in [-4, 16), scientific otherwise.
func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}

	if f != 0 {
		exp := math.Floor(math.Log10(math.Abs(f)))
		// Log10 can be off by one near powers of ten; the 'e' form is authoritative.
		sci := strconv.FormatFloat(f, 'e', -1, 64)
		if idx := strings.IndexByte(sci, 'e'); idx >= 0 {
			if parsed, err := strconv.Atoi(sci[idx+1:]); err == nil {
				exp = float64(parsed)
			}
		}
		if exp < -4 || exp >= 16 {
			return sci
		}
	}

	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.ContainsRune(s, '.') {
		s += ".0"
	}
	return s
}

func writeString(b *strings.Builder, s string) {
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		case '\b':
			b.WriteString(`\b`)
		case '\f':
			b.WriteString(`\f`)
		default:
			switch {
			case r >= 0x20 && r < 0x7f:
				b.WriteRune(r)
			case r > 0xffff:
				hi, lo := utf16.EncodeRune(r)
				writeEscapedUnit(b, hi)
				writeEscapedUnit(b, lo)
			default:
				writeEscapedUnit(b, r)
			}
		}
	}
	b.WriteByte('"')
}

func writeEscapedUnit(b *strings.Builder, r rune) {
	b.WriteString(`\u`)
	b.WriteByte(hexDigits[(r>>12)&0xf])
	b.WriteByte(hexDigits[(r>>8)&0xf])
	b.WriteByte(hexDigits[(r>>4)&0xf])
	b.WriteByte(hexDigits[r&0xf])
}
