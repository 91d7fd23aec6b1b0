// Package kvobj implements the flat key/value object encoding exchanged
// with the host for request metadata and response headers. The format
// is a brace-delimited object of quoted string pairs, with one optional
// level of nested objects. Only five escapes exist in the wire form:
// \" \\ \n \r \t.
package kvobj

import (
	"sort"

	"github.com/wippyai/wasm-pdk/errors"
)

// AppendQuoted appends s as a quoted wire string.
func AppendQuoted(dst []byte, s string) []byte {
	dst = append(dst, '"')
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '"':
			dst = append(dst, '\\', '"')
		case '\\':
			dst = append(dst, '\\', '\\')
		case '\n':
			dst = append(dst, '\\', 'n')
		case '\r':
			dst = append(dst, '\\', 'r')
		case '\t':
			dst = append(dst, '\\', 't')
		default:
			dst = append(dst, c)
		}
	}
	return append(dst, '"')
}

// AppendFlat appends an object of string pairs in the given order.
func AppendFlat(dst []byte, pairs [][2]string) []byte {
	dst = append(dst, '{')
	for i, p := range pairs {
		if i > 0 {
			dst = append(dst, ',')
		}
		dst = AppendQuoted(dst, p[0])
		dst = append(dst, ':')
		dst = AppendQuoted(dst, p[1])
	}
	return append(dst, '}')
}

// AppendMap appends an object built from m with keys in sorted order,
// so the encoded form is deterministic.
func AppendMap(dst []byte, m map[string]string) []byte {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([][2]string, len(keys))
	for i, k := range keys {
		pairs[i] = [2]string{k, m[k]}
	}
	return AppendFlat(dst, pairs)
}

type decoder struct {
	data []byte
	pos  int
}

func (d *decoder) fail(detail string) error {
	return errors.New(errors.PhaseDecode, errors.KindWireFormat).
		Detail("%s at byte %d", detail, d.pos).
		Build()
}

func (d *decoder) skipSpace() {
	for d.pos < len(d.data) {
		switch d.data[d.pos] {
		case ' ', '\t', '\n', '\r':
			d.pos++
		default:
			return
		}
	}
}

func (d *decoder) expect(c byte) error {
	d.skipSpace()
	if d.pos >= len(d.data) || d.data[d.pos] != c {
		return d.fail("expected '" + string(c) + "'")
	}
	d.pos++
	return nil
}

func (d *decoder) peek() (byte, bool) {
	d.skipSpace()
	if d.pos >= len(d.data) {
		return 0, false
	}
	return d.data[d.pos], true
}

func (d *decoder) str() (string, error) {
	if err := d.expect('"'); err != nil {
		return "", err
	}
	var out []byte
	for d.pos < len(d.data) {
		c := d.data[d.pos]
		d.pos++
		switch c {
		case '"':
			return string(out), nil
		case '\\':
			if d.pos >= len(d.data) {
				return "", d.fail("truncated escape")
			}
			e := d.data[d.pos]
			d.pos++
			switch e {
			case '"':
				out = append(out, '"')
			case '\\':
				out = append(out, '\\')
			case 'n':
				out = append(out, '\n')
			case 'r':
				out = append(out, '\r')
			case 't':
				out = append(out, '\t')
			default:
				return "", d.fail("unknown escape")
			}
		default:
			out = append(out, c)
		}
	}
	return "", d.fail("unterminated string")
}

func (d *decoder) flat() (map[string]string, error) {
	if err := d.expect('{'); err != nil {
		return nil, err
	}
	out := map[string]string{}
	if c, ok := d.peek(); ok && c == '}' {
		d.pos++
		return out, nil
	}
	for {
		k, err := d.str()
		if err != nil {
			return nil, err
		}
		if err := d.expect(':'); err != nil {
			return nil, err
		}
		v, err := d.str()
		if err != nil {
			return nil, err
		}
		out[k] = v

		c, ok := d.peek()
		if !ok {
			return nil, d.fail("unterminated object")
		}
		d.pos++
		if c == '}' {
			return out, nil
		}
		if c != ',' {
			return nil, d.fail("expected ',' or '}'")
		}
	}
}

// Decode parses a top-level object. String values land in strs; nested
// objects (one level deep, string values only) land in objs.
func Decode(data []byte) (strs map[string]string, objs map[string]map[string]string, err error) {
	d := &decoder{data: data}
	if err := d.expect('{'); err != nil {
		return nil, nil, err
	}
	strs = map[string]string{}
	objs = map[string]map[string]string{}

	if c, ok := d.peek(); ok && c == '}' {
		d.pos++
		return strs, objs, nil
	}
	for {
		k, err := d.str()
		if err != nil {
			return nil, nil, err
		}
		if err := d.expect(':'); err != nil {
			return nil, nil, err
		}

		c, ok := d.peek()
		if !ok {
			return nil, nil, d.fail("missing value")
		}
		switch c {
		case '"':
			v, err := d.str()
			if err != nil {
				return nil, nil, err
			}
			strs[k] = v
		case '{':
			nested, err := d.flat()
			if err != nil {
				return nil, nil, err
			}
			objs[k] = nested
		default:
			return nil, nil, d.fail("expected string or object value")
		}

		c, ok = d.peek()
		if !ok {
			return nil, nil, d.fail("unterminated object")
		}
		d.pos++
		if c == '}' {
			d.skipSpace()
			if d.pos != len(d.data) {
				return nil, nil, d.fail("trailing data")
			}
			return strs, objs, nil
		}
		if c != ',' {
			return nil, nil, d.fail("expected ',' or '}'")
		}
	}
}
