package abi

import (
	"fmt"

	"github.com/wippyai/wasm-pdk/errors"
)

// PackedSize returns the byte length of a packed sequence of primitive
// values with the given kinds. Packing concatenates fixed-width
// little-endian encodings with no padding or alignment.
func PackedSize(kinds []Kind) uint64 {
	var total uint64
	for _, k := range kinds {
		total += k.Width()
	}
	return total
}

// Pack encodes a sequence of primitive values into a single byte
// sequence in argument order. Values must be one of the Go types
// covered by the primitive kinds; anything else is rejected.
func Pack(vals ...any) ([]byte, error) {
	dst := make([]byte, 0, 8*len(vals))
	for i, v := range vals {
		var err error
		dst, err = appendValue(dst, v)
		if err != nil {
			return nil, errors.New(errors.PhaseEncode, errors.KindUnsupported).
				Cause(err).
				Detail("pack value %d", i).
				Build()
		}
	}
	return dst, nil
}

func appendValue(dst []byte, v any) ([]byte, error) {
	switch x := v.(type) {
	case bool:
		return AppendBool(dst, x), nil
	case int8:
		return AppendS8(dst, x), nil
	case uint8:
		return AppendU8(dst, x), nil
	case int16:
		return AppendS16(dst, x), nil
	case uint16:
		return AppendU16(dst, x), nil
	case int32:
		return AppendS32(dst, x), nil
	case uint32:
		return AppendU32(dst, x), nil
	case int64:
		return AppendS64(dst, x), nil
	case uint64:
		return AppendU64(dst, x), nil
	case float32:
		return AppendF32(dst, x), nil
	case float64:
		return AppendF64(dst, x), nil
	default:
		return nil, errors.Unsupported(errors.PhaseEncode, fmt.Sprintf("value type %T", v))
	}
}

// Unpack decodes a packed byte sequence into one value per kind. The
// input length must equal PackedSize(kinds) exactly; both short and
// long inputs are errors.
func Unpack(data []byte, kinds ...Kind) ([]any, error) {
	want := PackedSize(kinds)
	if uint64(len(data)) != want {
		return nil, errors.ShortInput(want, uint64(len(data)))
	}
	out := make([]any, len(kinds))
	var off uint64
	for i, k := range kinds {
		w := k.Width()
		b := data[off : off+w]
		switch k {
		case KindBool:
			out[i] = Bool(b)
		case KindS8:
			out[i] = S8(b)
		case KindU8:
			out[i] = U8(b)
		case KindS16:
			out[i] = S16(b)
		case KindU16:
			out[i] = U16(b)
		case KindS32:
			out[i] = S32(b)
		case KindU32:
			out[i] = U32(b)
		case KindS64:
			out[i] = S64(b)
		case KindU64:
			out[i] = U64(b)
		case KindF32:
			out[i] = F32(b)
		case KindF64:
			out[i] = F64(b)
		default:
			return nil, errors.Unsupported(errors.PhaseDecode, "kind "+k.String()+" is not packable")
		}
		off += w
	}
	return out, nil
}
