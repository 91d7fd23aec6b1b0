package abi

// Kind classifies every parameter and return shape the ABI can carry.
// The set is closed: anything outside it is KindUnsupported and is
// rejected at build time.
type Kind uint8

const (
	KindVoid Kind = iota
	KindBool
	KindS8
	KindU8
	KindS16
	KindU16
	KindS32
	KindU32
	KindS64
	KindU64
	KindF32
	KindF64
	KindString
	KindBytes
	KindRecord
	KindUnsupported
)

var kindNames = [...]string{
	KindVoid:        "void",
	KindBool:        "bool",
	KindS8:          "s8",
	KindU8:          "u8",
	KindS16:         "s16",
	KindU16:         "u16",
	KindS32:         "s32",
	KindU32:         "u32",
	KindS64:         "s64",
	KindU64:         "u64",
	KindF32:         "f32",
	KindF64:         "f64",
	KindString:      "string",
	KindBytes:       "bytes",
	KindRecord:      "record",
	KindUnsupported: "unsupported",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// IsPrimitive reports whether k has a fixed-width encoding. Only
// primitives may appear in multi-parameter packed input.
func (k Kind) IsPrimitive() bool {
	return k >= KindBool && k <= KindF64
}

// IsSupported reports whether k can cross the boundary at all.
func (k Kind) IsSupported() bool {
	return k < KindUnsupported
}

var kindWidths = [...]uint64{
	KindBool: 1,
	KindS8:   1,
	KindU8:   1,
	KindS16:  2,
	KindU16:  2,
	KindS32:  4,
	KindU32:  4,
	KindS64:  8,
	KindU64:  8,
	KindF32:  4,
	KindF64:  8,
}

// Width returns the fixed encoded width in bytes, or 0 for void and
// variable-length categories.
func (k Kind) Width() uint64 {
	if int(k) < len(kindWidths) {
		return kindWidths[k]
	}
	return 0
}
