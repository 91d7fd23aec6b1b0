package abi

import (
	"encoding/binary"
	"math"
)

// Accessors read one value from an exact-width slice; callers check the
// block length once up front (generated wrappers do) and pass precise
// sub-slices. Append* functions produce the canonical encoding: fixed
// little-endian for integers and floats, a single 0x00/0x01 byte for
// booleans.

func Bool(b []byte) bool { return b[0] != 0 }

func S8(b []byte) int8 { return int8(b[0]) }

func U8(b []byte) uint8 { return b[0] }

func S16(b []byte) int16 { return int16(binary.LittleEndian.Uint16(b)) }

func U16(b []byte) uint16 { return binary.LittleEndian.Uint16(b) }

func S32(b []byte) int32 { return int32(binary.LittleEndian.Uint32(b)) }

func U32(b []byte) uint32 { return binary.LittleEndian.Uint32(b) }

func S64(b []byte) int64 { return int64(binary.LittleEndian.Uint64(b)) }

func U64(b []byte) uint64 { return binary.LittleEndian.Uint64(b) }

func F32(b []byte) float32 { return math.Float32frombits(binary.LittleEndian.Uint32(b)) }

func F64(b []byte) float64 { return math.Float64frombits(binary.LittleEndian.Uint64(b)) }

func AppendBool(dst []byte, v bool) []byte {
	if v {
		return append(dst, 1)
	}
	return append(dst, 0)
}

func AppendS8(dst []byte, v int8) []byte { return append(dst, byte(v)) }

func AppendU8(dst []byte, v uint8) []byte { return append(dst, v) }

func AppendS16(dst []byte, v int16) []byte { return AppendU16(dst, uint16(v)) }

func AppendU16(dst []byte, v uint16) []byte {
	return binary.LittleEndian.AppendUint16(dst, v)
}

func AppendS32(dst []byte, v int32) []byte { return AppendU32(dst, uint32(v)) }

func AppendU32(dst []byte, v uint32) []byte {
	return binary.LittleEndian.AppendUint32(dst, v)
}

func AppendS64(dst []byte, v int64) []byte { return AppendU64(dst, uint64(v)) }

func AppendU64(dst []byte, v uint64) []byte {
	return binary.LittleEndian.AppendUint64(dst, v)
}

func AppendF32(dst []byte, v float32) []byte {
	return AppendU32(dst, math.Float32bits(v))
}

func AppendF64(dst []byte, v float64) []byte {
	return AppendU64(dst, math.Float64bits(v))
}
