package abi

import "testing"

func TestKind_String(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{KindVoid, "void"},
		{KindBool, "bool"},
		{KindS32, "s32"},
		{KindF64, "f64"},
		{KindString, "string"},
		{KindBytes, "bytes"},
		{KindRecord, "record"},
		{KindUnsupported, "unsupported"},
	}

	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("Kind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestKind_IsPrimitive(t *testing.T) {
	primitives := []Kind{
		KindBool, KindS8, KindU8, KindS16, KindU16,
		KindS32, KindU32, KindS64, KindU64, KindF32, KindF64,
	}
	for _, k := range primitives {
		if !k.IsPrimitive() {
			t.Errorf("%s.IsPrimitive() = false, want true", k)
		}
	}

	others := []Kind{KindVoid, KindString, KindBytes, KindRecord, KindUnsupported}
	for _, k := range others {
		if k.IsPrimitive() {
			t.Errorf("%s.IsPrimitive() = true, want false", k)
		}
	}
}

func TestKind_Width(t *testing.T) {
	tests := []struct {
		kind Kind
		want uint64
	}{
		{KindBool, 1},
		{KindS8, 1},
		{KindU8, 1},
		{KindS16, 2},
		{KindU16, 2},
		{KindS32, 4},
		{KindU32, 4},
		{KindS64, 8},
		{KindU64, 8},
		{KindF32, 4},
		{KindF64, 8},
		{KindVoid, 0},
		{KindString, 0},
	}

	for _, tt := range tests {
		if got := tt.kind.Width(); got != tt.want {
			t.Errorf("%s.Width() = %d, want %d", tt.kind, got, tt.want)
		}
	}
}
