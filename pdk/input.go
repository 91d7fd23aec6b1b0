package pdk

import (
	"encoding/binary"

	wasmpdk "github.com/wippyai/wasm-pdk"
	"github.com/wippyai/wasm-pdk/mem"
)

// Input copies the current call's input payload from host memory. The
// input region is read through its own load primitives: 8-byte words
// first, then a byte-wise tail.
func Input() []byte {
	env := wasmpdk.Host()
	n := env.InputLength()
	if n == 0 {
		return nil
	}
	dst := make([]byte, n)
	var i uint64
	for ; i+8 <= n; i += 8 {
		binary.LittleEndian.PutUint64(dst[i:], env.InputLoadU64(i))
	}
	for ; i < n; i++ {
		dst[i] = env.InputLoadU8(i)
	}
	return dst
}

// InputString returns the call input as a string.
func InputString() string {
	return string(Input())
}

// SetOutput publishes data as the call's result. The block transfers
// to the host; the guest must not free it.
func SetOutput(data []byte) error {
	b, err := mem.AllocBytes(data)
	if err != nil {
		return err
	}
	wasmpdk.Host().OutputSet(b.Offset, b.Length)
	return nil
}

// SetOutputString publishes s as the call's result.
func SetOutputString(s string) error {
	return SetOutput([]byte(s))
}
