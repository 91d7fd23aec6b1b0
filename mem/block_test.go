package mem

import (
	"bytes"
	"encoding/binary"
	"testing"

	wasmpdk "github.com/wippyai/wasm-pdk"
)

// countingEnv backs blocks with a plain byte map and records every host
// call so tests can assert the word/byte transfer split.
type countingEnv struct {
	blocks map[uint64][]byte
	next   uint64

	allocs   int
	frees    int
	loadU64  int
	loadU8   int
	storeU64 int
	storeU8  int
	calls    []string

	failAlloc bool
}

func newCountingEnv() *countingEnv {
	return &countingEnv{blocks: map[uint64][]byte{}, next: 8}
}

func (e *countingEnv) InputLength() uint64               { return 0 }
func (e *countingEnv) InputLoadU8(uint64) uint8          { return 0 }
func (e *countingEnv) InputLoadU64(uint64) uint64        { return 0 }
func (e *countingEnv) OutputSet(uint64, uint64)          {}
func (e *countingEnv) ErrorSet(uint64)                   {}
func (e *countingEnv) ConfigGet(uint64) uint64           { return 0 }
func (e *countingEnv) VarGet(uint64) uint64              { return 0 }
func (e *countingEnv) VarSet(uint64, uint64)             {}
func (e *countingEnv) Log(wasmpdk.LogLevel, uint64)      {}
func (e *countingEnv) LogLevel() wasmpdk.LogLevel        { return wasmpdk.LogNone }
func (e *countingEnv) HTTPRequest(uint64, uint64) uint64 { return 0 }
func (e *countingEnv) HTTPStatusCode() int32             { return 0 }
func (e *countingEnv) HTTPHeaders() uint64               { return 0 }

func (e *countingEnv) Alloc(size uint64) uint64 {
	e.allocs++
	if e.failAlloc {
		return 0
	}
	offset := e.next
	e.next += size + 8
	e.blocks[offset] = make([]byte, size)
	return offset
}

func (e *countingEnv) Free(offset uint64) {
	e.frees++
	delete(e.blocks, offset)
}

func (e *countingEnv) Length(offset uint64) uint64 {
	return uint64(len(e.blocks[offset]))
}

func (e *countingEnv) locate(offset uint64) ([]byte, uint64) {
	for base, data := range e.blocks {
		if offset >= base && offset < base+uint64(len(data)) {
			return data, offset - base
		}
	}
	return nil, 0
}

func (e *countingEnv) LoadU8(offset uint64) uint8 {
	e.loadU8++
	e.calls = append(e.calls, "u8")
	data, i := e.locate(offset)
	return data[i]
}

func (e *countingEnv) LoadU64(offset uint64) uint64 {
	e.loadU64++
	e.calls = append(e.calls, "u64")
	data, i := e.locate(offset)
	return binary.LittleEndian.Uint64(data[i:])
}

func (e *countingEnv) StoreU8(offset uint64, v uint8) {
	e.storeU8++
	data, i := e.locate(offset)
	data[i] = v
}

func (e *countingEnv) StoreU64(offset uint64, v uint64) {
	e.storeU64++
	data, i := e.locate(offset)
	binary.LittleEndian.PutUint64(data[i:], v)
}

func withEnv(t *testing.T) *countingEnv {
	t.Helper()
	env := newCountingEnv()
	wasmpdk.SetHost(env)
	t.Cleanup(func() { wasmpdk.SetHost(nil) })
	return env
}

func TestAlloc_ZeroSize(t *testing.T) {
	env := withEnv(t)

	b, err := Alloc(0)
	if err != nil {
		t.Fatalf("Alloc(0): %v", err)
	}
	if !b.IsEmpty() {
		t.Errorf("Alloc(0) = %+v, want empty block", b)
	}
	if env.allocs != 0 {
		t.Errorf("Alloc(0) reached the host %d times, want 0", env.allocs)
	}
}

func TestAlloc_HostFailure(t *testing.T) {
	env := withEnv(t)
	env.failAlloc = true

	if _, err := Alloc(16); err == nil {
		t.Error("Alloc succeeded against failing host, want error")
	}
}

func TestBlock_RoundTrip(t *testing.T) {
	withEnv(t)

	payload := []byte("hello, block memory!")
	b, err := AllocBytes(payload)
	if err != nil {
		t.Fatalf("AllocBytes: %v", err)
	}
	defer b.Free()

	got := b.Read()
	if !bytes.Equal(got, payload) {
		t.Errorf("Read = %q, want %q", got, payload)
	}
}

func TestBlock_WordSplit(t *testing.T) {
	env := withEnv(t)

	b, err := AllocBytes(make([]byte, 10))
	if err != nil {
		t.Fatalf("AllocBytes: %v", err)
	}
	defer b.Free()

	if env.storeU64 != 1 || env.storeU8 != 2 {
		t.Errorf("write of 10 bytes used %d word + %d byte stores, want 1 + 2",
			env.storeU64, env.storeU8)
	}

	env.calls = nil
	b.Read()
	if env.loadU64 != 1 || env.loadU8 != 2 {
		t.Errorf("read of 10 bytes used %d word + %d byte loads, want 1 + 2",
			env.loadU64, env.loadU8)
	}
	want := []string{"u64", "u8", "u8"}
	for i, call := range env.calls {
		if call != want[i] {
			t.Fatalf("call order = %v, want %v", env.calls, want)
		}
	}
}

func TestBlock_ExactWordLength(t *testing.T) {
	env := withEnv(t)

	b, err := AllocBytes(make([]byte, 16))
	if err != nil {
		t.Fatalf("AllocBytes: %v", err)
	}
	defer b.Free()

	b.Read()
	if env.loadU64 != 2 || env.loadU8 != 0 {
		t.Errorf("read of 16 bytes used %d word + %d byte loads, want 2 + 0",
			env.loadU64, env.loadU8)
	}
}

func TestBlock_FreeIdempotent(t *testing.T) {
	env := withEnv(t)

	b, err := Alloc(4)
	if err != nil {
		t.Fatalf("Alloc: %v", err)
	}
	b.Free()
	b.Free()
	if env.frees != 1 {
		t.Errorf("double Free reached the host %d times, want 1", env.frees)
	}

	var absent Block
	absent.Free()
	if env.frees != 1 {
		t.Error("Free of absent block reached the host")
	}
}

func TestFind(t *testing.T) {
	withEnv(t)

	b, err := AllocBytes([]byte("locate me"))
	if err != nil {
		t.Fatalf("AllocBytes: %v", err)
	}
	defer b.Free()

	found := Find(b.Offset)
	if found.Length != b.Length {
		t.Errorf("Find length = %d, want %d", found.Length, b.Length)
	}
	if got := found.ReadString(); got != "locate me" {
		t.Errorf("Find read = %q, want %q", got, "locate me")
	}

	if absent := Find(0); !absent.IsEmpty() {
		t.Errorf("Find(0) = %+v, want empty", absent)
	}
}

func TestBlock_WriteClamped(t *testing.T) {
	withEnv(t)

	b, err := Alloc(4)
	if err != nil {
		t.Fatalf("Alloc: %v", err)
	}
	defer b.Free()

	b.Write([]byte("overflowing"))
	if got := b.ReadString(); got != "over" {
		t.Errorf("clamped write = %q, want %q", got, "over")
	}
}
