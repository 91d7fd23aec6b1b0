package mem

import (
	"encoding/binary"

	wasmpdk "github.com/wippyai/wasm-pdk"
	"github.com/wippyai/wasm-pdk/errors"
)

// Block is a handle to a host-managed region of linear memory. The zero
// Block (offset 0) is the absent block: every operation on it is a
// no-op or returns empty data.
type Block struct {
	Offset uint64
	Length uint64
}

// IsEmpty reports whether the block refers to no host memory.
func (b Block) IsEmpty() bool {
	return b.Offset == 0 || b.Length == 0
}

// Alloc reserves a host memory block of the given size. Size 0 returns
// the absent block without touching the host.
func Alloc(size uint64) (Block, error) {
	if size == 0 {
		return Block{}, nil
	}
	offset := wasmpdk.Host().Alloc(size)
	if offset == 0 {
		return Block{}, errors.AllocationFailed(errors.PhaseMem, size)
	}
	return Block{Offset: offset, Length: size}, nil
}

// AllocBytes reserves a block sized for data and writes data into it.
func AllocBytes(data []byte) (Block, error) {
	b, err := Alloc(uint64(len(data)))
	if err != nil {
		return Block{}, err
	}
	b.Write(data)
	return b, nil
}

// AllocString reserves a block holding the UTF-8 bytes of s.
func AllocString(s string) (Block, error) {
	return AllocBytes([]byte(s))
}

// Find reconstructs a block handle from a raw offset by querying the
// host for its length. Offset 0 yields the absent block.
func Find(offset uint64) Block {
	if offset == 0 {
		return Block{}
	}
	return Block{Offset: offset, Length: wasmpdk.Host().Length(offset)}
}

// Free releases the block. Freeing the absent block is a no-op, and a
// second Free on the same handle does not reach the host.
func (b *Block) Free() {
	if b.Offset == 0 {
		return
	}
	wasmpdk.Host().Free(b.Offset)
	b.Offset = 0
	b.Length = 0
}

// Read copies the block contents into a fresh byte slice.
func (b Block) Read() []byte {
	if b.IsEmpty() {
		return nil
	}
	dst := make([]byte, b.Length)
	b.ReadInto(dst)
	return dst
}

// ReadInto copies min(len(dst), b.Length) bytes from the block into
// dst. Transfers run in 8-byte words with a byte-wise tail.
func (b Block) ReadInto(dst []byte) {
	if b.IsEmpty() {
		return
	}
	n := b.Length
	if uint64(len(dst)) < n {
		n = uint64(len(dst))
	}

	env := wasmpdk.Host()
	var i uint64
	for ; i+8 <= n; i += 8 {
		binary.LittleEndian.PutUint64(dst[i:], env.LoadU64(b.Offset+i))
	}
	for ; i < n; i++ {
		dst[i] = env.LoadU8(b.Offset + i)
	}
}

// ReadString copies the block contents as a string.
func (b Block) ReadString() string {
	return string(b.Read())
}

// Write copies min(len(data), b.Length) bytes into the block, in
// 8-byte words with a byte-wise tail.
func (b Block) Write(data []byte) {
	if b.IsEmpty() {
		return
	}
	n := uint64(len(data))
	if b.Length < n {
		n = b.Length
	}

	env := wasmpdk.Host()
	var i uint64
	for ; i+8 <= n; i += 8 {
		env.StoreU64(b.Offset+i, binary.LittleEndian.Uint64(data[i:]))
	}
	for ; i < n; i++ {
		env.StoreU8(b.Offset+i, data[i])
	}
}
