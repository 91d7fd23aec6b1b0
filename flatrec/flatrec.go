// Package flatrec implements a self-describing record over FlatBuffers.
// A record is a flat set of named string fields encoded as a vector of
// entry tables, so its layout travels with the bytes and decoding needs
// no external schema. Trailing padding after the root table is
// tolerated, as the wire format aligns blocks to word boundaries.
package flatrec

import (
	"sort"

	flatbuffers "github.com/google/flatbuffers/go"

	"github.com/wippyai/wasm-pdk/abi"
	"github.com/wippyai/wasm-pdk/errors"
)

// vtable slots of the root table and its entry tables.
const (
	rootEntriesSlot = 4
	entryKeySlot    = 4
	entryValueSlot  = 6
)

// Record is a mutable field set that encodes to the self-describing
// form. The zero value is an empty record ready for use.
type Record struct {
	fields map[string]string
}

var _ abi.Record = (*Record)(nil)

// New builds a record from an initial field set.
func New(fields map[string]string) *Record {
	r := &Record{fields: map[string]string{}}
	for k, v := range fields {
		r.fields[k] = v
	}
	return r
}

// Get returns a field value and whether the field is present.
func (r *Record) Get(key string) (string, bool) {
	v, ok := r.fields[key]
	return v, ok
}

// Set stores a field value.
func (r *Record) Set(key, value string) {
	if r.fields == nil {
		r.fields = map[string]string{}
	}
	r.fields[key] = value
}

// Len returns the number of fields.
func (r *Record) Len() int {
	return len(r.fields)
}

// Keys returns the field names in sorted order.
func (r *Record) Keys() []string {
	keys := make([]string, 0, len(r.fields))
	for k := range r.fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// MarshalRecord encodes the record. Fields are written in sorted key
// order so equal records produce identical bytes.
func (r *Record) MarshalRecord() ([]byte, error) {
	b := flatbuffers.NewBuilder(64 + 16*len(r.fields))

	keys := r.Keys()
	entries := make([]flatbuffers.UOffsetT, len(keys))
	for i, k := range keys {
		keyOff := b.CreateString(k)
		valOff := b.CreateString(r.fields[k])
		b.StartObject(2)
		b.PrependUOffsetTSlot(0, keyOff, 0)
		b.PrependUOffsetTSlot(1, valOff, 0)
		entries[i] = b.EndObject()
	}

	b.StartVector(4, len(entries), 4)
	for i := len(entries) - 1; i >= 0; i-- {
		b.PrependUOffsetT(entries[i])
	}
	vec := b.EndVector(len(entries))

	b.StartObject(1)
	b.PrependUOffsetTSlot(0, vec, 0)
	b.Finish(b.EndObject())
	return b.FinishedBytes(), nil
}

// UnmarshalRecord replaces the record's fields with those decoded from
// data.
func (r *Record) UnmarshalRecord(data []byte) error {
	if len(data) < flatbuffers.SizeUOffsetT {
		return errors.ShortInput(flatbuffers.SizeUOffsetT, uint64(len(data)))
	}
	rootPos := flatbuffers.GetUOffsetT(data)
	if int(rootPos) >= len(data) {
		return errors.New(errors.PhaseDecode, errors.KindWireFormat).
			Detail("root offset %d outside %d bytes", rootPos, len(data)).
			Build()
	}

	root := flatbuffers.Table{Bytes: data, Pos: rootPos}
	fields := map[string]string{}

	if o := flatbuffers.UOffsetT(root.Offset(rootEntriesSlot)); o != 0 {
		n := root.VectorLen(o)
		vec := root.Vector(o)
		for i := 0; i < n; i++ {
			pos := root.Indirect(vec + flatbuffers.UOffsetT(i)*flatbuffers.SizeUOffsetT)
			entry := flatbuffers.Table{Bytes: data, Pos: pos}

			keyOff := flatbuffers.UOffsetT(entry.Offset(entryKeySlot))
			if keyOff == 0 {
				return errors.New(errors.PhaseDecode, errors.KindWireFormat).
					Detail("entry %d has no key", i).
					Build()
			}
			key := string(entry.ByteVector(keyOff + entry.Pos))

			var value string
			if valOff := flatbuffers.UOffsetT(entry.Offset(entryValueSlot)); valOff != 0 {
				value = string(entry.ByteVector(valOff + entry.Pos))
			}
			fields[key] = value
		}
	}

	r.fields = fields
	return nil
}
