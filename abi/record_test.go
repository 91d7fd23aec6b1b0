package abi

import (
	"testing"
)

type testRecord struct {
	data    []byte
	decodes int
}

func (r *testRecord) UnmarshalRecord(data []byte) error {
	r.data = append(r.data[:0], data...)
	r.decodes++
	return nil
}

func (r *testRecord) MarshalRecord() ([]byte, error) {
	return r.data, nil
}

func TestRecordCache_ReuseOnIdenticalBytes(t *testing.T) {
	var cache RecordCache
	fresh := func() Record { return &testRecord{} }

	input := []byte("payload-one")
	first, err := cache.Load(input, fresh)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	// Same bytes in a different backing array must hit the cache.
	again, err := cache.Load(append([]byte(nil), input...), fresh)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if again != first {
		t.Error("identical bytes decoded a new record, want cached reuse")
	}
	if first.(*testRecord).decodes != 1 {
		t.Errorf("decodes = %d, want 1", first.(*testRecord).decodes)
	}
}

func TestRecordCache_MissOnDifferentBytes(t *testing.T) {
	var cache RecordCache
	fresh := func() Record { return &testRecord{} }

	first, err := cache.Load([]byte("alpha"), fresh)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	second, err := cache.Load([]byte("beta"), fresh)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if second == first {
		t.Error("different bytes reused cached record")
	}
	if string(second.(*testRecord).data) != "beta" {
		t.Errorf("cached data = %q, want %q", second.(*testRecord).data, "beta")
	}
}

func TestRecordCache_Reset(t *testing.T) {
	var cache RecordCache
	fresh := func() Record { return &testRecord{} }

	first, _ := cache.Load([]byte("alpha"), fresh)
	cache.Reset()
	second, _ := cache.Load([]byte("alpha"), fresh)
	if second == first {
		t.Error("Reset did not drop cached record")
	}
}
