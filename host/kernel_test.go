package host

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/tetratelabs/wazero"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	wasmpdk "github.com/wippyai/wasm-pdk"
	"github.com/wippyai/wasm-pdk/kvobj"
)

func storeBytes(k *Kernel, data []byte) uint64 {
	offset := k.Alloc(uint64(len(data)))
	for i, b := range data {
		k.StoreU8(offset+uint64(i), b)
	}
	return offset
}

func loadBytes(k *Kernel, offset uint64) []byte {
	n := k.Length(offset)
	out := make([]byte, n)
	for i := range out {
		out[i] = k.LoadU8(offset + uint64(i))
	}
	return out
}

func TestKernel_BlockLifecycle(t *testing.T) {
	k := NewKernel(Options{})

	offset := k.Alloc(12)
	if offset == 0 {
		t.Fatal("Alloc returned 0")
	}
	if got := k.Length(offset); got != 12 {
		t.Errorf("Length = %d, want 12", got)
	}

	k.StoreU64(offset, 0x0807060504030201)
	if got := k.LoadU64(offset); got != 0x0807060504030201 {
		t.Errorf("LoadU64 = %#x", got)
	}
	if got := k.LoadU8(offset + 2); got != 3 {
		t.Errorf("LoadU8 = %d, want 3", got)
	}

	k.Free(offset)
	if got := k.Length(offset); got != 0 {
		t.Errorf("Length after Free = %d, want 0", got)
	}
}

func TestKernel_AllocZero(t *testing.T) {
	k := NewKernel(Options{})
	if offset := k.Alloc(0); offset != 0 {
		t.Errorf("Alloc(0) = %d, want 0", offset)
	}
}

func TestKernel_InputZeroPadded(t *testing.T) {
	k := NewKernel(Options{})
	k.SetInput([]byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10})

	if got := k.InputLength(); got != 10 {
		t.Fatalf("InputLength = %d, want 10", got)
	}
	// The final word read starts inside the payload and runs past the
	// end; missing bytes read as zero.
	if got := k.InputLoadU64(8); got != 0x0a09 {
		t.Errorf("InputLoadU64(8) = %#x, want 0xa09", got)
	}
	if got := k.InputLoadU8(9); got != 10 {
		t.Errorf("InputLoadU8(9) = %d, want 10", got)
	}
	if got := k.InputLoadU8(99); got != 0 {
		t.Errorf("InputLoadU8 out of range = %d, want 0", got)
	}
}

func TestKernel_OutputAndError(t *testing.T) {
	k := NewKernel(Options{})

	offset := storeBytes(k, []byte("result"))
	k.OutputSet(offset, 6)
	out, ok := k.TakeOutput()
	if !ok || string(out) != "result" {
		t.Errorf("TakeOutput = %q, %v", out, ok)
	}

	errOffset := storeBytes(k, []byte("boom"))
	k.ErrorSet(errOffset)
	msg, ok := k.ErrorMessage()
	if !ok || msg != "boom" {
		t.Errorf("ErrorMessage = %q, %v", msg, ok)
	}

	// A new input clears both channels.
	k.SetInput(nil)
	if _, ok := k.TakeOutput(); ok {
		t.Error("output survived SetInput")
	}
	if _, ok := k.ErrorMessage(); ok {
		t.Error("error survived SetInput")
	}
}

func TestKernel_ConfigGet(t *testing.T) {
	k := NewKernel(Options{Config: map[string]string{"mode": "fast"}})

	keyOffset := storeBytes(k, []byte("mode"))
	valOffset := k.ConfigGet(keyOffset)
	if valOffset == 0 {
		t.Fatal("ConfigGet returned 0 for present key")
	}
	if got := loadBytes(k, valOffset); string(got) != "fast" {
		t.Errorf("config value = %q, want %q", got, "fast")
	}

	missingOffset := storeBytes(k, []byte("absent"))
	if got := k.ConfigGet(missingOffset); got != 0 {
		t.Errorf("ConfigGet(absent) = %d, want 0", got)
	}
}

func TestKernel_Vars(t *testing.T) {
	k := NewKernel(Options{})

	keyOffset := storeBytes(k, []byte("counter"))
	valOffset := storeBytes(k, []byte{42})
	k.VarSet(keyOffset, valOffset)

	got := k.VarGet(keyOffset)
	if got == 0 {
		t.Fatal("VarGet returned 0 for set key")
	}
	if data := loadBytes(k, got); !bytes.Equal(data, []byte{42}) {
		t.Errorf("var value = %v, want [42]", data)
	}

	// Offset 0 deletes.
	k.VarSet(keyOffset, 0)
	if got := k.VarGet(keyOffset); got != 0 {
		t.Errorf("VarGet after delete = %d, want 0", got)
	}
}

func TestKernel_VarLimit(t *testing.T) {
	k := NewKernel(Options{MaxVarBytes: 8})

	keyOffset := storeBytes(k, []byte("big"))
	valOffset := storeBytes(k, make([]byte, 16))
	k.VarSet(keyOffset, valOffset)

	if got := k.VarGet(keyOffset); got != 0 {
		t.Error("write over the store limit was accepted")
	}
}

func TestKernel_LogGating(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	k := NewKernel(Options{
		Logger:   zap.New(core),
		LogLevel: wasmpdk.LogWarn,
	})

	infoOffset := storeBytes(k, []byte("too quiet"))
	k.Log(wasmpdk.LogInfo, infoOffset)
	warnOffset := storeBytes(k, []byte("heard"))
	k.Log(wasmpdk.LogWarn, warnOffset)

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("logged %d entries, want 1", len(entries))
	}
	if entries[0].Message != "heard" {
		t.Errorf("message = %q, want %q", entries[0].Message, "heard")
	}
	if entries[0].Level != zap.WarnLevel {
		t.Errorf("level = %v, want warn", entries[0].Level)
	}
}

func requestMeta(t *testing.T, rawURL, method string, headers map[string]string) []byte {
	t.Helper()
	meta := append([]byte(nil), '{')
	meta = kvobj.AppendQuoted(meta, "url")
	meta = append(meta, ':')
	meta = kvobj.AppendQuoted(meta, rawURL)
	meta = append(meta, ',')
	meta = kvobj.AppendQuoted(meta, "method")
	meta = append(meta, ':')
	meta = kvobj.AppendQuoted(meta, method)
	meta = append(meta, ',')
	meta = kvobj.AppendQuoted(meta, "headers")
	meta = append(meta, ':')
	meta = kvobj.AppendMap(meta, headers)
	return append(meta, '}')
}

func TestKernel_HTTPRequest(t *testing.T) {
	var gotHeader string
	var gotBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotHeader = r.Header.Get("X-Token")
		gotBody, _ = readAll(r)
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte("created"))
	}))
	defer srv.Close()

	u, _ := url.Parse(srv.URL)
	k := NewKernel(Options{AllowedHosts: []string{u.Hostname()}})

	metaOffset := storeBytes(k, requestMeta(t, srv.URL, "POST", map[string]string{"X-Token": "s3cret"}))
	bodyOffset := storeBytes(k, []byte("payload"))

	respOffset := k.HTTPRequest(metaOffset, bodyOffset)
	if respOffset == 0 {
		t.Fatal("HTTPRequest returned 0")
	}
	if got := k.HTTPStatusCode(); got != http.StatusCreated {
		t.Errorf("status = %d, want 201", got)
	}
	if got := loadBytes(k, respOffset); string(got) != "created" {
		t.Errorf("body = %q, want %q", got, "created")
	}
	if gotHeader != "s3cret" {
		t.Errorf("header = %q, want %q", gotHeader, "s3cret")
	}
	if string(gotBody) != "payload" {
		t.Errorf("request body = %q, want %q", gotBody, "payload")
	}

	headersOffset := k.HTTPHeaders()
	if headersOffset == 0 {
		t.Fatal("HTTPHeaders returned 0")
	}
	strs, _, err := kvobj.Decode(loadBytes(k, headersOffset))
	if err != nil {
		t.Fatalf("decode headers: %v", err)
	}
	if strs["Content-Type"] != "text/plain" {
		t.Errorf("Content-Type = %q", strs["Content-Type"])
	}
}

func TestKernel_HTTPDenied(t *testing.T) {
	k := NewKernel(Options{})

	metaOffset := storeBytes(k, requestMeta(t, "http://example.com/x", "GET", nil))
	if got := k.HTTPRequest(metaOffset, 0); got != 0 {
		t.Errorf("denied request returned block %d, want 0", got)
	}
	if got := k.HTTPStatusCode(); got != 0 {
		t.Errorf("status after denial = %d, want 0", got)
	}
}

func readAll(r *http.Request) ([]byte, error) {
	var buf bytes.Buffer
	_, err := buf.ReadFrom(r.Body)
	return buf.Bytes(), err
}

func TestKernel_WazeroExports(t *testing.T) {
	ctx := context.Background()
	k := NewKernel(Options{Config: map[string]string{"name": "wazero"}})

	r := wazero.NewRuntime(ctx)
	defer r.Close(ctx)

	mod, err := k.Instantiate(ctx, r)
	if err != nil {
		t.Fatalf("Instantiate: %v", err)
	}

	k.SetInput([]byte("abc"))
	results, err := mod.ExportedFunction("input-length").Call(ctx)
	if err != nil {
		t.Fatalf("input-length: %v", err)
	}
	if results[0] != 3 {
		t.Errorf("input-length = %d, want 3", results[0])
	}

	results, err = mod.ExportedFunction("alloc").Call(ctx, 4)
	if err != nil {
		t.Fatalf("alloc: %v", err)
	}
	offset := results[0]
	if offset == 0 {
		t.Fatal("alloc returned 0")
	}

	if _, err := mod.ExportedFunction("store-u8").Call(ctx, offset, 'x'); err != nil {
		t.Fatalf("store-u8: %v", err)
	}
	results, err = mod.ExportedFunction("load-u8").Call(ctx, offset)
	if err != nil {
		t.Fatalf("load-u8: %v", err)
	}
	if results[0] != 'x' {
		t.Errorf("load-u8 = %d, want 'x'", results[0])
	}

	results, err = mod.ExportedFunction("length").Call(ctx, offset)
	if err != nil {
		t.Fatalf("length: %v", err)
	}
	if results[0] != 4 {
		t.Errorf("length = %d, want 4", results[0])
	}
}
