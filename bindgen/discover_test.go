package bindgen

import (
	"go/ast"
	"go/parser"
	"go/token"
	"go/types"
	"testing"

	"github.com/wippyai/wasm-pdk/abi"
)

// discoverSrc type-checks a single synthetic file and runs discovery
// on it.
func discoverSrc(t *testing.T, src string) []ExportDescriptor {
	t.Helper()

	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, "plugin.go", src, parser.ParseComments)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	info := &types.Info{Defs: map[*ast.Ident]types.Object{}}
	var conf types.Config
	pkg, err := conf.Check("example.com/plugin", fset, []*ast.File{file}, info)
	if err != nil {
		t.Fatalf("type check: %v", err)
	}

	descs, err := DiscoverFiles(fset, []*ast.File{file}, info, pkg)
	if err != nil {
		t.Fatalf("DiscoverFiles: %v", err)
	}
	return descs
}

func TestDiscover_ExplicitName(t *testing.T) {
	descs := discoverSrc(t, `
package plugin

//pdk:export count_vowels
func CountVowels(input string) (int32, error) {
	return 0, nil
}
`)
	if len(descs) != 1 {
		t.Fatalf("found %d descriptors, want 1", len(descs))
	}

	d := descs[0]
	if d.ExportName != "count_vowels" {
		t.Errorf("ExportName = %q", d.ExportName)
	}
	if d.WasmExportName() != "count-vowels" {
		t.Errorf("WasmExportName = %q", d.WasmExportName())
	}
	if d.FuncName != "CountVowels" || d.PkgPath != "example.com/plugin" {
		t.Errorf("FuncName = %q, PkgPath = %q", d.FuncName, d.PkgPath)
	}
	if len(d.Params) != 1 || d.Params[0].Type.Kind != abi.KindString {
		t.Errorf("Params = %+v", d.Params)
	}
	if d.Result.Kind != abi.KindS32 || !d.ReturnsError {
		t.Errorf("Result = %+v, ReturnsError = %v", d.Result, d.ReturnsError)
	}
}

func TestDiscover_DefaultName(t *testing.T) {
	descs := discoverSrc(t, `
package plugin

//pdk:export
func FetchHTTPStatus() int32 {
	return 200
}
`)
	if len(descs) != 1 {
		t.Fatalf("found %d descriptors, want 1", len(descs))
	}
	if got := descs[0].ExportName; got != "fetch_http_status" {
		t.Errorf("default ExportName = %q, want fetch_http_status", got)
	}
	if got := descs[0].WasmExportName(); got != "fetch-http-status" {
		t.Errorf("WasmExportName = %q", got)
	}
}

func TestDiscover_NoDirective(t *testing.T) {
	descs := discoverSrc(t, `
package plugin

// Helper does plugin-internal work.
func Helper() {}
`)
	if len(descs) != 0 {
		t.Errorf("found %d descriptors, want 0", len(descs))
	}
}

func TestDiscover_ParamKinds(t *testing.T) {
	descs := discoverSrc(t, `
package plugin

//pdk:export blend
func Blend(ratio float64, steps uint16, invert bool) float64 {
	return 0
}
`)
	d := descs[0]
	want := []abi.Kind{abi.KindF64, abi.KindU16, abi.KindBool}
	for i, k := range want {
		if d.Params[i].Type.Kind != k {
			t.Errorf("param %d kind = %s, want %s", i, d.Params[i].Type.Kind, k)
		}
	}
	if d.Result.Kind != abi.KindF64 {
		t.Errorf("result kind = %s", d.Result.Kind)
	}
}

func TestDiscover_BytesAndNamedTypes(t *testing.T) {
	descs := discoverSrc(t, `
package plugin

type Payload []byte
type Count int32

//pdk:export digest
func Digest(data Payload) Count {
	return 0
}
`)
	d := descs[0]
	if d.Params[0].Type.Kind != abi.KindBytes {
		t.Errorf("named []byte kind = %s, want bytes", d.Params[0].Type.Kind)
	}
	if d.Result.Kind != abi.KindS32 {
		t.Errorf("named int32 kind = %s, want s32", d.Result.Kind)
	}
	if d.Result.Expr != "Count" {
		t.Errorf("result expr = %q, want Count", d.Result.Expr)
	}
}

func TestDiscover_RecordType(t *testing.T) {
	descs := discoverSrc(t, `
package plugin

type Request struct {
	raw []byte
}

func (r *Request) UnmarshalRecord(data []byte) error {
	r.raw = data
	return nil
}

func (r *Request) MarshalRecord() ([]byte, error) {
	return r.raw, nil
}

//pdk:export handle
func Handle(req *Request) ([]byte, error) {
	return req.raw, nil
}
`)
	d := descs[0]
	if d.Params[0].Type.Kind != abi.KindRecord {
		t.Errorf("record param kind = %s, want record", d.Params[0].Type.Kind)
	}
	if d.Result.Kind != abi.KindBytes {
		t.Errorf("result kind = %s, want bytes", d.Result.Kind)
	}
}

func TestDiscover_PlatformWidthRejected(t *testing.T) {
	descs := discoverSrc(t, `
package plugin

//pdk:export sum
func Sum(n int) int {
	return n
}
`)
	d := descs[0]
	if d.Params[0].Type.Kind != abi.KindUnsupported {
		t.Errorf("int param kind = %s, want unsupported", d.Params[0].Type.Kind)
	}
	if d.Result.Kind != abi.KindUnsupported {
		t.Errorf("int result kind = %s, want unsupported", d.Result.Kind)
	}
}

func TestDiscover_StructuralFlags(t *testing.T) {
	descs := discoverSrc(t, `
package plugin

type Svc struct{}

//pdk:export on_method
func (s Svc) OnMethod() {}

//pdk:export generic_fn
func GenericFn[T any]() {}

//pdk:export hidden
func hidden() {}
`)
	if len(descs) != 3 {
		t.Fatalf("found %d descriptors, want 3", len(descs))
	}
	if !descs[0].IsMethod {
		t.Error("method not flagged")
	}
	if !descs[1].IsGeneric {
		t.Error("generic function not flagged")
	}
	if descs[2].IsExported {
		t.Error("unexported function flagged as exported")
	}
}

func TestDiscover_VoidAndErrorOnly(t *testing.T) {
	descs := discoverSrc(t, `
package plugin

//pdk:export reset
func Reset() {}

//pdk:export flush
func Flush() error { return nil }
`)
	if descs[0].Result.Kind != abi.KindVoid || descs[0].ReturnsError {
		t.Errorf("Reset = %+v", descs[0])
	}
	if descs[1].Result.Kind != abi.KindVoid || !descs[1].ReturnsError {
		t.Errorf("Flush = %+v", descs[1])
	}
}
