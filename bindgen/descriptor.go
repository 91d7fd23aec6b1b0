package bindgen

import (
	"go/token"
	"strings"

	"github.com/wippyai/wasm-pdk/abi"
)

// Directive marks an exported plugin function. It appears on its own
// comment line directly above a function declaration:
//
//	//pdk:export count_vowels
//
// The argument is the wire-level export name; when omitted, the
// function name converted to snake_case is used.
const Directive = "//pdk:export"

// TypeRef connects a declared Go type to its boundary category.
type TypeRef struct {
	// Kind classifies the type for encode/decode.
	Kind abi.Kind

	// Expr is the Go source form of the type, usable in generated code.
	Expr string

	// ImportPath names the package Expr depends on, if any.
	ImportPath string
}

// Param is one declared parameter of an export.
type Param struct {
	Name string
	Type TypeRef
}

// ExportDescriptor captures one discovered //pdk:export declaration
// with everything validation and synthesis need.
type ExportDescriptor struct {
	// ExportName is the host-visible identifier before normalization.
	ExportName string

	// FuncName is the declaring function's name; PkgPath qualifies it.
	FuncName string
	PkgPath  string

	// Pos locates the declaration for diagnostics.
	Pos token.Position

	Params []Param

	// Result is the single declared result value, KindVoid when the
	// function returns nothing (or only an error).
	Result TypeRef

	// ReturnsError is set when the last result is an error.
	ReturnsError bool

	// Structural flags evaluated by validation.
	IsMethod   bool
	IsGeneric  bool
	IsExported bool
}

// WasmExportName returns the wire name: the export name with
// underscores normalized to hyphens.
func (d *ExportDescriptor) WasmExportName() string {
	return strings.ReplaceAll(d.ExportName, "_", "-")
}

// QualifiedName returns the package-qualified function name.
func (d *ExportDescriptor) QualifiedName() string {
	if d.PkgPath == "" {
		return d.FuncName
	}
	return d.PkgPath + "." + d.FuncName
}

// snakeCase converts a Go identifier to snake_case for the default
// export name. Acronym runs stay together: CountHTTPCalls becomes
// count_http_calls.
func snakeCase(name string) string {
	runes := []rune(name)
	var b strings.Builder
	for i, r := range runes {
		if r >= 'A' && r <= 'Z' {
			prevLower := i > 0 && isLowerOrDigit(runes[i-1])
			nextLower := i+1 < len(runes) && runes[i+1] >= 'a' && runes[i+1] <= 'z'
			if i > 0 && (prevLower || nextLower) {
				b.WriteByte('_')
			}
			b.WriteRune(r - 'A' + 'a')
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func isLowerOrDigit(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
}
