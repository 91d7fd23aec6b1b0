package bindgen

import (
	"fmt"
	"go/token"

	"go.uber.org/zap"

	"github.com/wippyai/wasm-pdk/abi"
)

// Check identifies which structural rule a diagnostic reports.
type Check int

const (
	CheckStatic Check = iota
	CheckGeneric
	CheckAccessible
	CheckDuplicateName
	CheckReturnType
	CheckParamType
)

var checkNames = [...]string{
	"must be static",
	"cannot be generic",
	"must be accessible",
	"duplicate export name",
	"unsupported return type",
	"unsupported parameter type",
}

func (c Check) String() string {
	if int(c) < len(checkNames) {
		return checkNames[c]
	}
	return fmt.Sprintf("check(%d)", int(c))
}

// Diagnostic reports one rule violation on one declaration.
type Diagnostic struct {
	Check   Check
	Export  string
	Func    string
	Pos     token.Position
	Message string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s: %s", d.Pos, d.Func, d.Message)
}

// Validate splits descriptors into those eligible for generation and
// diagnostics for every violation. A descriptor with any violation is
// dropped entirely; violations on one descriptor never suppress checks
// on another. Duplicate export names are reported against the second
// and later occurrences.
func Validate(descs []ExportDescriptor) ([]ExportDescriptor, []Diagnostic) {
	var valid []ExportDescriptor
	var diags []Diagnostic

	seen := map[string]bool{}
	for i := range descs {
		d := &descs[i]
		found := check(d, seen)
		seen[d.ExportName] = true
		if len(found) == 0 {
			valid = append(valid, *d)
			continue
		}
		diags = append(diags, found...)
		Logger().Debug("export rejected",
			zap.String("export", d.ExportName),
			zap.Int("violations", len(found)))
	}
	return valid, diags
}

func check(d *ExportDescriptor, seen map[string]bool) []Diagnostic {
	var diags []Diagnostic
	report := func(c Check, msg string) {
		diags = append(diags, Diagnostic{
			Check:   c,
			Export:  d.ExportName,
			Func:    d.FuncName,
			Pos:     d.Pos,
			Message: msg,
		})
	}

	if d.IsMethod {
		report(CheckStatic, fmt.Sprintf("exported function %s must be static; methods cannot be exported", d.FuncName))
	}
	if d.IsGeneric {
		report(CheckGeneric, fmt.Sprintf("exported function %s cannot be generic", d.FuncName))
	}
	if !d.IsExported {
		report(CheckAccessible, fmt.Sprintf("exported function %s must be accessible; unexported functions cannot be exported", d.FuncName))
	}
	if seen[d.ExportName] {
		report(CheckDuplicateName, fmt.Sprintf("duplicate export name %q", d.ExportName))
	}
	if !d.Result.Kind.IsSupported() {
		report(CheckReturnType, fmt.Sprintf("unsupported return type %s", d.Result.Expr))
	}

	if len(d.Params) == 1 {
		p := d.Params[0]
		if !p.Type.Kind.IsSupported() || p.Type.Kind == abi.KindVoid {
			report(CheckParamType, fmt.Sprintf("unsupported parameter type %s for %s", p.Type.Expr, p.Name))
		}
	} else {
		// With more than one parameter, every parameter must be a
		// fixed-width primitive so the input packs unambiguously.
		for _, p := range d.Params {
			if !p.Type.Kind.IsPrimitive() {
				report(CheckParamType, fmt.Sprintf("unsupported parameter type %s for %s; multi-parameter exports accept only fixed-width primitives", p.Type.Expr, p.Name))
			}
		}
	}
	return diags
}
