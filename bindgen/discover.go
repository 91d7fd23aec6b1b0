package bindgen

import (
	"fmt"
	"go/ast"
	"go/token"
	"go/types"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/tools/go/packages"

	"github.com/wippyai/wasm-pdk/abi"
	"github.com/wippyai/wasm-pdk/errors"
)

// Discover scans the Go package rooted at dir for //pdk:export
// declarations and returns one descriptor per directive, in source
// order. Descriptors are raw: validation happens separately.
func Discover(dir string) ([]ExportDescriptor, error) {
	cfg := &packages.Config{
		Mode: packages.NeedName | packages.NeedFiles | packages.NeedSyntax |
			packages.NeedTypes | packages.NeedTypesInfo | packages.NeedImports |
			packages.NeedDeps,
		Dir: dir,
	}
	pkgs, err := packages.Load(cfg, ".")
	if err != nil {
		return nil, errors.New(errors.PhaseDiscover, errors.KindHostFailure).
			Cause(err).
			Detail("loading package in %s", dir).
			Build()
	}

	var all []ExportDescriptor
	for _, pkg := range pkgs {
		if len(pkg.Errors) > 0 {
			return nil, errors.New(errors.PhaseDiscover, errors.KindInvalidInput).
				Detail("package %s: %s", pkg.PkgPath, pkg.Errors[0].Msg).
				Build()
		}
		descs, err := DiscoverFiles(pkg.Fset, pkg.Syntax, pkg.TypesInfo, pkg.Types)
		if err != nil {
			return nil, err
		}
		all = append(all, descs...)
	}

	Logger().Debug("discovery complete",
		zap.String("dir", dir),
		zap.Int("exports", len(all)))
	return all, nil
}

// DiscoverFiles collects descriptors from already type-checked files.
// The package loader above and hermetic tests share this path.
func DiscoverFiles(fset *token.FileSet, files []*ast.File, info *types.Info, pkg *types.Package) ([]ExportDescriptor, error) {
	var descs []ExportDescriptor
	for _, file := range files {
		for _, decl := range file.Decls {
			fn, ok := decl.(*ast.FuncDecl)
			if !ok {
				continue
			}
			name, ok := exportDirective(fn.Doc)
			if !ok {
				continue
			}
			desc, err := describe(fset, info, pkg, fn, name)
			if err != nil {
				return nil, err
			}
			descs = append(descs, desc)
		}
	}
	return descs, nil
}

// exportDirective extracts the directive argument from a declaration's
// doc comment. The empty argument means "derive from the function
// name".
func exportDirective(doc *ast.CommentGroup) (string, bool) {
	if doc == nil {
		return "", false
	}
	for _, c := range doc.List {
		if c.Text == Directive {
			return "", true
		}
		if rest, ok := strings.CutPrefix(c.Text, Directive+" "); ok {
			return strings.TrimSpace(rest), true
		}
	}
	return "", false
}

func describe(fset *token.FileSet, info *types.Info, pkg *types.Package, fn *ast.FuncDecl, exportName string) (ExportDescriptor, error) {
	obj, ok := info.Defs[fn.Name].(*types.Func)
	if !ok {
		return ExportDescriptor{}, errors.New(errors.PhaseDiscover, errors.KindInvalidData).
			Detail("no type information for %s", fn.Name.Name).
			Build()
	}
	sig := obj.Type().(*types.Signature)

	if exportName == "" {
		exportName = snakeCase(fn.Name.Name)
	}

	desc := ExportDescriptor{
		ExportName: exportName,
		FuncName:   fn.Name.Name,
		PkgPath:    pkg.Path(),
		Pos:        fset.Position(fn.Pos()),
		IsMethod:   sig.Recv() != nil,
		IsGeneric:  sig.TypeParams() != nil && sig.TypeParams().Len() > 0,
		IsExported: fn.Name.IsExported(),
	}

	params := sig.Params()
	for i := 0; i < params.Len(); i++ {
		p := params.At(i)
		name := p.Name()
		if name == "" || name == "_" {
			name = fmt.Sprintf("arg%d", i)
		}
		desc.Params = append(desc.Params, Param{
			Name: name,
			Type: classify(p.Type(), pkg),
		})
	}

	results := sig.Results()
	switch results.Len() {
	case 0:
		desc.Result = TypeRef{Kind: abi.KindVoid}
	case 1:
		if isErrorType(results.At(0).Type()) {
			desc.Result = TypeRef{Kind: abi.KindVoid}
			desc.ReturnsError = true
		} else {
			desc.Result = classify(results.At(0).Type(), pkg)
		}
	case 2:
		if isErrorType(results.At(1).Type()) {
			desc.Result = classify(results.At(0).Type(), pkg)
			desc.ReturnsError = true
			break
		}
		fallthrough
	default:
		desc.Result = TypeRef{
			Kind: abi.KindUnsupported,
			Expr: types.TypeString(results.At(0).Type(), relativeTo(pkg)),
		}
	}

	return desc, nil
}

// classify maps a Go type to its boundary category.
func classify(t types.Type, pkg *types.Package) TypeRef {
	ref := TypeRef{
		Kind: abi.KindUnsupported,
		Expr: types.TypeString(t, relativeTo(pkg)),
	}

	switch u := t.Underlying().(type) {
	case *types.Basic:
		ref.Kind = basicKind(u.Kind())
	case *types.Slice:
		if elem, ok := u.Elem().Underlying().(*types.Basic); ok && elem.Kind() == types.Byte {
			ref.Kind = abi.KindBytes
		}
	}

	if ref.Kind == abi.KindUnsupported && implementsRecord(t) {
		ref.Kind = abi.KindRecord
		if named, ok := t.(*types.Named); ok && named.Obj().Pkg() != nil && named.Obj().Pkg() != pkg {
			ref.ImportPath = named.Obj().Pkg().Path()
		}
	}
	return ref
}

func basicKind(k types.BasicKind) abi.Kind {
	switch k {
	case types.Bool:
		return abi.KindBool
	case types.Int8:
		return abi.KindS8
	case types.Uint8:
		return abi.KindU8
	case types.Int16:
		return abi.KindS16
	case types.Uint16:
		return abi.KindU16
	case types.Int32:
		return abi.KindS32
	case types.Uint32:
		return abi.KindU32
	case types.Int64:
		return abi.KindS64
	case types.Uint64:
		return abi.KindU64
	case types.Float32:
		return abi.KindF32
	case types.Float64:
		return abi.KindF64
	case types.String:
		return abi.KindString
	default:
		// int and uint are rejected: boundary widths are explicit.
		return abi.KindUnsupported
	}
}

func isErrorType(t types.Type) bool {
	named, ok := t.(*types.Named)
	if !ok {
		return false
	}
	return named.Obj().Pkg() == nil && named.Obj().Name() == "error"
}

// implementsRecord checks structurally for the self-describing record
// methods on *T, so discovery does not depend on the scanned package
// importing any particular path.
func implementsRecord(t types.Type) bool {
	ms := types.NewMethodSet(types.NewPointer(t))
	return hasMethod(ms, "MarshalRecord", 0, 2) && hasMethod(ms, "UnmarshalRecord", 1, 1)
}

func hasMethod(ms *types.MethodSet, name string, params, results int) bool {
	for i := 0; i < ms.Len(); i++ {
		fn, ok := ms.At(i).Obj().(*types.Func)
		if !ok || fn.Name() != name {
			continue
		}
		sig := fn.Type().(*types.Signature)
		return sig.Params().Len() == params && sig.Results().Len() == results
	}
	return false
}

func relativeTo(pkg *types.Package) types.Qualifier {
	return func(other *types.Package) string {
		if other == pkg {
			return ""
		}
		return other.Name()
	}
}
