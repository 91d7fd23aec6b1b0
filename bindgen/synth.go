package bindgen

import (
	"bytes"
	"fmt"
	"go/format"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/wippyai/wasm-pdk/abi"
	"github.com/wippyai/wasm-pdk/errors"
)

const modulePath = "github.com/wippyai/wasm-pdk"

// Synthesize emits the generated source file holding one entry-point
// wrapper per descriptor. Every wrapper follows the same shape: decode
// the call input, invoke the user function, encode its result, and let
// the guard translate any failure into status 1 with a populated error
// channel. The file belongs to the scanned package and only builds for
// the wasm target.
func Synthesize(pkgName string, descs []ExportDescriptor) ([]byte, error) {
	g := &generator{pkg: pkgName, imports: map[string]bool{}}
	for i := range descs {
		if err := g.wrapper(&descs[i]); err != nil {
			return nil, err
		}
	}

	src := g.file()
	formatted, err := format.Source(src)
	if err != nil {
		return nil, errors.New(errors.PhaseEncode, errors.KindInvalidData).
			Cause(err).
			Detail("formatting generated source").
			Build()
	}

	Logger().Debug("synthesis complete",
		zap.String("package", pkgName),
		zap.Int("wrappers", len(descs)))
	return formatted, nil
}

type generator struct {
	pkg     string
	imports map[string]bool
	decls   bytes.Buffer
	body    bytes.Buffer
}

func (g *generator) file() []byte {
	var out bytes.Buffer
	out.WriteString("// Code generated by pdkgen. DO NOT EDIT.\n\n")
	out.WriteString("//go:build wasip1\n\n")
	fmt.Fprintf(&out, "package %s\n\n", g.pkg)

	if len(g.imports) > 0 {
		paths := make([]string, 0, len(g.imports))
		for p := range g.imports {
			paths = append(paths, p)
		}
		sort.Strings(paths)
		out.WriteString("import (\n")
		for _, p := range paths {
			fmt.Fprintf(&out, "\t%q\n", p)
		}
		out.WriteString(")\n\n")
	}

	out.Write(g.decls.Bytes())
	out.Write(g.body.Bytes())
	return out.Bytes()
}

func (g *generator) wrapper(d *ExportDescriptor) error {
	g.imports[modulePath+"/pdk"] = true

	var b bytes.Buffer
	fmt.Fprintf(&b, "//go:wasmexport %s\n", d.WasmExportName())
	fmt.Fprintf(&b, "func pdkExport%s() uint32 {\n", d.FuncName)
	b.WriteString("\treturn pdk.Guard(func() error {\n")

	args, err := g.decode(&b, d)
	if err != nil {
		return err
	}
	if err := g.invoke(&b, d, args); err != nil {
		return err
	}

	b.WriteString("\t})\n")
	b.WriteString("}\n\n")
	g.body.Write(b.Bytes())
	return nil
}

// decode emits the input-decoding statements and returns the argument
// expressions for the call.
func (g *generator) decode(b *bytes.Buffer, d *ExportDescriptor) ([]string, error) {
	if len(d.Params) == 0 {
		return nil, nil
	}

	b.WriteString("\t\tpdkInput := pdk.Input()\n")

	if len(d.Params) == 1 {
		p := d.Params[0]
		switch p.Type.Kind {
		case abi.KindString:
			fmt.Fprintf(b, "\t\t%s := string(pdkInput)\n", p.Name)
		case abi.KindBytes:
			fmt.Fprintf(b, "\t\t%s := pdkInput\n", p.Name)
		case abi.KindRecord:
			return []string{g.recordArg(b, d, p)}, nil
		default:
			g.lengthCheck(b, p.Type.Kind.Width())
			fmt.Fprintf(b, "\t\t%s := %s\n", p.Name, g.accessor(p.Type, "pdkInput"))
		}
		return []string{p.Name}, nil
	}

	kinds := make([]abi.Kind, len(d.Params))
	for i, p := range d.Params {
		kinds[i] = p.Type.Kind
	}
	g.lengthCheck(b, abi.PackedSize(kinds))

	args := make([]string, len(d.Params))
	var off uint64
	for i, p := range d.Params {
		w := p.Type.Kind.Width()
		slice := fmt.Sprintf("pdkInput[%d:%d]", off, off+w)
		fmt.Fprintf(b, "\t\t%s := %s\n", p.Name, g.accessor(p.Type, slice))
		args[i] = p.Name
		off += w
	}
	return args, nil
}

func (g *generator) lengthCheck(b *bytes.Buffer, want uint64) {
	g.imports[modulePath+"/errors"] = true
	fmt.Fprintf(b, "\t\tif len(pdkInput) != %d {\n", want)
	fmt.Fprintf(b, "\t\t\treturn errors.ShortInput(%d, uint64(len(pdkInput)))\n", want)
	b.WriteString("\t\t}\n")
}

// accessor returns the decode expression for a primitive value held in
// slice, converting to the declared type when it is a named form of
// the primitive.
func (g *generator) accessor(t TypeRef, slice string) string {
	g.imports[modulePath+"/abi"] = true
	expr := fmt.Sprintf("abi.%s(%s)", accessorName(t.Kind), slice)
	if t.Expr != goTypeFor(t.Kind) {
		expr = fmt.Sprintf("%s(%s)", t.Expr, expr)
	}
	return expr
}

// recordArg emits the cached record decode and returns the argument
// expression.
func (g *generator) recordArg(b *bytes.Buffer, d *ExportDescriptor, p Param) string {
	g.imports[modulePath+"/abi"] = true
	if p.Type.ImportPath != "" {
		g.imports[p.Type.ImportPath] = true
	}

	base := strings.TrimPrefix(p.Type.Expr, "*")
	cacheVar := fmt.Sprintf("pdkCache%s", d.FuncName)
	fmt.Fprintf(&g.decls, "var %s abi.RecordCache\n\n", cacheVar)

	fmt.Fprintf(b, "\t\tpdkRec, err := %s.Load(pdkInput, func() abi.Record { return new(%s) })\n", cacheVar, base)
	b.WriteString("\t\tif err != nil {\n\t\t\treturn err\n\t\t}\n")
	fmt.Fprintf(b, "\t\t%s := pdkRec.(*%s)\n", p.Name, base)
	if strings.HasPrefix(p.Type.Expr, "*") {
		return p.Name
	}
	return "*" + p.Name
}

// invoke emits the user call and result encoding.
func (g *generator) invoke(b *bytes.Buffer, d *ExportDescriptor, args []string) error {
	call := fmt.Sprintf("%s(%s)", d.FuncName, strings.Join(args, ", "))

	switch {
	case d.Result.Kind == abi.KindVoid && !d.ReturnsError:
		fmt.Fprintf(b, "\t\t%s\n", call)
		b.WriteString("\t\treturn nil\n")
		return nil
	case d.Result.Kind == abi.KindVoid:
		fmt.Fprintf(b, "\t\treturn %s\n", call)
		return nil
	}

	if d.ReturnsError {
		fmt.Fprintf(b, "\t\tout, err := %s\n", call)
		b.WriteString("\t\tif err != nil {\n\t\t\treturn err\n\t\t}\n")
	} else {
		fmt.Fprintf(b, "\t\tout := %s\n", call)
	}

	switch d.Result.Kind {
	case abi.KindString:
		b.WriteString("\t\treturn pdk.SetOutputString(string(out))\n")
	case abi.KindBytes:
		b.WriteString("\t\treturn pdk.SetOutput([]byte(out))\n")
	case abi.KindRecord:
		b.WriteString("\t\tdata, err := out.MarshalRecord()\n")
		b.WriteString("\t\tif err != nil {\n\t\t\treturn err\n\t\t}\n")
		b.WriteString("\t\treturn pdk.SetOutput(data)\n")
	default:
		g.imports[modulePath+"/abi"] = true
		conv := "out"
		if d.Result.Expr != goTypeFor(d.Result.Kind) {
			conv = fmt.Sprintf("%s(out)", goTypeFor(d.Result.Kind))
		}
		fmt.Fprintf(b, "\t\treturn pdk.SetOutput(abi.Append%s(nil, %s))\n",
			accessorName(d.Result.Kind), conv)
	}
	return nil
}

func accessorName(k abi.Kind) string {
	switch k {
	case abi.KindBool:
		return "Bool"
	case abi.KindS8:
		return "S8"
	case abi.KindU8:
		return "U8"
	case abi.KindS16:
		return "S16"
	case abi.KindU16:
		return "U16"
	case abi.KindS32:
		return "S32"
	case abi.KindU32:
		return "U32"
	case abi.KindS64:
		return "S64"
	case abi.KindU64:
		return "U64"
	case abi.KindF32:
		return "F32"
	default:
		return "F64"
	}
}

func goTypeFor(k abi.Kind) string {
	switch k {
	case abi.KindBool:
		return "bool"
	case abi.KindS8:
		return "int8"
	case abi.KindU8:
		return "uint8"
	case abi.KindS16:
		return "int16"
	case abi.KindU16:
		return "uint16"
	case abi.KindS32:
		return "int32"
	case abi.KindU32:
		return "uint32"
	case abi.KindS64:
		return "int64"
	case abi.KindU64:
		return "uint64"
	case abi.KindF32:
		return "float32"
	case abi.KindF64:
		return "float64"
	case abi.KindString:
		return "string"
	case abi.KindBytes:
		return "[]byte"
	default:
		return ""
	}
}
