package main

import (
	"fmt"
	"go/parser"
	"go/token"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/wippyai/wasm-pdk/bindgen"
)

var (
	errStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	posStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	ruleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
)

// printDiagnostics renders one line per violation. Color is used only
// on a terminal, and can be disabled outright.
func printDiagnostics(w io.Writer, diags []bindgen.Diagnostic, noColor bool) {
	if len(diags) == 0 {
		return
	}

	color := !noColor && isTerminal(w)
	for _, d := range diags {
		pos := d.Pos.String()
		rule := d.Check.String()
		if color {
			fmt.Fprintf(w, "%s %s [%s] %s\n",
				errStyle.Render("reject:"),
				posStyle.Render(pos),
				ruleStyle.Render(rule),
				d.Message)
			continue
		}
		fmt.Fprintf(w, "reject: %s [%s] %s\n", pos, rule, d.Message)
	}
	fmt.Fprintf(w, "%d violation(s)\n", len(diags))
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// packageName reads the package clause of the first Go file in dir.
func packageName(dir string) string {
	matches, err := filepath.Glob(filepath.Join(dir, "*.go"))
	if err != nil {
		return "main"
	}

	fset := token.NewFileSet()
	for _, path := range matches {
		if strings.HasSuffix(path, "_test.go") {
			continue
		}
		file, err := parser.ParseFile(fset, path, nil, parser.PackageClauseOnly)
		if err != nil {
			continue
		}
		return file.Name.Name
	}
	return "main"
}
