// Command lume is the CLI entry point for the lume toolchain.
//
// Usage:
//
//	lume                           Start interactive REPL
//	lume <file>                    Run a source file
//	lume run    <file>             Run a source file
//	lume tokens <file> [--json]    Print tokens
//	lume parse  <file>             Print AST as JSON
//	lume repl                      Start interactive REPL
package main

import (
	"fmt"
	"os"

	"lume-lang/internal/ast"
	"lume-lang/internal/diag"
	"lume-lang/internal/lexer"
	"lume-lang/internal/parser"
	"lume-lang/internal/resolver"
	"lume-lang/internal/runtime"
)

// Exit codes follow the BSD sysexits convention: 64 for usage errors,
// 65 for malformed input (syntax or static errors), 70 for runtime
// failures.
const (
	exitUsage   = 64
	exitData    = 65
	exitRuntime = 70
)

func main() {
	if len(os.Args) < 2 {
		cmdRepl()
		return
	}

	switch command := os.Args[1]; command {
	case "tokens":
		cmdTokens(requireFile(), hasFlag("--json"))
	case "parse":
		cmdParse(requireFile())
	case "run":
		cmdRun(requireFile())
	case "repl":
		cmdRepl()
	default:
		// A bare filename runs the script, matching the common
		// interpreter invocation shape.
		if len(os.Args) == 2 {
			cmdRun(command)
			return
		}
		fmt.Fprintf(os.Stderr, "error: unknown command '%s'\n", command)
		usage()
		os.Exit(exitUsage)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "Usage:")
	fmt.Fprintln(os.Stderr, "  lume                           Start interactive REPL")
	fmt.Fprintln(os.Stderr, "  lume <file>                    Run a source file")
	fmt.Fprintln(os.Stderr, "  lume run    <file>             Run a source file")
	fmt.Fprintln(os.Stderr, "  lume tokens <file> [--json]    Tokenize and print tokens")
	fmt.Fprintln(os.Stderr, "  lume parse  <file>             Parse and print AST (JSON)")
	fmt.Fprintln(os.Stderr, "  lume repl                      Start interactive REPL")
}

func requireFile() string {
	if len(os.Args) < 3 {
		fmt.Fprintln(os.Stderr, "error: missing file argument")
		usage()
		os.Exit(exitUsage)
	}
	return os.Args[2]
}

func readFile(filename string) string {
	source, err := os.ReadFile(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: cannot read file %s: %v\n", filename, err)
		os.Exit(exitUsage)
	}
	return string(source)
}

func hasFlag(flag string) bool {
	for _, arg := range os.Args[3:] {
		if arg == flag {
			return true
		}
	}
	return false
}

// ---- tokens command ----

func cmdTokens(filename string, jsonMode bool) {
	source := readFile(filename)
	l := lexer.New(source, filename)
	tokens, diags := l.Tokenize()

	if jsonMode {
		printTokensJSON(tokens, diags)
	} else {
		printTokensText(tokens, diags)
	}

	if len(diags) > 0 {
		os.Exit(exitData)
	}
}

// ---- parse command ----

func cmdParse(filename string) {
	source := readFile(filename)
	l := lexer.New(source, filename)
	tokens, lexDiags := l.Tokenize()

	p := parser.New(tokens)
	file, parseDiags := p.ParseFile()

	allDiags := append(lexDiags, parseDiags...)

	printJSON(map[string]interface{}{
		"ast":         ast.NodeToMap(file),
		"diagnostics": diagsToSlice(allDiags),
	})

	if len(allDiags) > 0 {
		os.Exit(exitData)
	}
}

// ---- run command ----

func cmdRun(filename string) {
	source := readFile(filename)

	l := lexer.New(source, filename)
	tokens, lexDiags := l.Tokenize()

	p := parser.New(tokens)
	file, parseDiags := p.ParseFile()

	if len(lexDiags) > 0 || len(parseDiags) > 0 {
		diag.Print(os.Stderr, lexDiags)
		diag.Print(os.Stderr, parseDiags)
		os.Exit(exitData)
	}

	bindings, resolveDiags := resolver.New().ResolveFile(file)
	if len(resolveDiags) > 0 {
		diag.Print(os.Stderr, resolveDiags)
		os.Exit(exitData)
	}

	interp := runtime.NewInterpreter(os.Stdout, os.Stdin)
	if err := interp.Run(file, bindings); err != nil {
		if rtErr, ok := err.(*runtime.RuntimeError); ok {
			fmt.Fprintln(os.Stderr, rtErr.Report())
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(exitRuntime)
	}
}
