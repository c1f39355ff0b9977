package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"lume-lang/internal/diag"
	"lume-lang/internal/lexer"
	"lume-lang/internal/parser"
	"lume-lang/internal/resolver"
	"lume-lang/internal/runtime"

	"github.com/chzyer/readline"
)

// ---- ANSI colors ----

const (
	colorReset = "\033[0m"
	colorRed   = "\033[31m"
	colorGreen = "\033[32m"
	colorCyan  = "\033[36m"
	colorGray  = "\033[90m"
	colorBold  = "\033[1m"
)

// ---- repl command ----

// cmdRepl runs the interactive loop. The interpreter persists across
// lines so globals survive; each line is lexed, parsed, and resolved
// independently, and a failed line leaves earlier state untouched.
func cmdRepl() {
	historyFile := ""
	if home, err := os.UserHomeDir(); err == nil {
		historyFile = filepath.Join(home, ".lume_history")
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:            colorGreen + "lume> " + colorReset,
		HistoryFile:       historyFile,
		InterruptPrompt:   "^C",
		EOFPrompt:         "exit",
		HistorySearchFold: true,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "readline init failed: %v\n", err)
		os.Exit(1)
	}
	defer rl.Close()

	fmt.Fprintf(rl.Stdout(), "%s%slume REPL%s %s(type 'exit' or Ctrl+D to quit)%s\n\n",
		colorBold, colorCyan, colorReset, colorGray, colorReset)

	interp := runtime.NewInterpreter(rl.Stdout(), os.Stdin)
	var accumulated strings.Builder
	braceDepth := 0

	for {
		if braceDepth > 0 {
			rl.SetPrompt(colorGray + "...   " + colorReset)
		} else {
			rl.SetPrompt(colorGreen + "lume> " + colorReset)
		}

		line, err := rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				if braceDepth > 0 {
					// Cancel multi-line input
					accumulated.Reset()
					braceDepth = 0
					continue
				}
				fmt.Fprintf(rl.Stdout(), "\n%s(use 'exit' or Ctrl+D to quit)%s\n", colorGray, colorReset)
				continue
			}
			if err == io.EOF {
				fmt.Fprintln(rl.Stdout())
			}
			break
		}

		if braceDepth == 0 && strings.TrimSpace(line) == "exit" {
			break
		}

		// Track brace balance so class and function bodies can span
		// multiple lines.
		braceDepth += strings.Count(line, "{") - strings.Count(line, "}")
		accumulated.WriteString(line)
		accumulated.WriteString("\n")

		if braceDepth > 0 {
			continue
		}
		braceDepth = 0

		source := accumulated.String()
		accumulated.Reset()

		if strings.TrimSpace(source) == "" {
			continue
		}

		runLine(interp, rl, source)
	}
}

// runLine pushes one REPL line through the full pipeline. Errors are
// printed and forgotten; the next line starts clean.
func runLine(interp *runtime.Interpreter, rl *readline.Instance, source string) {
	l := lexer.New(source, "<repl>")
	tokens, lexDiags := l.Tokenize()

	p := parser.New(tokens)
	file, parseDiags := p.ParseFile()

	if len(lexDiags) > 0 || len(parseDiags) > 0 {
		printDiagsColored(rl.Stderr(), lexDiags)
		printDiagsColored(rl.Stderr(), parseDiags)
		return
	}

	bindings, resolveDiags := resolver.New().ResolveFile(file)
	if len(resolveDiags) > 0 {
		printDiagsColored(rl.Stderr(), resolveDiags)
		return
	}

	if err := interp.Run(file, bindings); err != nil {
		if rtErr, ok := err.(*runtime.RuntimeError); ok {
			fmt.Fprintf(rl.Stderr(), "%s%s%s\n", colorRed, rtErr.Report(), colorReset)
		} else {
			fmt.Fprintf(rl.Stderr(), "%s%s%s\n", colorRed, err, colorReset)
		}
	}
}

// printDiagsColored prints diagnostics in red for REPL display.
func printDiagsColored(w io.Writer, diags []diag.Diagnostic) {
	for _, d := range diags {
		fmt.Fprintf(w, "%s%s%s\n", colorRed, d.String(), colorReset)
	}
}
