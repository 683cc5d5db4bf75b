/*
Microc compiles a small C-like language to structural Python-like target
code, following the six-stage pipeline in internal/compiler.

It can run in one of two modes. With a source file given on the command
line, it compiles that file once, prints the rendered report, and exits.
Without one, it starts an interactive read-eval-compile loop: each run of
lines up to a blank line is compiled and its report printed as soon as the
blank line is entered, the way tqi drops a player into a live session instead of
requiring a pre-written script.

Usage:

	microc [flags] [source-file]

The flags are:

	-v, --version
		Print the current version and exit.

	-c, --config FILE
		Load default flag values from the given TOML file before applying
		command-line flags. Defaults to "microc.toml" in the current working
		directory if present; silently ignored if absent.

	-o, --optimized
		Render the optimized quadruple sequence instead of the unoptimized one.

	-s, --snapshot FILE
		After compiling, write a binary snapshot of the report to FILE using
		internal/snapshot.

	-d, --direct
		Force reading REPL input directly from stdin instead of going through
		the readline line editor.
*/
package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/chzyer/readline"
	"github.com/spf13/pflag"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/dekarrin/microc/internal/compiler"
	"github.com/dekarrin/microc/internal/ir"
	"github.com/dekarrin/microc/internal/render"
	"github.com/dekarrin/microc/internal/report"
	"github.com/dekarrin/microc/internal/snapshot"
	"github.com/dekarrin/microc/internal/version"
)

const (
	// ExitSuccess indicates a successful program execution.
	ExitSuccess = iota

	// ExitCompileError indicates the compiler itself reported at least one
	// error (a well-formed run, just on bad source).
	ExitCompileError

	// ExitInitError indicates an unsuccessful program execution due to an
	// issue initializing the CLI (bad flags, unreadable file, bad config).
	ExitInitError
)

// config holds the subset of flags that may also come from a TOML file.
// Command-line flags always take precedence over config file values.
type config struct {
	Optimized bool   `toml:"optimized"`
	Snapshot  string `toml:"snapshot"`
	Direct    bool   `toml:"direct"`
}

var (
	returnCode int = ExitSuccess

	flagVersion    = pflag.BoolP("version", "v", false, "Gives the version info")
	flagConfig     = pflag.StringP("config", "c", "microc.toml", "TOML file of default flag values; ignored if absent")
	flagOptimized  = pflag.BoolP("optimized", "o", false, "Render the optimized quadruple sequence instead of the unoptimized one")
	flagSnapshot   = pflag.StringP("snapshot", "s", "", "Write a binary snapshot of the report to this file")
	flagDirect     = pflag.BoolP("direct", "d", false, "Force reading REPL input directly from stdin instead of via readline")
)

func main() {
	defer func() {
		if panicErr := recover(); panicErr != nil {
			panic(fmt.Sprintf("unrecoverable panic occurred: %v", panicErr))
		}
		os.Exit(returnCode)
	}()

	pflag.Parse()

	if *flagVersion {
		fmt.Printf("microc %s\n", version.Current)
		return
	}

	cfg := loadConfig(*flagConfig)
	applyConfigDefaults(&cfg)

	printer := message.NewPrinter(language.English)

	args := pflag.Args()
	if len(args) > 0 {
		runFile(args[0], printer)
		return
	}

	runREPL(printer)
}

// loadConfig reads a TOML config file if it exists. A missing file is not
// an error; a malformed one is.
func loadConfig(path string) config {
	var cfg config
	if _, err := os.Stat(path); err != nil {
		return cfg
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: reading config %s: %s\n", path, err.Error())
		returnCode = ExitInitError
		os.Exit(returnCode)
	}
	return cfg
}

// applyConfigDefaults fills in flag values from cfg for any flag the user
// did not explicitly set on the command line.
func applyConfigDefaults(cfg *config) {
	if !pflag.CommandLine.Changed("optimized") && cfg.Optimized {
		*flagOptimized = true
	}
	if !pflag.CommandLine.Changed("snapshot") && cfg.Snapshot != "" {
		*flagSnapshot = cfg.Snapshot
	}
	if !pflag.CommandLine.Changed("direct") && cfg.Direct {
		*flagDirect = true
	}
}

func runFile(path string, printer *message.Printer) {
	source, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		returnCode = ExitInitError
		return
	}

	compileAndPrint(string(source), printer)
}

func runREPL(printer *message.Printer) {
	if *flagDirect || !isInteractive() {
		runDirectREPL(printer)
		return
	}

	rl, err := readline.NewEx(&readline.Config{Prompt: "microc> "})
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: create readline config: %s\n", err.Error())
		returnCode = ExitInitError
		return
	}
	defer rl.Close()

	fmt.Println("microc REPL - enter a program, then a blank line to compile it; Ctrl-D to quit")

	for {
		source, ok := readUntilBlank(func() (string, error) { return rl.Readline() })
		if strings.TrimSpace(source) != "" {
			compileAndPrint(source, printer)
		}
		if !ok {
			return
		}
	}
}

func runDirectREPL(printer *message.Printer) {
	fmt.Println("microc REPL - enter a program, then a blank line to compile it; Ctrl-D to quit")

	r := bufio.NewReader(os.Stdin)
	readLine := func() (string, error) {
		line, err := r.ReadString('\n')
		if err != nil && (err != io.EOF || line == "") {
			return "", err
		}
		return strings.TrimRight(line, "\n"), nil
	}

	for {
		source, ok := readUntilBlank(readLine)
		if !ok {
			if strings.TrimSpace(source) != "" {
				compileAndPrint(source, printer)
			}
			return
		}
		if strings.TrimSpace(source) == "" {
			continue
		}
		compileAndPrint(source, printer)
	}
}

// readUntilBlank accumulates lines from readLine until a blank line is
// entered or the underlying reader returns an error (EOF on Ctrl-D). On
// error, ok is false but any lines accumulated so far are still returned
// so the caller can compile a final, unterminated snippet.
func readUntilBlank(readLine func() (string, error)) (source string, ok bool) {
	var lines []string
	for {
		line, err := readLine()
		if err != nil {
			return strings.Join(lines, "\n"), false
		}
		if strings.TrimSpace(line) == "" {
			return strings.Join(lines, "\n"), true
		}
		lines = append(lines, line)
	}
}

func isInteractive() bool {
	info, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}

func compileAndPrint(source string, printer *message.Printer) {
	orch := compiler.NewOrchestrator()
	rep := orch.Compile(source)

	fmt.Println(render.Tokens(rep.Tokens))
	fmt.Println()
	fmt.Println(render.AST(rep.AST))
	fmt.Println()

	if rep.SymbolTable != nil {
		fmt.Println(render.SymbolTable(rep.SymbolTable))
		fmt.Println()
	}

	quads := quadruplesToRender(rep)
	fmt.Println(render.Quadruples(quads))
	fmt.Println()
	fmt.Println(render.OptimizationLog(rep.Metrics.OptimizationLog))
	fmt.Println()

	if rep.ObjectCode != "" {
		fmt.Println("--- generated target code ---")
		fmt.Println(rep.ObjectCode)
		fmt.Println()
	}

	for _, d := range rep.Errors {
		fmt.Fprintf(os.Stderr, "error: %s\n", d.Message)
	}
	for _, d := range rep.Warnings {
		fmt.Fprintf(os.Stderr, "warning: %s\n", d.Message)
	}

	printer.Printf("tokens=%d  ast_nodes=%d  symbols=%d  quadruples=%d  optimizations_applied=%d  errors=%d  warnings=%d  time=%.4fs\n",
		rep.Metrics.TokensCount, rep.Metrics.ASTNodesCount, rep.Metrics.SymbolsCount,
		rep.Metrics.QuadruplesCount, rep.Metrics.OptimizationsApplied,
		rep.Metrics.ErrorsCount, rep.Metrics.WarningsCount, rep.Metrics.CompilationTime)

	if *flagSnapshot != "" {
		data := snapshot.Save(snapshot.FromReport(rep))
		if err := os.WriteFile(*flagSnapshot, data, 0644); err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: writing snapshot: %s\n", err.Error())
			returnCode = ExitInitError
			return
		}
	}

	if !rep.Success {
		returnCode = ExitCompileError
	}
}

// quadruplesToRender picks the optimized or unoptimized quadruple sequence
// per --optimized, falling back to whichever one actually ran.
func quadruplesToRender(rep report.CompileReport) []ir.Quadruple {
	if *flagOptimized && rep.OptimizedCode != nil {
		return rep.OptimizedCode.Quadruples
	}
	if rep.IntermediateCode != nil {
		return rep.IntermediateCode.Quadruples
	}
	return nil
}
