package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"

	"tacc/internal/codegen"
	"tacc/internal/errors"
	"tacc/internal/ir"
	"tacc/internal/irtext"
	"tacc/internal/regalloc"
)

const allocatableRegisterCount = 7

func main() {
	o0 := flag.Bool("O0", false, "disable optimization and register allocation; every local is spilled")
	outPath := flag.String("o", "", "write assembly to this path instead of stdout")
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: tacc [-O0] [-o out.s] <ir-file>")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(1)
	}
	path := flag.Arg(0)

	source, err := os.ReadFile(path)
	if err != nil {
		color.Red("failed to read %s: %s", path, err)
		os.Exit(1)
	}

	asm, ok := run(path, string(source), *o0)
	if !ok {
		os.Exit(1)
	}

	if *outPath == "" {
		fmt.Print(asm)
	} else if err := os.WriteFile(*outPath, []byte(asm), 0o644); err != nil {
		color.Red("failed to write %s: %s", *outPath, err)
		os.Exit(1)
	}
}

// run loads, compiles, and emits prog, reporting any boundary or
// back-end error the way the teacher's own CLI reports parse errors
// (cmd/kanso-cli/main.go's reportParseError): caret-annotated and in
// color, with a final exit status rather than a panic escaping main.
func run(path, source string, o0 bool) (asm string, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			fault, isFault := r.(*errors.BackendFault)
			if !isFault {
				panic(r)
			}
			fmt.Fprint(os.Stderr, errors.FormatBackendFault(fault))
			ok = false
		}
	}()

	prog, err := irtext.Parse(path, source)
	if err != nil {
		reportCompilerError(source, path, err)
		return "", false
	}

	infos := map[*ir.Function]*codegen.FunctionInfo{}
	for _, f := range prog.Functions {
		info, ig := compileFunction(f, o0)
		infos[f] = info
		writeDebugArtifacts(f, ig)
	}

	return codegen.Emit(prog, infos), true
}

// compileFunction runs the optimizer and register allocator over f
// unless o0 is set, in which case codegen sees a nil *regalloc.Result
// and spills every local (SPEC_FULL.md "Concrete CLI surface"). The
// returned interference graph is nil under -O0, since there is nothing
// to color and so nothing to render into <name>.ig.dot.
func compileFunction(f *ir.Function, o0 bool) (*codegen.FunctionInfo, *regalloc.InterferenceGraph) {
	if o0 {
		deps := ir.ComputeDependenceMap(f)
		calls := ir.CallLivenessMap{}
		live := ir.ComputeLiveness(f, deps, nil, calls)
		return &codegen.FunctionInfo{Alloc: nil, Live: live, Calls: calls}, nil
	}

	ir.RunOptimizationPipeline(f)

	pointed := ir.GatherPointedLocals(f)
	ig := regalloc.NewInterferenceGraph(len(f.Locals))
	calls := ir.CallLivenessMap{}
	deps := ir.ComputeDependenceMap(f)
	live := ir.ComputeLiveness(f, deps, ig, calls)

	alloc := regalloc.Allocate(f, pointed, ig, allocatableRegisterCount)
	return &codegen.FunctionInfo{Alloc: alloc, Live: live, Calls: calls}, ig
}

// writeDebugArtifacts writes <name>.dot and, when ig is non-nil,
// <name>.ig.dot into the working directory (SPEC_FULL.md §4.17).
func writeDebugArtifacts(f *ir.Function, ig *regalloc.InterferenceGraph) {
	if cfgFile, err := os.Create(f.Name + ".dot"); err == nil {
		ir.PrintDot(cfgFile, f)
		cfgFile.Close()
	}

	if ig == nil {
		return
	}
	if igFile, err := os.Create(f.Name + ".ig.dot"); err == nil {
		ig.PrintDot(igFile)
		igFile.Close()
	}
}

func reportCompilerError(source, path string, err error) {
	ce, ok := err.(*errors.CompilerError)
	if !ok {
		color.Red("%s: %s", path, err)
		return
	}
	reporter := errors.NewReporter(filepath.Base(path), source)
	fmt.Fprint(os.Stderr, reporter.FormatCompilerError(ce))
}
