// Command garnish reads a single expression, compiles it, and runs it,
// printing the decoded result. It is the thin CLI front end this toolchain
// carries so the pipeline is runnable end to end, the same role cmd/retro
// plays over db47h/ngaro's vm/asm packages.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/garnish-lang/garnish-go/compiler"
	"github.com/garnish-lang/garnish-go/lexer"
	"github.com/garnish-lang/garnish-go/parser"
	"github.com/garnish-lang/garnish-go/runtime"
	"github.com/garnish-lang/garnish-go/store"
)

const rootExpressionName = "main"

var (
	exprFlag   = flag.String("e", "", "evaluate `expression` directly instead of reading a file")
	traceFlag  = flag.Bool("trace", false, "log every executed instruction at debug level")
	disasmFlag = flag.Bool("disasm", false, "print the compiled instruction stream and exit")
	statsFlag  = flag.Bool("stats", false, "print instruction timing on exit, as cmd/retro's -stats does")
)

func atExit(err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "%+v\n", err)
	os.Exit(1)
}

func readSource() (string, error) {
	if *exprFlag != "" {
		return *exprFlag, nil
	}
	args := flag.Args()
	if len(args) != 1 {
		return "", errors.New("garnish: expected a source file path, or -e <expression>")
	}
	b, err := os.ReadFile(args[0])
	if err != nil {
		return "", errors.Wrap(err, "garnish: reading source file")
	}
	return string(b), nil
}

func main() {
	flag.Parse()

	var err error
	defer func() { atExit(err) }()

	src, err := readSource()
	if err != nil {
		return
	}

	toks, lexErr := lexer.Lex("<input>", src)
	if lexErr != nil {
		err = errors.Wrap(lexErr, "garnish: lex")
		return
	}

	tree, parseErr := parser.ParseTokens(toks)
	if parseErr != nil {
		err = errors.Wrap(parseErr, "garnish: parse")
		return
	}

	st := store.New()
	prog, compileErr := compiler.Compile(tree, st, rootExpressionName)
	if compileErr != nil {
		err = errors.Wrap(compileErr, "garnish: compile")
		return
	}

	if *disasmFlag {
		err = prog.Disassemble(os.Stdout)
		return
	}

	var opts []runtime.Option
	if *traceFlag {
		logger, logErr := zap.NewDevelopment()
		if logErr != nil {
			err = errors.Wrap(logErr, "garnish: trace logger")
			return
		}
		defer logger.Sync()
		opts = append(opts, runtime.WithLogger(logger))
	}

	inst := runtime.New(prog, st, opts...)

	start := time.Now()
	result, runErr := inst.Run(rootExpressionName)
	if runErr != nil {
		err = errors.Wrap(runErr, "garnish: run")
		return
	}
	elapsed := time.Since(start)

	fmt.Println(describe(st, result))

	if *statsFlag {
		n := len(prog.Instructions)
		fmt.Fprintf(os.Stderr, "Compiled %d instructions, ran in %v.\n", n, elapsed)
	}
}

// describe renders a result value for the terminal, falling back to the
// type name when it carries no convenient text form.
func describe(st *store.Store, ref store.Ref) string {
	ty, err := st.TypeOf(ref)
	if err != nil {
		return fmt.Sprintf("<error: %v>", err)
	}
	switch ty {
	case store.TypeUnit:
		return "Unit"
	case store.TypeInteger:
		v, _ := st.AsInteger(ref)
		return fmt.Sprintf("%d", v)
	case store.TypeFloat:
		v, _ := st.AsFloat(ref)
		return fmt.Sprintf("%g", v)
	case store.TypeCharacter, store.TypeCharacterList, store.TypeSymbol:
		s, _ := st.AsString(ref)
		return s
	default:
		return ty.String()
	}
}
