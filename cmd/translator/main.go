// Command translator drives the semantic analysis pipeline over a
// translation unit and renders the resulting TAC in one of three
// serializations. Shape: read input, run each stage, print progress
// when asked, centralize every failure at a single fatal.Check call
// rather than letting individual passes call os.Exit.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/besm6/c11front/internal/debugdump"
	"github.com/besm6/c11front/internal/fatal"
	"github.com/besm6/c11front/internal/lexer"
	"github.com/besm6/c11front/internal/looplabel"
	"github.com/besm6/c11front/internal/nametable"
	"github.com/besm6/c11front/internal/resolver"
	"github.com/besm6/c11front/internal/symtable"
	"github.com/besm6/c11front/internal/tac/tacbin"
	"github.com/besm6/c11front/internal/tac/tacdot"
	"github.com/besm6/c11front/internal/tac/tacyaml"
	"github.com/besm6/c11front/internal/typecheck"
	"github.com/besm6/c11front/internal/typetable"
)

type options struct {
	tac, yaml, dot   bool
	verbose, debug   bool
	help             bool
	input, output    string
}

func parseArgs(args []string) (*options, error) {
	fs := flag.NewFlagSet("translator", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	o := &options{}
	fs.BoolVar(&o.tac, "tac", false, "binary TAC (default)")
	fs.BoolVar(&o.yaml, "yaml", false, "YAML")
	fs.BoolVar(&o.dot, "dot", false, "Graphviz DOT")
	fs.BoolVar(&o.verbose, "v", false, "progress logs")
	fs.BoolVar(&o.verbose, "verbose", false, "progress logs")
	fs.BoolVar(&o.debug, "D", false, "dump AST, symbol table, and type table to stderr")
	fs.BoolVar(&o.debug, "debug", false, "dump AST, symbol table, and type table to stderr")
	fs.BoolVar(&o.help, "h", false, "show usage")
	fs.BoolVar(&o.help, "help", false, "show usage")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "usage: translator [options] input [output]")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if o.help {
		fs.Usage()
		os.Exit(0)
	}
	rest := fs.Args()
	if len(rest) < 1 {
		fs.Usage()
		return nil, fmt.Errorf("missing input file")
	}
	o.input = rest[0]
	if len(rest) > 1 {
		o.output = rest[1]
	} else {
		o.output = deriveOutput(o.input, o)
	}
	return o, nil
}

func deriveOutput(input string, o *options) string {
	ext := ".tac"
	switch {
	case o.yaml:
		ext = ".yaml"
	case o.dot:
		ext = ".dot"
	}
	trimmed := strings.TrimSuffix(input, filepath.Ext(input))
	return trimmed + ext
}

func main() {
	o, err := parseArgs(os.Args[1:])
	fatal.Check(err)

	src, err := os.ReadFile(o.input)
	fatal.Check(err)

	names := nametable.New()
	toks, err := lexer.New(string(src), names).Tokenize()
	fatal.Check(err)
	if o.verbose {
		fmt.Fprintf(os.Stderr, "lexed %d tokens from %s\n", len(toks), o.input)
	}

	// The grammar that turns toks into an ast.TranslationUnit is an
	// external collaborator of this pipeline; see demo.go.
	tu := buildTranslationUnit()

	symbols := symtable.New()
	structs := typetable.New()

	res := resolver.New(symbols, structs, names)
	fatal.Check(res.Resolve(tu))
	if o.verbose {
		fmt.Fprintln(os.Stderr, "resolved names")
	}

	chk := typecheck.New(symbols, structs)
	fatal.Check(chk.Check(tu))
	if o.verbose {
		fmt.Fprintln(os.Stderr, "type-checked translation unit")
	}

	fatal.Check(looplabel.New().Label(tu))
	if o.verbose {
		fmt.Fprintln(os.Stderr, "labeled loops and switches")
	}

	if o.debug {
		debugdump.All(os.Stderr, tu, symbols, structs)
	}

	// The AST->TAC lowering itself is likewise external to this
	// pipeline's core; buildTACProgram hand-authors the TAC such a pass
	// would emit for this translation unit so the three serializers
	// below have something real to render.
	program := buildTACProgram()

	out, err := openOutput(o.output)
	fatal.Check(err)
	if out != os.Stdout {
		defer out.Close()
	}

	switch {
	case o.yaml:
		err = tacyaml.Write(out, program)
	case o.dot:
		err = tacdot.Write(out, program)
	default:
		err = tacbin.Write(out, program)
	}
	fatal.Check(err)

	if o.verbose {
		fmt.Fprintf(os.Stderr, "wrote TAC to %s\n", o.output)
	}
}

func openOutput(path string) (*os.File, error) {
	if path == "-" {
		return os.Stdout, nil
	}
	return os.Create(path)
}
