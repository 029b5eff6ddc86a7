// Command xform is the CLI front end driving the XForm pipeline end to
// end: load the input XML, parse the transform module, evaluate it
// against the document, and serialize the result to standard output.
package main

import (
	"fmt"
	"os"

	"github.com/arturoeanton/go-xform/eval"
	"github.com/arturoeanton/go-xform/lexer"
	"github.com/arturoeanton/go-xform/parser"
	"github.com/arturoeanton/go-xform/xmlmodel"
)

// coded is satisfied by every error type in the eval package's
// taxonomy (StaticError, DynamicError); used to print "code: message"
// the way structured CLI tools in the pack do.
type coded interface {
	Code() string
}

func main() {
	if len(os.Args) != 3 {
		fmt.Fprintln(os.Stderr, "usage: xform <input.xml> <transform.xform>")
		os.Exit(1)
	}

	inputPath := os.Args[1]
	modulePath := os.Args[2]

	xmlBytes, err := os.ReadFile(inputPath)
	if err != nil {
		die(err)
	}
	moduleBytes, err := os.ReadFile(modulePath)
	if err != nil {
		die(err)
	}

	doc, err := xmlmodel.Load(string(xmlBytes))
	if err != nil {
		die(err)
	}

	mod, err := parser.ParseModule(string(moduleBytes))
	if err != nil {
		die(err)
	}

	result, err := eval.EvalModule(mod, doc)
	if err != nil {
		die(err)
	}

	fmt.Print(serializeResult(result))
}

// serializeResult renders every node in result concatenated in order;
// atomic items are stringified with the same to_string coercion the
// evaluator uses internally.
func serializeResult(result eval.Sequence) string {
	var out string
	for _, item := range result {
		if node, ok := item.(*xmlmodel.Node); ok {
			out += xmlmodel.Serialize(node)
			continue
		}
		out += eval.ToString(eval.Sequence{item})
	}
	return out
}

// die prints a diagnostic and exits 1. Errors that carry an XFST/XFDY
// code (eval.StaticError, eval.DynamicError) print "xform: CODE:
// message"; positional syntax errors (lexer.SyntaxError,
// parser-surfaced) print "xform: syntax error: message"; everything else
// prints "xform: message".
func die(err error) {
	if c, ok := err.(coded); ok && c.Code() != "" {
		// The coded errors' Error() already reads "CODE: message".
		fmt.Fprintf(os.Stderr, "xform: %v\n", err)
		os.Exit(1)
	}
	if _, ok := err.(*lexer.SyntaxError); ok {
		fmt.Fprintf(os.Stderr, "xform: syntax error: %v\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stderr, "xform: %v\n", err)
	os.Exit(1)
}
