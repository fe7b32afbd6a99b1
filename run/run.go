// Package run parses, checks and evaluates a source file.
package run

import (
	"fmt"
	"io"
	"io/fs"

	"github.com/smasher164/story/check"
	"github.com/smasher164/story/eval"
	"github.com/smasher164/story/parser"
)

// Run writes every type error in filename to out, one per line, then
// evaluates the program regardless and writes "<value> : <type>".
// Parse errors and fatal checking or evaluation errors are returned and
// nothing further is written.
func Run(fsys fs.FS, filename string, out io.Writer, opts ...eval.Option) error {
	prog, err := parser.ParseFile(fsys, filename)
	if err != nil {
		return err
	}
	t, errs, err := check.InferProg(prog)
	if err != nil {
		return err
	}
	for _, msg := range errs {
		if _, err := fmt.Fprintln(out, msg); err != nil {
			return err
		}
	}
	v, err := eval.ClosureEvaluate(prog, opts...)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(out, "%s : %s\n", v, t)
	return err
}
