// Package repl is the interactive line-reading driver. Grounded on the
// teacher's internal/repl/repl.go loop shape: one persistent VM, fed one
// line at a time so top-level declarations stay visible across lines.
package repl

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"rslox/internal/natives"
	"rslox/internal/vm"
)

// Run starts the REPL, reading from in and writing prompts/output to out and
// diagnostics to errOut.
func Run(in io.Reader, out io.Writer, errOut io.Writer) {
	machine := vm.New()
	machine.Stdout = out
	natives.Install(machine)

	prompt := natives.IsTTY(os.Stdout)
	scanner := bufio.NewScanner(in)

	for {
		if prompt {
			fmt.Fprint(out, "> ")
		}
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		if err := machine.Interpret(line); err != nil {
			fmt.Fprintln(errOut, err.Error())
		}
	}
}
