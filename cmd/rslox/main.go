// Command rslox is the CLI entry point fixed by spec.md §6: no args starts
// a REPL, one arg runs a file, anything else is a usage error. Grounded on
// the teacher's cmd/sentra/main.go argument dispatch.
package main

import (
	"fmt"
	"os"

	"rslox/internal/natives"
	"rslox/internal/repl"
	"rslox/internal/rerr"
	"rslox/internal/vm"
)

func main() {
	args := os.Args[1:]
	switch len(args) {
	case 0:
		repl.Run(os.Stdin, os.Stdout, os.Stderr)
	case 1:
		os.Exit(runFile(args[0]))
	default:
		fmt.Fprintln(os.Stderr, "Usage: rslox [path]")
		os.Exit(64)
	}
}

func runFile(path string) int {
	source, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Could not open file %q: %v\n", path, err)
		os.Exit(74)
	}

	machine := vm.New()
	natives.Install(machine)

	if err := machine.Interpret(string(source)); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		if err.Kind == rerr.CompileError {
			return 65
		}
		return 70
	}
	return 0
}
