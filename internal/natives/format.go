package natives

import (
	"os"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"

	"rslox/internal/value"
)

// nativeHumanBytes grounds humanBytes(n) on github.com/dustin/go-humanize,
// already in the teacher's go.mod.
func nativeHumanBytes(args []value.Value) (value.Value, error) {
	n, err := wantNumber(args[0], "humanBytes()")
	if err != nil {
		return nil, err
	}
	return value.String(humanize.Bytes(uint64(n))), nil
}

func nativeHumanComma(args []value.Value) (value.Value, error) {
	n, err := wantNumber(args[0], "humanComma()")
	if err != nil {
		return nil, err
	}
	return value.String(humanize.Comma(int64(n))), nil
}

// nativeIsTTY grounds isTTY() on github.com/mattn/go-isatty; the REPL uses
// it to decide whether to print its prompt.
func nativeIsTTY(args []value.Value) (value.Value, error) {
	return value.Bool(IsTTY(os.Stdout)), nil
}

// IsTTY reports whether f is attached to a terminal. Exported so
// internal/repl can gate the "> " prompt without going through the
// language's native-call path.
func IsTTY(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
