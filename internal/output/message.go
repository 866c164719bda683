package output

import (
	"fmt"
	"io"
	"os"
)

// Status lines announce command outcomes alongside the structured formatter
// output. Informational and success lines go to stdout; warnings go to
// stderr so they survive piping stdout into another tool.

//nolint:gochecknoglobals // Swappable sinks for tests
var (
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

func emit(w io.Writer, prefix, msg string) {
	_, _ = fmt.Fprintln(w, prefix+msg)
}

// Info announces a neutral status line.
func Info(msg string) {
	emit(stdout, "ℹ️  ", msg)
}

// Infof announces a formatted neutral status line.
func Infof(format string, args ...any) {
	Info(fmt.Sprintf(format, args...))
}

// Warn announces a condition the user should act on.
func Warn(msg string) {
	emit(stderr, "⚠️  ", msg)
}

// Warnf announces a formatted warning.
func Warnf(format string, args ...any) {
	Warn(fmt.Sprintf(format, args...))
}

// Success announces a completed operation.
func Success(msg string) {
	emit(stdout, "✅ ", msg)
}

// Successf announces a formatted completed operation.
func Successf(format string, args ...any) {
	Success(fmt.Sprintf(format, args...))
}
