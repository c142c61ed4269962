// Package output writes command results either as styled text for people or
// as JSON envelopes for scripts.
package output

import (
	"fmt"
	"io"
	"os"
)

// Writer is the single sink commands report through. In JSON mode stdout
// carries exactly one envelope and diagnostics are suppressed.
type Writer struct {
	JSONMode  bool
	QuietMode bool
	Stdout    io.Writer
	Stderr    io.Writer
}

// New returns a Writer on the process's standard streams.
func New(jsonMode, quietMode bool) *Writer {
	return &Writer{
		JSONMode:  jsonMode,
		QuietMode: quietMode,
		Stdout:    os.Stdout,
		Stderr:    os.Stderr,
	}
}

// Success reports a result: data in JSON mode, message otherwise.
func (w *Writer) Success(data any, message string) {
	if w.JSONMode {
		writeJSONSuccess(w.Stdout, data, message)
		return
	}
	writeHumanSuccess(w.Stdout, message)
}

// Error reports err and returns the exit status for code.
func (w *Writer) Error(err error, code ErrorCode) int {
	return w.Fail(err, code, nil)
}

// Fail is Error with a partial result attached to the JSON envelope. Human
// mode prints only the error; the caller is expected to have shown data
// already.
func (w *Writer) Fail(err error, code ErrorCode, data any) int {
	if w.JSONMode {
		writeJSONError(w.Stdout, err, code, data)
	} else {
		writeHumanError(w.Stderr, err)
	}
	return ExitCodeForError(code)
}

// Info writes progress to stderr. Quiet and JSON modes drop it.
func (w *Writer) Info(format string, args ...any) {
	if w.QuietMode || w.JSONMode {
		return
	}
	writeHumanInfo(w.Stderr, fmt.Sprintf(format, args...))
}

// Warn writes a warning to stderr, even in quiet mode. JSON mode drops it.
func (w *Writer) Warn(format string, args ...any) {
	if w.JSONMode {
		return
	}
	writeHumanWarn(w.Stderr, fmt.Sprintf(format, args...))
}

// Print writes preformatted human output, such as a table, to stdout. It is
// a no-op in JSON mode.
func (w *Writer) Print(s string) {
	if w.JSONMode || s == "" {
		return
	}
	fmt.Fprintln(w.Stdout, s)
}
