package output

import (
	"encoding/json"
	"errors"
	"io"

	"github.com/ALT-F4-LLC/bbredmine/internal/failure"
)

// ErrorCode is the machine-readable classification of a failed command.
type ErrorCode string

const (
	ErrGeneral    ErrorCode = "GENERAL_ERROR"
	ErrNotFound   ErrorCode = "NOT_FOUND"
	ErrValidation ErrorCode = "VALIDATION_ERROR"
	ErrConflict   ErrorCode = "CONFLICT"
	ErrIO         ErrorCode = "IO_ERROR"
	ErrPartial    ErrorCode = "PARTIAL_FAILURE"
)

const (
	ExitSuccess    = 0
	ExitGeneral    = 1
	ExitNotFound   = 2
	ExitValidation = 3
	ExitConflict   = 4
	ExitIO         = 5
	ExitPartial    = 6
)

var exitCodes = map[ErrorCode]int{
	ErrNotFound:   ExitNotFound,
	ErrValidation: ExitValidation,
	ErrConflict:   ExitConflict,
	ErrIO:         ExitIO,
	ErrPartial:    ExitPartial,
}

// ExitCodeForError maps an ErrorCode to the process exit status.
func ExitCodeForError(code ErrorCode) int {
	if n, ok := exitCodes[code]; ok {
		return n
	}
	return ExitGeneral
}

// CodeForError classifies err by its failure kind.
func CodeForError(err error) ErrorCode {
	switch {
	case errors.Is(err, failure.ErrInputNotFound):
		return ErrNotFound
	case errors.Is(err, failure.ErrMalformedInput),
		errors.Is(err, failure.ErrMissingField),
		errors.Is(err, failure.ErrIdentityLookup):
		return ErrValidation
	case errors.Is(err, failure.ErrIOWrite):
		return ErrIO
	default:
		return ErrGeneral
	}
}

type successEnvelope struct {
	OK      bool   `json:"ok"`
	Data    any    `json:"data"`
	Message string `json:"message,omitempty"`
}

type errorEnvelope struct {
	OK    bool      `json:"ok"`
	Error string    `json:"error"`
	Code  ErrorCode `json:"code"`
	Kind  string    `json:"kind,omitempty"`
	Data  any       `json:"data,omitempty"`
}

func encode(w io.Writer, v any) {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}

func writeJSONSuccess(w io.Writer, data any, message string) {
	encode(w, successEnvelope{OK: true, Data: data, Message: message})
}

// writeJSONError writes an error envelope. data, when non-nil, carries a
// partial result such as a batch report.
func writeJSONError(w io.Writer, err error, code ErrorCode, data any) {
	env := errorEnvelope{Error: err.Error(), Code: code, Data: data}
	if kind := failure.KindOf(err); kind != nil {
		env.Kind = kind.Error()
	}
	encode(w, env)
}
