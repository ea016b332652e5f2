package errors

import "fmt"

// Position locates a single point in an IR-text source file.
type Position struct {
	Filename string
	Line     int
	Column   int
}

func (p Position) String() string {
	return fmt.Sprintf("%s:%d:%d", p.Filename, p.Line, p.Column)
}

// CompilerError is a boundary-stage error: malformed IR text, an
// undefined block or local reference, an arity mismatch at a Call.
// It never aborts the process by itself; callers report it and exit.
type CompilerError struct {
	Code     string
	Message  string
	Position Position
	Length   int
	Notes    []string
}

func (e *CompilerError) Error() string {
	return fmt.Sprintf("%s: [%s] %s", e.Position, e.Code, e.Message)
}

// BackendFault is a fatal back-end invariant failure: an unsupported
// operand width, an unreachable variant, a malformed CFG discovered
// mid-pass. Per spec.md §7 these are never recovered and re-attempted;
// they propagate as a panic wrapping *BackendFault until cmd/tacc's
// top-level recover prints and exits.
type BackendFault struct {
	Code    string
	Message string
}

func (f *BackendFault) Error() string {
	return fmt.Sprintf("[%s] %s", f.Code, f.Message)
}

// Fatalf panics with a *BackendFault built from code and the formatted
// message. Every package in the pipeline calls this instead of
// returning an error for invariant violations the front-end is
// supposed to have ruled out already.
func Fatalf(code, format string, args ...interface{}) {
	panic(&BackendFault{Code: code, Message: fmt.Sprintf(format, args...)})
}
