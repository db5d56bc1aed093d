package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseLoad    Phase = "load"    // name-map and snapshot loading
	PhaseBind    Phase = "bind"    // native export binding
	PhaseResolve Phase = "resolve" // metadata resolution
	PhaseInvoke  Phase = "invoke"  // calls through resolved or placeholder symbols
	PhaseBridge  Phase = "bridge"  // native value conversion
	PhaseConfig  Phase = "config"  // configuration parsing
)

// Kind categorizes the error
type Kind string

const (
	KindNotFound       Kind = "not_found"
	KindInvalidData    Kind = "invalid_data"
	KindEmpty          Kind = "empty"
	KindInvalidCount   Kind = "invalid_count"
	KindLineMismatch   Kind = "line_mismatch"
	KindCountMismatch  Kind = "count_mismatch"
	KindDuplicateKey   Kind = "duplicate_key"
	KindUnresolved     Kind = "unresolved"
	KindTypeMismatch   Kind = "type_mismatch"
	KindNilPointer     Kind = "nil_pointer"
	KindNotInitialized Kind = "not_initialized"
	KindInvalidInput   Kind = "invalid_input"
	KindUnsupported    Kind = "unsupported"
	KindStale          Kind = "stale"
	KindMissingExport  Kind = "missing_export"
	KindException      Kind = "exception"
)

// Error is the structured error type used throughout the library
type Error struct {
	Value      any
	Cause      error
	Phase      Phase
	Kind       Kind
	Source     string
	GoType     string
	NativeType string
	Detail     string
	Path       []string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.Source != "" {
		b.WriteString(" in ")
		b.WriteString(e.Source)
	}

	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(strings.Join(e.Path, "::"))
	}

	if e.GoType != "" || e.NativeType != "" {
		b.WriteString(": ")
		if e.GoType != "" && e.NativeType != "" {
			b.WriteString("Go type ")
			b.WriteString(e.GoType)
			b.WriteString(", native type ")
			b.WriteString(e.NativeType)
		} else if e.GoType != "" {
			b.WriteString("Go type ")
			b.WriteString(e.GoType)
		} else {
			b.WriteString("native type ")
			b.WriteString(e.NativeType)
		}
	}

	if e.Detail != "" {
		if e.GoType != "" || e.NativeType != "" {
			b.WriteString(" - ")
		} else {
			b.WriteString(": ")
		}
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Source sets the data source (file, library) the error refers to
func (b *Builder) Source(s string) *Builder {
	b.err.Source = s
	return b
}

// Path sets the symbol path
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// GoType sets the Go type name
func (b *Builder) GoType(t string) *Builder {
	b.err.GoType = t
	return b
}

// NativeType sets the native runtime type name
func (b *Builder) NativeType(t string) *Builder {
	b.err.NativeType = t
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// NotFound creates a not-found error
func NotFound(phase Phase, what, name string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotFound,
		Detail: fmt.Sprintf("%s %q not found", what, name),
	}
}

// Empty creates an error for a source that holds no data
func Empty(phase Phase, source string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindEmpty,
		Source: source,
		Detail: "source is empty",
	}
}

// InvalidCount creates an error for a malformed count header
func InvalidCount(phase Phase, source, header string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidCount,
		Source: source,
		Detail: fmt.Sprintf("invalid count header %q", header),
		Value:  header,
	}
}

// LineMismatch creates an error for a source whose line count disagrees with its header
func LineMismatch(phase Phase, source string, expected, found int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindLineMismatch,
		Source: source,
		Detail: fmt.Sprintf("expected %d lines, found %d", expected, found),
		Value:  found,
	}
}

// CountMismatch creates an error for two sources declaring different counts
func CountMismatch(phase Phase, sourceA string, countA int, sourceB string, countB int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindCountMismatch,
		Source: sourceA,
		Detail: fmt.Sprintf("count %d in %s vs %d in %s", countA, sourceA, countB, sourceB),
	}
}

// DuplicateKey creates a duplicate key error
func DuplicateKey(phase Phase, source, key string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindDuplicateKey,
		Source: source,
		Detail: fmt.Sprintf("duplicate key %q", key),
		Value:  key,
	}
}

// Unresolved creates the error a placeholder or trampoline fails with
func Unresolved(what, name string) *Error {
	return &Error{
		Phase:  PhaseInvoke,
		Kind:   KindUnresolved,
		Detail: fmt.Sprintf("%s %s was not resolved", what, name),
		Value:  name,
	}
}

// TypeMismatch creates a type mismatch error
func TypeMismatch(phase Phase, path []string, goType, nativeType string) *Error {
	return &Error{
		Phase:      phase,
		Kind:       KindTypeMismatch,
		Path:       path,
		GoType:     goType,
		NativeType: nativeType,
	}
}

// NilPointer creates a nil pointer error
func NilPointer(phase Phase, path []string, goType string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNilPointer,
		Path:   path,
		GoType: goType,
		Detail: "nil pointer",
	}
}

// Unsupported creates an unsupported operation error
func Unsupported(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnsupported,
		Detail: what,
	}
}

// NotInitialized creates a not-initialized error
func NotInitialized(phase Phase, component string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotInitialized,
		Detail: fmt.Sprintf("%s not initialized", component),
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
	}
}

// Stale creates an error for cached data produced for a different build
func Stale(phase Phase, source, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindStale,
		Source: source,
		Detail: detail,
	}
}

// Exception creates an error for a managed exception thrown by a native call
func Exception(path []string, object uintptr) *Error {
	return &Error{
		Phase:  PhaseInvoke,
		Kind:   KindException,
		Path:   path,
		Value:  object,
		Detail: fmt.Sprintf("native call threw exception object 0x%x", object),
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}

// Load creates a loading error
func Load(source string, cause error) *Error {
	return &Error{
		Phase:  PhaseLoad,
		Kind:   KindInvalidData,
		Source: source,
		Cause:  cause,
	}
}

// MissingExport represents a single export that could not be bound
type MissingExport struct {
	Library string // e.g., "GameAssembly"
	Name    string // e.g., "il2cpp_gc_wbarrier_set_field"
	Reason  string // e.g., "no mapping"
}

// MissingExportsError is returned when native binding leaves exports unbound
type MissingExportsError struct {
	Exports []MissingExport
}

// NewMissingExportsError creates an error from a list of missing exports
func NewMissingExportsError(exports []MissingExport) *MissingExportsError {
	result := &MissingExportsError{
		Exports: make([]MissingExport, len(exports)),
	}
	copy(result.Exports, exports)
	return result
}

func (e *MissingExportsError) Error() string {
	if len(e.Exports) == 0 {
		return "[bind] missing_export: no exports specified"
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("missing %d native export(s):\n", len(e.Exports)))

	// Group by library for cleaner output
	byLib := make(map[string][]MissingExport)
	var libOrder []string
	for _, exp := range e.Exports {
		if _, exists := byLib[exp.Library]; !exists {
			libOrder = append(libOrder, exp.Library)
		}
		byLib[exp.Library] = append(byLib[exp.Library], exp)
	}

	for _, lib := range libOrder {
		b.WriteString("\n  ")
		b.WriteString(lib)
		b.WriteString(":\n")
		for _, exp := range byLib[lib] {
			b.WriteString("    - ")
			b.WriteString(exp.Name)
			if exp.Reason != "" {
				b.WriteString(" (")
				b.WriteString(exp.Reason)
				b.WriteByte(')')
			}
			b.WriteByte('\n')
		}
	}

	return strings.TrimSuffix(b.String(), "\n")
}

// Is reports whether target matches this error type
func (e *MissingExportsError) Is(target error) bool {
	_, ok := target.(*MissingExportsError)
	return ok
}
