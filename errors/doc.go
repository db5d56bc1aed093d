// Package errors provides structured error types for the il2cpp-runtime library.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type includes rich context: source, symbol path, Go/native type names,
// and cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseLoad, errors.KindLineMismatch).
//		Source("savedSecretName.txt").
//		Detail("expected %d lines, found %d", 6, 5).
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.DuplicateKey(errors.PhaseLoad, "names.txt", "il2cpp_init")
//	err := errors.Unresolved("icall", "UnityEngine.Object::GetName")
//
// All errors implement the standard error interface and support errors.Is/As.
package errors
