// Package errors provides structured error types for the PDK.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error
// category), and support errors.Is/As. Use the Builder for structured
// construction:
//
//	err := errors.New(errors.PhaseDecode, errors.KindShortInput).
//		Export("count-vowels").
//		Detail("input block is empty").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.ShortInput(8, 5)
//	err := errors.AllocationFailed(errors.PhaseMem, 4096)
package errors
