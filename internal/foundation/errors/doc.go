// Package errors provides the classified error primitives used across docsite.
//
// A ClassifiedError carries a category (config, validation, content,
// filesystem, build, internal), a severity and structured context. Errors
// are created through the fluent ErrorBuilder:
//
//	err := errors.ContentError("collection failed validation").
//		WithContext("collection", "blog").
//		WithCause(entryErr).
//		Build()
//
// The CLIErrorAdapter turns a classified error into a user-facing message
// and a process exit code.
package errors
