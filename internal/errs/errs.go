// Package errs define custom error types and utilities.
//
// Its purpose is to create one error structure (HTTPError) that
// every layer can return, so the client receives meaningful,
// actionable, and consistent error messages through the single
// command endpoint.
package errs
