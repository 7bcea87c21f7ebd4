// Package errors provides the structured error type shared by the probe's
// parser, evaluator and transports. An AppError carries a machine-readable
// code, an HTTP status for the server, and field-level details.
//
// An invalid regex pattern is never an error here: it is reported inside the
// result document as validPattern=false.
package errors
