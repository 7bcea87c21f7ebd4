// Package validation runs struct-tag validation (go-playground/validator)
// and reports failures by JSON field name.
//
//	type request struct {
//	    Pattern *string `json:"pattern" validate:"required"`
//	}
//	if fields := validation.Fields(req); len(fields) > 0 { ... }
//
// Validate wraps the same check into an INVALID_INPUT AppError for callers
// that do not need to shape their own error.
package validation
