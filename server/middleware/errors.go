package middleware

import (
	"encoding/json"
	"net/http"

	apperrors "github.com/kbukum/regexprobe/errors"
)

// writeError writes the standard error envelope outside of gin.
func writeError(w http.ResponseWriter, e *apperrors.AppError) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(e.HTTPStatus)
	_ = json.NewEncoder(w).Encode(e.ToResponse())
}
