package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/kbukum/regexprobe/errors"
)

// DataResponse is the envelope for everything except query results, which
// are returned as the bare result document.
type DataResponse struct {
	Data any `json:"data"`
}

// RespondWithError writes err as the standard error envelope. Errors that
// are not AppErrors become INTERNAL_ERROR.
func RespondWithError(c *gin.Context, err error) {
	appErr := apperrors.Wrap(err)
	c.AbortWithStatusJSON(appErr.HTTPStatus, appErr.ToResponse())
}

// RespondOK sends a 200 response wrapping data.
func RespondOK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, DataResponse{Data: data})
}
