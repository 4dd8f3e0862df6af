// Package response renders the envelope every endpoint answers with:
// {success, message, data?}. Failure messages are a comma-joined list of
// error strings.
package response

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/quizdeck-dev/quizdeck/internal/apperrors"
)

type Envelope struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func OK(ctx *gin.Context, message string, data interface{}) {
	ctx.JSON(http.StatusOK, Envelope{Success: true, Message: message, Data: data})
}

func Created(ctx *gin.Context, message string, data interface{}) {
	ctx.JSON(http.StatusCreated, Envelope{Success: true, Message: message, Data: data})
}

func Fail(ctx *gin.Context, code int, errs ...string) {
	ctx.JSON(code, Envelope{Success: false, Message: strings.Join(errs, ", ")})
}

// Error maps a service error onto the envelope using the code it carries,
// defaulting to 500 for errors outside the taxonomy.
func Error(ctx *gin.Context, err error) {
	Fail(ctx, apperrors.CodeOf(err), err.Error())
}
