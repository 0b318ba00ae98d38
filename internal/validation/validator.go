package validation

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// Validator wraps go-playground/validator to integrate with Gin.
type Validator struct {
	v *validator.Validate
}

func New() *Validator {
	return &Validator{v: validator.New()}
}

func (v *Validator) ValidateStruct(ctx *gin.Context, payload any) bool {
	if err := v.v.Struct(payload); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return false
	}
	return true
}

// Struct validates payload without writing an HTTP response, for callers
// outside a Gin request such as the websocket command path.
func (v *Validator) Struct(payload any) error {
	return v.v.Struct(payload)
}
