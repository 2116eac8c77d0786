package dto

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/shopfront/gateway/internal/domain/ordering"
)

// RegisterValidations installs the custom binding validations on gin's
// validator engine. Call once at startup, before routes are served.
func RegisterValidations() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	return v.RegisterValidation("order_status", validateOrderStatus)
}

func validateOrderStatus(fl validator.FieldLevel) bool {
	return ordering.Status(fl.Field().String()).IsValid()
}
