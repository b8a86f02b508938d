package middleware

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/serviexpress/scheduling-api/internal/domain"
)

// RegisterValidators installs custom binding tags on gin's validator.
// Must run before any request is bound.
func RegisterValidators() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}

	_ = v.RegisterValidation("timeslot", func(fl validator.FieldLevel) bool {
		_, err := domain.NewTimeSlot(fl.Field().String())
		return err == nil
	})

	_ = v.RegisterValidation("doctype", func(fl validator.FieldLevel) bool {
		return domain.DocumentType(fl.Field().String()).Valid()
	})
}
