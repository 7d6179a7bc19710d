package dto

import (
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// tallyDateLayout is the 8-digit date format Tally uses everywhere.
const tallyDateLayout = "20060102"

// RegisterCustomValidators installs the custom binding validators on
// Gin's default validator engine. Call once at startup.
func RegisterCustomValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	return v.RegisterValidation("tallydate", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		if s == "" {
			return true // pair with required when the field is mandatory
		}
		_, err := time.Parse(tallyDateLayout, s)
		return err == nil
	})
}

// ParseTallyDate parses an already validated YYYYMMDD query value.
func ParseTallyDate(s string) (time.Time, error) {
	return time.Parse(tallyDateLayout, s)
}
