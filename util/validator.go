package util

import "github.com/go-playground/validator/v10"

// validate carries the custom coordinate rules used by the `latitude`
// and `longitude` tags on save and patch payloads.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterValidation("latitude", func(fl validator.FieldLevel) bool {
		lat := fl.Field().Float()
		return lat >= -90 && lat <= 90
	})
	v.RegisterValidation("longitude", func(fl validator.FieldLevel) bool {
		lon := fl.Field().Float()
		return lon >= -180 && lon <= 180
	})
	return v
}

// ValidateStruct runs the shared validator over a request payload.
func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}
