package validator

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validator instance
var validate *validator.Validate

func init() {
	validate = validator.New()

	// Use JSON tag names in error messages
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// Visibility validation: the only two project states
	validate.RegisterValidation("visibility", func(fl validator.FieldLevel) bool {
		v := fl.Field().String()
		return v == "private" || v == "public" || v == ""
	})
}

// Validate validates a struct and returns a map of field errors
func Validate(s interface{}) map[string]string {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	errors := make(map[string]string)
	for _, err := range err.(validator.ValidationErrors) {
		field := err.Field()
		switch err.Tag() {
		case "required":
			errors[field] = "This field is required"
		case "visibility":
			errors[field] = "Valid visibility (private/public) is required"
		case "max":
			errors[field] = "Value is too long (max: " + err.Param() + ")"
		default:
			errors[field] = "Invalid value"
		}
	}

	return errors
}
