package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Init configures the global validator used by Gin's binding.
// - Uses JSON tag names in errors.
// - Registers alias tags for common validations.
func Init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		configure(v)
	}
}

// New returns a standalone validator configured like Gin's, for validating
// values that never pass through request binding.
func New() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	configure(v)
	return v
}

func configure(v *validator.Validate) {
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	// Aliases for common semantics
	v.RegisterAlias("uuid4", "uuid")       // keep uuid as base; many use uuid4 synonym
	v.RegisterAlias("nonzero", "required") // convenience
	v.RegisterAlias("phone", "e164")       // phone number alias
	v.RegisterAlias("lang", "oneof=en hi mr ta te kn bn gu pa")
	v.RegisterAlias("cropname", "min=2,max=64")
	v.RegisterAlias("platform", "oneof=web android ios")
}

// ToDetails converts validation/binding errors into a map[field]message suitable for API error.details.
func ToDetails(err error) map[string]string {
	if err == nil {
		return nil
	}

	// Invalid JSON payloads
	var se *json.SyntaxError
	var ute *json.UnmarshalTypeError
	if errors.As(err, &se) || errors.As(err, &ute) {
		return map[string]string{"payload": "invalid json"}
	}

	// Validation errors from validator.v10
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		out := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			field := fe.Field()
			out[field] = formatFieldError(fe)
		}
		return out
	}

	// Fallback
	return map[string]string{"payload": "invalid payload"}
}

// messages covers the tags used by request and flow structs. Tags with a
// parameter are formatted by formatFieldError.
var messages = map[string]string{
	"required": "is required",
	"email":    "must be a valid email",
	"url":      "must be a valid URL",
	"datauri":  "must be a valid data URI",
	"e164":     "must be a valid phone number",
	"phone":    "must be a valid phone number",
	"lang":     "must be a supported language code",
	"cropname": "must be between 2 and 64 characters long",
	"platform": "must be one of: web, android, ios",
	"imageuri": "must be an image data URI",
	"audiouri": "must be an audio data URI",
	"numeric":  "must be numeric",
	"boolean":  "must be a boolean value",
}

func formatFieldError(fe validator.FieldError) string {
	if msg, ok := messages[fe.Tag()]; ok {
		return msg
	}
	param := fe.Param()
	unit := lengthUnit(fe.Kind())

	switch fe.Tag() {
	case "len":
		return "must be exactly " + param + unit
	case "min":
		return "must be at least " + param + unit
	case "max":
		return "must be at most " + param + unit
	case "gt":
		return "must be greater than " + param
	case "gte":
		return "must be greater than or equal to " + param
	case "lt":
		return "must be less than " + param
	case "lte":
		return "must be less than or equal to " + param
	case "gtefield":
		return "must be greater than or equal to " + param + " field"
	case "oneof":
		return "must be one of: " + strings.Join(strings.Fields(param), ", ")
	}
	if param != "" {
		return fmt.Sprintf("validation failed for '%s' with parameter '%s'", fe.Tag(), param)
	}
	return fmt.Sprintf("validation failed for '%s'", fe.Tag())
}

// lengthUnit is appended to min/max/len params; numbers get none.
func lengthUnit(k reflect.Kind) string {
	switch k {
	case reflect.String:
		return " characters long"
	case reflect.Slice, reflect.Array, reflect.Map:
		return " items"
	default:
		return ""
	}
}
