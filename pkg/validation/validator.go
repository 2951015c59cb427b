package validation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/oksasatya/user-service-ext/internal/adapter"
)

var validate = newValidate()

func newValidate() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Aliases for common semantics
	v.RegisterAlias("objectid", "mongodb")
	v.RegisterAlias("nonzero", "required")
	return v
}

// Error carries per-field messages for a rejected request.
type Error struct {
	Details map[string]string
}

func (e *Error) Error() string {
	keys := make([]string, 0, len(e.Details))
	for k := range e.Details {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+" "+e.Details[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Param validates the path parameter name against tag (validator.v10 syntax).
func Param(name, tag string) adapter.Validator {
	return func(_ context.Context, hc *adapter.HandlerContext) error {
		return check(name, hc.Params[name], tag)
	}
}

// BodyField validates body[name] against tag. A missing field is validated as nil.
func BodyField(name, tag string) adapter.Validator {
	return func(_ context.Context, hc *adapter.HandlerContext) error {
		return check(name, hc.Body[name], tag)
	}
}

func check(field string, value any, tag string) error {
	err := validate.Var(value, tag)
	if err == nil {
		return nil
	}
	details := ToDetails(err)
	if msg, ok := details[""]; ok {
		delete(details, "")
		details[field] = msg
	}
	return &Error{Details: details}
}

// ToDetails converts validation/binding errors into a map[field]message suitable for API error.details.
func ToDetails(err error) map[string]string {
	if err == nil {
		return nil
	}

	var ve *Error
	if errors.As(err, &ve) {
		return ve.Details
	}

	// Invalid JSON payloads
	var se *json.SyntaxError
	var ute *json.UnmarshalTypeError
	if errors.As(err, &se) || errors.As(err, &ute) {
		return map[string]string{"payload": "invalid json"}
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		out := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			out[fe.Field()] = formatFieldError(fe)
		}
		return out
	}

	// Fallback
	return map[string]string{"payload": "invalid payload"}
}

func formatFieldError(fe validator.FieldError) string {
	tag := fe.Tag()
	param := fe.Param()

	switch tag {
	case "required", "nonzero":
		return "is required"
	case "mongodb", "objectid":
		return "must be a valid object id"
	case "uuid":
		return "must be a valid UUID"
	case "jwt":
		return "must be a valid JWT token"
	case "alphanum":
		return "must contain alphanumeric characters only"
	case "min":
		return "must be at least " + param + " characters long"
	case "max":
		return "must be at most " + param + " characters long"
	case "oneof":
		return "must be one of: " + strings.Join(strings.Fields(param), ", ")
	default:
		if param != "" {
			return fmt.Sprintf("validation failed for '%s' with parameter '%s'", tag, param)
		}
		return fmt.Sprintf("validation failed for '%s'", tag)
	}
}
