package booking

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"

	"schedulecall/internal/models"

	"github.com/go-playground/validator"
)

var (
	ErrValidationFailed = errors.New("all fields are required")
	ErrDispatch         = errors.New("email dispatch failed")
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate is the single gate in front of dispatch: every field must be
// present and non-empty. Values are not trimmed, so whitespace-only input
// passes.
func Validate(req models.BookingRequest) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}

	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fe.Field())
	}
	return fmt.Errorf("%w: missing %s", ErrValidationFailed, strings.Join(fields, ", "))
}

func Valid(req models.BookingRequest) bool {
	return Validate(req) == nil
}

// ParseFields builds a request from an arbitrary decoded JSON object.
// Falsy values (absent, null, false, 0, "") collapse to the empty string so
// that Validate rejects them. Anything else is rendered the way a browser
// would print it: arrays comma-joined, objects as "[object Object]".
func ParseFields(fields map[string]any) models.BookingRequest {
	return models.BookingRequest{
		Name:    coerce(fields["name"]),
		Email:   coerce(fields["email"]),
		Date:    coerce(fields["date"]),
		Time:    coerce(fields["time"]),
		Message: coerce(fields["message"]),
	}
}

func coerce(val any) string {
	switch v := val.(type) {
	case nil:
		return ""
	case bool:
		if !v {
			return ""
		}
	case float64:
		if v == 0 || math.IsNaN(v) {
			return ""
		}
	case json.Number:
		if f, err := v.Float64(); err == nil && f == 0 {
			return ""
		}
	}
	return display(val)
}

func display(val any) string {
	switch v := val.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return formatNumber(v)
	case json.Number:
		if f, err := v.Float64(); err == nil {
			return formatNumber(f)
		}
		return v.String()
	case []any:
		parts := make([]string, len(v))
		for i, item := range v {
			parts[i] = display(item)
		}
		return strings.Join(parts, ",")
	case map[string]any:
		return "[object Object]"
	default:
		return fmt.Sprint(v)
	}
}

// formatNumber switches to exponent notation outside [1e-6, 1e21), with no
// zero padding in the exponent.
func formatNumber(v float64) string {
	abs := math.Abs(v)
	if abs == 0 || (abs >= 1e-6 && abs < 1e21) {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	mantissa, exp, _ := strings.Cut(strconv.FormatFloat(v, 'e', -1, 64), "e")
	return mantissa + "e" + exp[:1] + strings.TrimLeft(exp[1:], "0")
}
