package model

import (
	"errors"
	"math"
	"net/url"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// MaxBudget is the largest budget a service may carry
const MaxBudget = 99999999.99

var telNumberPattern = regexp.MustCompile(`^0[0-9]{8,9}$`)

// FieldError represents a validation error on a specific field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

// Validator returns the shared validator with the marketplace rules registered:
//
//	budget       - 0..MaxBudget with at most two decimal places
//	telnumber    - empty, or 9-10 digits starting with 0
//	servicetag   - one of the controlled tag vocabulary
//	avatarurl    - empty, or an absolute http(s) URL with a dotted host
//	emailorempty - empty, or a valid email address
//	flexdate     - RFC 3339 timestamp or YYYY-MM-DD
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		_ = v.RegisterValidation("budget", func(fl validator.FieldLevel) bool {
			return ValidBudget(fl.Field().Float())
		})
		_ = v.RegisterValidation("telnumber", func(fl validator.FieldLevel) bool {
			return ValidTelNumber(fl.Field().String())
		})
		_ = v.RegisterValidation("servicetag", func(fl validator.FieldLevel) bool {
			return Tag(fl.Field().String()).Valid()
		})
		_ = v.RegisterValidation("avatarurl", func(fl validator.FieldLevel) bool {
			return ValidAvatarURL(fl.Field().String())
		})
		_ = v.RegisterValidation("emailorempty", func(fl validator.FieldLevel) bool {
			s := fl.Field().String()
			return s == "" || v.Var(s, "email") == nil
		})
		_ = v.RegisterValidation("flexdate", func(fl validator.FieldLevel) bool {
			_, err := ParseDate(fl.Field().String())
			return err == nil
		})
		validate = v
	})
	return validate
}

// ValidateStruct runs the struct-tag rules and flattens failures into FieldErrors.
func ValidateStruct(s interface{}) []FieldError {
	err := Validator().Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []FieldError{{Field: "", Message: err.Error()}}
	}

	out := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{
			Field:   fieldPath(fe.Namespace()),
			Message: describe(fe),
		})
	}
	return out
}

// fieldPath drops the struct name from a validator namespace ("Req.providerProfile.title").
func fieldPath(ns string) string {
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "email", "emailorempty":
		return "must be a valid email address"
	case "budget":
		return "must be between 0 and 99999999.99 with at most 2 decimal places"
	case "telnumber":
		return "must be empty or 9-10 digits starting with 0"
	case "servicetag":
		return "is not a known tag"
	case "avatarurl":
		return "must be empty or an absolute http(s) URL"
	case "flexdate":
		return "must be an RFC 3339 timestamp or YYYY-MM-DD date"
	}
	return "failed " + fe.Tag() + " validation"
}

// ValidBudget reports whether b is within range and has at most two decimal places.
func ValidBudget(b float64) bool {
	if math.IsNaN(b) || math.IsInf(b, 0) || b < 0 || b > MaxBudget {
		return false
	}
	cents := b * 100
	return math.Abs(cents-math.Round(cents)) < 1e-6
}

// ValidTelNumber reports whether s is empty or a 9-10 digit number starting with 0.
func ValidTelNumber(s string) bool {
	return s == "" || telNumberPattern.MatchString(s)
}

// ValidAvatarURL reports whether s is empty or an absolute http(s) URL with a dotted host.
func ValidAvatarURL(s string) bool {
	if s == "" {
		return true
	}
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	host := u.Hostname()
	return strings.Contains(host, ".") && !strings.HasPrefix(host, ".") && !strings.HasSuffix(host, ".")
}
