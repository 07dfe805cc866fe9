// Package validation is the single place request input is checked, using
// go-playground/validator with the catalog's custom rules and messages.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/go-playground/validator/v10"

	"github.com/listenupapp/catalog-server/internal/domain"
	domainerrors "github.com/listenupapp/catalog-server/internal/errors"
	"github.com/listenupapp/catalog-server/internal/normalize"
)

// Phone numbers must carry this many digits once punctuation is stripped.
const (
	minPhoneDigits = 10
	maxPhoneDigits = 15
)

var emailPattern = regexp.MustCompile(`(?i)^[^\s@]+@[^\s@]+\.[^\s@]{2,}$`)

// Validator wraps go-playground/validator with domain error conversion.
type Validator struct {
	v   *validator.Validate
	now func() time.Time
}

// New creates a validator configured for our domain.
func New() *Validator {
	val := &Validator{v: validator.New(), now: time.Now}

	// Use JSON tag names so field errors line up with request bodies.
	val.v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})

	rules := map[string]validator.Func{
		"emailaddr":     func(fl validator.FieldLevel) bool { return emailPattern.MatchString(fl.Field().String()) },
		"phone":         validPhone,
		"hasletter":     func(fl validator.FieldLevel) bool { return normalize.HasLetter(fl.Field().String()) },
		"notdigits":     func(fl validator.FieldLevel) bool { return !normalize.IsDigits(fl.Field().String()) },
		"letterordigit": hasLetterOrDigit,
		"catalogyear":   val.validCatalogYear,
	}
	for tag, fn := range rules {
		if err := val.v.RegisterValidation(tag, fn); err != nil {
			panic(fmt.Sprintf("register validation %q: %v", tag, err))
		}
	}

	return val
}

// Validate validates a struct and returns a domain validation error carrying
// one message per offending field.
func (v *Validator) Validate(s any) error {
	if err := v.v.Struct(s); err != nil {
		return v.formatError(err)
	}
	return nil
}

// formatError converts validator errors to domain errors.
func (v *Validator) formatError(err error) error {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}

	fields := make(domainerrors.FieldErrors, len(validationErrs))
	for _, e := range validationErrs {
		if _, seen := fields[e.Field()]; seen {
			continue
		}
		fields[e.Field()] = v.message(e)
	}
	return domainerrors.ValidationFields(fields)
}

// messages holds wording for specific field and tag pairs, keyed "field.tag".
var messages = map[string]string{
	"name.min":           "Name must be 2–50 characters long",
	"name.max":           "Name must be 2–50 characters long",
	"name.hasletter":     "Name must contain at least one letter",
	"name.notdigits":     "Name cannot consist of digits only",
	"name.letterordigit": "Name is not valid",
	"email.emailaddr":    "Please enter a valid email address",
	"password.min":       "Password must be at least 6 characters long",
	"password.max":       "Password must not exceed 1024 characters",
	"phone.phone":        "Phone number must contain 10–15 digits",
	"rating.gte":         "Rating must be between 0 and 10",
	"rating.lte":         "Rating must be between 0 and 10",
	"score.gte":          "Rating must be between 1 and 5",
	"score.lte":          "Rating must be between 1 and 5",
	"score.required":     "Rating must be between 1 and 5",
	"itemId.required":    "Item ID is required",
}

//nolint:gocyclo // Switch statement covering validation tags is intentionally exhaustive.
func (v *Validator) message(e validator.FieldError) string {
	if msg, ok := messages[e.Field()+"."+e.Tag()]; ok {
		return msg
	}

	label := fieldLabel(e.Field())
	switch e.Tag() {
	case "required":
		return label + " is required"
	case "catalogyear":
		return fmt.Sprintf("Year must be between %d and %d", domain.MinCatalogYear, domain.MaxCatalogYear(v.now()))
	case "min":
		return fmt.Sprintf("%s must be at least %s characters long", label, e.Param())
	case "max":
		return fmt.Sprintf("%s must not exceed %s characters", label, e.Param())
	case "url", "http_url":
		return label + " must be a valid URL"
	case "oneof":
		return label + " must be one of: " + e.Param()
	case "gte":
		return label + " must be greater than or equal to " + e.Param()
	case "lte":
		return label + " must be less than or equal to " + e.Param()
	default:
		return label + " is not valid"
	}
}

// fieldLabel turns a JSON field name into a sentence-initial label.
func fieldLabel(field string) string {
	if field == "" {
		return field
	}
	return strings.ToUpper(field[:1]) + field[1:]
}

func validPhone(fl validator.FieldLevel) bool {
	n := len(normalize.PhoneDigits(fl.Field().String()))
	return n >= minPhoneDigits && n <= maxPhoneDigits
}

func hasLetterOrDigit(fl validator.FieldLevel) bool {
	return strings.IndexFunc(fl.Field().String(), func(r rune) bool {
		return unicode.IsLetter(r) || ('0' <= r && r <= '9')
	}) >= 0
}

func (v *Validator) validCatalogYear(fl validator.FieldLevel) bool {
	year := fl.Field().Int()
	return year >= domain.MinCatalogYear && year <= int64(domain.MaxCatalogYear(v.now()))
}
