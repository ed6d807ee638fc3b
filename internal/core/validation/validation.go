// Package validation holds the input rules for client records. It has no
// side effects: every check either passes or returns a *domain.ValidationError
// naming the violated rules.
package validation

import (
	"errors"
	"fmt"
	"regexp"
	"unicode"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"github.com/99minutos/client-registry/internal/core/domain"
)

const (
	tagMailShape = "mailshape"
	tagPhone10   = "phone10"
)

var (
	// Shape check only, not RFC 5322.
	mailPattern  = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern = regexp.MustCompile(`^[0-9]{10}$`)
)

// Validator wraps go-playground/validator with the client rules registered.
// The service layer runs it, so handlers only bind.
type Validator struct {
	v *validator.Validate
}

// New returns a Validator with the mailshape and phone10 tags registered.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation(tagMailShape, func(fl validator.FieldLevel) bool {
		return IsMail(fl.Field().String())
	})
	_ = v.RegisterValidation(tagPhone10, func(fl validator.FieldLevel) bool {
		return IsPhone(fl.Field().String())
	})
	return &Validator{v: v}
}

// IsMail reports whether s looks like local@domain.tld.
func IsMail(s string) bool { return mailPattern.MatchString(s) }

// IsPhone reports whether s is exactly ten ASCII digits.
func IsPhone(s string) bool { return phonePattern.MatchString(s) }

// Validate checks i against its struct tags.
func (v *Validator) Validate(i any) error {
	err := v.v.Struct(i)
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return err
	}
	out := &domain.ValidationError{Violations: make([]domain.Violation, 0, len(ve))}
	for _, fe := range ve {
		out.Violations = append(out.Violations, violation(fe))
	}
	return out
}

func violation(fe validator.FieldError) domain.Violation {
	field := lowerFirst(fe.Field())
	vi := domain.Violation{Field: field, Rule: fe.Tag()}
	switch fe.Tag() {
	case "required":
		vi.Message = field + " is required"
	case tagMailShape:
		vi.Rule = "mail_shape"
		vi.Message = field + " must be a valid email address"
	case tagPhone10:
		vi.Rule = "phone_shape"
		vi.Message = field + " must be exactly 10 digits"
	default:
		vi.Message = fmt.Sprintf("%s failed validation (%s)", field, fe.Tag())
	}
	return vi
}

func lowerFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToLower(r)) + s[size:]
}
