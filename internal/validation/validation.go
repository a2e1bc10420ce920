// Package validation holds the field checks applied to every form before it
// reaches the backend.
package validation

import (
	"html"
	"net/url"
	"reflect"
	"regexp"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
)

var (
	emailRe    = regexp.MustCompile("^[a-zA-Z0-9.!#$%&'*+/=?^_`{|}~-]+@[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?(?:\\.[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?)*$")
	phoneRe    = regexp.MustCompile(`^\+?[0-9]{10,15}$`)
	phoneStrip = strings.NewReplacer(" ", "", "-", "", ".", "", "(", "", ")", "")
	nameRe     = regexp.MustCompile(`^[\p{L}][\p{L} .'-]{1,49}$`)
)

func IsEmail(val string) bool {
	return emailRe.MatchString(strings.TrimSpace(val))
}

// IsPhone accepts 10 to 15 digits with an optional leading '+'. Spaces,
// dashes, dots and parentheses are ignored.
func IsPhone(val string) bool {
	return phoneRe.MatchString(NormalizePhone(val))
}

func NormalizePhone(val string) string {
	return phoneStrip.Replace(strings.TrimSpace(val))
}

// IsName accepts 2 to 50 letters, spaces, dots, apostrophes and hyphens,
// starting with a letter.
func IsName(val string) bool {
	return nameRe.MatchString(strings.TrimSpace(val))
}

// IsPassword requires at least 8 characters including a letter and a digit.
func IsPassword(val string) bool {
	if len(val) < 8 {
		return false
	}
	var letter, digit bool
	for _, r := range val {
		switch {
		case unicode.IsLetter(r):
			letter = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	return letter && digit
}

func IsHTTPURL(val string) bool {
	u, err := url.Parse(strings.TrimSpace(val))
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// FieldErrors maps a form field name to the message shown next to it.
type FieldErrors map[string]string

func (f FieldErrors) Has(field string) bool {
	_, ok := f[field]
	return ok
}

func (f FieldErrors) Get(field string) string {
	return f[field]
}

func (f FieldErrors) Empty() bool {
	return len(f) == 0
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})
	must := func(tag string, fn func(string) bool) {
		if err := v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
			return fn(fl.Field().String())
		}); err != nil {
			panic(err)
		}
	}
	must("emailaddr", IsEmail)
	must("phone", IsPhone)
	must("personname", IsName)
	must("password", IsPassword)
	must("httpurl", IsHTTPURL)
	return v
}

// Validate checks form against its validate struct tags. Field names in the
// result come from the form tags.
func Validate(form interface{}) FieldErrors {
	errs := FieldErrors{}
	err := validate.Struct(form)
	if err == nil {
		return errs
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		errs["form"] = "The form could not be validated."
		return errs
	}
	for _, fe := range verrs {
		if _, seen := errs[fe.Field()]; seen {
			continue
		}
		errs[fe.Field()] = message(fe)
	}
	return errs
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "required_if":
		return "This field is required."
	case "emailaddr":
		return "Please enter a valid email address."
	case "phone":
		return "Please enter a valid phone number (10 to 15 digits)."
	case "personname":
		return "Please enter a valid name using letters only."
	case "password":
		return "Password must be at least 8 characters and contain a letter and a number."
	case "httpurl":
		return "Please enter a valid http(s) link."
	case "eqfield":
		return "The values do not match."
	case "oneof":
		return "Please choose one of the available options."
	case "min", "gte":
		if fe.Kind() == reflect.String {
			return "This value is too short."
		}
		return "The value is too small."
	case "max", "lte":
		if fe.Kind() == reflect.String {
			return "This value is too long."
		}
		return "The value is too large."
	case "gtefield":
		return "The value must not be lower than the minimum."
	}
	return "This value is invalid."
}

var strict = bluemonday.StrictPolicy()

// Clean strips markup and surrounding whitespace from free text input. The
// entities produced by the sanitiser are decoded again since templates escape
// on output.
func Clean(s string) string {
	return strings.TrimSpace(html.UnescapeString(strict.Sanitize(s)))
}
