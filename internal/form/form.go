// Package form decodes submitted HTML forms into request structs and
// describes the fields rendered by the generic edit view.
package form

import (
	"fmt"
	"net/http"
	"reflect"
	"strconv"

	"github.com/gorilla/schema"
	"github.com/pkg/errors"

	"github.com/medhire/portal/internal/validation"
)

var decoder = newDecoder()

func newDecoder() *schema.Decoder {
	d := schema.NewDecoder()
	d.SetAliasTag("form")
	d.IgnoreUnknownKeys(true)
	d.ZeroEmpty(true)
	return d
}

const msgNotANumber = "Please enter a whole number."

// InputError reports submitted values that do not fit their field, such as
// letters in a number field. Fields maps the form key to its message.
type InputError struct {
	Fields validation.FieldErrors
}

func (e *InputError) Error() string {
	return fmt.Sprintf("invalid input in %d field(s)", len(e.Fields))
}

// InputErrors returns the field errors carried by err when it is an
// *InputError.
func InputErrors(err error) (validation.FieldErrors, bool) {
	ie, ok := errors.Cause(err).(*InputError)
	if !ok {
		return nil, false
	}
	return ie.Fields, true
}

// Decode parses the request body into dst, a pointer to a struct with form
// tags. String fields are sanitised unless tagged clean:"-". Values that
// cannot be converted leave their field zero and come back as an
// *InputError; every other field is still decoded.
func Decode(r *http.Request, dst interface{}) error {
	if err := r.ParseForm(); err != nil {
		return errors.Wrap(err, "unable to parse form")
	}
	err := decoder.Decode(dst, r.PostForm)
	var fields validation.FieldErrors
	if err != nil {
		if fields = conversionErrors(err); fields == nil {
			return errors.Wrap(err, "unable to decode form")
		}
	}
	cleanStrings(reflect.ValueOf(dst).Elem())
	if fields != nil {
		return &InputError{Fields: fields}
	}
	return nil
}

// conversionErrors maps a decoder error made only of conversion failures
// to field errors, nil otherwise.
func conversionErrors(err error) validation.FieldErrors {
	multi, ok := err.(schema.MultiError)
	if !ok || len(multi) == 0 {
		return nil
	}
	fields := validation.FieldErrors{}
	for key, e := range multi {
		ce, ok := e.(schema.ConversionError)
		if !ok {
			return nil
		}
		if ce.Key != "" {
			key = ce.Key
		}
		fields[key] = conversionMessage(ce.Type)
	}
	return fields
}

func conversionMessage(t reflect.Type) string {
	if t != nil {
		switch t.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
			reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			return msgNotANumber
		case reflect.Float32, reflect.Float64:
			return "Please enter a number."
		}
	}
	return "This value is invalid."
}

// Parse decodes r into dst and validates it. Conversion failures and
// validation failures are merged into one set of field errors; err is only
// set when the request could not be read at all.
func Parse(r *http.Request, dst interface{}) (validation.FieldErrors, error) {
	err := Decode(r, dst)
	if err != nil {
		if _, ok := InputErrors(err); !ok {
			return nil, err
		}
	}
	errs := validation.Validate(dst)
	if fields, ok := InputErrors(err); ok {
		for k, msg := range fields {
			errs[k] = msg
		}
	}
	return errs, nil
}

func cleanStrings(v reflect.Value) {
	if v.Kind() != reflect.Struct {
		return
	}
	t := v.Type()
	for i := 0; i < v.NumField(); i++ {
		f := v.Field(i)
		if !f.CanSet() || t.Field(i).Tag.Get("clean") == "-" {
			continue
		}
		switch f.Kind() {
		case reflect.String:
			f.SetString(validation.Clean(f.String()))
		case reflect.Struct:
			cleanStrings(f)
		}
	}
}

const (
	TypeText     = "text"
	TypeEmail    = "email"
	TypeTel      = "tel"
	TypeNumber   = "number"
	TypePassword = "password"
	TypeURL      = "url"
	TypeTextarea = "textarea"
	TypeSelect   = "select"
	TypeCheckbox = "checkbox"
)

type Field struct {
	Name     string
	Label    string
	Type     string
	Value    string
	Options  []string
	Required bool
	Checked  bool
}

func Text(name, label, value string, required bool) Field {
	return Field{Name: name, Label: label, Type: TypeText, Value: value, Required: required}
}

func Email(name, label, value string) Field {
	return Field{Name: name, Label: label, Type: TypeEmail, Value: value, Required: true}
}

func Tel(name, label, value string, required bool) Field {
	return Field{Name: name, Label: label, Type: TypeTel, Value: value, Required: required}
}

func Number(name, label string, value int64, required bool) Field {
	v := ""
	if value != 0 {
		v = strconv.FormatInt(value, 10)
	}
	return Field{Name: name, Label: label, Type: TypeNumber, Value: v, Required: required}
}

func Textarea(name, label, value string, required bool) Field {
	return Field{Name: name, Label: label, Type: TypeTextarea, Value: value, Required: required}
}

func URL(name, label, value string, required bool) Field {
	return Field{Name: name, Label: label, Type: TypeURL, Value: value, Required: required}
}

func Select(name, label, value string, options []string) Field {
	return Field{Name: name, Label: label, Type: TypeSelect, Value: value, Options: options, Required: true}
}

func Checkbox(name, label string, checked bool) Field {
	return Field{Name: name, Label: label, Type: TypeCheckbox, Value: "true", Checked: checked}
}

func Password(name, label string) Field {
	return Field{Name: name, Label: label, Type: TypePassword, Required: true}
}

// View is the data behind the generic form page.
type View struct {
	Title  string
	Action string
	Submit string
	Cancel string
	Fields []Field
	Errors validation.FieldErrors
}
