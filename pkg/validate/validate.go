// Package validate provides struct-tag validation for request inputs.
//
// Supported rules (comma-separated in the `validate` tag):
//
//	required            field must not be zero/empty
//	nullable            if empty, skip all remaining rules for this field
//	email               valid email address
//	numeric             any number
//	integer             whole number
//	min=N               string: min char length | number: min value
//	max=N               string: max char length | number: max value
//	gt=N / gte=N        number > N / >= N
//	lt=N / lte=N        number < N / <= N
//	in=a,b,c            value must be one of the listed items
//	confirmed           value must equal a sibling field <Field>Confirm
//
// Example:
//
//	type Input struct {
//	    Email    string `form:"email"    validate:"required,email"`
//	    Stock    int    `form:"stock"    validate:"required,gte=0"`
//	    Password string `form:"password" validate:"required,min=4,confirmed"`
//	}
package validate

import (
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"
)

var emailRe = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// Struct validates all exported fields of v that carry a `validate` tag.
// Returns a map of fieldName → error message; empty map means no errors.
func Struct(v interface{}) map[string]string {
	errs := make(map[string]string)
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Ptr {
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return errs
	}
	rt := rv.Type()

	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		value := rv.Field(i)

		tag := field.Tag.Get("validate")
		if tag == "" {
			continue
		}

		name := fieldName(field)
		rules := strings.Split(tag, ",")

		// `nullable` on an empty field skips every other rule.
		if hasRule(rules, "nullable") && isEmpty(value) {
			continue
		}

		for _, rule := range rules {
			if rule == "nullable" {
				continue
			}
			if msg := applyRule(rule, name, field.Name, value, rv); msg != "" {
				errs[name] = msg
				break // first failing rule per field
			}
		}
	}

	return errs
}

// HasErrors returns true when the errs map is non-empty.
func HasErrors(errs map[string]string) bool { return len(errs) > 0 }

func applyRule(rule, field, goName string, v reflect.Value, parent reflect.Value) string {
	key, param, _ := strings.Cut(rule, "=")

	switch key {
	case "required":
		if isEmpty(v) {
			return fmt.Sprintf("The %s field is required.", field)
		}

	case "email":
		if !emailRe.MatchString(asString(v)) {
			return fmt.Sprintf("The %s field must be a valid email address.", field)
		}

	case "numeric":
		if _, err := strconv.ParseFloat(asString(v), 64); err != nil {
			return fmt.Sprintf("The %s field must be a number.", field)
		}

	case "integer":
		if _, err := strconv.ParseInt(asString(v), 10, 64); err != nil {
			return fmt.Sprintf("The %s field must be an integer.", field)
		}

	case "min":
		if cmpNumOrLen(v) < mustFloat(param) {
			return fmt.Sprintf("The %s field must be at least %s.", field, param)
		}

	case "max":
		if cmpNumOrLen(v) > mustFloat(param) {
			return fmt.Sprintf("The %s field may not be greater than %s.", field, param)
		}

	case "gt":
		if n, ok := asNumber(v); !ok || n <= mustFloat(param) {
			return fmt.Sprintf("The %s field must be greater than %s.", field, param)
		}

	case "gte":
		if n, ok := asNumber(v); !ok || n < mustFloat(param) {
			return fmt.Sprintf("The %s field must be at least %s.", field, param)
		}

	case "lt":
		if n, ok := asNumber(v); !ok || n >= mustFloat(param) {
			return fmt.Sprintf("The %s field must be less than %s.", field, param)
		}

	case "lte":
		if n, ok := asNumber(v); !ok || n > mustFloat(param) {
			return fmt.Sprintf("The %s field may not be greater than %s.", field, param)
		}

	case "in":
		val := asString(v)
		for _, opt := range strings.Split(param, "|") {
			if val == opt {
				return ""
			}
		}
		return fmt.Sprintf("The selected %s is invalid.", field)

	case "confirmed":
		sibling := parent.FieldByName(goName + "Confirm")
		if !sibling.IsValid() || asString(sibling) != asString(v) {
			return fmt.Sprintf("The %s confirmation does not match.", field)
		}
	}

	return ""
}

// fieldName prefers the form tag, then json, then the Go name.
func fieldName(f reflect.StructField) string {
	for _, tag := range []string{"form", "json"} {
		if v := f.Tag.Get(tag); v != "" && v != "-" {
			name, _, _ := strings.Cut(v, ",")
			if name != "" {
				return name
			}
		}
	}
	return f.Name
}

func hasRule(rules []string, want string) bool {
	for _, r := range rules {
		if r == want {
			return true
		}
	}
	return false
}

func isEmpty(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.String:
		return strings.TrimSpace(v.String()) == ""
	case reflect.Slice, reflect.Map, reflect.Array:
		return v.Len() == 0
	case reflect.Ptr, reflect.Interface:
		return v.IsNil()
	}
	return v.IsZero()
}

func asString(v reflect.Value) string {
	return fmt.Sprintf("%v", v.Interface())
}

// asNumber converts numeric kinds (or numeric strings) to float64.
func asNumber(v reflect.Value) (float64, bool) {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(v.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(v.Uint()), true
	case reflect.Float32, reflect.Float64:
		return v.Float(), true
	case reflect.String:
		n, err := strconv.ParseFloat(v.String(), 64)
		return n, err == nil
	}
	return 0, false
}

// cmpNumOrLen is the min/max comparison value: the number itself for numeric
// kinds, the character length for strings.
func cmpNumOrLen(v reflect.Value) float64 {
	if v.Kind() == reflect.String {
		return float64(len([]rune(v.String())))
	}
	if n, ok := asNumber(v); ok {
		return n
	}
	return 0
}

func mustFloat(s string) float64 {
	n, _ := strconv.ParseFloat(s, 64)
	return n
}
