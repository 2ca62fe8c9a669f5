// Package bind decodes an HTTP request body into a struct and validates it.
// JSON is used by the API; Form covers the url-encoded and multipart posts
// of the server-rendered pages.
package bind

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/mgiraldo/almacen/config"
	"github.com/mgiraldo/almacen/pkg/validate"
)

// maxBodyBytes returns the configured request body size limit (default 4 MB).
func maxBodyBytes() int64 {
	n, err := strconv.ParseInt(config.Get("MAX_BODY_BYTES", "4194304"), 10, 64)
	if err != nil || n <= 0 {
		return 4 << 20 // 4 MB
	}
	return n
}

// JSON decodes r.Body as JSON into dest and runs validation.
// The body is capped at MAX_BODY_BYTES to prevent memory exhaustion.
// Returns (errs, nil) when there are validation failures.
// Returns (nil, err) when the body is malformed JSON or too large.
func JSON(r *http.Request, dest interface{}) (errs map[string]string, err error) {
	r.Body = http.MaxBytesReader(nil, r.Body, maxBodyBytes())

	dec := json.NewDecoder(r.Body)
	if err = dec.Decode(dest); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, fmt.Errorf("request body too large (max %d bytes)", maxErr.Limit)
		}
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}

	errs = validate.Struct(dest)
	if validate.HasErrors(errs) {
		return errs, nil
	}

	return nil, nil
}

// Form populates dest from the request's form values (url-encoded or
// multipart) using `form` struct tags, then runs validation. Unparseable
// numeric fields become validation errors rather than silent zeros, so bad
// input never reaches the database.
func Form(r *http.Request, dest interface{}) (errs map[string]string, err error) {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(maxBodyBytes()); err != nil {
			return nil, fmt.Errorf("parse multipart form: %w", err)
		}
	} else if err := r.ParseForm(); err != nil {
		return nil, fmt.Errorf("parse form: %w", err)
	}

	rv := reflect.ValueOf(dest)
	if rv.Kind() != reflect.Ptr || rv.Elem().Kind() != reflect.Struct {
		return nil, errors.New("bind: dest must be a pointer to struct")
	}
	rv = rv.Elem()
	rt := rv.Type()

	errs = map[string]string{}

	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		name, _, _ := strings.Cut(field.Tag.Get("form"), ",")
		if name == "" || name == "-" {
			continue
		}

		raw := strings.TrimSpace(r.FormValue(name))
		if raw == "" {
			continue
		}

		fv := rv.Field(i)
		switch fv.Kind() {
		case reflect.String:
			fv.SetString(raw)
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			n, convErr := strconv.ParseInt(raw, 10, 64)
			if convErr != nil {
				errs[name] = fmt.Sprintf("The %s field must be an integer.", name)
				continue
			}
			fv.SetInt(n)
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			n, convErr := strconv.ParseUint(raw, 10, 64)
			if convErr != nil {
				errs[name] = fmt.Sprintf("The %s field must be a positive integer.", name)
				continue
			}
			fv.SetUint(n)
		case reflect.Float32, reflect.Float64:
			n, convErr := strconv.ParseFloat(raw, 64)
			if convErr != nil {
				errs[name] = fmt.Sprintf("The %s field must be a number.", name)
				continue
			}
			fv.SetFloat(n)
		case reflect.Bool:
			fv.SetBool(raw == "1" || strings.EqualFold(raw, "true") || strings.EqualFold(raw, "on"))
		}
	}

	for name, msg := range validate.Struct(dest) {
		if _, taken := errs[name]; !taken {
			errs[name] = msg
		}
	}

	if len(errs) > 0 {
		return errs, nil
	}
	return nil, nil
}
