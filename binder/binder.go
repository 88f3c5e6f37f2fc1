package binder

import (
	"fmt"
	"mime"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
)

// maxFormMemory caps in-memory multipart parsing.
const maxFormMemory = 1 << 20

// Form binds urlencoded and multipart bodies. Other content types are
// reported as ErrBinderNotApplicable.
func Form() func(r *http.Request, v any) error {
	return func(r *http.Request, v any) error {
		mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
		if err != nil {
			return ErrBinderNotApplicable
		}
		switch mediaType {
		case "application/x-www-form-urlencoded":
			if err := r.ParseForm(); err != nil {
				return fmt.Errorf("%w: %v", ErrInvalidForm, err)
			}
		case "multipart/form-data":
			if err := r.ParseMultipartForm(maxFormMemory); err != nil {
				return fmt.Errorf("%w: %v", ErrInvalidForm, err)
			}
		default:
			return ErrBinderNotApplicable
		}
		return bindValues(v, "form", r.PostForm, ErrInvalidForm)
	}
}

func Query() func(r *http.Request, v any) error {
	return func(r *http.Request, v any) error {
		return bindValues(v, "query", r.URL.Query(), ErrInvalidQuery)
	}
}

// Path binds chi URL parameters.
func Path() func(r *http.Request, v any) error {
	return PathFunc(chi.URLParam)
}

// PathFunc binds path parameters read through extractor.
func PathFunc(extractor func(r *http.Request, name string) string) func(r *http.Request, v any) error {
	return func(r *http.Request, v any) error {
		rv, err := target(v)
		if err != nil {
			return err
		}
		rt := rv.Type()
		for i := 0; i < rv.NumField(); i++ {
			field := rv.Field(i)
			if !field.CanSet() {
				continue
			}
			name, skip := fieldName(rt.Field(i), "path")
			if skip {
				continue
			}
			value := extractor(r, name)
			if value == "" {
				continue
			}
			if err := setField(field, []string{value}); err != nil {
				return fmt.Errorf("%w: field %s: %v", ErrInvalidPath, rt.Field(i).Name, err)
			}
		}
		return nil
	}
}

func target(v any) (reflect.Value, error) {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return reflect.Value{}, fmt.Errorf("%w: must be a non-nil pointer", ErrInvalidTarget)
	}
	rv = rv.Elem()
	if rv.Kind() != reflect.Struct {
		return reflect.Value{}, fmt.Errorf("%w: must point to a struct", ErrInvalidTarget)
	}
	return rv, nil
}

func bindValues(v any, tag string, values map[string][]string, bindErr error) error {
	rv, err := target(v)
	if err != nil {
		return err
	}
	rt := rv.Type()
	for i := 0; i < rv.NumField(); i++ {
		field := rv.Field(i)
		if !field.CanSet() {
			continue
		}
		name, skip := fieldName(rt.Field(i), tag)
		if skip {
			continue
		}
		vals, ok := values[name]
		if !ok || len(vals) == 0 {
			continue
		}
		if err := setField(field, vals); err != nil {
			return fmt.Errorf("%w: field %s: %v", bindErr, rt.Field(i).Name, err)
		}
	}
	return nil
}

// fieldName returns the parameter name for f. Fields tagged only for
// another source are skipped so several binders can share one struct.
func fieldName(f reflect.StructField, tag string) (string, bool) {
	value, ok := f.Tag.Lookup(tag)
	if !ok {
		for _, other := range []string{"form", "query", "path"} {
			if other != tag && f.Tag.Get(other) != "" {
				return "", true
			}
		}
		return strings.ToLower(f.Name), false
	}
	name, _, _ := strings.Cut(value, ",")
	if name == "-" {
		return "", true
	}
	return name, false
}

func setField(field reflect.Value, values []string) error {
	switch field.Kind() {
	case reflect.Pointer:
		if field.IsNil() {
			field.Set(reflect.New(field.Type().Elem()))
		}
		return setField(field.Elem(), values)
	case reflect.Slice:
		slice := reflect.MakeSlice(field.Type(), len(values), len(values))
		for i, value := range values {
			if err := setField(slice.Index(i), []string{value}); err != nil {
				return err
			}
		}
		field.Set(slice)
		return nil
	}

	value := values[0]
	switch field.Kind() {
	case reflect.String:
		field.SetString(value)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(value, 10, field.Type().Bits())
		if err != nil {
			return fmt.Errorf("invalid int value %q", value)
		}
		field.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(value, 10, field.Type().Bits())
		if err != nil {
			return fmt.Errorf("invalid uint value %q", value)
		}
		field.SetUint(n)
	case reflect.Float32, reflect.Float64:
		n, err := strconv.ParseFloat(value, field.Type().Bits())
		if err != nil {
			return fmt.Errorf("invalid float value %q", value)
		}
		field.SetFloat(n)
	case reflect.Bool:
		switch strings.ToLower(value) {
		case "on", "yes":
			field.SetBool(true)
		case "off", "no", "":
			field.SetBool(false)
		default:
			b, err := strconv.ParseBool(value)
			if err != nil {
				return fmt.Errorf("invalid bool value %q", value)
			}
			field.SetBool(b)
		}
	default:
		return fmt.Errorf("unsupported type %s", field.Kind())
	}
	return nil
}
