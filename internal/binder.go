package internal

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/microframe-dev/microframe/pkg/sanitizer"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

// fieldValidator returns the shared validator configured to report fields by
// their json tag names.
func fieldValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "" || name == "-" {
				return fld.Name
			}
			return name
		})
	})
	return validate
}

// Binder fills handler parameters from the request. Plain params resolve in
// a fixed order: path value, then query value, then declared default; params
// whose name belongs to a registered dependency are skipped entirely so the
// dependency result is never shadowed.
type Binder struct {
	// isNamed reports whether a parameter name is claimed by a dependency.
	isNamed func(name string) bool
}

// NewBinder creates a request parser. isNamed may be nil when no named
// dependencies exist.
func NewBinder(isNamed func(string) bool) *Binder {
	if isNamed == nil {
		isNamed = func(string) bool { return false }
	}
	return &Binder{isNamed: isNamed}
}

// bodyData caches the parsed request body so multiple body params share a
// single read.
type bodyData struct {
	kind string // "json", "form", or "empty"
	raw  []byte
	form url.Values
}

// Parse resolves every request-sourced parameter. Body models are decoded,
// sanitized, and validated; validation failures come back as a
// *ValidationError, malformed bodies as a 400 HTTPError.
func (b *Binder) Parse(c Context, params []Param) (Values, error) {
	out := make(Values)
	var body *bodyData

	for _, p := range params {
		switch p.Kind {
		case ParamRequest:
			out[p.Name] = c

		case ParamBody:
			if body == nil {
				parsed, err := readBody(c.Request())
				if err != nil {
					return nil, err
				}
				body = parsed
			}
			model, err := b.bindBody(body, p)
			if err != nil {
				return nil, err
			}
			out[p.Name] = model

		case ParamField:
			if b.isNamed(p.Name) {
				continue
			}
			if v := c.Param(p.Name); v != "" {
				out[p.Name] = v
			} else if c.HasQuery(p.Name) {
				out[p.Name] = c.Query(p.Name)
			} else if p.HasDefault {
				out[p.Name] = p.Default
			}
		}
	}
	return out, nil
}

// readBody slurps and classifies the request body exactly once per request.
func readBody(r *http.Request) (*bodyData, error) {
	ct := r.Header.Get("Content-Type")
	if ct != "" {
		if parsed, _, err := mime.ParseMediaType(ct); err == nil {
			ct = parsed
		}
	}

	switch ct {
	case "application/x-www-form-urlencoded", "multipart/form-data":
		if err := r.ParseForm(); err != nil {
			return nil, ErrBadRequest("malformed request body", WithError(err), WithErrorCode("malformed_body"))
		}
		return &bodyData{kind: "form", form: r.PostForm}, nil
	default:
		raw, err := io.ReadAll(r.Body)
		if err != nil {
			return nil, ErrBadRequest("malformed request body", WithError(err), WithErrorCode("malformed_body"))
		}
		if len(raw) == 0 {
			return &bodyData{kind: "empty"}, nil
		}
		return &bodyData{kind: "json", raw: raw}, nil
	}
}

func (b *Binder) bindBody(body *bodyData, p Param) (any, error) {
	if p.Model == nil {
		return nil, fmt.Errorf("binder: body param %q has no model", p.Name)
	}
	model := p.Model()

	switch body.kind {
	case "json":
		if err := json.Unmarshal(body.raw, model); err != nil {
			return nil, ErrBadRequest("malformed request body", WithError(err), WithErrorCode("malformed_body"))
		}
	case "form":
		if err := decodeForm(body.form, model); err != nil {
			return nil, ErrBadRequest("malformed request body", WithError(err), WithErrorCode("malformed_body"))
		}
	}

	sanitizer.SanitizeStruct(model)

	if err := fieldValidator().Struct(model); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return nil, toValidationError(verrs)
		}
		return nil, err
	}
	return model, nil
}

func toValidationError(verrs validator.ValidationErrors) *ValidationError {
	fields := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, FieldError{
			Field:   fe.Field(),
			Rule:    fe.Tag(),
			Message: ruleMessage(fe),
		})
	}
	return &ValidationError{Fields: fields}
}

func ruleMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "gte":
		return fmt.Sprintf("must be %s or more", fe.Param())
	case "lt":
		return fmt.Sprintf("must be less than %s", fe.Param())
	case "lte":
		return fmt.Sprintf("must be %s or less", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}

// decodeForm fills a struct pointer from url-encoded values. Field keys come
// from the form tag, falling back to the json tag.
func decodeForm(form url.Values, model any) error {
	rv := reflect.ValueOf(model)
	if rv.Kind() != reflect.Pointer || rv.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("binder: form target must be a struct pointer, got %T", model)
	}
	rv = rv.Elem()
	rt := rv.Type()

	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		if !field.IsExported() {
			continue
		}
		key := tagName(field, "form")
		if key == "" {
			key = tagName(field, "json")
		}
		if key == "" || key == "-" {
			continue
		}
		vals, ok := form[key]
		if !ok || len(vals) == 0 {
			continue
		}
		if err := setFormValue(rv.Field(i), vals); err != nil {
			return fmt.Errorf("binder: field %q: %w", key, err)
		}
	}
	return nil
}

func tagName(field reflect.StructField, tag string) string {
	return strings.SplitN(field.Tag.Get(tag), ",", 2)[0]
}

func setFormValue(fv reflect.Value, vals []string) error {
	if fv.Kind() == reflect.Pointer {
		if fv.IsNil() {
			fv.Set(reflect.New(fv.Type().Elem()))
		}
		fv = fv.Elem()
	}

	switch fv.Kind() {
	case reflect.String:
		fv.SetString(vals[0])
	case reflect.Bool:
		b, err := strconv.ParseBool(vals[0])
		if err != nil {
			return err
		}
		fv.SetBool(b)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(vals[0], 10, fv.Type().Bits())
		if err != nil {
			return err
		}
		fv.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(vals[0], 10, fv.Type().Bits())
		if err != nil {
			return err
		}
		fv.SetUint(n)
	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(vals[0], fv.Type().Bits())
		if err != nil {
			return err
		}
		fv.SetFloat(f)
	case reflect.Slice:
		if fv.Type().Elem().Kind() != reflect.String {
			return fmt.Errorf("unsupported slice type %s", fv.Type())
		}
		fv.Set(reflect.ValueOf(vals))
	default:
		return fmt.Errorf("unsupported field type %s", fv.Type())
	}
	return nil
}
