package sanitizer

import "reflect"

// SanitizeStruct walks a struct pointer and sanitizes every string field in
// place. By default fields are stripped of all HTML; a `sanitize:"safe"` tag
// keeps basic formatting, and `sanitize:"-"` skips the field entirely.
// Nested structs, struct pointers, and string slices are walked too.
// Non-pointer or non-struct values are left untouched.
func SanitizeStruct(v any) {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return
	}
	rv = rv.Elem()
	if rv.Kind() != reflect.Struct {
		return
	}
	sanitizeStructValue(rv)
}

func sanitizeStructValue(rv reflect.Value) {
	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		if !field.IsExported() {
			continue
		}
		mode := field.Tag.Get("sanitize")
		if mode == "-" {
			continue
		}
		sanitizeValue(rv.Field(i), mode)
	}
}

func sanitizeValue(fv reflect.Value, mode string) {
	switch fv.Kind() {
	case reflect.String:
		if !fv.CanSet() {
			return
		}
		fv.SetString(clean(fv.String(), mode))
	case reflect.Pointer:
		if fv.IsNil() {
			return
		}
		elem := fv.Elem()
		if elem.Kind() == reflect.Struct {
			sanitizeStructValue(elem)
		} else {
			sanitizeValue(elem, mode)
		}
	case reflect.Struct:
		sanitizeStructValue(fv)
	case reflect.Slice:
		for i := 0; i < fv.Len(); i++ {
			sanitizeValue(fv.Index(i), mode)
		}
	}
}

func clean(s, mode string) string {
	switch mode {
	case "safe", "html":
		return SanitizeHTML(s)
	default:
		return StripHTML(s)
	}
}
