// internal/utils/sanitize.go
package utils

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
)

// Fields is a schemaless document body as exchanged with the remote store.
type Fields = map[string]interface{}

// Sanitize returns a deep copy of v normalized for the remote document
// store, which rejects NaN and infinite numbers: any such float becomes 0.
// Nil pointers, interfaces, maps and slices pass through unchanged (they
// serialize to null, which the remote accepts). The input is never mutated,
// and sanitizing an already-sanitized value is a no-op.
func Sanitize(v interface{}) interface{} {
	if v == nil {
		return nil
	}
	return sanitizeValue(reflect.ValueOf(v)).Interface()
}

func sanitizeValue(rv reflect.Value) reflect.Value {
	switch rv.Kind() {
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			out := reflect.New(rv.Type()).Elem()
			out.SetFloat(0)
			return out
		}
		return rv

	case reflect.Interface, reflect.Ptr:
		if rv.IsNil() {
			return rv
		}
		elem := sanitizeValue(rv.Elem())
		if rv.Kind() == reflect.Interface {
			out := reflect.New(rv.Type()).Elem()
			out.Set(elem)
			return out
		}
		out := reflect.New(elem.Type())
		out.Elem().Set(elem)
		return out

	case reflect.Slice:
		if rv.IsNil() {
			return rv
		}
		out := reflect.MakeSlice(rv.Type(), rv.Len(), rv.Len())
		for i := 0; i < rv.Len(); i++ {
			out.Index(i).Set(sanitizeValue(rv.Index(i)))
		}
		return out

	case reflect.Array:
		out := reflect.New(rv.Type()).Elem()
		for i := 0; i < rv.Len(); i++ {
			out.Index(i).Set(sanitizeValue(rv.Index(i)))
		}
		return out

	case reflect.Map:
		if rv.IsNil() {
			return rv
		}
		out := reflect.MakeMapWithSize(rv.Type(), rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			out.SetMapIndex(iter.Key(), sanitizeValue(iter.Value()))
		}
		return out

	case reflect.Struct:
		// Whole-value copy first so unexported fields (e.g. inside
		// time.Time) survive, then overwrite the exported ones.
		out := reflect.New(rv.Type()).Elem()
		out.Set(rv)
		for i := 0; i < rv.NumField(); i++ {
			if out.Field(i).CanSet() {
				out.Field(i).Set(sanitizeValue(rv.Field(i)))
			}
		}
		return out

	default:
		return rv
	}
}

// ToDocument converts any record into its sanitized remote document form.
// The result is safe to serialize and safe to compare structurally against
// documents read back from the remote store.
func ToDocument(v interface{}) (Fields, error) {
	b, err := json.Marshal(Sanitize(v))
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	var doc Fields
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	return doc, nil
}

// FromDocument decodes a remote document body into a typed record.
func FromDocument(doc Fields, out interface{}) error {
	b, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	if err := json.Unmarshal(b, out); err != nil {
		return fmt.Errorf("decode document: %w", err)
	}
	return nil
}
