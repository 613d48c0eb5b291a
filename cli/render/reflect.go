package render

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
	"time"
)

// fieldTable is the table view of a value with no view of its own.
type fieldTable struct {
	headers []string
	rows    [][]string
}

func (t fieldTable) Headers() []string { return t.headers }
func (t fieldTable) Rows() [][]string  { return t.rows }

// reflectTable lays out slices one element per row with the first
// element's field names as headers, and structs or maps as "name:" value
// pairs.
func reflectTable(data any) fieldTable {
	v := indirect(reflect.ValueOf(data))

	switch v.Kind() {
	case reflect.Slice, reflect.Array:
		var t fieldTable
		for i := range v.Len() {
			names, vals := fields(v.Index(i))
			if i == 0 && names != nil {
				t.headers = upper(names)
			}
			t.rows = append(t.rows, vals)
		}
		return t

	case reflect.Struct, reflect.Map:
		names, vals := fields(v)
		t := fieldTable{rows: make([][]string, len(names))}
		for i, name := range names {
			t.rows[i] = []string{name + ":", vals[i]}
		}
		return t
	}

	return fieldTable{rows: [][]string{{formatValue(v)}}}
}

// fields returns the exported field (or sorted map key) names of v and
// their formatted values. Scalars have no names.
func fields(v reflect.Value) (names, vals []string) {
	v = indirect(v)

	switch v.Kind() {
	case reflect.Struct:
		t := v.Type()
		for i := range t.NumField() {
			f := t.Field(i)
			if !f.IsExported() {
				continue
			}
			names = append(names, fieldName(f))
			vals = append(vals, formatValue(v.Field(i)))
		}
	case reflect.Map:
		for _, key := range sortedKeys(v) {
			names = append(names, fmt.Sprint(key.Interface()))
			vals = append(vals, formatValue(v.MapIndex(key)))
		}
	default:
		vals = []string{formatValue(v)}
	}
	return names, vals
}

// fieldName prefers the json tag name.
func fieldName(f reflect.StructField) string {
	if name, _, _ := strings.Cut(f.Tag.Get("json"), ","); name != "" && name != "-" {
		return name
	}
	return strings.ToLower(f.Name)
}

func formatValue(v reflect.Value) string {
	if !v.IsValid() {
		return ""
	}
	if v.Kind() == reflect.Ptr || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return ""
		}
		v = v.Elem()
	}
	if !v.CanInterface() {
		return ""
	}

	switch x := v.Interface().(type) {
	case time.Duration:
		return x.String()
	case time.Time:
		return x.Format(time.RFC3339)
	case fmt.Stringer:
		return x.String()
	}

	switch v.Kind() {
	case reflect.Slice, reflect.Array:
		if v.Len() == 0 {
			return "[]"
		}
		return fmt.Sprintf("[%d items]", v.Len())
	case reflect.Map:
		if v.Len() == 0 {
			return "{}"
		}
		return fmt.Sprintf("{%d keys}", v.Len())
	case reflect.Struct:
		return "{...}"
	default:
		return fmt.Sprint(v.Interface())
	}
}

func indirect(v reflect.Value) reflect.Value {
	for (v.Kind() == reflect.Ptr || v.Kind() == reflect.Interface) && !v.IsNil() {
		v = v.Elem()
	}
	return v
}

func sortedKeys(v reflect.Value) []reflect.Value {
	keys := v.MapKeys()
	sort.Slice(keys, func(i, j int) bool {
		return fmt.Sprint(keys[i].Interface()) < fmt.Sprint(keys[j].Interface())
	})
	return keys
}

func upper(ss []string) []string {
	out := make([]string, len(ss))
	for i, s := range ss {
		out[i] = strings.ToUpper(s)
	}
	return out
}
