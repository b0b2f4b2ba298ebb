// Package testkit holds checks shared by tests of generated contexts.
package testkit

import (
	"fmt"
	"reflect"
	"sort"
)

// CheckContext verifies that ctx only holds values a template can consume:
// strings, booleans, ints, nil, string and int slices, nested maps with
// string keys and slices of such maps. It also rejects cycles. The first
// violation is reported with its key path.
func CheckContext(ctx map[string]any) error {
	return checkValue(reflect.ValueOf(ctx), "$", map[uintptr]bool{})
}

func checkValue(v reflect.Value, path string, seen map[uintptr]bool) error {
	if !v.IsValid() {
		return nil
	}
	if v.Kind() == reflect.Interface {
		if v.IsNil() {
			return nil
		}
		v = v.Elem()
	}
	switch v.Kind() {
	case reflect.String, reflect.Bool, reflect.Int:
		return nil
	case reflect.Map:
		if v.Type().Key().Kind() != reflect.String {
			return fmt.Errorf("%s: map keys must be strings, got %s", path, v.Type().Key())
		}
		if v.IsNil() {
			return nil
		}
		ptr := v.Pointer()
		if seen[ptr] {
			return fmt.Errorf("%s: cycle", path)
		}
		seen[ptr] = true
		defer delete(seen, ptr)
		keys := make([]string, 0, v.Len())
		for _, k := range v.MapKeys() {
			keys = append(keys, k.String())
		}
		sort.Strings(keys)
		for _, k := range keys {
			if err := checkValue(v.MapIndex(reflect.ValueOf(k).Convert(v.Type().Key())), path+"."+k, seen); err != nil {
				return err
			}
		}
		return nil
	case reflect.Slice:
		elem := v.Type().Elem().Kind()
		if elem != reflect.String && elem != reflect.Int && elem != reflect.Map && elem != reflect.Interface {
			return fmt.Errorf("%s: unsupported slice of %s", path, v.Type().Elem())
		}
		for i := range v.Len() {
			if err := checkValue(v.Index(i), fmt.Sprintf("%s[%d]", path, i), seen); err != nil {
				return err
			}
		}
		return nil
	}
	return fmt.Errorf("%s: unsupported value of type %s", path, v.Type())
}
