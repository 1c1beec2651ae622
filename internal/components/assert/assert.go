// Package assert panics on programmer errors, like a missing dependency.
package assert

import "reflect"

// NotNil panics if value is nil, this includes nil pointers, funcs, maps and
// the like that were wrapped into an interface.
func NotNil(value any) {
	if isNil(value) {
		panic("expected value to be not nil")
	}
}

func isNil(value any) bool {
	if value == nil {
		return true
	}
	v := reflect.ValueOf(value)
	switch v.Kind() {
	case reflect.Chan, reflect.Func, reflect.Interface, reflect.Map, reflect.Pointer, reflect.Slice:
		return v.IsNil()
	}
	return false
}

func NotEmptyStr(str string) {
	if str == "" {
		panic("expected string to be non-empty")
	}
}
