package assert

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNotNil(t *testing.T) {
	var nilFunc func()
	var nilPtr *int
	var nilMap map[string]int

	require.Panics(t, func() { NotNil(nil) })
	require.Panics(t, func() { NotNil(nilFunc) })
	require.Panics(t, func() { NotNil(nilPtr) })
	require.Panics(t, func() { NotNil(nilMap) })

	require.NotPanics(t, func() { NotNil(0) })
	require.NotPanics(t, func() { NotNil("") })
	require.NotPanics(t, func() { NotNil(func() {}) })
	require.NotPanics(t, func() { NotNil(&struct{}{}) })
}

func TestNotEmptyStr(t *testing.T) {
	require.Panics(t, func() { NotEmptyStr("") })
	require.NotPanics(t, func() { NotEmptyStr("x") })
}
