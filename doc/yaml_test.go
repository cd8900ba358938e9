package doc

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// go test -run ^TestYAML$ ./doc -count 1
func TestYAML(t *testing.T) {
	t.Run("Round trip keeps kinds and order", func(t *testing.T) {
		v := sample()
		v.Field("whole").SetFloat(2)
		v.Field("numeric string").SetString("12")
		bz, err := WriteYAML(v)
		require.NoError(t, err)
		back, err := ReadYAML(bz)
		require.NoError(t, err)
		assert.True(t, Equal(v, back))
		assert.Equal(t, v.Keys(), back.Keys())
		assert.Equal(t, Float, back.Get("whole").Kind())
		assert.Equal(t, String, back.Get("numeric string").Kind())
	})

	t.Run("Special floats", func(t *testing.T) {
		v := New()
		v.Field("nan").SetFloat(math.NaN())
		v.Field("inf").SetFloat(math.Inf(-1))
		bz, err := WriteYAML(v)
		require.NoError(t, err)
		back, err := ReadYAML(bz)
		require.NoError(t, err)
		nan, err := back.Get("nan").AsFloat()
		require.NoError(t, err)
		assert.True(t, math.IsNaN(nan))
		inf, err := back.Get("inf").AsFloat()
		require.NoError(t, err)
		assert.True(t, math.IsInf(inf, -1))
	})

	t.Run("Aliases and documents", func(t *testing.T) {
		v, err := ReadYAML([]byte(`
base: &base
  x: 1
copy: *base
list: [a, 2, 2.5, true, ~]
`))
		require.NoError(t, err)
		x, err := v.Get("copy").Get("x").AsInt()
		require.NoError(t, err)
		assert.Equal(t, int64(1), x)
		list := v.Get("list")
		require.Equal(t, 5, list.Len())
		assert.Equal(t, String, list.At(0).Kind())
		assert.Equal(t, Int, list.At(1).Kind())
		assert.Equal(t, Float, list.At(2).Kind())
		assert.Equal(t, Bool, list.At(3).Kind())
		assert.Equal(t, Null, list.At(4).Kind())

		empty, err := ReadYAML(nil)
		require.NoError(t, err)
		assert.Equal(t, Null, empty.Kind())
	})

	t.Run("Invalid", func(t *testing.T) {
		_, err := ReadYAML([]byte("a: [1, 2"))
		assert.Error(t, err)
	})
}
