package kukan

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// go test -run ^TestFilter$ . -count 1
func TestFilter(t *testing.T) {
	registerTestTypes(t)

	t.Run("Visits every component", func(t *testing.T) {
		s := NewSpace()
		for i := range 30 {
			m := s.CreateMember()
			if i%2 == 0 {
				AddComponent[Transform](s, m).X = float64(i)
			}
		}
		f := NewFilter[Transform](s)
		assert.Equal(t, 15, f.Len())
		sum := 0.0
		for f.Next() {
			assert.Equal(t, float64(f.Member()), f.Get().X)
			f.Get().Y = 1
			sum += f.Get().X
		}
		assert.Equal(t, 210.0, sum)
		for _, tr := range Slice[Transform](s) {
			assert.Equal(t, 1.0, tr.Y)
		}
		assert.ElementsMatch(t, f.Members(), s.Table(TypeIdOf[Transform]()).Owners())
	})

	t.Run("Table created after the filter", func(t *testing.T) {
		s := NewSpace()
		f := NewFilter[Health](s)
		assert.False(t, f.Next())
		assert.Nil(t, f.Members())
		AddComponent[Health](s, s.CreateMember())
		f.Reset()
		assert.True(t, f.Next())
		assert.Equal(t, 100, f.Get().HP)
		assert.False(t, f.Next())
	})

	t.Run("Reset after removal", func(t *testing.T) {
		s := NewSpace()
		for range 5 {
			AddComponent[Tag](s, s.CreateMember())
		}
		f := NewFilter[Tag](s)
		for f.Next() {
			if f.Member()%2 == 1 {
				RemComponent[Tag](s, f.Member())
				f.Reset()
			}
		}
		f.Reset()
		count := 0
		for f.Next() {
			assert.Equal(t, 0, int(f.Member())%2)
			count++
		}
		assert.Equal(t, 3, count)
		assert.Len(t, Slice[Tag](s), 3)
	})

	t.Run("Slice of an unused type", func(t *testing.T) {
		s := NewSpace()
		assert.Nil(t, Slice[Sprite](s))
	})
}
