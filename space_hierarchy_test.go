package kukan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// go test -run ^TestHierarchy$ . -count 1
func TestHierarchy(t *testing.T) {
	registerTestTypes(t)

	t.Run("MakeParent and RemoveParent", func(t *testing.T) {
		s := NewSpace()
		root, a, b := s.CreateMember(), s.CreateMember(), s.CreateMember()
		s.MakeParent(root, a)
		s.MakeParent(root, b)
		assert.Equal(t, []MemberId{a, b}, s.Children(root))
		assert.Equal(t, root, s.Parent(a))
		assert.Equal(t, []MemberId{root}, s.RootMembers())

		s.RemoveParent(a)
		assert.Equal(t, InvalidMemberId, s.Parent(a))
		assert.Equal(t, []MemberId{b}, s.Children(root))
		assert.Equal(t, []MemberId{root, a}, s.RootMembers())

		s.RemoveParent(a)
		assert.Equal(t, InvalidMemberId, s.Parent(a))
		checkSpace(t, s)
	})

	t.Run("Reparenting detaches first", func(t *testing.T) {
		s := NewSpace()
		p1, p2, c := s.CreateMember(), s.CreateMember(), s.CreateMember()
		s.MakeParent(p1, c)
		s.MakeParent(p2, c)
		assert.Empty(t, s.Children(p1))
		assert.Equal(t, []MemberId{c}, s.Children(p2))
		s.MakeParent(p2, c)
		assert.Equal(t, []MemberId{c}, s.Children(p2))
		checkSpace(t, s)
	})

	t.Run("Cycles are fatal", func(t *testing.T) {
		s := NewSpace()
		a := s.CreateMember()
		b := s.CreateChildMember(a)
		c := s.CreateChildMember(b)
		requireFatal(t, ErrHierarchyCycle, func() { s.MakeParent(a, a) })
		requireFatal(t, ErrHierarchyCycle, func() { s.MakeParent(c, a) })
		requireFatal(t, ErrHierarchyCycle, func() { s.MakeParent(b, a) })
		assert.Equal(t, InvalidMemberId, s.Parent(a))
	})

	t.Run("ParentChanged events", func(t *testing.T) {
		s := NewSpace()
		var events []ParentChanged
		Subscribe(s.Events(), func(e ParentChanged) { events = append(events, e) })
		a, b := s.CreateMember(), s.CreateMember()
		s.MakeParent(a, b)
		s.RemoveParent(b)
		assert.Equal(t, []ParentChanged{{Member: b, Parent: a}, {Member: b, Parent: InvalidMemberId}}, events)
	})

	t.Run("Deleting a member deletes its subtree", func(t *testing.T) {
		s := NewSpace()
		root := s.CreateMember()
		a := s.CreateChildMember(root)
		b := s.CreateChildMember(a)
		keep := s.CreateChildMember(root)
		AddComponent[Mesh](s, b)
		s.DeleteMember(a)
		assert.False(t, s.ValidMember(a))
		assert.False(t, s.ValidMember(b))
		assert.Equal(t, []MemberId{keep}, s.Children(root))
		assert.Equal(t, 0, s.Table(TypeIdOf[Mesh]()).Len())
		checkSpace(t, s)
	})

	t.Run("VisitMembers stops early", func(t *testing.T) {
		s := NewSpace()
		for range 5 {
			s.CreateMember()
		}
		s.DeleteMember(1)
		var seen []MemberId
		s.VisitMembers(func(m MemberId) bool {
			seen = append(seen, m)
			return m < 3
		})
		assert.Equal(t, []MemberId{0, 2, 3}, seen)
	})

	t.Run("Names", func(t *testing.T) {
		s := NewSpace()
		m := s.CreateMember()
		s.SetName(m, "player")
		assert.Equal(t, "player", s.Name(m))
		assert.Equal(t, "player", Object{Space: s, Member: m}.Name())
		assert.Equal(t, "player", s.Member(m).Name())
	})
}

// go test -run ^TestDuplicate$ . -count 1
func TestDuplicate(t *testing.T) {
	registerTestTypes(t)

	t.Run("Shallow", func(t *testing.T) {
		s := NewSpace()
		root := s.CreateMember()
		m := s.CreateChildMember(root)
		s.SetName(m, "crate")
		AddComponent[Mesh](s, m).Asset = "crate.obj"
		GetComponent[Transform](s, m).X = 3
		s.CreateChildMember(m)

		dup := s.Duplicate(m, false)
		assert.Equal(t, "crate", s.Name(dup))
		assert.Equal(t, root, s.Parent(dup))
		assert.Equal(t, []MemberId{m, dup}, s.Children(root))
		assert.Empty(t, s.Children(dup))
		assert.Equal(t, "crate.obj", GetComponent[Mesh](s, dup).Asset)
		assert.Equal(t, 1, GetComponent[Mesh](s, dup).Inited)
		assert.Equal(t, 3.0, GetComponent[Transform](s, dup).X)
		assert.Equal(t, descriptorTypes(s, m), descriptorTypes(s, dup))

		GetComponent[Transform](s, dup).X = 8
		assert.Equal(t, 3.0, GetComponent[Transform](s, m).X)
		checkSpace(t, s)
	})

	t.Run("Deep", func(t *testing.T) {
		s := NewSpace()
		m := s.CreateMember()
		c1 := s.CreateChildMember(m)
		s.CreateChildMember(c1)
		s.CreateChildMember(m)
		AddComponent[Health](s, c1).HP = 7

		dup := s.Duplicate(m, true)
		assert.Equal(t, InvalidMemberId, s.Parent(dup))
		require.Len(t, s.Children(dup), 2)
		dc1 := s.Children(dup)[0]
		assert.Equal(t, 7, GetComponent[Health](s, dc1).HP)
		assert.Len(t, s.Children(dc1), 1)
		assert.Equal(t, 8, s.MemberCount())
		checkSpace(t, s)
	})
}
