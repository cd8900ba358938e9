package script

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/edwinsyarief/kukan"
	"github.com/edwinsyarief/kukan/doc"
	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newHost(t *testing.T) (*kukan.Space, *Host) {
	t.Helper()
	kukan.ResetRegistry()
	kukan.Register[Script]()
	s := kukan.NewSpace(kukan.WithLogger(zaptest.NewLogger(t)))
	h := NewHost(s, nil)
	t.Cleanup(func() {
		if HostOf(s) != nil {
			h.Close()
		}
	})
	return s, h
}

// go test -run ^TestHost$ ./script -count 1
func TestHost(t *testing.T) {
	t.Run("Member API", func(t *testing.T) {
		s, h := newHost(t)
		root := s.CreateMember()
		s.CreateChildMember(root)
		s.CreateChildMember(root)
		s.SetName(root, "root")

		require.NoError(t, h.DoString(`
			assert(API_VERSION == 1)
			assert(member_valid(0))
			assert(not member_valid(7))
			assert(member_name(0) == "root")
			assert(#member_children(0) == 2)
			assert(member_parent(1) == 0)
			assert(member_parent(0) == -1)
			set_member_name(2, "leaf")
		`))
		assert.Equal(t, "leaf", s.Name(2))
	})

	t.Run("Invalid members raise", func(t *testing.T) {
		_, h := newHost(t)
		assert.Error(t, h.DoString(`member_name(3)`))
		assert.Error(t, h.DoString(`set_member_name(0, "x")`))
	})

	t.Run("Call", func(t *testing.T) {
		s, h := newHost(t)
		m := s.CreateMember()
		require.NoError(t, h.DoString(`function tick(id) set_member_name(id, "ticked") end`))
		require.NoError(t, h.Call("tick", m))
		assert.Equal(t, "ticked", s.Name(m))

		err := h.Call("missing", m)
		assert.True(t, eris.Is(err, ErrNoFunction))
	})

	t.Run("LoadDir", func(t *testing.T) {
		s, h := newHost(t)
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "b.lua"), []byte(`order = order .. "b"`), 0o644))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "a.lua"), []byte(`order = "a"`), 0o644))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte(`not lua`), 0o644))
		require.NoError(t, h.LoadDir(dir))
		require.NoError(t, h.DoString(`function check(id) assert(order == "ab") end`))
		require.NoError(t, h.Call("check", s.CreateMember()))

		assert.NoError(t, h.LoadDir(filepath.Join(dir, "absent")))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "c.lua"), []byte(`this is not lua`), 0o644))
		assert.Error(t, h.LoadDir(dir))
	})

	t.Run("Resource lifetime", func(t *testing.T) {
		s, h := newHost(t)
		assert.Same(t, h, HostOf(s))
		h.Close()
		assert.Nil(t, HostOf(s))
		assert.Equal(t, 0, s.Resources().Len())
	})
}

// go test -run ^TestScript$ ./script -count 1
func TestScript(t *testing.T) {
	t.Run("Update calls the function", func(t *testing.T) {
		s, h := newHost(t)
		require.NoError(t, h.DoString(`
			calls = 0
			function tick(id)
				calls = calls + 1
				set_member_name(id, "tick")
			end
			function boom(id) error("boom") end
		`))
		a, b, idle := s.CreateMember(), s.CreateMember(), s.CreateMember()
		kukan.AddComponent[Script](s, a).Function = "tick"
		kukan.AddComponent[Script](s, b).Function = "boom"
		kukan.AddComponent[Script](s, idle)

		s.Update()
		s.Update()
		assert.Equal(t, "tick", s.Name(a))
		assert.Equal(t, 0, kukan.GetComponent[Script](s, a).Failures)
		assert.Equal(t, 2, kukan.GetComponent[Script](s, b).Failures)
		assert.Equal(t, 0, kukan.GetComponent[Script](s, idle).Failures)
		require.NoError(t, h.DoString(`assert(calls == 2)`))
	})

	t.Run("No host", func(t *testing.T) {
		s, h := newHost(t)
		h.Close()
		m := s.CreateMember()
		kukan.AddComponent[Script](s, m).Function = "tick"
		s.Update()
		assert.Equal(t, 0, kukan.GetComponent[Script](s, m).Failures)
	})

	t.Run("Serialize", func(t *testing.T) {
		s, _ := newHost(t)
		m := s.CreateMember()
		sc := kukan.AddComponent[Script](s, m)
		sc.Function = "tick"
		sc.Failures = 4

		v := doc.New()
		s.Serialize(v)
		other := kukan.NewSpace()
		require.NoError(t, other.Deserialize(v))
		back := kukan.GetComponent[Script](other, m)
		assert.Equal(t, "tick", back.Function)
		assert.Equal(t, 0, back.Failures)
	})
}
