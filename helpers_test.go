package kukan

import (
	"fmt"
	"testing"
	"unsafe"

	"github.com/edwinsyarief/kukan/doc"
	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/require"
)

// Test components. Mesh and Sprite depend on Transform, Body on Health.
type Transform struct {
	X, Y, Z float64
}

func (t *Transform) VSerialize(val *doc.Value) {
	val.Field("X").SetFloat(t.X)
	val.Field("Y").SetFloat(t.Y)
	val.Field("Z").SetFloat(t.Z)
}

func (t *Transform) VDeserialize(val *doc.Value) error {
	var err error
	if t.X, err = val.Get("X").AsFloat(); err != nil {
		return err
	}
	if t.Y, err = val.Get("Y").AsFloat(); err != nil {
		return err
	}
	t.Z, err = val.Get("Z").AsFloat()
	return err
}

type Mesh struct {
	Asset  string
	Inited int
}

func (m *Mesh) VInit(owner Object) {
	m.Inited++
	record(owner, "init Mesh %d", owner.Member)
}

func (m *Mesh) VSerialize(val *doc.Value) {
	val.Field("Asset").SetString(m.Asset)
}

func (m *Mesh) VDeserialize(val *doc.Value) error {
	var err error
	m.Asset, err = val.Get("Asset").AsString()
	return err
}

type Health struct {
	HP int
}

func (h *Health) VInit(owner Object) {
	h.HP = 100
}

func (h *Health) VUpdate(owner Object) {
	h.HP--
}

func (h *Health) VDestroy(owner Object) {
	record(owner, "destroy Health %d", owner.Member)
}

type Body struct {
	Mass float64
}

func (b *Body) VSerialize(val *doc.Value) {
	val.Field("Mass").SetFloat(b.Mass)
}

func (b *Body) VDeserialize(val *doc.Value) error {
	var err error
	b.Mass, err = val.Get("Mass").AsFloat()
	return err
}

type Tag struct{}

type Sprite struct {
	Frame int
}

func (s *Sprite) VRenderable(owner Object) {
	record(owner, "render %d frame %d", owner.Member, s.Frame)
}

func (s *Sprite) VEdit(owner Object) {
	s.Frame++
}

func (s *Sprite) VGizmoEdit(owner Object) {
	record(owner, "gizmo %d", owner.Member)
}

var staticInits int

type Counter struct {
	N int
}

func (c *Counter) VStaticInit() {
	staticInits++
}

// hookLog collects the calls hooks record, when present among the resources.
type hookLog struct {
	calls []string
}

func record(owner Object, format string, args ...any) {
	if l, _ := GetResource[hookLog](owner.Space.Resources()); l != nil {
		l.calls = append(l.calls, fmt.Sprintf(format, args...))
	}
}

func withHookLog(s *Space) *hookLog {
	l := &hookLog{}
	s.Resources().Add(l)
	return l
}

func registerTestTypes(t testing.TB) {
	t.Helper()
	ResetRegistry()
	Register[Transform]()
	Register[Mesh]()
	Register[Health]()
	Register[Body]()
	Register[Tag]()
	Register[Sprite]()
	AddDependency[Mesh, Transform]()
	AddDependency[Sprite, Transform]()
	AddDependency[Body, Health]()
}

// requireFatal runs fn and checks that it panics with an error wrapping target.
func requireFatal(t *testing.T, target error, fn func()) {
	t.Helper()
	defer func() {
		r := recover()
		require.NotNil(t, r, "expected a panic wrapping %v", target)
		err, ok := r.(error)
		require.True(t, ok, "panic value %v is not an error", r)
		require.True(t, eris.Is(err, target), "got %v, want %v", err, target)
	}()
	fn()
}

// checkSpace verifies the structural invariants of s.
func checkSpace(t *testing.T, s *Space) {
	t.Helper()
	live := 0
	s.VisitMembers(func(m MemberId) bool {
		live++
		seen := make(map[TypeId]bool)
		for _, d := range s.GetDescriptors(m) {
			require.False(t, d.Unused(), "hole inside run of member %d", m)
			require.False(t, seen[d.Type], "member %d holds type %d twice", m, d.Type)
			seen[d.Type] = true
			require.Equal(t, m, s.Table(d.Type).Owner(d.Id))
			for _, dep := range Type(d.Type).Dependencies {
				require.True(t, s.HasComponent(dep, m), "member %d misses dependency %d", m, dep)
			}
		}
		for _, c := range s.Children(m) {
			require.Equal(t, m, s.Parent(c))
		}
		return true
	})
	require.Equal(t, live, s.MemberCount())
	for _, table := range s.tables {
		if table == nil {
			continue
		}
		require.Equal(t, table.ids.Len(), len(table.Owners()))
		for _, owner := range table.Owners() {
			require.True(t, s.ValidMember(owner), "table %s owner %d not in use", table.Type().Name, owner)
			require.True(t, s.HasComponent(table.Type().Id(), owner))
		}
	}
}

func unsafePointer[T any](p *T) unsafe.Pointer {
	return unsafe.Pointer(p)
}
