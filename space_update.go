package kukan

import "unsafe"

type dispatchEntry struct {
	owner  MemberId
	id     int
	serial uint64
}

// Update runs VUpdate once on every component whose type binds it, Table by
// Table in TypeId order. It is the per-frame entry point of the Space.
//
// Hooks may add or remove components and members freely. Each Table's
// instances are snapshotted before its pass; an instance removed during the
// pass is skipped and one added during it waits for the next Update.
func (s *Space) Update() {
	s.dispatch(func(td *TypeData) func(unsafe.Pointer, Object) { return td.VUpdate })
}

// SubmitRenderables runs VRenderable on every component whose type binds it,
// under the same rules as Update.
func (s *Space) SubmitRenderables() {
	s.dispatch(func(td *TypeData) func(unsafe.Pointer, Object) { return td.VRenderable })
}

// Edit runs VEdit on m's component of type t and reports whether the type
// binds it. A missing component is fatal.
func (s *Space) Edit(t TypeId, m MemberId) bool {
	td := Type(t)
	p := s.GetComponent(t, m)
	if td.VEdit == nil {
		return false
	}
	td.VEdit(p, Object{Space: s, Member: m})
	return true
}

// GizmoEdit runs VGizmoEdit on m's component of type t and reports whether
// the type binds it. A missing component is fatal.
func (s *Space) GizmoEdit(t TypeId, m MemberId) bool {
	td := Type(t)
	p := s.GetComponent(t, m)
	if td.VGizmoEdit == nil {
		return false
	}
	td.VGizmoEdit(p, Object{Space: s, Member: m})
	return true
}

func (s *Space) dispatch(hookOf func(*TypeData) func(unsafe.Pointer, Object)) {
	// taken so that a hook dispatching again gets its own buffer
	snapshot := s.scratch
	s.scratch = nil
	defer func() { s.scratch = snapshot[:0] }()

	n := len(s.tables)
	for t := range n {
		table := s.tables[t]
		if table == nil || table.Len() == 0 {
			continue
		}
		hook := hookOf(table.data)
		if hook == nil {
			continue
		}
		snapshot = snapshot[:0]
		for i, id := range table.Ids() {
			snapshot = append(snapshot, dispatchEntry{owner: table.owners[i], id: id, serial: table.serials[i]})
		}
		for _, e := range snapshot {
			if !table.Valid(e.id) || table.Serial(e.id) != e.serial {
				continue
			}
			hook(table.Get(e.id), Object{Space: s, Member: e.owner})
		}
	}
}
