package kukan

import "slices"

// MakeParent attaches child under parent, detaching it from any previous
// parent first. Parenting a member to itself or to one of its descendants
// is fatal.
func (s *Space) MakeParent(parent, child MemberId) {
	s.member(parent)
	s.member(child)
	if s.isAncestor(child, parent) {
		fatal(ErrHierarchyCycle, "member %d under %d", child, parent)
	}
	if s.members[child].parent == parent {
		return
	}
	s.detach(child)
	s.attach(parent, child)
}

// RemoveParent makes child a root. It does nothing for a root.
func (s *Space) RemoveParent(child MemberId) {
	s.member(child)
	if s.members[child].parent == InvalidMemberId {
		return
	}
	s.detach(child)
	Publish(&s.events, ParentChanged{Member: child, Parent: InvalidMemberId})
}

// Parent returns m's parent, or InvalidMemberId for a root.
func (s *Space) Parent(m MemberId) MemberId {
	return s.member(m).parent
}

// Children returns m's children in attach order. The slice belongs to the
// Space.
func (s *Space) Children(m MemberId) []MemberId {
	return s.member(m).children
}

// RootMembers returns the live members without a parent, in id order.
func (s *Space) RootMembers() []MemberId {
	var roots []MemberId
	for id := range s.members {
		if mem := &s.members[id]; mem.InUse() && mem.parent == InvalidMemberId {
			roots = append(roots, MemberId(id))
		}
	}
	return roots
}

// VisitMembers calls fn for every live member in id order until fn returns
// false.
func (s *Space) VisitMembers(fn func(m MemberId) bool) {
	for id := range s.members {
		if s.members[id].InUse() && !fn(MemberId(id)) {
			return
		}
	}
}

// Duplicate clones m: its name and a copy of every component. With
// duplicateChildren the subtree is cloned too. The clone is attached to m's
// parent and no VInit runs.
func (s *Space) Duplicate(m MemberId, duplicateChildren bool) MemberId {
	s.member(m)
	return s.duplicate(m, s.members[m].parent, duplicateChildren)
}

func (s *Space) duplicate(m, parent MemberId, deep bool) MemberId {
	dup := s.CreateMember()
	s.members[dup].name = s.members[m].name
	src := s.members[m]
	for i := range src.descCount {
		d := s.bin[src.descStart+i]
		id := s.tables[d.Type].Duplicate(d.Id, dup)
		s.place(dup, ComponentDescriptor{Type: d.Type, Id: id})
		Publish(&s.events, ComponentAdded{Member: dup, Type: d.Type})
	}
	if parent != InvalidMemberId {
		s.attach(parent, dup)
	}
	if deep {
		for _, c := range slices.Clone(src.children) {
			s.duplicate(c, dup, true)
		}
	}
	return dup
}

// isAncestor reports whether a is m or lies on m's parent chain.
func (s *Space) isAncestor(a, m MemberId) bool {
	for ; m != InvalidMemberId; m = s.members[m].parent {
		if m == a {
			return true
		}
	}
	return false
}

func (s *Space) attach(parent, child MemberId) {
	s.members[child].parent = parent
	s.members[parent].children = append(s.members[parent].children, child)
	Publish(&s.events, ParentChanged{Member: child, Parent: parent})
}

func (s *Space) detach(child MemberId) {
	p := s.members[child].parent
	if p == InvalidMemberId {
		return
	}
	s.members[p].children = removeValue(s.members[p].children, child)
	s.members[child].parent = InvalidMemberId
}
