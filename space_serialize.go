package kukan

import (
	"math"

	"github.com/edwinsyarief/kukan/doc"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// Document keys.
const (
	keyName       = "Name"
	keyMembers    = "Members"
	keyId         = "Id"
	keyParent     = "Parent"
	keyChildren   = "Children"
	keyComponents = "Components"
)

// maxDocumentMemberId caps the ids Deserialize accepts, since member storage
// is sized to the largest one.
const maxDocumentMemberId = 1 << 24

// ErrMalformedDocument is returned by Deserialize for a document it cannot
// read at all.
var ErrMalformedDocument = eris.New("kukan: malformed space document")

// Serialize writes the Space into val as
//
//	{Name, Members: [{Id, Name, Parent?, Children?, Components: {TypeName: value}}]}
//
// with members in id order. A component whose type has no VSerialize is
// written as an empty object.
func (s *Space) Serialize(val *doc.Value) {
	val.SetObject()
	val.Field(keyName).SetString(s.name)
	members := val.Field(keyMembers).SetArray()
	for id := range s.members {
		mem := &s.members[id]
		if !mem.InUse() {
			continue
		}
		mv := members.Append().SetObject()
		mv.Field(keyId).SetInt(int64(id))
		mv.Field(keyName).SetString(mem.name)
		if mem.parent != InvalidMemberId {
			mv.Field(keyParent).SetInt(int64(mem.parent))
		}
		if len(mem.children) > 0 {
			children := mv.Field(keyChildren).SetArray()
			for _, c := range mem.children {
				children.Append().SetInt(int64(c))
			}
		}
		comps := mv.Field(keyComponents).SetObject()
		for _, d := range s.bin[mem.descStart : mem.descStart+mem.descCount] {
			td := Type(d.Type)
			cv := comps.Field(td.Name)
			if td.VSerialize != nil {
				td.VSerialize(s.tables[d.Type].Get(d.Id), cv)
			} else {
				cv.SetObject()
			}
		}
	}
}

type documentMember struct {
	id  MemberId
	val *doc.Value
}

// Deserialize replaces the contents of the Space with the members in val.
//
// Member storage is sized to the largest id found; the ids in between go to
// the free list, smallest first. Components are added through the dependency
// cascade without init, then read with VDeserialize, or initialized with VInit
// when the type cannot deserialize or was only pulled in as a dependency.
//
// Bad member data is logged and skipped: entries without a usable Id, ids
// seen twice, unknown type names, dangling or cyclic parent links and
// VDeserialize failures (the component is left default-constructed).
//
// Parameters:
//   - val: A document in the shape Serialize writes, from any grammar.
//
// Returns:
//   - An error wrapping ErrMalformedDocument when val is not an object or has
//     no Members array. The Space is left untouched in that case.
func (s *Space) Deserialize(val *doc.Value) error {
	if val.Kind() != doc.Object {
		return eris.Wrapf(ErrMalformedDocument, "root is %s", val.Kind())
	}
	membersVal := val.Get(keyMembers)
	if membersVal.Kind() != doc.Array {
		return eris.Wrapf(ErrMalformedDocument, "%s is %s", keyMembers, membersVal.Kind())
	}

	s.Clear()
	if name, err := val.Get(keyName).AsString(); err == nil {
		s.name = name
	}

	entries := s.readMemberIds(membersVal)
	s.rebuildMembers(entries)
	s.rebuildHierarchy(entries)
	for _, e := range entries {
		s.readComponents(e)
	}
	return nil
}

func (s *Space) readMemberIds(membersVal *doc.Value) []documentMember {
	entries := make([]documentMember, 0, membersVal.Len())
	seen := make(map[MemberId]struct{}, membersVal.Len())
	for i := range membersVal.Len() {
		mv := membersVal.At(i)
		raw, err := mv.Get(keyId).AsInt()
		if err != nil {
			s.logger.Warn("deserialize: member without id", zap.Int("index", i), zap.Error(err))
			continue
		}
		if raw < 0 || raw > maxDocumentMemberId {
			s.logger.Warn("deserialize: member id out of range", zap.Int("index", i), zap.Int64("member", raw))
			continue
		}
		id := MemberId(raw)
		if _, ok := seen[id]; ok {
			s.logger.Warn("deserialize: colliding member id", zap.Int("index", i), zap.Int("member", int(id)))
			continue
		}
		seen[id] = struct{}{}
		entries = append(entries, documentMember{id: id, val: mv})
	}
	return entries
}

func (s *Space) rebuildMembers(entries []documentMember) {
	size := 0
	for _, e := range entries {
		size = max(size, int(e.id)+1)
	}
	s.members = extendSlice(s.members[:0], size)
	for id := range s.members {
		s.members[id].release()
	}
	for _, e := range entries {
		name, _ := e.val.Get(keyName).AsString()
		s.members[e.id] = Member{descStart: 0, parent: InvalidMemberId, name: name}
	}
	for id := size - 1; id >= 0; id-- {
		if !s.members[id].InUse() {
			s.freeIds = append(s.freeIds, MemberId(id))
		}
	}
	s.liveCount = len(entries)
	for id := range s.members {
		if s.members[id].InUse() {
			Publish(&s.events, MemberCreated{Member: MemberId(id)})
		}
	}
}

// rebuildHierarchy attaches children in the order of each Children array,
// then honors Parent links not covered by one.
func (s *Space) rebuildHierarchy(entries []documentMember) {
	for _, e := range entries {
		children := e.val.Get(keyChildren)
		for i := range children.Len() {
			c, ok := s.readMemberRef(e.id, children.At(i), keyChildren)
			if !ok {
				continue
			}
			if s.members[c].parent != InvalidMemberId {
				s.logger.Warn("deserialize: child listed twice", zap.Int("member", int(e.id)), zap.Int("child", int(c)))
				continue
			}
			s.attach(e.id, c)
		}
	}
	for _, e := range entries {
		pv := e.val.Get(keyParent)
		if pv == nil {
			continue
		}
		p, ok := s.readMemberRef(e.id, pv, keyParent)
		if !ok || s.members[e.id].parent == p {
			continue
		}
		if s.members[e.id].parent != InvalidMemberId {
			s.logger.Warn("deserialize: conflicting parent", zap.Int("member", int(e.id)), zap.Int("parent", int(p)))
			continue
		}
		if s.isAncestor(e.id, p) {
			s.logger.Warn("deserialize: parent cycle", zap.Int("member", int(e.id)), zap.Int("parent", int(p)))
			continue
		}
		s.attach(p, e.id)
	}
}

// readMemberRef reads a reference from member m to another live member. For
// Children the cycle check runs against m as the would-be parent.
func (s *Space) readMemberRef(m MemberId, v *doc.Value, key string) (MemberId, bool) {
	raw, err := v.AsInt()
	if err != nil {
		s.logger.Warn("deserialize: malformed member reference", zap.Int("member", int(m)), zap.String("key", key), zap.Error(err))
		return InvalidMemberId, false
	}
	if raw < 0 || raw > math.MaxInt32 || !s.ValidMember(MemberId(raw)) || MemberId(raw) == m {
		s.logger.Warn("deserialize: dangling member reference", zap.Int("member", int(m)), zap.String("key", key), zap.Int64("ref", raw))
		return InvalidMemberId, false
	}
	ref := MemberId(raw)
	if key == keyChildren && s.isAncestor(ref, m) {
		s.logger.Warn("deserialize: parent cycle", zap.Int("member", int(ref)), zap.Int("parent", int(m)))
		return InvalidMemberId, false
	}
	return ref, true
}

func (s *Space) readComponents(e documentMember) {
	comps := e.val.Get(keyComponents)
	if comps == nil {
		return
	}
	if comps.Kind() != doc.Object {
		s.logger.Warn("deserialize: components are not an object", zap.Int("member", int(e.id)), zap.Stringer("kind", comps.Kind()))
		return
	}
	listed := make(map[TypeId]*doc.Value, comps.Len())
	for _, name := range comps.Keys() {
		t, ok := TypeIdByName(name)
		if !ok {
			s.logger.Warn("deserialize: unknown component type", zap.Int("member", int(e.id)), zap.String("type", name))
			continue
		}
		listed[t] = comps.Get(name)
		if !s.HasComponent(t, e.id) {
			s.AddComponent(t, e.id, false)
		}
	}

	// run order puts dependencies ahead of their dependants
	mem := &s.members[e.id]
	types := make([]TypeId, 0, mem.descCount)
	for _, d := range s.bin[mem.descStart : mem.descStart+mem.descCount] {
		types = append(types, d.Type)
	}
	for _, t := range types {
		if !s.HasComponent(t, e.id) {
			continue
		}
		td := Type(t)
		owner := Object{Space: s, Member: e.id}
		cv, isListed := listed[t]
		if isListed && td.VDeserialize != nil {
			err := td.VDeserialize(s.GetComponent(t, e.id), cv)
			if err == nil {
				continue
			}
			s.logger.Warn("deserialize: component data", zap.Int("member", int(e.id)), zap.String("type", td.Name), zap.Error(err))
			td.DefaultConstruct(s.GetComponent(t, e.id))
		}
		if td.VInit != nil {
			td.VInit(s.GetComponent(t, e.id), owner)
		}
	}
}
