package kukan

import (
	"unsafe"

	"go.uber.org/zap"
)

// Space owns every member, component Table and descriptor of one world. All
// access is single-threaded.
//
// Each member's components are a contiguous run in a shared descriptor bin.
// When a run cannot grow in place it is moved to the tail of the bin and the
// old slots become holes other members can grow into. Under adversarial
// interleaving this costs O(members) per add.
type Space struct {
	name      string
	cfg       Config
	logger    *zap.Logger
	tables    []*Table
	members   []Member
	bin       []ComponentDescriptor
	freeIds   []MemberId
	liveCount int
	resources Resources
	events    EventBus
	scratch   []dispatchEntry
}

// Option configures a Space.
type Option func(*Space)

// WithConfig sizes the Space from cfg. The Space takes cfg.Name unless
// WithName is also given.
func WithConfig(cfg Config) Option {
	return func(s *Space) {
		s.cfg = cfg
	}
}

// WithLogger sets the logger for data errors met while deserializing.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Space) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithName names the Space.
func WithName(name string) Option {
	return func(s *Space) {
		s.name = name
	}
}

// NewSpace creates an empty Space.
func NewSpace(opts ...Option) *Space {
	s := &Space{
		cfg:    DefaultConfig(),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.name == "" {
		s.name = s.cfg.Name
	}
	s.resources.events = &s.events
	s.members = make([]Member, 0, s.cfg.MemberCapacity)
	s.bin = make([]ComponentDescriptor, 0, s.cfg.DescriptorCapacity)
	s.logger = s.logger.With(zap.String("space", s.name))
	return s
}

// CreateMember returns a new member with no components. The most recently
// deleted id is reused first.
func (s *Space) CreateMember() MemberId {
	var id MemberId
	if n := len(s.freeIds); n > 0 {
		id = s.freeIds[n-1]
		s.freeIds = s.freeIds[:n-1]
	} else {
		id = MemberId(len(s.members))
		s.members = append(s.members, Member{})
	}
	s.members[id] = Member{descStart: len(s.bin), parent: InvalidMemberId}
	s.liveCount++
	Publish(&s.events, MemberCreated{Member: id})
	return id
}

// CreateChildMember creates a member and attaches it under parent.
func (s *Space) CreateChildMember(parent MemberId) MemberId {
	s.member(parent)
	id := s.CreateMember()
	s.attach(parent, id)
	return id
}

// DeleteMember deletes m's children depth-first, then every component of m
// (last to first), detaches m from its parent and recycles its id.
func (s *Space) DeleteMember(m MemberId) {
	s.member(m)
	for {
		children := s.members[m].children
		if len(children) == 0 {
			break
		}
		s.DeleteMember(children[len(children)-1])
	}
	for s.members[m].descCount > 0 {
		mem := &s.members[m]
		d := s.bin[mem.descStart+mem.descCount-1]
		s.RemComponent(d.Type, m)
	}
	s.detach(m)
	s.members[m].release()
	s.freeIds = append(s.freeIds, m)
	s.liveCount--
	Publish(&s.events, MemberDeleted{Member: m})
}

// Clear deletes every member and forgets the free list, so the next created
// member is 0 again. Tables and resources are kept.
//
// When no live component binds VDestroy and nothing listens for
// MemberDeleted or ComponentRemoved, the Tables are emptied in one step
// instead of member by member; nothing observable differs.
func (s *Space) Clear() {
	if s.observesDeletion() {
		for id := range s.members {
			mem := &s.members[id]
			if mem.InUse() && mem.parent == InvalidMemberId {
				s.DeleteMember(MemberId(id))
			}
		}
	} else {
		for _, table := range s.tables {
			if table != nil {
				table.Clear()
			}
		}
	}
	s.members = s.members[:0]
	s.freeIds = s.freeIds[:0]
	s.bin = s.bin[:0]
	s.liveCount = 0
}

// observesDeletion reports whether deleting members one by one would run a
// hook or publish to a subscriber.
func (s *Space) observesDeletion() bool {
	if hasSubscribers[MemberDeleted](&s.events) || hasSubscribers[ComponentRemoved](&s.events) {
		return true
	}
	for _, table := range s.tables {
		if table != nil && table.Len() > 0 && table.data.VDestroy != nil {
			return true
		}
	}
	return false
}

// AddComponent adds a component of type t to member m and returns its
// address. The Table of t is created on first use.
//
// Every dependency of t that m lacks is added first, recursively and in
// declared order, so a member never holds a component without the components
// it depends on. The new descriptor extends m's run in the descriptor bin:
// in place when the next slot is free, otherwise the run moves to the tail.
//
// Parameters:
//   - t: A registered TypeId.
//   - m: A live member that does not hold a t yet.
//   - init: Whether VInit runs on t and on every dependency added with it.
//
// Returns:
//   - The address of the new component, valid until the next add to or
//     remove from the same Table.
//
// A duplicate component, an invalid member or an unregistered type (t or
// any dependency) is fatal. ComponentAdded is published once per component,
// dependencies first.
func (s *Space) AddComponent(t TypeId, m MemberId, init bool) unsafe.Pointer {
	s.member(m)
	td := Type(t)
	if s.findDescriptor(m, t) >= 0 {
		fatal(ErrDuplicateComponent, "%s on member %d", td.Name, m)
	}
	for _, dep := range td.Dependencies {
		if TryType(dep) == nil {
			fatal(ErrUnregisteredType, "dependency %d of %s", dep, td.Name)
		}
		if s.findDescriptor(m, dep) < 0 {
			s.AddComponent(dep, m, init)
		}
	}
	table := s.table(td)
	id := table.Add(m)
	s.place(m, ComponentDescriptor{Type: t, Id: id})
	if init && td.VInit != nil {
		td.VInit(table.Get(id), Object{Space: s, Member: m})
	}
	Publish(&s.events, ComponentAdded{Member: m, Type: t})
	return table.Get(id)
}

// EnsureComponent returns m's component of type t, adding it when missing.
func (s *Space) EnsureComponent(t TypeId, m MemberId, init bool) unsafe.Pointer {
	if p := s.TryGetComponent(t, m); p != nil {
		return p
	}
	return s.AddComponent(t, m, init)
}

// GetComponent returns the address of m's component of type t. A missing
// component is fatal. The address is invalidated by the next add to or
// remove from the same Table.
func (s *Space) GetComponent(t TypeId, m MemberId) unsafe.Pointer {
	p := s.TryGetComponent(t, m)
	if p == nil {
		fatal(ErrMissingComponent, "type %d on member %d", t, m)
	}
	return p
}

// TryGetComponent is GetComponent returning nil for a missing component.
func (s *Space) TryGetComponent(t TypeId, m MemberId) unsafe.Pointer {
	s.member(m)
	i := s.findDescriptor(m, t)
	if i < 0 {
		return nil
	}
	return s.tables[t].Get(s.bin[i].Id)
}

// HasComponent reports whether m holds a component of type t.
func (s *Space) HasComponent(t TypeId, m MemberId) bool {
	s.member(m)
	return s.findDescriptor(m, t) >= 0
}

// RemComponent removes member m's component of type t.
//
// Components of m that depend on t are removed first, dependants before
// their dependencies, so no component outlives one it needs. For each
// removed component VDestroy runs while it is still in its Table; then the
// last instance of the Table takes over its slot and m's run is compacted by
// moving its last descriptor into the hole.
//
// Parameters:
//   - t: The TypeId to remove.
//   - m: A live member holding a t.
//
// Removing a component m does not hold is fatal. ComponentRemoved is
// published after each instance left its Table.
func (s *Space) RemComponent(t TypeId, m MemberId) {
	s.member(m)
	td := Type(t)
	if s.findDescriptor(m, t) < 0 {
		fatal(ErrMissingComponent, "%s on member %d", td.Name, m)
	}
	for _, dep := range td.Dependants {
		if s.findDescriptor(m, dep) >= 0 {
			s.RemComponent(dep, m)
		}
	}
	table := s.tables[t]
	if td.VDestroy != nil {
		td.VDestroy(table.Get(s.bin[s.findDescriptor(m, t)].Id), Object{Space: s, Member: m})
	}
	i := s.findDescriptor(m, t)
	if i < 0 {
		return
	}
	table.Remove(s.bin[i].Id)

	mem := &s.members[m]
	last := mem.descStart + mem.descCount - 1
	s.bin[i] = s.bin[last]
	s.bin[last] = unusedDescriptor
	mem.descCount--
	Publish(&s.events, ComponentRemoved{Member: m, Type: t})
}

// GetDescriptors returns m's descriptor run. The slice aliases the bin and is
// invalidated by the next component add or remove.
func (s *Space) GetDescriptors(m MemberId) []ComponentDescriptor {
	mem := s.member(m)
	end := mem.descStart + mem.descCount
	return s.bin[mem.descStart:end:end]
}

// Member returns the record of a live member.
func (s *Space) Member(m MemberId) *Member {
	return s.member(m)
}

// ValidMember reports whether m names a live member.
func (s *Space) ValidMember(m MemberId) bool {
	return m >= 0 && int(m) < len(s.members) && s.members[m].InUse()
}

// MemberCount returns the number of live members.
func (s *Space) MemberCount() int {
	return s.liveCount
}

// Name returns the name of m.
func (s *Space) Name(m MemberId) string {
	return s.member(m).name
}

// SetName renames m.
func (s *Space) SetName(m MemberId, name string) {
	s.member(m).name = name
}

// SpaceName returns the name of the Space itself.
func (s *Space) SpaceName() string {
	return s.name
}

// SetSpaceName renames the Space.
func (s *Space) SetSpaceName(name string) {
	s.name = name
}

// Table returns the Table of t, or nil if no member ever held a t.
func (s *Space) Table(t TypeId) *Table {
	if t < 0 || int(t) >= len(s.tables) {
		return nil
	}
	return s.tables[t]
}

// DescriptorBin returns the whole descriptor bin, holes included.
func (s *Space) DescriptorBin() []ComponentDescriptor {
	return s.bin
}

// Resources returns the Space's resource store.
func (s *Space) Resources() *Resources {
	return &s.resources
}

// Events returns the bus lifecycle events are published on.
func (s *Space) Events() *EventBus {
	return &s.events
}

// Logger returns the Space's logger.
func (s *Space) Logger() *zap.Logger {
	return s.logger
}

func (s *Space) member(m MemberId) *Member {
	if !s.ValidMember(m) {
		fatal(ErrInvalidMember, "member %d", m)
	}
	return &s.members[m]
}

// table returns the Table of td, creating it on first use.
func (s *Space) table(td *TypeData) *Table {
	if int(td.id) >= len(s.tables) {
		s.tables = extendSlice(s.tables, int(td.id)+1-len(s.tables))
	}
	if s.tables[td.id] == nil {
		s.tables[td.id] = newTable(td)
	}
	return s.tables[td.id]
}

// findDescriptor returns the bin index of m's descriptor for t, or -1.
func (s *Space) findDescriptor(m MemberId, t TypeId) int {
	mem := &s.members[m]
	for i := mem.descStart; i < mem.descStart+mem.descCount; i++ {
		if s.bin[i].Type == t {
			return i
		}
	}
	return -1
}

// place appends d to m's run. The run grows in place when the slot after it
// is past the bin's end or a hole; otherwise the whole run moves to the tail.
func (s *Space) place(m MemberId, d ComponentDescriptor) {
	mem := &s.members[m]
	next := mem.descStart + mem.descCount
	switch {
	case next >= len(s.bin):
		s.bin = append(s.bin, d)
		mem.descStart = len(s.bin) - 1 - mem.descCount
	case s.bin[next].Unused():
		s.bin[next] = d
	default:
		start := len(s.bin)
		for i := mem.descStart; i < next; i++ {
			s.bin = append(s.bin, s.bin[i])
			s.bin[i] = unusedDescriptor
		}
		mem.descStart = start
		s.bin = append(s.bin, d)
	}
	mem.descCount++
}
