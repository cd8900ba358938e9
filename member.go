package kukan

// MemberId names one member of a Space. Ids are dense and recycled.
type MemberId int

// InvalidMemberId is the parent of root members and the result of lookups
// that found nothing.
const InvalidMemberId MemberId = -1

const unusedRun = -1

// Member is the lifecycle record of one entity. Its components are the run of
// descriptors [descStart, descStart+descCount) in the Space's descriptor bin.
type Member struct {
	descStart int
	descCount int
	parent    MemberId
	children  []MemberId
	name      string
}

// InUse reports whether the record belongs to a live member.
func (m *Member) InUse() bool {
	return m.descStart != unusedRun
}

// DescriptorStart returns the first bin index of the member's run.
func (m *Member) DescriptorStart() int {
	return m.descStart
}

// DescriptorCount returns the number of components the member holds.
func (m *Member) DescriptorCount() int {
	return m.descCount
}

// Parent returns the member's parent, or InvalidMemberId for a root.
func (m *Member) Parent() MemberId {
	return m.parent
}

// Children returns the member's children in attach order. The slice belongs
// to the member.
func (m *Member) Children() []MemberId {
	return m.children
}

// Name returns the member name.
func (m *Member) Name() string {
	return m.name
}

func (m *Member) release() {
	*m = Member{descStart: unusedRun, parent: InvalidMemberId}
}

// ComponentDescriptor locates one component: its type and its id within the
// type's Table. A descriptor whose Type is InvalidTypeId is a hole in the bin.
type ComponentDescriptor struct {
	Type TypeId
	Id   int
}

var unusedDescriptor = ComponentDescriptor{Type: InvalidTypeId, Id: -1}

// Unused reports whether the descriptor is a hole.
func (d ComponentDescriptor) Unused() bool {
	return d.Type == InvalidTypeId
}
