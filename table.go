package kukan

import "unsafe"

// Table stores every instance of one component type, packed densely. Each
// instance is named by a table-local id that stays fixed while the instance
// moves around the dense array; owners records, per dense index, the member
// holding the instance.
//
// The backing store is a typed slice obtained from the type's TypeData, so the
// GC sees the instances; Table addresses it with pointer arithmetic only.
//
// Every instance also gets a serial that is never reused, so a recycled id
// can be told apart from the instance it replaced.
type Table struct {
	data       *TypeData
	ids        SparseSet
	owners     []MemberId
	serials    []uint64
	nextSerial uint64
	store      any
	base       unsafe.Pointer
	capacity   int
}

func newTable(td *TypeData) *Table {
	return &Table{data: td}
}

// Add default-constructs a new instance owned by owner and returns its id.
func (t *Table) Add(owner MemberId) int {
	if t.ids.Len() == t.capacity {
		t.grow(max(sparseSetStartCapacity, t.capacity*2))
	}
	id := t.ids.Add()
	t.data.DefaultConstruct(t.at(t.ids.Len() - 1))
	t.owners = append(t.owners, owner)
	t.nextSerial++
	t.serials = append(t.serials, t.nextSerial)
	return id
}

// Duplicate copy-constructs a new instance from id for newOwner and returns
// the new id.
func (t *Table) Duplicate(id int, newOwner MemberId) int {
	t.check(id)
	dup := t.Add(newOwner)
	t.data.CopyConstruct(t.at(t.ids.Len()-1), t.at(t.ids.DenseIndex(id)))
	return dup
}

// Remove destroys instance id. The last dense instance is move-assigned into
// the freed slot and the vacated last slot is destructed.
func (t *Table) Remove(id int) {
	t.check(id)
	i := t.ids.DenseIndex(id)
	last := t.ids.Len() - 1
	if i != last {
		t.data.MoveAssign(t.at(i), t.at(last))
		t.owners[i] = t.owners[last]
		t.serials[i] = t.serials[last]
	}
	t.data.Destruct(t.at(last))
	t.owners = t.owners[:last]
	t.serials = t.serials[:last]
	t.ids.Remove(id)
}

// Get returns the address of instance id. It is invalidated when the table
// grows or when another instance of this table is removed.
func (t *Table) Get(id int) unsafe.Pointer {
	t.check(id)
	return t.at(t.ids.DenseIndex(id))
}

// GetDense returns the address of the instance at dense index i.
func (t *Table) GetDense(i int) unsafe.Pointer {
	if i < 0 || i >= t.ids.Len() {
		fatal(ErrInvalidIndex, "%s table dense index %d of %d", t.data.Name, i, t.ids.Len())
	}
	return t.at(i)
}

// Valid reports whether id names a live instance.
func (t *Table) Valid(id int) bool {
	return t.ids.Valid(id)
}

// Owner returns the member holding instance id.
func (t *Table) Owner(id int) MemberId {
	t.check(id)
	return t.owners[t.ids.DenseIndex(id)]
}

// Serial returns the serial of instance id.
func (t *Table) Serial(id int) uint64 {
	t.check(id)
	return t.serials[t.ids.DenseIndex(id)]
}

// Owners returns the owning members in dense order. The slice belongs to the
// table and changes with it.
func (t *Table) Owners() []MemberId {
	return t.owners
}

// Ids returns the live instance ids in dense order.
func (t *Table) Ids() []int {
	return t.ids.Dense()
}

// Len returns the number of live instances.
func (t *Table) Len() int {
	return t.ids.Len()
}

// Stride returns the distance in bytes between two consecutive instances.
func (t *Table) Stride() uintptr {
	return t.data.Size
}

// Type returns the type stored in the table.
func (t *Table) Type() *TypeData {
	return t.data
}

// Clear destructs every instance and forgets all ids. Storage is kept.
func (t *Table) Clear() {
	for i := range t.ids.Len() {
		t.data.Destruct(t.at(i))
	}
	t.ids.Clear()
	t.owners = t.owners[:0]
	t.serials = t.serials[:0]
}

func (t *Table) check(id int) {
	if !t.ids.Valid(id) {
		fatal(ErrInvalidIndex, "%s table id %d", t.data.Name, id)
	}
}

func (t *Table) at(i int) unsafe.Pointer {
	return unsafe.Add(t.base, uintptr(i)*t.data.Size)
}

// grow moves every live instance into fresh storage of newCap instances.
func (t *Table) grow(newCap int) {
	store, base := t.data.Allocate(newCap)
	n := t.ids.Len()
	for i := range n {
		src := t.at(i)
		dst := unsafe.Add(base, uintptr(i)*t.data.Size)
		t.data.MoveConstruct(dst, src)
		t.data.Destruct(src)
	}
	t.store, t.base, t.capacity = store, base, newCap
}

// tableSlice views the live instances of t as a []T. T must be the table's type.
func tableSlice[T any](t *Table) []T {
	if t == nil {
		return nil
	}
	s, ok := t.store.([]T)
	if !ok {
		return nil
	}
	return s[:t.Len()]
}
