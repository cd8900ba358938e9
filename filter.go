package kukan

// Filter iterates over every live component of type T in a Space, in the
// dense order of T's Table.
//
//	f := kukan.NewFilter[Transform](space)
//	for f.Next() {
//	    f.Get().X += 1
//	}
//
// Removing a T during iteration moves the last instance into the freed slot;
// call Reset afterwards rather than continuing.
type Filter[T any] struct {
	space  *Space
	typeId TypeId
	table  *Table
	curIdx int
}

// NewFilter creates a Filter over the T components of s. T need not be
// registered yet, and no Table has to exist: such a filter is simply empty
// until Reset finds one.
//
// Parameters:
//   - s: The Space to iterate.
//
// Returns:
//   - A Filter positioned before the first component.
func NewFilter[T any](s *Space) *Filter[T] {
	f := &Filter[T]{space: s, typeId: TypeIdOf[T]()}
	f.Reset()
	return f
}

// Reset rewinds the filter. It also picks up T's Table if it was created
// after the filter.
func (f *Filter[T]) Reset() {
	if f.table == nil {
		f.table = f.space.Table(f.typeId)
	}
	f.curIdx = -1
}

// Next advances to the next component and reports whether there was one.
func (f *Filter[T]) Next() bool {
	if f.table == nil {
		return false
	}
	f.curIdx++
	return f.curIdx < f.table.Len()
}

// Member returns the owner of the current component.
func (f *Filter[T]) Member() MemberId {
	return f.table.owners[f.curIdx]
}

// Get returns the current component.
func (f *Filter[T]) Get() *T {
	return (*T)(f.table.GetDense(f.curIdx))
}

// Len returns the number of components the filter visits.
func (f *Filter[T]) Len() int {
	if f.table == nil {
		return 0
	}
	return f.table.Len()
}

// Members returns the owners of every component in visiting order. The slice
// belongs to the Space.
func (f *Filter[T]) Members() []MemberId {
	if f.table == nil {
		return nil
	}
	return f.table.Owners()
}
