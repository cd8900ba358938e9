package kukan

// sparseSetStartCapacity is the capacity of a SparseSet on its first growth.
const sparseSetStartCapacity = 10

// SparseSet hands out small integer ids and keeps the active ones packed at the
// front of a dense array. It gives O(1) add, remove and validity checks, and
// decouples an id (which never moves) from its dense position (which does).
//
// For every active id, dense[sparse[id]] == id. Slots past denseUsage hold the
// inactive ids; a freshly grown slot maps to itself.
type SparseSet struct {
	dense      []int
	sparse     []int
	denseUsage int
}

// Add activates and returns the next unused id. The most recently removed id is
// handed out first; otherwise the lowest id that was never used.
func (s *SparseSet) Add() int {
	if s.denseUsage == len(s.dense) {
		s.grow(s.nextCapacity(s.denseUsage + 1))
	}
	id := s.dense[s.denseUsage]
	s.denseUsage++
	return id
}

// Request activates a specific id, growing the set when the id lies past the
// current capacity. Requesting an id that is already active is fatal.
func (s *SparseSet) Request(id int) {
	if id < 0 {
		fatal(ErrInvalidIndex, "sparse set request %d", id)
	}
	if id >= len(s.sparse) {
		s.grow(s.nextCapacity(id + 1))
	}
	if s.Valid(id) {
		fatal(ErrActiveId, "sparse set request %d", id)
	}
	s.swap(s.sparse[id], s.denseUsage)
	s.denseUsage++
}

// Remove deactivates id. The last active id takes over its dense slot, which
// is why callers mirroring the dense order must perform the same swap.
func (s *SparseSet) Remove(id int) {
	if !s.Valid(id) {
		fatal(ErrInvalidIndex, "sparse set remove %d", id)
	}
	s.swap(s.sparse[id], s.denseUsage-1)
	s.denseUsage--
}

// Valid reports whether id is currently active.
func (s *SparseSet) Valid(id int) bool {
	return id >= 0 && id < len(s.sparse) && s.sparse[id] < s.denseUsage
}

// DenseIndex returns the dense position of an active id.
func (s *SparseSet) DenseIndex(id int) int {
	if !s.Valid(id) {
		fatal(ErrInvalidIndex, "sparse set dense index of %d", id)
	}
	return s.sparse[id]
}

// Dense returns the active ids in dense order. The slice is owned by the set
// and is invalidated by the next mutation.
func (s *SparseSet) Dense() []int {
	return s.dense[:s.denseUsage]
}

// Len returns the number of active ids.
func (s *SparseSet) Len() int {
	return s.denseUsage
}

// Capacity returns the number of ids the set can track without growing.
func (s *SparseSet) Capacity() int {
	return len(s.dense)
}

// Clear deactivates every id and restores the identity mapping.
func (s *SparseSet) Clear() {
	for i := range s.dense {
		s.dense[i] = i
		s.sparse[i] = i
	}
	s.denseUsage = 0
}

func (s *SparseSet) swap(a, b int) {
	if a == b {
		return
	}
	idA, idB := s.dense[a], s.dense[b]
	s.dense[a], s.dense[b] = idB, idA
	s.sparse[idA] = b
	s.sparse[idB] = a
}

// nextCapacity doubles from the start capacity until need fits.
func (s *SparseSet) nextCapacity(need int) int {
	newCap := len(s.dense) * 2
	if newCap == 0 {
		newCap = sparseSetStartCapacity
	}
	for newCap < need {
		newCap *= 2
	}
	return newCap
}

func (s *SparseSet) grow(newCap int) {
	oldCap := len(s.dense)
	s.dense = extendSlice(s.dense, newCap-oldCap)
	s.sparse = extendSlice(s.sparse, newCap-oldCap)
	for i := oldCap; i < newCap; i++ {
		s.dense[i] = i
		s.sparse[i] = i
	}
}
