package kukan

import (
	"reflect"
	"slices"
)

// Resources holds the collaborators hooks reach through their Object: a
// script host, an asset cache, a hook log in tests. A Space keeps one, and at
// most one resource per dynamic type.
//
// Resource ids come from a SparseSet, so removed ids are handed out again,
// most recent first. Resources outlive Space.Clear and Space.Deserialize;
// only Remove and Clear drop them. When owned by a Space, every addition and
// removal is published on the Space's EventBus as ResourceAdded and
// ResourceRemoved.
type Resources struct {
	ids    SparseSet
	items  []any
	byType map[reflect.Type]int
	events *EventBus
}

// Add stores res and returns its id.
//
// Parameters:
//   - res: The resource, usually a pointer. Lookups by type key on its
//     dynamic type, so GetResource[T] finds a *T.
//
// Returns:
//   - The id of the stored resource.
//
// A nil resource, or a second resource of the same type, is fatal.
func (r *Resources) Add(res any) int {
	if res == nil {
		fatal(ErrInvalidResource, "nil resource")
	}
	t := reflect.TypeOf(res)
	if _, ok := r.byType[t]; ok {
		fatal(ErrInvalidResource, "resource %v already present", t)
	}
	if r.byType == nil {
		r.byType = make(map[reflect.Type]int)
	}
	id := r.ids.Add()
	if id >= len(r.items) {
		r.items = extendSlice(r.items, id+1-len(r.items))
	}
	r.items[id] = res
	r.byType[t] = id
	if r.events != nil {
		Publish(r.events, ResourceAdded{Id: id, Type: t})
	}
	return id
}

// Has reports whether id holds a resource.
func (r *Resources) Has(id int) bool {
	return r.ids.Valid(id)
}

// Get returns the resource stored under id, or nil.
func (r *Resources) Get(id int) any {
	if !r.ids.Valid(id) {
		return nil
	}
	return r.items[id]
}

// Remove drops the resource stored under id, if any.
func (r *Resources) Remove(id int) {
	if !r.ids.Valid(id) {
		return
	}
	t := reflect.TypeOf(r.items[id])
	delete(r.byType, t)
	r.items[id] = nil
	r.ids.Remove(id)
	if r.events != nil {
		Publish(r.events, ResourceRemoved{Id: id, Type: t})
	}
}

// Len returns the number of stored resources.
func (r *Resources) Len() int {
	return r.ids.Len()
}

// Clear drops every resource, in id order, and restarts ids at 0.
func (r *Resources) Clear() {
	ids := slices.Clone(r.ids.Dense())
	slices.Sort(ids)
	for _, id := range ids {
		r.Remove(id)
	}
	r.ids.Clear()
}

// HasResource reports whether a *T is stored, and under which id.
func HasResource[T any](r *Resources) (bool, int) {
	if id, ok := r.byType[reflect.TypeFor[*T]()]; ok {
		return true, id
	}
	return false, -1
}

// GetResource returns the stored *T and its id, or nil and -1.
func GetResource[T any](r *Resources) (*T, int) {
	if id, ok := r.byType[reflect.TypeFor[*T]()]; ok {
		return r.items[id].(*T), id
	}
	return nil, -1
}

// RemoveResource drops the stored *T, if any.
func RemoveResource[T any](r *Resources) {
	if ok, id := HasResource[T](r); ok {
		r.Remove(id)
	}
}
