package kukan

import (
	"reflect"
	"slices"
	"unsafe"

	"github.com/edwinsyarief/kukan/doc"
)

// TypeId is the process-wide identifier of a component type. Ids are handed
// out on first touch, in order, and never change afterwards.
type TypeId int

// InvalidTypeId marks an unused descriptor.
const InvalidTypeId TypeId = -1

// TypeData describes one registered component type: its layout, the
// type-erased lifetime operations the Tables use to manage instances, and the
// hook delegates the type opted into. A nil delegate means the hook is absent.
type TypeData struct {
	Name string
	Type reflect.Type
	Size uintptr

	DefaultConstruct func(p unsafe.Pointer)
	CopyConstruct    func(dst, src unsafe.Pointer)
	MoveConstruct    func(dst, src unsafe.Pointer)
	MoveAssign       func(dst, src unsafe.Pointer)
	Destruct         func(p unsafe.Pointer)
	// Allocate returns GC-visible storage for n instances and the address of
	// the first one (nil when n is 0).
	Allocate func(n int) (any, unsafe.Pointer)

	VStaticInit  func()
	VInit        func(p unsafe.Pointer, owner Object)
	VUpdate      func(p unsafe.Pointer, owner Object)
	VSerialize   func(p unsafe.Pointer, val *doc.Value)
	VDeserialize func(p unsafe.Pointer, val *doc.Value) error
	VRenderable  func(p unsafe.Pointer, owner Object)
	VEdit        func(p unsafe.Pointer, owner Object)
	VGizmoEdit   func(p unsafe.Pointer, owner Object)
	VDestroy     func(p unsafe.Pointer, owner Object)

	// Dependencies are added before this type; Dependants are removed before it.
	Dependencies []TypeId
	Dependants   []TypeId

	id TypeId
}

// Id returns the type's id.
func (td *TypeData) Id() TypeId {
	return td.id
}

var (
	typeToId = make(map[reflect.Type]TypeId, 64)
	nameToId = make(map[string]TypeId, 64)
	idToType []reflect.Type
	typeData []*TypeData
)

// ResetRegistry forgets every type id and registration. Spaces created
// before the reset must not be used afterwards. It exists for tests.
func ResetRegistry() {
	typeToId = make(map[reflect.Type]TypeId, 64)
	nameToId = make(map[string]TypeId, 64)
	idToType = nil
	typeData = nil
}

// TypeIdOf returns the id of T, assigning the next one on first touch. It
// does not register T.
func TypeIdOf[T any]() TypeId {
	return typeIdOf(reflect.TypeFor[T]())
}

func typeIdOf(t reflect.Type) TypeId {
	if id, ok := typeToId[t]; ok {
		return id
	}
	id := TypeId(len(idToType))
	typeToId[t] = id
	idToType = append(idToType, t)
	typeData = append(typeData, nil)
	return id
}

// Register creates the TypeData for T, binding whichever hooks *T implements,
// and runs VStaticInit. Registering an already registered type returns its id.
// Two types sharing a name is fatal, since names key serialized documents.
func Register[T any]() TypeId {
	id := TypeIdOf[T]()
	if typeData[id] != nil {
		return id
	}
	t := idToType[id]
	name := t.Name()
	if name == "" {
		name = t.String()
	}
	if other, ok := nameToId[name]; ok {
		fatal(ErrDuplicateTypeName, "%s (%v and %v)", name, idToType[other], t)
	}
	var zero T
	td := &TypeData{
		Name:             name,
		Type:             t,
		Size:             unsafe.Sizeof(zero),
		DefaultConstruct: defaultConstruct[T],
		CopyConstruct:    assign[T],
		MoveConstruct:    assign[T],
		MoveAssign:       assign[T],
		Destruct:         defaultConstruct[T],
		Allocate:         allocate[T],
		id:               id,
	}
	bindHooks[T](td)
	typeData[id] = td
	nameToId[name] = id
	if td.VStaticInit != nil {
		td.VStaticInit()
	}
	return id
}

// Go assignment both copies and moves; resetting to the zero value doubles as
// default construction and as destruction, dropping references for the GC.
func defaultConstruct[T any](p unsafe.Pointer) {
	var zero T
	*(*T)(p) = zero
}

func assign[T any](dst, src unsafe.Pointer) {
	*(*T)(dst) = *(*T)(src)
}

func allocate[T any](n int) (any, unsafe.Pointer) {
	buf := make([]T, n)
	if n == 0 {
		return buf, nil
	}
	return buf, unsafe.Pointer(&buf[0])
}

func bindHooks[T any](td *TypeData) {
	probe := any((*T)(nil))
	if _, ok := probe.(StaticIniter); ok {
		td.VStaticInit = func() {
			var t T
			any(&t).(StaticIniter).VStaticInit()
		}
	}
	if _, ok := probe.(Initer); ok {
		td.VInit = func(p unsafe.Pointer, o Object) { any((*T)(p)).(Initer).VInit(o) }
	}
	if _, ok := probe.(Updater); ok {
		td.VUpdate = func(p unsafe.Pointer, o Object) { any((*T)(p)).(Updater).VUpdate(o) }
	}
	if _, ok := probe.(Serializer); ok {
		td.VSerialize = func(p unsafe.Pointer, v *doc.Value) { any((*T)(p)).(Serializer).VSerialize(v) }
	}
	if _, ok := probe.(Deserializer); ok {
		td.VDeserialize = func(p unsafe.Pointer, v *doc.Value) error {
			return any((*T)(p)).(Deserializer).VDeserialize(v)
		}
	}
	if _, ok := probe.(Renderable); ok {
		td.VRenderable = func(p unsafe.Pointer, o Object) { any((*T)(p)).(Renderable).VRenderable(o) }
	}
	if _, ok := probe.(Editor); ok {
		td.VEdit = func(p unsafe.Pointer, o Object) { any((*T)(p)).(Editor).VEdit(o) }
	}
	if _, ok := probe.(GizmoEditor); ok {
		td.VGizmoEdit = func(p unsafe.Pointer, o Object) { any((*T)(p)).(GizmoEditor).VGizmoEdit(o) }
	}
	if _, ok := probe.(Destroyer); ok {
		td.VDestroy = func(p unsafe.Pointer, o Object) { any((*T)(p)).(Destroyer).VDestroy(o) }
	}
}

// AddDependencies declares that every member holding t must also hold each of
// deps. Both t and every dependency must already be registered. Edges that
// would close a dependency cycle are fatal; repeated edges are ignored.
func AddDependencies(t TypeId, deps ...TypeId) {
	td := Type(t)
	for _, dep := range deps {
		dd := TryType(dep)
		if dd == nil {
			fatal(ErrUnregisteredType, "dependency %d of %s", dep, td.Name)
		}
		if slices.Contains(td.Dependencies, dep) {
			continue
		}
		if dep == t || dependsOn(dep, t) {
			fatal(ErrDependencyCycle, "%s -> %s", td.Name, dd.Name)
		}
		td.Dependencies = append(td.Dependencies, dep)
		dd.Dependants = append(dd.Dependants, t)
	}
}

// AddDependency declares that T depends on D. Both must be registered.
func AddDependency[T, D any]() {
	AddDependencies(TypeIdOf[T](), TypeIdOf[D]())
}

// dependsOn reports whether from reaches to through dependency edges.
func dependsOn(from, to TypeId) bool {
	for _, dep := range typeData[from].Dependencies {
		if dep == to || dependsOn(dep, to) {
			return true
		}
	}
	return false
}

// Type returns the TypeData of a registered type. Unregistered ids are fatal.
func Type(id TypeId) *TypeData {
	td := TryType(id)
	if td == nil {
		fatal(ErrUnregisteredType, "type id %d", id)
	}
	return td
}

// TryType returns the TypeData of id, or nil when id is not registered.
func TryType(id TypeId) *TypeData {
	if id < 0 || int(id) >= len(typeData) {
		return nil
	}
	return typeData[id]
}

// TypeIdByName finds a registered type by the name it serializes under.
func TypeIdByName(name string) (TypeId, bool) {
	id, ok := nameToId[name]
	return id, ok
}

// TypeCount returns how many type ids have been handed out.
func TypeCount() int {
	return len(idToType)
}

// RegisteredTypes returns the ids of all registered types in ascending order.
func RegisteredTypes() []TypeId {
	ids := make([]TypeId, 0, len(typeData))
	for id, td := range typeData {
		if td != nil {
			ids = append(ids, TypeId(id))
		}
	}
	return ids
}
