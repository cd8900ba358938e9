package kukan

import "github.com/edwinsyarief/kukan/doc"

// Object names one member of one Space. Hooks receive it to reach the member
// that owns the component they are invoked on.
type Object struct {
	Space  *Space
	Member MemberId
}

// Valid reports whether the object still names a member in use.
func (o Object) Valid() bool {
	return o.Space != nil && o.Space.ValidMember(o.Member)
}

// Parent returns the object's parent, or an object holding InvalidMemberId.
func (o Object) Parent() Object {
	return Object{Space: o.Space, Member: o.Space.Parent(o.Member)}
}

// Name returns the member name.
func (o Object) Name() string {
	return o.Space.Name(o.Member)
}

// The optional hooks a component can implement on its pointer type. Each one
// is discovered once, at registration, and bound into the type's TypeData.
type (
	// StaticIniter runs once per type, when the type is registered.
	StaticIniter interface{ VStaticInit() }
	// Initer runs after the component is added with init requested.
	Initer interface{ VInit(owner Object) }
	// Updater runs once per Space.Update for every live instance.
	Updater interface{ VUpdate(owner Object) }
	// Serializer writes the component into a document value.
	Serializer interface{ VSerialize(val *doc.Value) }
	// Deserializer reads the component back from a document value.
	Deserializer interface {
		VDeserialize(val *doc.Value) error
	}
	// Renderable submits the component to a renderer.
	Renderable interface{ VRenderable(owner Object) }
	// Editor draws the component's editor widgets.
	Editor interface{ VEdit(owner Object) }
	// GizmoEditor drives the component's in-viewport gizmo.
	GizmoEditor interface{ VGizmoEdit(owner Object) }
	// Destroyer runs before the component is removed from its member.
	Destroyer interface{ VDestroy(owner Object) }
)
