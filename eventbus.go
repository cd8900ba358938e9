package kukan

import "reflect"

// MaxEventTypes bounds the number of distinct event types one EventBus tracks.
const MaxEventTypes = 256

// The lifecycle events a Space publishes on its bus.
type (
	// MemberCreated follows CreateMember, CreateChildMember and Duplicate.
	MemberCreated struct{ Member MemberId }
	// MemberDeleted is published once the member and its components are gone.
	MemberDeleted struct{ Member MemberId }
	// ComponentAdded follows a component's placement and, if requested, its VInit.
	ComponentAdded struct {
		Member MemberId
		Type   TypeId
	}
	// ComponentRemoved is published after the instance left its Table.
	ComponentRemoved struct {
		Member MemberId
		Type   TypeId
	}
	// ParentChanged carries the new parent, InvalidMemberId after RemoveParent.
	ParentChanged struct {
		Member MemberId
		Parent MemberId
	}
	// ResourceAdded follows Resources.Add on a Space's resources.
	ResourceAdded struct {
		Id   int
		Type reflect.Type
	}
	// ResourceRemoved follows Resources.Remove, and Resources.Clear once per
	// resource.
	ResourceRemoved struct {
		Id   int
		Type reflect.Type
	}
)

// EventBus delivers typed events synchronously to the handlers subscribed to
// them, in subscription order. Publishing does not allocate.
type EventBus struct {
	eventTypeMap    map[reflect.Type]uint8
	handlers        [MaxEventTypes][]any
	nextEventTypeID int
}

// Subscribe registers a handler to be called, synchronously and in
// subscription order, whenever an event of type T is published on bus.
//
// Subscribing may allocate the first time a type is seen or when the
// handler list of T grows; publishing never does. Handlers may mutate the
// Space that published the event, including publishing further events.
//
// Parameters:
//   - bus: The EventBus to subscribe to, usually Space.Events().
//   - handler: A function taking the event by value.
//
// More than MaxEventTypes distinct event types on one bus is fatal.
func Subscribe[T any](bus *EventBus, handler func(T)) {
	id := bus.eventTypeID(reflect.TypeFor[T]())
	if cap(bus.handlers[id]) == 0 {
		bus.handlers[id] = make([]any, 0, 4)
	}
	bus.handlers[id] = append(bus.handlers[id], handler)
}

// Publish calls every handler subscribed to T with event.
func Publish[T any](bus *EventBus, event T) {
	if bus.eventTypeMap == nil {
		return
	}
	if id, ok := bus.eventTypeMap[reflect.TypeFor[T]()]; ok {
		for _, h := range bus.handlers[id] {
			h.(func(T))(event)
		}
	}
}

// hasSubscribers reports whether any handler listens for T.
func hasSubscribers[T any](bus *EventBus) bool {
	id, ok := bus.eventTypeMap[reflect.TypeFor[T]()]
	return ok && len(bus.handlers[id]) > 0
}

// Clear drops every subscription.
func (bus *EventBus) Clear() {
	*bus = EventBus{}
}

func (bus *EventBus) eventTypeID(t reflect.Type) uint8 {
	if bus.eventTypeMap == nil {
		bus.eventTypeMap = make(map[reflect.Type]uint8)
	}
	if id, ok := bus.eventTypeMap[t]; ok {
		return id
	}
	if bus.nextEventTypeID >= MaxEventTypes {
		fatal(ErrTooManyEventTypes, "subscribing %v", t)
	}
	id := uint8(bus.nextEventTypeID)
	bus.nextEventTypeID++
	bus.eventTypeMap[t] = id
	return id
}
