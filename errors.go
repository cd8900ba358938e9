package kukan

import "github.com/rotisserie/eris"

// Contract violations. The core panics with one of these (wrapped with context)
// when a caller breaks the storage contract. None of them is recoverable state;
// they only exist so callers and tests can tell the violations apart.
var (
	ErrInvalidMember      = eris.New("kukan: invalid member")
	ErrInvalidIndex       = eris.New("kukan: index out of range")
	ErrActiveId           = eris.New("kukan: id already active")
	ErrDuplicateComponent = eris.New("kukan: component already present")
	ErrMissingComponent   = eris.New("kukan: component not present")
	ErrUnregisteredType   = eris.New("kukan: type not registered")
	ErrDuplicateTypeName  = eris.New("kukan: type name already registered")
	ErrDependencyCycle    = eris.New("kukan: dependency cycle")
	ErrHierarchyCycle     = eris.New("kukan: hierarchy cycle")
	ErrInvalidResource    = eris.New("kukan: invalid resource")
	ErrTooManyEventTypes  = eris.New("kukan: too many event types")
)

// fatal aborts the current operation.
func fatal(err error, format string, args ...any) {
	panic(eris.Wrapf(err, format, args...))
}
