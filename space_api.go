package kukan

// AddComponent adds a T to m with init and returns it. See Space.AddComponent.
func AddComponent[T any](s *Space, m MemberId) *T {
	return (*T)(s.AddComponent(TypeIdOf[T](), m, true))
}

// EnsureComponent returns m's T, adding it with init when missing.
func EnsureComponent[T any](s *Space, m MemberId) *T {
	return (*T)(s.EnsureComponent(TypeIdOf[T](), m, true))
}

// GetComponent returns m's T. A missing component is fatal.
func GetComponent[T any](s *Space, m MemberId) *T {
	return (*T)(s.GetComponent(TypeIdOf[T](), m))
}

// TryGetComponent returns m's T, or nil.
func TryGetComponent[T any](s *Space, m MemberId) *T {
	return (*T)(s.TryGetComponent(TypeIdOf[T](), m))
}

// HasComponent reports whether m holds a T.
func HasComponent[T any](s *Space, m MemberId) bool {
	return s.HasComponent(TypeIdOf[T](), m)
}

// RemComponent removes m's T and its dependants.
func RemComponent[T any](s *Space, m MemberId) {
	s.RemComponent(TypeIdOf[T](), m)
}

// Slice returns every live T of the Space in dense order, parallel to
// Table.Owners. The slice is invalidated by the next add or remove of a T.
func Slice[T any](s *Space) []T {
	return tableSlice[T](s.Table(TypeIdOf[T]()))
}
