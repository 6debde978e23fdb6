package collections

// Set is a map used as a set
type Set[T comparable] map[T]struct{}

// NewSet returns a set holding values
func NewSet[T comparable](values ...T) Set[T] {
	s := make(Set[T], len(values))
	for _, value := range values {
		s.Add(value)
	}
	return s
}

// Add a value to the set. Returns false if the value was already present.
func (s Set[T]) Add(value T) bool {
	if s.Contains(value) {
		return false
	}
	s[value] = struct{}{}
	return true
}

// Contains checks if the value belongs in the set
func (s Set[T]) Contains(value T) bool {
	_, exists := s[value]
	return exists
}

// Unique returns values without duplicates, keeping the first occurrence of each
func Unique[T comparable](values []T) []T {
	seen := make(Set[T], len(values))
	unique := make([]T, 0, len(values))
	for _, value := range values {
		if seen.Add(value) {
			unique = append(unique, value)
		}
	}
	return unique
}
