package parser

import "reflect"

const chunkSize = 64

// Arena is a bump allocator for tree nodes. Values of each type are carved
// out of fixed-size chunks that are never regrown, so returned pointers stay
// valid until Release. Nothing is freed individually.
type Arena struct {
	slabs map[reflect.Type]any
	nodes int
}

type slab[T any] struct {
	chunk []T
}

func NewArena() *Arena {
	return &Arena{slabs: make(map[reflect.Type]any)}
}

// Alloc returns a pointer to a zeroed T owned by the arena.
func Alloc[T any](a *Arena) *T {
	if a == nil {
		return new(T)
	}
	key := reflect.TypeFor[T]()
	s, _ := a.slabs[key].(*slab[T])
	if s == nil {
		s = &slab[T]{}
		a.slabs[key] = s
	}
	if len(s.chunk) == cap(s.chunk) {
		s.chunk = make([]T, 0, chunkSize)
	}
	s.chunk = s.chunk[:len(s.chunk)+1]
	a.nodes++
	return &s.chunk[len(s.chunk)-1]
}

// Len reports how many values have been allocated since the last Release.
func (a *Arena) Len() int {
	return a.nodes
}

// Release drops every allocation at once.
func (a *Arena) Release() {
	clear(a.slabs)
	a.nodes = 0
}
