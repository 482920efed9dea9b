// Package arena provides a generational arena: slot-indexed storage whose
// indexes carry a generation tag, so an index that outlives the value it
// pointed at is detected instead of silently aliasing a newer value that
// reused the same slot.
package arena

import (
	"fmt"
	"iter"
)

// Index addresses a value stored in an Arena.
type Index struct {
	slot       uint32
	generation uint64
}

// Slot returns the position of the index in the backing store.
func (i Index) Slot() uint32 {
	return i.slot
}

// Generation returns the generation tag of the index.
func (i Index) Generation() uint64 {
	return i.generation
}

// String implements fmt.Stringer
func (i Index) String() string {
	return fmt.Sprintf("%d@%d", i.slot, i.generation)
}

type entry[T any] struct {
	value      T
	generation uint64
	occupied   bool
	nextFree   int
}

// Arena stores values of type T. The zero value is ready to use.
// An Arena is not safe for concurrent mutation.
type Arena[T any] struct {
	entries  []entry[T]
	freeHead int // index+1 of the first free slot, 0 when the free list is empty
	len      int
}

// New creates an arena with room for capacity values before growing.
func New[T any](capacity int) *Arena[T] {
	return &Arena[T]{entries: make([]entry[T], 0, capacity)}
}

// Len returns the number of live values.
func (a *Arena[T]) Len() int {
	return a.len
}

// IsEmpty reports whether the arena holds no live values.
func (a *Arena[T]) IsEmpty() bool {
	return a.len == 0
}

// Insert stores value and returns its index. Freed slots are reused with a
// bumped generation.
func (a *Arena[T]) Insert(value T) Index {
	a.len++

	if a.freeHead != 0 {
		slot := a.freeHead - 1
		e := &a.entries[slot]
		a.freeHead = e.nextFree
		e.value = value
		e.occupied = true
		e.nextFree = 0
		return Index{slot: uint32(slot), generation: e.generation}
	}

	a.entries = append(a.entries, entry[T]{value: value, occupied: true})
	return Index{slot: uint32(len(a.entries) - 1)}
}

// Remove deletes the value at i, returning it. Indexes to the removed value
// become stale.
func (a *Arena[T]) Remove(i Index) (T, bool) {
	var zero T
	e := a.lookup(i)
	if e == nil {
		return zero, false
	}

	value := e.value
	e.value = zero
	e.occupied = false
	e.generation++
	e.nextFree = a.freeHead
	a.freeHead = int(i.slot) + 1
	a.len--

	return value, true
}

// Contains reports whether i refers to a live value.
func (a *Arena[T]) Contains(i Index) bool {
	return a.lookup(i) != nil
}

// Get returns the value at i.
func (a *Arena[T]) Get(i Index) (T, bool) {
	e := a.lookup(i)
	if e == nil {
		var zero T
		return zero, false
	}
	return e.value, true
}

// Set replaces the value at a live index.
func (a *Arena[T]) Set(i Index, value T) bool {
	e := a.lookup(i)
	if e == nil {
		return false
	}
	e.value = value
	return true
}

// Get2 returns the values at two distinct indexes at once. It panics if both
// indexes name the same slot: handing out the same value twice as two
// independent mutable views is a caller bug.
func (a *Arena[T]) Get2(i, j Index) (T, T, bool) {
	if i.slot == j.slot {
		panic(fmt.Sprintf("arena: Get2 called with the same slot twice (%s, %s)", i, j))
	}

	var zero T
	first, ok := a.Get(i)
	if !ok {
		return zero, zero, false
	}
	second, ok := a.Get(j)
	if !ok {
		return zero, zero, false
	}
	return first, second, true
}

// All iterates over live values in slot order.
func (a *Arena[T]) All() iter.Seq2[Index, T] {
	return func(yield func(Index, T) bool) {
		for slot := range a.entries {
			e := &a.entries[slot]
			if !e.occupied {
				continue
			}
			if !yield(Index{slot: uint32(slot), generation: e.generation}, e.value) {
				return
			}
		}
	}
}

// Clear removes every value, invalidating all outstanding indexes.
func (a *Arena[T]) Clear() {
	for slot := range a.entries {
		if a.entries[slot].occupied {
			a.Remove(Index{slot: uint32(slot), generation: a.entries[slot].generation})
		}
	}
}

func (a *Arena[T]) lookup(i Index) *entry[T] {
	if int(i.slot) >= len(a.entries) {
		return nil
	}
	e := &a.entries[i.slot]
	if !e.occupied || e.generation != i.generation {
		return nil
	}
	return e
}
