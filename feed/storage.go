package feed

import (
	"container/heap"

	"github.com/pkg/errors"
)

// Store keeps values in slots. Freed slots are reused, lowest first.
type Store[T any] struct {
	available freeList
	Valid     []bool
	Data      []T
}

func NewStore[T any]() *Store[T] {
	return &Store[T]{}
}

func (s *Store[T]) Emplace(v T) int {
	if s.available.Len() > 0 {
		id := heap.Pop(&s.available).(int)
		s.Data[id] = v
		s.Valid[id] = true
		return id
	}
	id := len(s.Data)
	s.Data = append(s.Data, v)
	s.Valid = append(s.Valid, true)
	return id
}

func (s *Store[T]) Get(id int) (T, bool) {
	if !s.valid(id) {
		var zero T
		return zero, false
	}
	return s.Data[id], true
}

func (s *Store[T]) Set(id int, v T) error {
	if !s.valid(id) {
		return errors.Errorf("slot %d is empty", id)
	}
	s.Data[id] = v
	return nil
}

func (s *Store[T]) Remove(id int) error {
	if !s.valid(id) {
		return errors.Errorf("slot %d is empty", id)
	}
	var zero T
	s.Data[id] = zero
	s.Valid[id] = false
	heap.Push(&s.available, id)
	return nil
}

func (s *Store[T]) Len() int {
	return len(s.Data) - s.available.Len()
}

// Each visits the occupied slots in slot order.
func (s *Store[T]) Each(fn func(id int, v T)) {
	for id, ok := range s.Valid {
		if ok {
			fn(id, s.Data[id])
		}
	}
}

func (s *Store[T]) valid(id int) bool {
	return id >= 0 && id < len(s.Valid) && s.Valid[id]
}

type freeList []int

func (f freeList) Len() int           { return len(f) }
func (f freeList) Less(i, j int) bool { return f[i] < f[j] }
func (f freeList) Swap(i, j int)      { f[i], f[j] = f[j], f[i] }
func (f *freeList) Push(x any)        { *f = append(*f, x.(int)) }

func (f *freeList) Pop() any {
	old := *f
	x := old[len(old)-1]
	*f = old[:len(old)-1]
	return x
}
