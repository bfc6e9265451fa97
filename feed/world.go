package feed

import (
	"slices"
	"sync"

	"github.com/pkg/errors"

	"slam_viewer/models"
	"slam_viewer/num"
)

// World is a map that changes while the viewer draws it. Writers call
// Apply from any goroutine; the viewer reads through Snapshot.
type World[N num.Number] struct {
	mu sync.RWMutex

	landmarks   *Store[Landmark[N]]
	landmarkIDs map[uint32]int

	keyframes   *Store[KeyFrame[N]]
	keyframeIDs map[uint32]int

	version uint64
}

func NewWorld[N num.Number]() *World[N] {
	return &World[N]{
		landmarks:   NewStore[Landmark[N]](),
		landmarkIDs: make(map[uint32]int),
		keyframes:   NewStore[KeyFrame[N]](),
		keyframeIDs: make(map[uint32]int),
	}
}

// Version counts the batches applied so far, partly failed ones included.
func (w *World[N]) Version() uint64 {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.version
}

func (w *World[N]) Len() (landmarks, keyframes int) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.landmarks.Len(), w.keyframes.Len()
}

// Apply applies every change of b. Changes before a failing one stay
// applied.
func (w *World[N]) Apply(b Batch[N]) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	defer func() { w.version++ }()

	for _, op := range b.InsertLandmarks {
		if err := insert(w.landmarks, w.landmarkIDs, op); err != nil {
			return errors.Wrap(err, "landmark")
		}
	}
	for _, op := range b.UpdateLandmarks {
		if err := update(w.landmarks, w.landmarkIDs, op); err != nil {
			return errors.Wrap(err, "landmark")
		}
	}
	for _, op := range b.RemoveLandmarks {
		if err := remove(w.landmarks, w.landmarkIDs, op); err != nil {
			return errors.Wrap(err, "landmark")
		}
	}
	for _, op := range b.InsertKeyFrames {
		if err := insert(w.keyframes, w.keyframeIDs, op); err != nil {
			return errors.Wrap(err, "keyframe")
		}
	}
	for _, op := range b.UpdateKeyFrames {
		if err := update(w.keyframes, w.keyframeIDs, op); err != nil {
			return errors.Wrap(err, "keyframe")
		}
	}
	for _, op := range b.RemoveKeyFrames {
		if err := remove(w.keyframes, w.keyframeIDs, op); err != nil {
			return errors.Wrap(err, "keyframe")
		}
	}
	return nil
}

func insert[T any](s *Store[T], ids map[uint32]int, op Insert[T]) error {
	if _, ok := ids[op.ID]; ok {
		return errors.Errorf("insert %d: already present", op.ID)
	}
	ids[op.ID] = s.Emplace(op.V)
	return nil
}

func update[T any](s *Store[T], ids map[uint32]int, op Update[T]) error {
	slot, ok := ids[op.ID]
	if !ok {
		return errors.Errorf("update %d: not present", op.ID)
	}
	return s.Set(slot, op.V)
}

func remove[T any](s *Store[T], ids map[uint32]int, op Remove[T]) error {
	slot, ok := ids[op.ID]
	if !ok {
		return errors.Errorf("remove %d: not present", op.ID)
	}
	delete(ids, op.ID)
	return s.Remove(slot)
}

// Snapshot copies the current map. Keyframes are ordered by ID.
func (w *World[N]) Snapshot() models.World[N] {
	w.mu.RLock()
	defer w.mu.RUnlock()

	s := &snapshot[N]{
		landmarks: make([]Landmark[N], 0, w.landmarks.Len()),
		keyframes: make([]KeyFrame[N], 0, w.keyframes.Len()),
	}
	w.landmarks.Each(func(_ int, l Landmark[N]) {
		s.landmarks = append(s.landmarks, l)
	})

	ids := make([]uint32, 0, len(w.keyframeIDs))
	for id := range w.keyframeIDs {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	for _, id := range ids {
		k, _ := w.keyframes.Get(w.keyframeIDs[id])
		s.keyframes = append(s.keyframes, k)
	}
	return s
}

// ForLandmarks and ForKeyFrames read a fresh snapshot, so a World can be
// drawn directly.
func (w *World[N]) ForLandmarks(fn func(models.Landmark[N])) {
	w.Snapshot().ForLandmarks(fn)
}

func (w *World[N]) ForKeyFrames(fn func(models.KeyFrame[N])) {
	w.Snapshot().ForKeyFrames(fn)
}

type snapshot[N num.Number] struct {
	landmarks []Landmark[N]
	keyframes []KeyFrame[N]
}

func (s *snapshot[N]) ForLandmarks(fn func(models.Landmark[N])) {
	for _, l := range s.landmarks {
		fn(l)
	}
}

func (s *snapshot[N]) ForKeyFrames(fn func(models.KeyFrame[N])) {
	for _, k := range s.keyframes {
		fn(k)
	}
}
