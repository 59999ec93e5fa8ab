// ABOUTME: Concurrency-safe container around one entity type's state
// ABOUTME: Dispatch runs the reducer under a lock and notifies subscribers
package store

import (
	"slices"
	"sync"

	"github.com/johanaerens/assetmanagement/models"
	"github.com/sirupsen/logrus"
)

type Store[T models.Entity] struct {
	desc *models.Descriptor[T]
	log  logrus.FieldLogger

	mu      sync.RWMutex
	state   State[T]
	subs    map[int]func(State[T])
	nextSub int
}

func New[T models.Entity](d *models.Descriptor[T], log logrus.FieldLogger) *Store[T] {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Store[T]{
		desc: d,
		log:  log.WithField("entity", d.Name),
		subs: make(map[int]func(State[T])),
	}
}

func (s *Store[T]) Descriptor() *models.Descriptor[T] {
	return s.desc
}

// Dispatch applies a. Subscribers are called after the lock is released,
// in no particular order.
func (s *Store[T]) Dispatch(a Action) {
	s.mu.Lock()
	s.state = Reduce(s.desc, s.state, a)
	snapshot := s.snapshotLocked()
	subs := make([]func(State[T]), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	s.log.WithFields(logrus.Fields{
		"action":     NameOf(a),
		"request_id": RequestIDOf(a),
	}).Debug("dispatched")

	for _, fn := range subs {
		fn(snapshot)
	}
}

// State returns a copy that later dispatches will not mutate.
func (s *Store[T]) State() State[T] {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

// Subscribe registers fn for every future state change and returns a func
// that removes it.
func (s *Store[T]) Subscribe(fn func(State[T])) func() {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

func (s *Store[T]) snapshotLocked() State[T] {
	snap := s.state
	snap.Entities = slices.Clone(s.state.Entities)
	return snap
}
