package ecs

import (
	"iter"
	"reflect"
)

// Added lists the entities whose T component was added since the owning
// system last ran. Components carried across an archetype move keep their
// original added tick, so attaching other components to an entity does not
// make it show up again. On a system's first run every existing T counts as
// added.
//
// Declare it as a field on a system; the Scheduler initializes and refreshes
// it before each execution:
//
//	type ClaimSystem struct {
//		Players ecs.Added[AnimationPlayer]
//	}
type Added[T any] struct {
	storage  *Storage
	compType reflect.Type

	entities   []EntityId
	components []*T
	ready      bool
}

// NewAdded creates an Added bound to storage. Outside a Scheduler, call
// Refresh to collect a window of ticks.
func NewAdded[T any](storage *Storage) *Added[T] {
	a := &Added[T]{}
	a.Init(storage)
	return a
}

// Init binds the Added to a storage. Called by the Scheduler on registration.
func (a *Added[T]) Init(storage *Storage) {
	a.storage = storage
	a.compType = reflect.TypeFor[T]()
	a.entities = a.entities[:0]
	a.components = a.components[:0]
	a.ready = false
}

func (a *Added[T]) prepare(lastRun, thisRun uint64) {
	a.Refresh(lastRun, thisRun)
}

// Refresh collects every T whose added tick lies in (since, until].
func (a *Added[T]) Refresh(since, until uint64) {
	a.entities = a.entities[:0]
	a.components = a.components[:0]

	for _, archetype := range a.storage.archetypes {
		idx := archetype.storageIndex(a.compType)
		if idx == -1 {
			continue
		}
		store := archetype.storages[idx]
		for entityIndex := range store.Iter() {
			tick := store.AddedTick(entityIndex)
			if tick <= since || tick > until {
				continue
			}
			a.entities = append(a.entities, NewEntityId(archetype.id, uint32(entityIndex)))
			a.components = append(a.components, store.Get(entityIndex).(*T))
		}
	}
	a.ready = true
}

// Iter yields each newly added component with its entity.
// Panics if the Added was never refreshed.
func (a *Added[T]) Iter() iter.Seq2[EntityId, *T] {
	if !a.ready {
		panic("Added.Iter() called before the owning system was prepared")
	}
	return func(yield func(EntityId, *T) bool) {
		for i := range a.entities {
			if !yield(a.entities[i], a.components[i]) {
				return
			}
		}
	}
}

// Len returns the number of newly added components in the current window.
func (a *Added[T]) Len() int {
	return len(a.entities)
}
