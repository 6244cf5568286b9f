package ecs

import (
	"reflect"
	"slices"
	"weak"

	"github.com/kamstrup/intmap"
)

type byTypeName []reflect.Type

func (a byTypeName) Len() int           { return len(a) }
func (a byTypeName) Swap(i, j int)      { a[i], a[j] = a[j], a[i] }
func (a byTypeName) Less(i, j int) bool { return a[i].String() < a[j].String() }

// Archetype represents a unique combination of component types
type Archetype struct {
	id       uint32
	types    []reflect.Type
	storages []iComponentStorage
	refs     *intmap.Map[EntityId, weak.Pointer[EntityRef]]
}

// NewArchetype creates a new archetype with the given ID and sorted component types
func NewArchetype(id uint32, types []reflect.Type, registry *ComponentRegistry) *Archetype {
	a := &Archetype{
		id:       id,
		types:    types,
		storages: make([]iComponentStorage, len(types)),
		refs:     intmap.New[EntityId, weak.Pointer[EntityRef]](256),
	}

	for idx, typ := range types {
		factory := registry.getFactory(typ)
		if factory == nil {
			panic("component type " + typ.String() + " not registered")
		}
		a.storages[idx] = factory()
	}

	return a
}

func componentTypeOf(comp any) reflect.Type {
	compType := reflect.TypeOf(comp)
	if compType.Kind() == reflect.Ptr {
		compType = compType.Elem()
	}
	return compType
}

// Spawn creates a new entity in this archetype with the given components, all
// stamped with the same added tick. Returns the storage position as the entity index.
func (a *Archetype) Spawn(components []any, tick uint64) uint32 {
	ticks := make([]uint64, len(components))
	for i := range ticks {
		ticks[i] = tick
	}
	return a.spawnWithTicks(components, ticks)
}

// spawnWithTicks appends components[i] with added tick ticks[i]. Every storage
// of the archetype receives exactly one value so slot positions stay aligned.
func (a *Archetype) spawnWithTicks(components []any, ticks []uint64) uint32 {
	storagePos := -1
	for i, comp := range components {
		idx := a.storageIndex(componentTypeOf(comp))
		if idx == -1 {
			continue
		}
		pos := a.storages[idx].Append(comp, ticks[i])
		if storagePos != -1 && pos != storagePos {
			panic("archetype storages out of alignment for " + a.types[idx].String())
		}
		storagePos = pos
	}
	if storagePos < 0 {
		panic("no component matched the archetype")
	}
	return uint32(storagePos)
}

func (a *Archetype) storageIndex(compType reflect.Type) int {
	for i, typ := range a.types {
		if typ == compType {
			return i
		}
	}
	return -1
}

// GetComponent returns the component of the given type for the entity at entityIndex
// The entityIndex is the storage position directly
func (a *Archetype) GetComponent(entityIndex uint32, compType reflect.Type) any {
	idx := a.storageIndex(compType)
	if idx == -1 {
		return nil
	}
	return a.storages[idx].Get(int(entityIndex))
}

// AddedTick returns the tick at which the entity's component of compType was
// added, or 0 if the entity does not have it.
func (a *Archetype) AddedTick(entityIndex uint32, compType reflect.Type) uint64 {
	idx := a.storageIndex(compType)
	if idx == -1 {
		return 0
	}
	return a.storages[idx].AddedTick(int(entityIndex))
}

// Delete marks an entity's components as deleted
// Indices remain stable - the slot is simply marked as empty
func (a *Archetype) Delete(entityIndex uint32) {
	entityId := NewEntityId(a.id, entityIndex)

	if weakPtr, ok := a.refs.Get(entityId); ok {
		if ref := weakPtr.Value(); ref != nil {
			ref.Id = 0
			ref.Archetype = nil
		}
		a.refs.Del(entityId)
	}

	for _, storage := range a.storages {
		storage.Delete(int(entityIndex))
	}
}

// HasComponent checks if this archetype has the given component type
func (a *Archetype) HasComponent(compType reflect.Type) bool {
	return slices.Contains(a.types, compType)
}

// ID returns the archetype's unique identifier
func (a *Archetype) ID() uint32 {
	return a.id
}

// Types returns the sorted component types for this archetype
func (a *Archetype) Types() []reflect.Type {
	return a.types
}

// Len returns the number of live entities in the archetype.
func (a *Archetype) Len() int {
	if len(a.storages) == 0 {
		return 0
	}
	return a.storages[0].Len()
}

// moveRef transfers the weak EntityRef registered for from to the entity
// to in archetype dst, rewriting the ref in place.
func (a *Archetype) moveRef(from EntityId, dst *Archetype, to EntityId) {
	weakPtr, ok := a.refs.Get(from)
	if !ok {
		return
	}
	a.refs.Del(from)
	ref := weakPtr.Value()
	if ref == nil {
		return
	}
	ref.Id = to
	ref.Archetype = dst
	dst.refs.Put(to, weakPtr)
}

// Compact reorganizes all component storage to eliminate empty slots and reduce fragmentation
// EntityRefs remain valid and are automatically updated to point to the new indices
func (a *Archetype) Compact() {
	if len(a.storages) == 0 {
		return
	}

	// The first storage's mapping is canonical; the others compact identically.
	indexMap := a.storages[0].Compact()
	for i := 1; i < len(a.storages); i++ {
		a.storages[i].Compact()
	}

	updated := make(map[EntityId]weak.Pointer[EntityRef], len(indexMap))
	for oldIdx, newIdx := range indexMap {
		weakPtr, ok := a.refs.Get(NewEntityId(a.id, uint32(oldIdx)))
		if !ok {
			continue
		}
		if ref := weakPtr.Value(); ref != nil {
			newId := NewEntityId(a.id, uint32(newIdx))
			ref.Id = newId
			updated[newId] = weakPtr
		}
	}

	// Dead weak pointers are dropped here.
	a.refs.Clear()
	for id, weakPtr := range updated {
		a.refs.Put(id, weakPtr)
	}
}

// Iter returns an iterator over all valid EntityIds in this archetype
func (a *Archetype) Iter() func(yield func(EntityId) bool) {
	return func(yield func(EntityId) bool) {
		if len(a.storages) == 0 {
			return
		}

		for index := range a.storages[0].Iter() {
			if !yield(NewEntityId(a.id, uint32(index))) {
				return
			}
		}
	}
}
