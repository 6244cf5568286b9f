package ecs

import (
	"iter"
	"reflect"
)

// ComponentRegistry manages component type registration for an ECS instance.
// Each Storage instance has its own ComponentRegistry, allowing multiple
// independent ECS systems to coexist without interference.
type ComponentRegistry struct {
	factories map[reflect.Type]func() iComponentStorage
}

// NewComponentRegistry creates a new component registry.
func NewComponentRegistry() *ComponentRegistry {
	return &ComponentRegistry{
		factories: make(map[reflect.Type]func() iComponentStorage),
	}
}

// RegisterComponent registers a new component type with the given registry.
// This must be called for each component type before it can be used.
// Registering the same type twice is harmless.
func RegisterComponent[T any](r *ComponentRegistry) {
	r.factories[reflect.TypeFor[T]()] = func() iComponentStorage {
		return &genericComponentStorage[T]{}
	}
}

// IsRegistered reports whether T has been registered.
func IsRegistered[T any](r *ComponentRegistry) bool {
	_, ok := r.factories[reflect.TypeFor[T]()]
	return ok
}

// getFactory returns the factory function for a given component type.
// Returns nil if the type is not registered.
func (r *ComponentRegistry) getFactory(t reflect.Type) func() iComponentStorage {
	return r.factories[t]
}

const (
	genericBlockSize = 64
)

type slotBlock[T any] struct {
	values [genericBlockSize]T
	added  [genericBlockSize]uint64
	filled [genericBlockSize]bool
}

// genericComponentStorage stores components of a specific type `T` in fixed
// size blocks so pointers handed out by Get stay valid while the storage grows.
type genericComponentStorage[T any] struct {
	blocks    []*slotBlock[T]
	freeSlots []int
	nextIndex int
}

func asValue[T any](item any) (T, bool) {
	if ptr, ok := item.(*T); ok {
		return *ptr, true
	}
	val, ok := item.(T)
	return val, ok
}

func (cs *genericComponentStorage[T]) slot(index int) (*slotBlock[T], int, bool) {
	if index < 0 {
		return nil, 0, false
	}
	blockIdx := index / genericBlockSize
	if blockIdx >= len(cs.blocks) {
		return nil, 0, false
	}
	return cs.blocks[blockIdx], index % genericBlockSize, true
}

// Append adds a component to storage and returns its index, or -1 when item
// is not a T or *T.
func (cs *genericComponentStorage[T]) Append(item any, tick uint64) int {
	value, ok := asValue[T](item)
	if !ok {
		return -1
	}

	var index int
	if n := len(cs.freeSlots); n > 0 {
		index = cs.freeSlots[n-1]
		cs.freeSlots = cs.freeSlots[:n-1]
	} else {
		index = cs.nextIndex
		cs.nextIndex++
		if index/genericBlockSize >= len(cs.blocks) {
			cs.blocks = append(cs.blocks, &slotBlock[T]{})
		}
	}

	block, slot, _ := cs.slot(index)
	block.values[slot] = value
	block.added[slot] = tick
	block.filled[slot] = true
	return index
}

// Replace overwrites an occupied slot without touching its added tick.
func (cs *genericComponentStorage[T]) Replace(index int, item any) bool {
	value, ok := asValue[T](item)
	if !ok {
		return false
	}
	block, slot, ok := cs.slot(index)
	if !ok || !block.filled[slot] {
		return false
	}
	block.values[slot] = value
	return true
}

// Get returns a pointer to the component at the given index.
func (cs *genericComponentStorage[T]) Get(index int) any {
	block, slot, ok := cs.slot(index)
	if !ok || !block.filled[slot] {
		return nil
	}
	return &block.values[slot]
}

// Delete marks a component slot as empty.
func (cs *genericComponentStorage[T]) Delete(index int) {
	block, slot, ok := cs.slot(index)
	if !ok || !block.filled[slot] {
		return
	}
	var zero T
	block.values[slot] = zero
	block.added[slot] = 0
	block.filled[slot] = false
	cs.freeSlots = append(cs.freeSlots, index)
}

// Has checks if a component exists at the given index.
func (cs *genericComponentStorage[T]) Has(index int) bool {
	block, slot, ok := cs.slot(index)
	return ok && block.filled[slot]
}

// AddedTick returns the tick at which the component in the slot was added, or 0.
func (cs *genericComponentStorage[T]) AddedTick(index int) uint64 {
	block, slot, ok := cs.slot(index)
	if !ok || !block.filled[slot] {
		return 0
	}
	return block.added[slot]
}

// Len returns the number of occupied slots.
func (cs *genericComponentStorage[T]) Len() int {
	return cs.nextIndex - len(cs.freeSlots)
}

// Compact reorganizes component storage to remove empty slots and returns
// the old index to new index mapping of every surviving component.
func (cs *genericComponentStorage[T]) Compact() map[int]int {
	indexMap := make(map[int]int)

	total := cs.Len()
	if total == 0 {
		cs.blocks = nil
		cs.freeSlots = nil
		cs.nextIndex = 0
		return indexMap
	}

	newBlocks := make([]*slotBlock[T], (total+genericBlockSize-1)/genericBlockSize)
	for i := range newBlocks {
		newBlocks[i] = &slotBlock[T]{}
	}

	writePos := 0
	for readIdx := 0; readIdx < cs.nextIndex; readIdx++ {
		src, srcSlot, _ := cs.slot(readIdx)
		if !src.filled[srcSlot] {
			continue
		}
		dst := newBlocks[writePos/genericBlockSize]
		dstSlot := writePos % genericBlockSize
		dst.values[dstSlot] = src.values[srcSlot]
		dst.added[dstSlot] = src.added[srcSlot]
		dst.filled[dstSlot] = true
		indexMap[readIdx] = writePos
		writePos++
	}

	cs.blocks = newBlocks
	cs.freeSlots = nil
	cs.nextIndex = writePos
	return indexMap
}

// Iter yields the index of every occupied slot in ascending order.
func (cs *genericComponentStorage[T]) Iter() iter.Seq[int] {
	return func(yield func(int) bool) {
		for i := 0; i < cs.nextIndex; i++ {
			block, slot, _ := cs.slot(i)
			if block.filled[slot] && !yield(i) {
				return
			}
		}
	}
}
