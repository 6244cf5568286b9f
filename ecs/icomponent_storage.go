package ecs

import "iter"

// iComponentStorage is an interface for a type-erased component storage.
// Every occupied slot remembers the storage tick at which its component was added.
type iComponentStorage interface {
	Append(item any, tick uint64) int
	Replace(index int, item any) bool
	Delete(index int)
	Get(index int) any
	Has(index int) bool
	AddedTick(index int) uint64
	Compact() map[int]int
	Iter() iter.Seq[int]
	Len() int
}
