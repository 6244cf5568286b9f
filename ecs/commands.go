package ecs

import "reflect"

// Commands provides a buffer for deferred ECS operations that are executed at the end of a frame.
// This prevents structural changes to the ECS storage during system execution.
type Commands struct {
	spawns     []spawnCommand
	deletes    []EntityId
	structural []structuralCommand
	defers     []func()
}

func newCommands() *Commands {
	return &Commands{}
}

type spawnCommand struct {
	components []any
	onSpawn    func(EntityId)
}

// structuralCommand is a queued add (component != nil) or remove.
type structuralCommand struct {
	entity    EntityId
	component any
	compType  reflect.Type
}

// Defer queues a function to run after every other queued operation.
func (c *Commands) Defer(fn func()) {
	c.defers = append(c.defers, fn)
}

// Spawn queues an entity spawn operation with the given components.
func (c *Commands) Spawn(components ...any) {
	c.spawns = append(c.spawns, spawnCommand{components: components})
}

// SpawnThen queues a spawn and calls fn with the new entity's id once it exists.
func (c *Commands) SpawnThen(fn func(EntityId), components ...any) {
	c.spawns = append(c.spawns, spawnCommand{components: components, onSpawn: fn})
}

// Delete queues an entity deletion operation.
func (c *Commands) Delete(entity EntityId) {
	c.deletes = append(c.deletes, entity)
}

// AddComponent queues a component addition operation.
func (c *Commands) AddComponent(entity EntityId, component any) {
	c.structural = append(c.structural, structuralCommand{
		entity:    entity,
		component: component,
	})
}

// RemoveComponent queues a component removal operation.
func (c *Commands) RemoveComponent(entity EntityId, compType reflect.Type) {
	c.structural = append(c.structural, structuralCommand{
		entity:   entity,
		compType: compType,
	})
}

// Len returns the number of queued operations.
func (c *Commands) Len() int {
	return len(c.spawns) + len(c.deletes) + len(c.structural) + len(c.defers)
}

// Flush flushes all commands to the provided storage, resetting the buffer state.
// Deletes run first, then adds and removes in queue order, then spawns, then
// deferred functions. Entity ids passed to the queue are the ids the caller
// saw before the flush; when an add or remove moves an entity, later
// operations on the same entity follow it to its new archetype.
func (c *Commands) Flush(storage *Storage) {
	deleted := make(map[EntityId]bool, len(c.deletes))
	for _, id := range c.deletes {
		storage.Delete(id)
		deleted[id] = true
	}

	// Keyed by the id the command was queued with.
	current := make(map[EntityId]EntityId)
	for _, cmd := range c.structural {
		if deleted[cmd.entity] {
			continue
		}
		id, moved := current[cmd.entity]
		if !moved {
			id = cmd.entity
		}

		var newId EntityId
		if cmd.component != nil {
			newId = storage.AddComponent(id, cmd.component)
		} else {
			newId = storage.RemoveComponent(id, cmd.compType)
		}

		if newId == 0 {
			deleted[cmd.entity] = true
			continue
		}
		current[cmd.entity] = newId
	}

	for _, cmd := range c.spawns {
		id := storage.Spawn(cmd.components...)
		if cmd.onSpawn != nil {
			cmd.onSpawn(id)
		}
	}

	for _, fn := range c.defers {
		fn()
	}

	c.spawns = c.spawns[:0]
	c.deletes = c.deletes[:0]
	c.structural = c.structural[:0]
	c.defers = c.defers[:0]
}
