package ecs

// Commands buffers structural operations — spawn, delete, add, remove — so
// that code iterating a World via Each/Iter/View can queue mutations
// without invalidating the pointers that iteration is currently handing
// out (see the invalidation note on rowIterator in iterator.go).
// Queued operations are applied in one batch with Flush.
type Commands struct {
	spawns  []spawnCommand
	deletes []EntityID
	adds    []addCommand
	removes []removeCommand
	defers  []func()
}

// NewCommands returns an empty command buffer for w.
func NewCommands(w *World) *Commands {
	return &Commands{}
}

type spawnCommand struct {
	components []any
}

type addCommand struct {
	entity EntityID
	apply  func(w *World) error
}

type removeCommand struct {
	entity EntityID
	apply  func(w *World) error
}

// Defer queues an arbitrary function to run during Flush, after every
// other queued operation has applied.
func (c *Commands) Defer(fn func()) {
	c.defers = append(c.defers, fn)
}

// Spawn queues an entity creation with the given components.
func (c *Commands) Spawn(components ...any) {
	c.spawns = append(c.spawns, spawnCommand{components: components})
}

// Delete queues an entity deletion.
func (c *Commands) Delete(entity EntityID) {
	c.deletes = append(c.deletes, entity)
}

// AddComponent queues adding a T component to entity. Because Add is
// generic and Commands itself cannot carry a type parameter per entry,
// the call captures the concrete T in a closure evaluated at Flush time.
func AddComponent[T any](c *Commands, entity EntityID, value T) {
	c.adds = append(c.adds, addCommand{
		entity: entity,
		apply:  func(w *World) error { return Add[T](w, entity, value) },
	})
}

// RemoveComponent queues removing a T component from entity.
func RemoveComponent[T any](c *Commands, entity EntityID) {
	c.removes = append(c.removes, removeCommand{
		entity: entity,
		apply:  func(w *World) error { return Remove[T](w, entity) },
	})
}

// Flush applies every queued operation to w, in the order deletes, removes,
// adds, spawns, defers, then empties the buffer for reuse. An add or remove
// queued against an entity that a queued delete also targets is skipped —
// the entity is gone before its turn comes regardless of queue position.
// Errors from individual add/remove operations (a stale handle, a duplicate
// component) are swallowed: Flush's job is to apply what still makes sense,
// not to report on commands whose target has since moved on.
func (c *Commands) Flush(w *World) {
	deleted := make(map[EntityID]bool, len(c.deletes))
	for _, id := range c.deletes {
		w.Delete(id)
		deleted[id] = true
	}

	for _, cmd := range c.removes {
		if !deleted[cmd.entity] {
			_ = cmd.apply(w)
		}
	}

	for _, cmd := range c.adds {
		if !deleted[cmd.entity] {
			_ = cmd.apply(w)
		}
	}

	for _, cmd := range c.spawns {
		_, _ = w.Create(cmd.components...)
	}

	for _, fn := range c.defers {
		fn()
	}

	c.spawns = c.spawns[:0]
	c.deletes = c.deletes[:0]
	c.adds = c.adds[:0]
	c.removes = c.removes[:0]
	c.defers = c.defers[:0]
}
