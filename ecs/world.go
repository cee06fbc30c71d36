package ecs

import (
	"fmt"
	"reflect"
	"unsafe"

	"github.com/kamstrup/intmap"
)

// World owns every archetype, the entry table, and the component registry.
// A single mutator at a time is assumed (see §5 of the design doc); World
// does no internal locking.
type World struct {
	registry *ComponentRegistry

	archetypes       []*Archetype             // insertion order — iteration depends on this
	archetypesByMask *intmap.Map[Mask, *Archetype]

	entries entryTable
}

// NewWorld creates an empty World with its own component registry.
func NewWorld() *World {
	return &World{
		registry:         NewComponentRegistry(),
		archetypesByMask: intmap.New[Mask, *Archetype](16),
		entries:          newEntryTable(),
	}
}

// archetypeFor returns the archetype for mask, creating it (and recording
// it in insertion order) on first demand.
func (w *World) archetypeFor(mask Mask) *Archetype {
	if a, ok := w.archetypesByMask.Get(mask); ok {
		return a
	}
	a := newArchetype(mask, w.registry)
	a.index = uint32(len(w.archetypes))
	w.archetypes = append(w.archetypes, a)
	w.archetypesByMask.Put(mask, a)
	return a
}

// describeComponent registers c's concrete type against the World's
// registry and returns its ComponentID, a pointer to its bytes, and its
// size — everything Archetype.writeComponent needs.
func (w *World) describeComponent(c any) (ComponentID, unsafe.Pointer, uintptr) {
	t := reflect.TypeOf(c)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	id := w.registry.register(t)
	return id, dataPointer(c), t.Size()
}

// Create spawns a new entity carrying the given components and returns its
// handle. Passing zero components panics: an archetype with no columns
// would need stride 0, which §3 disallows, mirroring the teacher's own
// "cannot spawn entity without components" panic.
//
// Create never actually fails in this Go realization — allocation failure
// is a stdlib runtime panic, not a returned error, because Go's allocator
// (the external collaborator the distilled spec assumes) doesn't expose a
// recoverable failure mode the way a hand-rolled one would. The error
// return exists for API fidelity with the distilled spec's operation table.
func (w *World) Create(components ...any) (EntityID, error) {
	if len(components) == 0 {
		panic("ecs: Create requires at least one component")
	}

	ids := make([]ComponentID, len(components))
	ptrs := make([]unsafe.Pointer, len(components))
	sizes := make([]uintptr, len(components))
	var mask Mask
	for i, c := range components {
		id, ptr, size := w.describeComponent(c)
		ids[i] = id
		ptrs[i] = ptr
		sizes[i] = size
		mask = mask.Set(id)
	}

	arch := w.archetypeFor(mask)
	row := arch.newRow(0)
	for i, id := range ids {
		arch.writeComponent(row, id, ptrs[i], sizes[i])
	}

	slot := w.entries.alloc()
	e := w.entries.get(slot)
	e.archetypeIndex = arch.index
	e.row = uint32(row)
	arch.backRefs[row] = slot

	return NewEntityID(slot, e.generation), nil
}

// Alive reports whether id still addresses a live entity: its slot exists
// and the slot's current generation matches the one id was issued with.
func (w *World) Alive(id EntityID) bool {
	slot := id.Slot()
	if !w.entries.isValidSlot(slot) {
		return false
	}
	return w.entries.get(slot).generation == id.Generation()
}

// Delete removes id's entity. A stale or already-deleted handle is a silent
// no-op, per §4.5: delete cannot fail.
func (w *World) Delete(id EntityID) {
	slot := id.Slot()
	if !w.entries.isValidSlot(slot) {
		return
	}
	e := w.entries.get(slot)
	if e.generation != id.Generation() {
		return
	}

	arch := w.archetypes[e.archetypeIndex]
	row := int(e.row)
	movedBackRef := arch.delete(row)
	w.entries.get(movedBackRef).row = uint32(row)
	w.entries.free(slot)
}

// lookup resolves a live handle to its current (archetype, row), or ok=false
// if the handle is stale.
func (w *World) lookup(id EntityID) (arch *Archetype, row int, ok bool) {
	slot := id.Slot()
	if !w.entries.isValidSlot(slot) {
		return nil, 0, false
	}
	e := w.entries.get(slot)
	if e.generation != id.Generation() {
		return nil, 0, false
	}
	return w.archetypes[e.archetypeIndex], int(e.row), true
}

// Has reports whether id's entity currently carries a T component. A stale
// handle reports false rather than erroring, per §6's get_comp/has table.
func Has[T any](w *World, id EntityID) bool {
	arch, _, ok := w.lookup(id)
	if !ok {
		return false
	}
	cid, ok := TryIDFor[T](w.registry)
	if !ok {
		return false
	}
	return arch.Has(cid)
}

// Get returns a pointer to id's T component, or nil if the handle is stale
// or the entity does not carry T. The pointer aliases the archetype's
// buffer; see §5 for the invalidation contract.
func Get[T any](w *World, id EntityID) *T {
	arch, row, ok := w.lookup(id)
	if !ok {
		return nil
	}
	cid, ok := TryIDFor[T](w.registry)
	if !ok || !arch.Has(cid) {
		return nil
	}
	return (*T)(arch.componentPointer(row, cid))
}

// Add migrates id's entity into the archetype for (old mask | T), copying
// every previously-present component across and writing value into the new
// column. Failure leaves the World unchanged: nothing is migrated and no
// row is orphaned, per §7.
func Add[T any](w *World, id EntityID, value T) error {
	oldArch, oldRow, ok := w.lookup(id)
	if !ok {
		return fmt.Errorf("%w: %v", ErrEntityDead, id)
	}

	newID := RegisterComponent[T](w.registry)
	if oldArch.Has(newID) {
		return fmt.Errorf("%w: component %d on entity %v", ErrComponentAlreadyPresent, newID, id)
	}

	newArch := w.archetypeFor(oldArch.mask.Set(newID))
	newRow := newArch.copyFrom(oldArch, oldRow)
	size := w.registry.Info(newID).Size
	newArch.writeComponent(newRow, newID, unsafe.Pointer(&value), size)

	movedBackRef := oldArch.delete(oldRow)
	w.entries.get(movedBackRef).row = uint32(oldRow)

	slot := id.Slot()
	e := w.entries.get(slot)
	e.archetypeIndex = newArch.index
	e.row = uint32(newRow)
	newArch.backRefs[newRow] = slot

	return nil
}

// Remove migrates id's entity into the archetype for (old mask without T).
// If T is id's last remaining component, there is no archetype to migrate
// into (§3 disallows a stride-0 archetype), so the entity is deleted
// outright instead — the same special case the teacher's own
// RemoveComponent applies when the new type list would be empty.
//
// Remove returns ErrComponentMissing if the entity does not carry T,
// resolving the distilled spec's §9 open question (silent no-op vs. error)
// in favor of an error: a Remove the caller believed would do something but
// didn't is a more dangerous silent failure than a noisy one.
func Remove[T any](w *World, id EntityID) error {
	oldArch, oldRow, ok := w.lookup(id)
	if !ok {
		return fmt.Errorf("%w: %v", ErrEntityDead, id)
	}

	remID, known := TryIDFor[T](w.registry)
	if !known || !oldArch.Has(remID) {
		return fmt.Errorf("%w: entity %v", ErrComponentMissing, id)
	}

	newMask := oldArch.mask.Clear(remID)
	if newMask == 0 {
		w.Delete(id)
		return nil
	}

	newArch := w.archetypeFor(newMask)
	newRow := newArch.copyFrom(oldArch, oldRow)

	movedBackRef := oldArch.delete(oldRow)
	w.entries.get(movedBackRef).row = uint32(oldRow)

	slot := id.Slot()
	e := w.entries.get(slot)
	e.archetypeIndex = newArch.index
	e.row = uint32(newRow)
	newArch.backRefs[newRow] = slot

	return nil
}
