package ecs

// entry is the Entry Table record indirecting a slot to its current
// (archetype, row) and carrying the generation that distinguishes the
// entity currently occupying the slot from any it recycled.
//
// When the slot is free, archetypeIndex is meaningless and row instead
// encodes the free list: it holds the index of the next free slot, except
// at the tail of the chain, where a slot points at itself (a self-loop
// terminator) rather than at a sentinel value.
type entry struct {
	archetypeIndex uint32
	row            uint32
	generation     uint32
}

// entryTable is the World's slot vector plus embedded free list. Slots are
// never physically freed, only recycled.
type entryTable struct {
	entries  []entry
	freeHead int32 // -1 means the free list is empty
}

func newEntryTable() entryTable {
	return entryTable{freeHead: -1}
}

// alloc pops a free slot (recycling its generation) or grows the table by
// one fresh slot (generation 0). It does not set archetypeIndex/row; the
// caller fills those in once it knows where the new row landed.
func (t *entryTable) alloc() uint32 {
	if t.freeHead >= 0 {
		slot := uint32(t.freeHead)
		e := &t.entries[slot]
		if e.row == slot {
			t.freeHead = -1
		} else {
			t.freeHead = int32(e.row)
		}
		return slot
	}
	slot := uint32(len(t.entries))
	t.entries = append(t.entries, entry{})
	return slot
}

// free bumps slot's generation (wrapping) and links it into the free list
// head. Must be called exactly once per delete, after the archetype row has
// already been removed.
func (t *entryTable) free(slot uint32) {
	e := &t.entries[slot]
	e.generation++
	if t.freeHead < 0 {
		e.row = slot
	} else {
		e.row = uint32(t.freeHead)
	}
	t.freeHead = int32(slot)
}

func (t *entryTable) get(slot uint32) *entry {
	return &t.entries[slot]
}

func (t *entryTable) isValidSlot(slot uint32) bool {
	return slot < uint32(len(t.entries))
}
