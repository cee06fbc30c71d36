package ecs

import "unsafe"

const archetypeInitialCapacity = 8

// poisonByte fills a row's bytes after a swap-remove has vacated it, so that
// a stray pointer held past a delete reads obviously-wrong data instead of
// silently stale data. This is a debug aid, not a security boundary.
const poisonByte = 0xCD

// Archetype is the dense, row-major table holding every entity with exactly
// one Mask's worth of components. Row i occupies buffer[i*stride:(i+1)*stride];
// within a row, components sit at the offsets computed by computeLayout.
type Archetype struct {
	mask     Mask
	layout   layout
	buffer   []byte
	backRefs []uint32 // entry-table slot that currently owns row i
	len      int
	cap      int
	index    uint32 // this archetype's position in World.archetypes
}

// newArchetype allocates an empty table for mask. Storage is not reserved
// until the first row is written (initial capacity is zero, matching the
// distilled spec's growth policy).
func newArchetype(mask Mask, reg *ComponentRegistry) *Archetype {
	l := computeLayout(mask, reg)
	return &Archetype{
		mask:   mask,
		layout: l,
	}
}

// Mask returns the archetype's component set.
func (a *Archetype) Mask() Mask { return a.mask }

// Len returns the number of live rows.
func (a *Archetype) Len() int { return a.len }

// Has reports whether this archetype carries component id.
func (a *Archetype) Has(id ComponentID) bool { return a.mask.Has(id) }

// HasAll reports whether this archetype's mask is a superset of sub.
func (a *Archetype) HasAll(sub Mask) bool { return a.mask.IsSupersetOf(sub) }

// HasExact reports whether this archetype's mask equals other exactly.
func (a *Archetype) HasExact(other Mask) bool { return a.mask == other }

// grow doubles capacity (starting from archetypeInitialCapacity) until it
// can hold at least need rows.
func (a *Archetype) grow(need int) {
	if need <= a.cap {
		return
	}
	newCap := a.cap
	if newCap == 0 {
		newCap = archetypeInitialCapacity
	}
	for newCap < need {
		newCap *= 2
	}
	stride := int(a.layout.stride)
	newBuf := make([]byte, newCap*stride)
	copy(newBuf, a.buffer[:a.len*stride])
	a.buffer = newBuf

	newRefs := make([]uint32, newCap)
	copy(newRefs, a.backRefs)
	a.backRefs = newRefs

	a.cap = newCap
}

// newRow reserves one zeroed row, records backRef as its owning entry slot,
// and returns the row index.
func (a *Archetype) newRow(backRef uint32) int {
	a.grow(a.len + 1)
	row := a.len
	stride := int(a.layout.stride)
	start := row * stride
	for b := start; b < start+stride; b++ {
		a.buffer[b] = 0
	}
	a.backRefs[row] = backRef
	a.len++
	return row
}

// rowBytes returns the byte slice backing row i.
func (a *Archetype) rowBytes(row int) []byte {
	stride := int(a.layout.stride)
	start := row * stride
	return a.buffer[start : start+stride : start+stride]
}

// componentPointer returns an unsafe pointer to component id within row.
// The caller must already know (via Has) that id is present.
func (a *Archetype) componentPointer(row int, id ComponentID) unsafe.Pointer {
	stride := int(a.layout.stride)
	start := row*stride + int(a.layout.offset[id])
	return unsafe.Pointer(&a.buffer[start])
}

// writeComponent byte-copies size bytes from src into row's slot for id.
func (a *Archetype) writeComponent(row int, id ComponentID, src unsafe.Pointer, size uintptr) {
	if size == 0 {
		return
	}
	dst := a.componentPointer(row, id)
	copy(unsafe.Slice((*byte)(dst), size), unsafe.Slice((*byte)(src), size))
}

// copyFrom reserves a new row in a and copies every component id present in
// both a's and src's masks from src's row into it. Components only a has
// (the newly-added one, on an add()) are left zeroed; components only src
// has (the one being dropped, on a remove()) are simply not copied. The new
// row's back-ref is inherited from src's row.
func (a *Archetype) copyFrom(src *Archetype, srcRow int) int {
	backRef := src.backRefs[srcRow]
	dstRow := a.newRow(backRef)

	shared := a.mask & src.mask
	for id := range shared.Bits() {
		size := a.layout.sizes[id]
		if size == 0 {
			continue
		}
		srcPtr := src.componentPointer(srcRow, id)
		dstPtr := a.componentPointer(dstRow, id)
		copy(unsafe.Slice((*byte)(dstPtr), size), unsafe.Slice((*byte)(srcPtr), size))
	}
	return dstRow
}

// delete swap-removes row i: if i is not the last row, the last row's bytes
// and back-ref are copied over it. It returns the back-ref of whichever row
// physically moved into slot i (the original owner of the last row), so the
// caller can repoint that entry's row index. If i was already the last row,
// the returned back-ref is i's own — the caller reads that as "nothing
// moved".
func (a *Archetype) delete(i int) (movedBackRef uint32) {
	last := a.len - 1
	stride := int(a.layout.stride)

	if i != last {
		srcStart := last * stride
		dstStart := i * stride
		copy(a.buffer[dstStart:dstStart+stride], a.buffer[srcStart:srcStart+stride])
		a.backRefs[i] = a.backRefs[last]
	}
	movedBackRef = a.backRefs[last]

	tailStart := last * stride
	for b := tailStart; b < tailStart+stride; b++ {
		a.buffer[b] = poisonByte
	}
	a.backRefs[last] = 0
	a.len--
	return movedBackRef
}
