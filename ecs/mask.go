package ecs

import "math/bits"

// Mask is a fixed-width bitset over ComponentIDs. With MaxComponents == 64,
// a single uint64 word addresses the whole component universe — the exact
// condition the distilled spec calls out as the reason for the 64-wide
// default.
type Mask uint64

// Set returns the mask with id added.
func (m Mask) Set(id ComponentID) Mask {
	return m | (1 << uint(id))
}

// Clear returns the mask with id removed.
func (m Mask) Clear(id ComponentID) Mask {
	return m &^ (1 << uint(id))
}

// Has reports whether id is present in the mask.
func (m Mask) Has(id ComponentID) bool {
	return m&(1<<uint(id)) != 0
}

// Union returns the bitwise OR of m and other.
func (m Mask) Union(other Mask) Mask {
	return m | other
}

// Without returns m with every bit set in other cleared (m &^ other).
func (m Mask) Without(other Mask) Mask {
	return m &^ other
}

// IsSupersetOf reports whether m contains every bit set in sub.
func (m Mask) IsSupersetOf(sub Mask) bool {
	return m&sub == sub
}

// Intersects reports whether m and other share any set bit.
func (m Mask) Intersects(other Mask) bool {
	return m&other != 0
}

// Len returns the number of components set in the mask.
func (m Mask) Len() int {
	return bits.OnesCount64(uint64(m))
}

// MaskOf builds a Mask from a list of component IDs.
func MaskOf(ids ...ComponentID) Mask {
	var m Mask
	for _, id := range ids {
		m = m.Set(id)
	}
	return m
}

// Bits yields the component IDs set in m, in ascending order. Archetype row
// layout and projection matching both depend on this ascending traversal.
func (m Mask) Bits() func(yield func(ComponentID) bool) {
	return func(yield func(ComponentID) bool) {
		rem := uint64(m)
		for rem != 0 {
			id := ComponentID(bits.TrailingZeros64(rem))
			if !yield(id) {
				return
			}
			rem &^= 1 << uint(id)
		}
	}
}
