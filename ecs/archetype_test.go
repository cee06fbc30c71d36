package ecs

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
)

type archPos struct{ X, Y float32 }
type archVel struct{ DX, DY float32 }

func TestArchetypeNewRowZeroesAndGrows(t *testing.T) {
	reg := NewComponentRegistry()
	posID := RegisterComponent[archPos](reg)
	a := newArchetype(MaskOf(posID), reg)

	assert.Equal(t, 0, a.Len())

	row := a.newRow(7)
	assert.Equal(t, 0, row)
	assert.Equal(t, 1, a.Len())
	assert.Equal(t, uint32(7), a.backRefs[0])

	bytes := a.rowBytes(row)
	for _, b := range bytes {
		assert.Equal(t, byte(0), b)
	}

	// Drive past the initial capacity to exercise grow's doubling path.
	for i := 0; i < archetypeInitialCapacity*3; i++ {
		a.newRow(uint32(i))
	}
	assert.Equal(t, archetypeInitialCapacity*3+1, a.Len())
	assert.GreaterOrEqual(t, a.cap, a.len)
}

func TestArchetypeWriteAndReadComponent(t *testing.T) {
	reg := NewComponentRegistry()
	posID := RegisterComponent[archPos](reg)
	a := newArchetype(MaskOf(posID), reg)
	row := a.newRow(0)

	src := archPos{X: 3, Y: 4}
	a.writeComponent(row, posID, unsafe.Pointer(&src), unsafe.Sizeof(src))

	got := (*archPos)(a.componentPointer(row, posID))
	assert.Equal(t, archPos{X: 3, Y: 4}, *got)
}

func TestArchetypeCopyFromSharedComponentsOnly(t *testing.T) {
	reg := NewComponentRegistry()
	posID := RegisterComponent[archPos](reg)
	velID := RegisterComponent[archVel](reg)

	src := newArchetype(MaskOf(posID), reg)
	srcRow := src.newRow(42)
	p := archPos{X: 1, Y: 2}
	src.writeComponent(srcRow, posID, unsafe.Pointer(&p), unsafe.Sizeof(p))

	dst := newArchetype(MaskOf(posID, velID), reg)
	dstRow := dst.copyFrom(src, srcRow)

	assert.Equal(t, uint32(42), dst.backRefs[dstRow])
	got := (*archPos)(dst.componentPointer(dstRow, posID))
	assert.Equal(t, archPos{X: 1, Y: 2}, *got)

	// Velocity was never written on src; dst's fresh row for it stays zeroed.
	gotVel := (*archVel)(dst.componentPointer(dstRow, velID))
	assert.Equal(t, archVel{}, *gotVel)
}

func TestArchetypeDeleteSwapRemove(t *testing.T) {
	reg := NewComponentRegistry()
	posID := RegisterComponent[archPos](reg)
	a := newArchetype(MaskOf(posID), reg)

	r0 := a.newRow(100)
	r1 := a.newRow(101)
	r2 := a.newRow(102)

	p0, p1, p2 := archPos{X: 0}, archPos{X: 1}, archPos{X: 2}
	a.writeComponent(r0, posID, unsafe.Pointer(&p0), unsafe.Sizeof(p0))
	a.writeComponent(r1, posID, unsafe.Pointer(&p1), unsafe.Sizeof(p1))
	a.writeComponent(r2, posID, unsafe.Pointer(&p2), unsafe.Sizeof(p2))

	moved := a.delete(0)

	assert.Equal(t, uint32(102), moved, "row 2's back-ref moved into row 0's slot")
	assert.Equal(t, 2, a.Len())
	assert.Equal(t, uint32(102), a.backRefs[0])
	got := (*archPos)(a.componentPointer(0, posID))
	assert.Equal(t, archPos{X: 2}, *got)

	// row 1 untouched
	assert.Equal(t, uint32(101), a.backRefs[1])
}

func TestArchetypeDeleteLastRowNoSwap(t *testing.T) {
	reg := NewComponentRegistry()
	posID := RegisterComponent[archPos](reg)
	a := newArchetype(MaskOf(posID), reg)

	a.newRow(1)
	a.backRefs[0] = 1
	moved := a.delete(0)

	assert.Equal(t, uint32(1), moved)
	assert.Equal(t, 0, a.Len())
}

func TestArchetypeHasAllHasExact(t *testing.T) {
	reg := NewComponentRegistry()
	posID := RegisterComponent[archPos](reg)
	velID := RegisterComponent[archVel](reg)
	a := newArchetype(MaskOf(posID, velID), reg)

	assert.True(t, a.HasAll(MaskOf(posID)))
	assert.True(t, a.HasAll(MaskOf(posID, velID)))
	assert.True(t, a.HasExact(MaskOf(posID, velID)))
	assert.False(t, a.HasExact(MaskOf(posID)))
}
