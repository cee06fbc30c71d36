package ecs

import (
	"fmt"
	"reflect"
	"unsafe"
)

// rowMask derives the Mask a RowType struct of plain (non-pointer) component
// fields denotes, registering any field type not yet seen.
func rowMask(t reflect.Type, reg *ComponentRegistry) Mask {
	var mask Mask
	for i := 0; i < t.NumField(); i++ {
		mask = mask.Set(reg.register(t.Field(i).Type))
	}
	return mask
}

// verifyRowLayout is the ensure_in_order debug assertion §4.2 calls for: it
// confirms that T's Go-computed field offsets exactly match the
// archetype's own ascending-ID-order offsets, and that T's overall size
// exactly matches the archetype's stride (no Go trailing padding beyond
// what the row already accounts for). Both must hold before a row's bytes
// can be safely reinterpreted as *T — this is what makes GetRow/Each a
// reinterpret-cast rather than a field-by-field copy. A mismatch is a
// programming error (fields declared out of component-ID order, or a
// RowType whose trailing padding doesn't line up with the row stride) and
// panics rather than returning an error, per §7.
func verifyRowLayout(t reflect.Type, arch *Archetype, reg *ComponentRegistry) {
	if t.Kind() != reflect.Struct {
		panic(fmt.Sprintf("ecs: row type %s must be a struct of component fields", t))
	}
	if uintptr(t.Size()) != arch.layout.stride {
		panic(fmt.Sprintf(
			"ecs: row type %s has size %d but archetype stride is %d — GetRow/Each require an exact byte match; declare the struct so its natural size equals the sum of its fields' sizes with no trailing padding, or use Iter/View instead",
			t, t.Size(), arch.layout.stride))
	}
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		id := reg.register(f.Type)
		if !arch.Has(id) {
			panic(fmt.Sprintf("ecs: row type %s field %q (component %s) is not in this archetype", t, f.Name, f.Type))
		}
		if arch.layout.offset[id] != uintptr(f.Offset) {
			panic(fmt.Sprintf(
				"ecs: row type %s field %q is out of ascending-component-ID order: archetype places it at byte offset %d, the struct places it at %d — row type fields must be declared in the same ascending component-ID order the archetype lays them out in",
				t, f.Name, arch.layout.offset[id], f.Offset))
		}
	}
}

// GetRow returns a pointer to id's row reinterpreted as *T, where T is a
// struct whose fields are the exact component set of id's archetype,
// declared in ascending component-ID order (see verifyRowLayout). It is the
// literal, zero-copy realization of the distilled spec's get_row<RowType>.
//
// GetRow panics — rather than erroring — on a layout mismatch, matching
// §7's classification of mask/order mismatches as programming errors.
// EntityDead, the one error get_row's own table lists, is still returned
// normally.
func GetRow[T any](w *World, id EntityID) (*T, error) {
	arch, row, ok := w.lookup(id)
	if !ok {
		return nil, fmt.Errorf("%w: %v", ErrEntityDead, id)
	}
	t := reflect.TypeOf((*T)(nil)).Elem()
	mask := rowMask(t, w.registry)
	if !arch.HasExact(mask) {
		panic(fmt.Sprintf("ecs: GetRow[%s]: entity's archetype does not exactly match the row type's component set", t))
	}
	verifyRowLayout(t, arch, w.registry)
	stride := int(arch.layout.stride)
	start := row * stride
	return (*T)(unsafe.Pointer(&arch.buffer[start])), nil
}

// Each is the homogeneous-archetype fast path: for every archetype whose
// mask exactly equals T's component set, its buffer is reinterpreted as a
// contiguous []T and f is invoked once per live row, in row order. T is
// subject to the same layout verification as GetRow.
func Each[T any](w *World, f func(*T)) {
	t := reflect.TypeOf((*T)(nil)).Elem()
	mask := rowMask(t, w.registry)
	for _, arch := range w.archetypes {
		if !arch.HasExact(mask) || arch.Len() == 0 {
			continue
		}
		verifyRowLayout(t, arch, w.registry)
		values := unsafe.Slice((*T)(unsafe.Pointer(&arch.buffer[0])), arch.Len())
		for i := range values {
			f(&values[i])
		}
	}
}
