package ecs_test

import (
	"testing"

	"github.com/plus3/archecs/ecs"
	"github.com/stretchr/testify/assert"
)

type posVelRow struct {
	Pos Position
	Vel Velocity
}

func TestGetRowReinterpretsExactMatch(t *testing.T) {
	w := ecs.NewWorld()
	id, _ := w.Create(Position{X: 1, Y: 2}, Velocity{DX: 3, DY: 4})

	row, err := ecs.GetRow[posVelRow](w, id)
	assert.NoError(t, err)
	assert.Equal(t, Position{X: 1, Y: 2}, row.Pos)
	assert.Equal(t, Velocity{DX: 3, DY: 4}, row.Vel)

	row.Pos.X = 99
	assert.Equal(t, &Position{X: 99, Y: 2}, ecs.Get[Position](w, id))
}

func TestGetRowOnDeadEntityErrors(t *testing.T) {
	w := ecs.NewWorld()
	id, _ := w.Create(Position{}, Velocity{})
	w.Delete(id)

	_, err := ecs.GetRow[posVelRow](w, id)
	assert.ErrorIs(t, err, ecs.ErrEntityDead)
}

func TestGetRowPanicsOnMaskMismatch(t *testing.T) {
	w := ecs.NewWorld()
	id, _ := w.Create(Position{})

	assert.Panics(t, func() {
		ecs.GetRow[posVelRow](w, id)
	})
}

type outOfOrderRow struct {
	Vel Velocity
	Pos Position
}

func TestGetRowPanicsOnOutOfOrderFields(t *testing.T) {
	w := ecs.NewWorld()
	// Establish Position as ID 0 and Velocity as ID 1.
	id, _ := w.Create(Position{X: 1, Y: 2}, Velocity{DX: 3, DY: 4})

	// outOfOrderRow declares Velocity before Position, which is the
	// reverse of their ascending component-ID layout order.
	assert.Panics(t, func() {
		ecs.GetRow[outOfOrderRow](w, id)
	})
}

func TestEachInvokesOncePerLiveRowOfExactArchetype(t *testing.T) {
	w := ecs.NewWorld()

	for i := 0; i < 4; i++ {
		w.Create(Position{X: float32(i)}, Velocity{})
	}
	w.Create(Position{}, Velocity{}, Health{}) // different archetype, skipped

	var xs []float32
	ecs.Each(w, func(r *posVelRow) {
		xs = append(xs, r.Pos.X)
	})
	assert.Equal(t, []float32{0, 1, 2, 3}, xs)
}
