package ecs

import "errors"

// Sentinel errors returned by World operations. Test and caller code should
// compare against these with errors.Is, since the concrete error values
// returned are wrapped with the offending EntityID/ComponentID for context.
var (
	// ErrEntityDead is returned when an operation is attempted against an
	// EntityID whose generation no longer matches its slot's current
	// generation.
	ErrEntityDead = errors.New("ecs: entity is dead")

	// ErrComponentAlreadyPresent is returned by Add when the entity's
	// archetype already carries the component being added.
	ErrComponentAlreadyPresent = errors.New("ecs: component already present")

	// ErrComponentMissing is returned by Remove when the entity's
	// archetype does not carry the component being removed. The distilled
	// spec leaves this an open question (silent no-op vs. error); this
	// module picks "error" — see DESIGN.md.
	ErrComponentMissing = errors.New("ecs: component missing")
)
