package ecs

// iterState is one of the three states the distilled spec's §4.6 names:
// Scanning for the next matching archetype, YieldingFrom a matching
// archetype's rows, or Done.
type iterState int

const (
	iterScanning iterState = iota
	iterYielding
	iterDone
)

// rowIterator is the literal state machine from §4.6: Scanning(k) advances
// k past archetypes that don't match query or are empty; on a match it
// moves to YieldingFrom(k, 0); YieldingFrom produces rows in ascending
// index order and falls back to Scanning(k+1) once the archetype is
// exhausted. View.Iter (and so the package-level Iter) drives it; callers
// never see iterState directly.
//
// Per §5, World mutation invalidates any pointer this iterator has handed
// out — adding entities mid-iteration is undefined behavior because
// archetype growth may move the buffer a live pointer addresses. Collect
// first, mutate after (Commands exists for exactly this reason).
type rowIterator struct {
	world   *World
	query   Mask
	state   iterState
	archIdx int
	rowIdx  int
}

func newRowIterator(w *World, query Mask) *rowIterator {
	return &rowIterator{world: w, query: query, state: iterScanning}
}

// next advances the state machine and reports the next (archetype, row) to
// yield, or ok=false once Done.
func (it *rowIterator) next() (arch *Archetype, row int, ok bool) {
	for {
		switch it.state {
		case iterScanning:
			if it.archIdx >= len(it.world.archetypes) {
				it.state = iterDone
				continue
			}
			a := it.world.archetypes[it.archIdx]
			if a.HasAll(it.query) && a.Len() > 0 {
				it.rowIdx = 0
				it.state = iterYielding
				continue
			}
			it.archIdx++

		case iterYielding:
			a := it.world.archetypes[it.archIdx]
			r := it.rowIdx
			it.rowIdx++
			if it.rowIdx >= a.Len() {
				it.archIdx++
				it.state = iterScanning
			}
			return a, r, true

		case iterDone:
			return nil, 0, false
		}
	}
}
