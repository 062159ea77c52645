package node

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/go-arbor/arbor/pkg/signal"
	"github.com/go-arbor/arbor/pkg/world"
)

// listApplier replays one reactive-list block's diff stream against the
// live tree. children is the block-scoped, index-addressed list of
// materialized child entities; only this block's task mutates it, and
// only inside queued world mutations, which serializes it against reads.
type listApplier struct {
	parent   world.Entity
	block    int
	reg      *blockRegistry
	children []world.Entity
}

func (a *listApplier) run(ctx context.Context, w *world.World, diffs <-chan signal.VecDiff[*Builder]) {
	for {
		select {
		case <-ctx.Done():
			return
		case d, ok := <-diffs:
			if !ok {
				return
			}
			if !w.Contains(a.parent) {
				// The parent's despawn already destroyed this block's
				// children and will cancel this task; the stream is moot.
				return
			}
			a.check(d)
			if !w.Apply(ctx, func(w *world.World) { a.applyLocked(w, d) }) {
				return
			}
		}
	}
}

// check validates diff indices against the tracked list before the
// mutation is queued. A malformed index is a contract violation by the
// diff stream's producer and fails immediately.
func (a *listApplier) check(d signal.VecDiff[*Builder]) {
	n := len(a.children)
	switch d.Op {
	case signal.OpInsertAt:
		if d.Index < 0 || d.Index > n {
			panic(fmt.Sprintf("node: InsertAt index %d out of range [0,%d]", d.Index, n))
		}
	case signal.OpUpdateAt, signal.OpRemoveAt:
		if d.Index < 0 || d.Index >= n {
			panic(fmt.Sprintf("node: %s index %d out of range [0,%d)", d.Op, d.Index, n))
		}
	case signal.OpMove:
		if d.Index < 0 || d.Index >= n || d.NewIndex < 0 || d.NewIndex >= n {
			panic(fmt.Sprintf("node: Move indices (%d,%d) out of range [0,%d)", d.Index, d.NewIndex, n))
		}
	}
}

// applyLocked replays one diff inside a queued world mutation. Every
// branch re-checks parent liveness before attaching and despawns anything
// half-materialized when the parent is gone; every branch, including
// logical no-ops, marks the block inserted on the way out.
func (a *listApplier) applyLocked(w *world.World, d signal.VecDiff[*Builder]) {
	defer a.reg.markInserted(a.block)
	switch d.Op {
	case signal.OpReplace:
		old := a.children
		a.children = make([]world.Entity, len(d.Values))
		for i, c := range d.Values {
			a.children[i] = c.Spawn(w)
		}
		if w.Contains(a.parent) {
			// New run goes in before the old one is torn down so the
			// block never collapses to an avoidable empty gap.
			w.InsertChildren(a.parent, a.reg.offsetAt(a.block), a.children...)
			for _, e := range old {
				w.Despawn(e)
			}
			a.reg.setPopulation(a.block, len(a.children))
		} else {
			w.Logger().Debug("replace against despawned parent, cleaning up",
				zap.Uint64("parent", uint64(a.parent)), zap.Int("block", a.block))
			for _, e := range old {
				w.Despawn(e)
			}
			for _, e := range a.children {
				w.Despawn(e)
			}
			a.children = nil
			a.reg.setPopulation(a.block, 0)
		}

	case signal.OpInsertAt, signal.OpPush:
		index := d.Index
		if d.Op == signal.OpPush {
			index = len(a.children)
		}
		id := d.Value.Spawn(w)
		if w.Contains(a.parent) {
			w.InsertChildren(a.parent, a.reg.offsetAt(a.block)+index, id)
			a.children = append(a.children, 0)
			copy(a.children[index+1:], a.children[index:])
			a.children[index] = id
			a.reg.setPopulation(a.block, len(a.children))
		} else {
			w.Despawn(id)
		}

	case signal.OpUpdateAt:
		w.Despawn(a.children[d.Index]) // detaches from parent
		id := d.Value.Spawn(w)
		if w.Contains(a.parent) {
			a.children[d.Index] = id
			w.InsertChildren(a.parent, a.reg.offsetAt(a.block)+d.Index, id)
		} else {
			w.Despawn(id)
		}

	case signal.OpMove:
		if d.Index != d.NewIndex {
			a.children[d.Index], a.children[d.NewIndex] = a.children[d.NewIndex], a.children[d.Index]
			if w.Contains(a.parent) {
				off := a.reg.offsetAt(a.block)
				swapChildren(w, a.parent, off+d.Index, off+d.NewIndex)
			}
		}

	case signal.OpRemoveAt:
		w.Despawn(a.children[d.Index])
		a.children = append(a.children[:d.Index], a.children[d.Index+1:]...)
		a.reg.setPopulation(a.block, len(a.children))

	case signal.OpPop:
		if len(a.children) == 0 {
			return
		}
		w.Despawn(a.children[len(a.children)-1])
		a.children = a.children[:len(a.children)-1]
		a.reg.setPopulation(a.block, len(a.children))

	case signal.OpClear:
		for _, e := range a.children {
			w.Despawn(e)
		}
		a.children = nil
		a.reg.setPopulation(a.block, 0)
	}
}

// moveChild detaches the child at position from and reattaches it at
// position to, shifting the children between them.
func moveChild(w *world.World, parent world.Entity, from, to int) {
	if from == to {
		return
	}
	children := w.Children(parent)
	if from >= len(children) {
		return
	}
	e := children[from]
	w.RemoveChildren(parent, e)
	w.InsertChildren(parent, to, e)
}

// swapChildren exchanges the children at positions a and b in two
// detach/reattach steps: the source element moves to the destination
// slot, then the displaced element moves back to the vacated slot. All
// other children keep their relative order.
func swapChildren(w *world.World, parent world.Entity, a, b int) {
	moveChild(w, parent, a, b)
	if a < b {
		moveChild(w, parent, b-1, a)
	} else if a > b {
		moveChild(w, parent, b+1, a)
	}
}
