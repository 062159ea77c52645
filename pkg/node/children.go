package node

import (
	"context"

	"go.uber.org/zap"

	"github.com/go-arbor/arbor/pkg/signal"
	"github.com/go-arbor/arbor/pkg/task"
	"github.com/go-arbor/arbor/pkg/world"
)

// Child declares a single static child. A nil child is skipped without
// claiming a block.
func (b *Builder) Child(child *Builder) *Builder {
	if child == nil {
		return b
	}
	block := b.reg.addBlock(blockSingle)
	reg := b.reg
	b.taskStarters = append(b.taskStarters, func(w *world.World, parent world.Entity) *task.Handle {
		return spawnTask(w, func(ctx context.Context) {
			if block > 0 && !reg.waitUntilInserted(ctx, block-1) {
				return
			}
			w.Apply(ctx, func(w *world.World) {
				id := child.Spawn(w)
				if w.Contains(parent) {
					w.InsertChildren(parent, reg.offsetAt(block), id)
					reg.setPopulation(block, 1)
				} else {
					// Parent despawned while we were materializing.
					w.Logger().Debug("child orphaned at insert, despawning",
						zap.Uint64("parent", uint64(parent)), zap.Int("block", block))
					w.Despawn(id)
				}
				reg.markInserted(block)
			})
		})
	})
	return b
}

// Children declares a static list of children as one block. Nil entries
// are skipped.
func (b *Builder) Children(children ...*Builder) *Builder {
	kept := make([]*Builder, 0, len(children))
	for _, c := range children {
		if c != nil {
			kept = append(kept, c)
		}
	}
	block := b.reg.addBlock(blockStatic)
	reg := b.reg
	b.taskStarters = append(b.taskStarters, func(w *world.World, parent world.Entity) *task.Handle {
		return spawnTask(w, func(ctx context.Context) {
			if block > 0 && !reg.waitUntilInserted(ctx, block-1) {
				return
			}
			w.Apply(ctx, func(w *world.World) {
				ids := make([]world.Entity, len(kept))
				for i, c := range kept {
					ids[i] = c.Spawn(w)
				}
				if w.Contains(parent) {
					w.InsertChildren(parent, reg.offsetAt(block), ids...)
					reg.setPopulation(block, len(ids))
				} else {
					for _, id := range ids {
						w.Despawn(id)
					}
				}
				reg.markInserted(block)
			})
		})
	})
	return b
}

// ChildSignal declares an optional reactive single child: each published
// builder replaces the previous child, and a nil value removes it.
func (b *Builder) ChildSignal(src signal.Source[*Builder]) *Builder {
	block := b.reg.addBlock(blockOptional)
	reg := b.reg
	b.taskStarters = append(b.taskStarters, func(w *world.World, parent world.Entity) *task.Handle {
		return spawnTask(w, func(ctx context.Context) {
			if block > 0 && !reg.waitUntilInserted(ctx, block-1) {
				return
			}
			var existing world.Entity
			ch := src.Watch(ctx)
			for {
				var child *Builder
				select {
				case <-ctx.Done():
					return
				case v, ok := <-ch:
					if !ok {
						return
					}
					child = v
				}
				w.Apply(ctx, func(w *world.World) {
					if existing != 0 {
						w.Despawn(existing)
						existing = 0
					}
					if child != nil {
						id := child.Spawn(w)
						if w.Contains(parent) {
							w.InsertChildren(parent, reg.offsetAt(block), id)
							existing = id
							reg.setPopulation(block, 1)
						} else {
							w.Despawn(id)
							reg.setPopulation(block, 0)
						}
					} else {
						reg.setPopulation(block, 0)
					}
					reg.markInserted(block)
				})
			}
		})
	})
	return b
}

// ChildrenSignalVec declares a reactively-diffed list of children. Every
// diff published by src replays, in order, against the block's live
// children.
func (b *Builder) ChildrenSignalVec(src signal.DiffSource[*Builder]) *Builder {
	block := b.reg.addBlock(blockReactive)
	reg := b.reg
	b.taskStarters = append(b.taskStarters, func(w *world.World, parent world.Entity) *task.Handle {
		return spawnTask(w, func(ctx context.Context) {
			if block > 0 && !reg.waitUntilInserted(ctx, block-1) {
				return
			}
			a := &listApplier{parent: parent, block: block, reg: reg}
			a.run(ctx, w, src.WatchDiffs(ctx))
		})
	})
	return b
}
