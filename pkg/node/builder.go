package node

import (
	"context"

	"github.com/go-arbor/arbor/pkg/task"
	"github.com/go-arbor/arbor/pkg/world"
)

// Builder is a pending description of one entity. Methods queue work that
// Spawn materializes; the builder owns everything it accumulates until
// then, after which the launched tasks belong to the entity.
type Builder struct {
	attrs        []any
	onSpawns     []func(*world.World, world.Entity)
	taskStarters []taskStarter
	reg          *blockRegistry
}

// taskStarter launches one persistent task bound to the freshly created
// entity and returns its handle.
type taskStarter func(w *world.World, e world.Entity) *task.Handle

// New returns a builder for an entity carrying the given initial
// attribute values.
func New(attrs ...any) *Builder {
	return &Builder{attrs: attrs, reg: newBlockRegistry()}
}

// OnSpawn queues f to run exactly once, synchronously, at
// materialization, in declaration order.
func (b *Builder) OnSpawn(f func(*world.World, world.Entity)) *Builder {
	b.onSpawns = append(b.onSpawns, f)
	return b
}

// WithEntity queues f to run at materialization if the entity is live.
func (b *Builder) WithEntity(f func(*world.World, world.Entity)) *Builder {
	return b.OnSpawn(func(w *world.World, e world.Entity) {
		if w.Contains(e) {
			f(w, e)
		}
	})
}

// HoldTasks adopts externally created task handles into the entity's
// lifetime: they are cancelled when the entity is despawned.
func (b *Builder) HoldTasks(handles ...*task.Handle) *Builder {
	return b.OnSpawn(func(w *world.World, e world.Entity) {
		for _, h := range handles {
			w.HoldTask(e, h)
		}
	})
}

// Spawn materializes the builder into w: it creates the entity, runs the
// queued one-shot mutations in order, launches every subscription and
// child-block task on the world's pool, and returns the entity identifier
// without waiting for children to populate.
func (b *Builder) Spawn(w *world.World) world.Entity {
	id := w.Spawn(b.attrs...)
	if id == 0 {
		// Entity creation cannot fail in a live world; a zero id means
		// the arena was misused and nothing below can be attached.
		panic("node: world returned the zero entity")
	}
	for _, f := range b.onSpawns {
		f(w, id)
	}
	for _, start := range b.taskStarters {
		w.HoldTask(id, start(w, id))
	}
	return id
}

// spawnTask is the shared launcher for subscription and block tasks.
func spawnTask(w *world.World, f func(context.Context)) *task.Handle {
	return w.Pool().Spawn(w.Context(), f)
}
