package node

import (
	"context"

	"github.com/go-arbor/arbor/pkg/signal"
	"github.com/go-arbor/arbor/pkg/task"
	"github.com/go-arbor/arbor/pkg/world"
)

// OnSignal attaches a persistent subscription: f is invoked for the
// source's current value and for every later value, for the entity's
// whole lifetime. f runs on the subscription's own task and must route
// world mutations through Apply.
//
// Package-level because Go methods cannot take type parameters.
func OnSignal[T any](b *Builder, src signal.Source[T], f func(ctx context.Context, w *world.World, e world.Entity, v T)) *Builder {
	b.taskStarters = append(b.taskStarters, func(w *world.World, e world.Entity) *task.Handle {
		return spawnTask(w, func(ctx context.Context) {
			ch := src.Watch(ctx)
			for {
				select {
				case <-ctx.Done():
					return
				case v, ok := <-ch:
					if !ok {
						return
					}
					f(ctx, w, e, v)
				}
			}
		})
	})
	return b
}

// OnSignalWithEntity is OnSignal with the apply-and-liveness boilerplate
// folded in: f runs inside a queued mutation only while the entity is
// live.
func OnSignalWithEntity[T any](b *Builder, src signal.Source[T], f func(w *world.World, e world.Entity, v T)) *Builder {
	return OnSignal(b, src, func(ctx context.Context, w *world.World, e world.Entity, v T) {
		w.Apply(ctx, func(w *world.World) {
			if w.Contains(e) {
				f(w, e, v)
			}
		})
	})
}

// AttrSignal keeps the entity's attribute of type A equal to the source's
// latest value.
func AttrSignal[A any](b *Builder, src signal.Source[A]) *Builder {
	return OnSignalWithEntity(b, src, func(w *world.World, e world.Entity, v A) {
		world.Insert(w, e, v)
	})
}

// PatchSignal applies f to the entity's attribute of type A for every
// value the source publishes.
func PatchSignal[A, T any](b *Builder, src signal.Source[T], f func(*A, T)) *Builder {
	return OnSignalWithEntity(b, src, func(w *world.World, e world.Entity, v T) {
		world.Patch(w, e, func(a *A) { f(a, v) })
	})
}
