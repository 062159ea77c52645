package element

import (
	"github.com/go-arbor/arbor/pkg/node"
	"github.com/go-arbor/arbor/pkg/signal"
	"github.com/go-arbor/arbor/pkg/style"
	"github.com/go-arbor/arbor/pkg/world"
)

// Generic attribute access for any element type: one set/patch/subscribe
// implemented once instead of per-attribute accessor triplets.

// WithAttr attaches an attribute value at materialization.
func WithAttr[E Element, A any](el E, attr A) E {
	el.Builder().WithEntity(func(w *world.World, e world.Entity) {
		world.Insert(w, e, attr)
	})
	return el
}

// PatchAttr mutates an already-attached attribute at materialization.
func PatchAttr[E Element, A any](el E, f func(*A)) E {
	el.Builder().WithEntity(func(w *world.World, e world.Entity) {
		world.Patch(w, e, f)
	})
	return el
}

// AttrSignal keeps the attribute of type A equal to the source's latest
// value for the entity's lifetime.
func AttrSignal[E Element, A any](el E, src signal.Source[A]) E {
	node.AttrSignal(el.Builder(), src)
	return el
}

// OnSignal attaches an arbitrary persistent subscription.
func OnSignal[E Element, T any](el E, src signal.Source[T], f func(w *world.World, e world.Entity, v T)) E {
	node.OnSignalWithEntity(el.Builder(), src, f)
	return el
}

// PatchStyle adjusts the element's style at materialization.
func PatchStyle[E Element](el E, f func(*style.Style)) E {
	return PatchAttr[E, style.Style](el, f)
}
