// Package element provides the container wrappers application code
// declares trees with: El (single-child wrapper), Column, Row, and Stack
// (layered). Each wraps a node.Builder, pre-configures its layout style,
// and propagates child alignment onto the style primitives appropriate
// for its own axes.
package element

import (
	"github.com/go-arbor/arbor/pkg/node"
	"github.com/go-arbor/arbor/pkg/signal"
	"github.com/go-arbor/arbor/pkg/style"
	"github.com/go-arbor/arbor/pkg/world"
)

// ContainerKind is the closed set of container layouts. Alignment
// mapping dispatches over it exhaustively.
type ContainerKind uint8

const (
	KindEl ContainerKind = iota
	KindColumn
	KindRow
	KindStack
)

// Element is anything that can be declared as a child of a container.
type Element interface {
	// Builder exposes the underlying node builder.
	Builder() *node.Builder

	containerKind() ContainerKind
	takeAlign() *alignHolder
}

type alignHolder struct {
	static *Align
	signal signal.Source[*Align]
}

type base struct {
	b     *node.Builder
	kind  ContainerKind
	align *alignHolder
}

func newBase(kind ContainerKind, attrs []any) base {
	s := style.Style{}
	switch kind {
	case KindEl, KindColumn:
		s.Display = style.DisplayFlex
		s.FlexDirection = style.DirectionColumn
	case KindRow:
		s.Display = style.DisplayFlex
		s.FlexDirection = style.DirectionRow
		s.AlignItems = style.ItemsCenter
	case KindStack:
		s.Display = style.DisplayGrid
	}
	return base{b: node.New(append([]any{s}, attrs...)...), kind: kind}
}

func (x *base) Builder() *node.Builder            { return x.b }
func (x *base) containerKind() ContainerKind      { return x.kind }
func (x *base) takeAlign() *alignHolder           { h := x.align; x.align = nil; return h }
func (x *base) Spawn(w *world.World) world.Entity { return x.b.Spawn(w) }

// processChild prepares a child for attachment under a container of the
// given kind: stack layers get pinned to the shared grid cell, and the
// child's alignment (claimed here, so it is interpreted by its direct
// parent) is translated through the parent kind's mapping.
func processChild(parent ContainerKind, child Element) *node.Builder {
	if child == nil {
		return nil
	}
	b := child.Builder()
	if parent == KindStack {
		b.WithEntity(func(w *world.World, e world.Entity) {
			world.Patch(w, e, func(s *style.Style) {
				s.GridColumn = style.GridPlacement{Start: 1}
				s.GridRow = style.GridPlacement{Start: 1}
			})
		})
	}
	if h := child.takeAlign(); h != nil {
		apply := childAlignApplier(parent)
		if h.static != nil {
			applyStaticAlign(b, h.static, apply)
		}
		if h.signal != nil {
			registerAlignSignal(b, h.signal, apply)
		}
	}
	return b
}

func childSignal(parent ContainerKind, src signal.Source[Element]) signal.Source[*node.Builder] {
	return signal.Map(src, func(el Element) *node.Builder {
		return processChild(parent, el)
	})
}

func childDiffs(parent ContainerKind, src signal.DiffSource[Element]) signal.DiffSource[*node.Builder] {
	return signal.MapVec(src, func(el Element) *node.Builder {
		return processChild(parent, el)
	})
}

// El is a single-child wrapper container.
type El struct{ base }

// NewEl returns a wrapper container carrying the given extra attributes.
func NewEl(attrs ...any) *El {
	return &El{newBase(KindEl, attrs)}
}

func (e *El) Child(child Element) *El {
	e.b.Child(processChild(e.kind, child))
	return e
}

func (e *El) ChildSignal(src signal.Source[Element]) *El {
	e.b.ChildSignal(childSignal(e.kind, src))
	return e
}

func (e *El) Children(children ...Element) *El {
	e.b.Children(processChildren(e.kind, children)...)
	return e
}

func (e *El) ChildrenSignalVec(src signal.DiffSource[Element]) *El {
	e.b.ChildrenSignalVec(childDiffs(e.kind, src))
	return e
}

func (e *El) Align(a *Align) *El {
	e.align = &alignHolder{static: a}
	return e
}

func (e *El) AlignSignal(src signal.Source[*Align]) *El {
	e.align = &alignHolder{signal: src}
	return e
}

func (e *El) AlignContent(a *Align) *El {
	applyStaticAlign(e.b, a, contentAlignApplier(e.kind))
	return e
}

func (e *El) AlignContentSignal(src signal.Source[*Align]) *El {
	registerAlignSignal(e.b, src, contentAlignApplier(e.kind))
	return e
}

func (e *El) OnSpawn(f func(*world.World, world.Entity)) *El {
	e.b.OnSpawn(f)
	return e
}

// Column lays its children out vertically.
type Column struct{ base }

func NewColumn(attrs ...any) *Column {
	return &Column{newBase(KindColumn, attrs)}
}

func (c *Column) Item(child Element) *Column {
	c.b.Child(processChild(c.kind, child))
	return c
}

func (c *Column) ItemSignal(src signal.Source[Element]) *Column {
	c.b.ChildSignal(childSignal(c.kind, src))
	return c
}

func (c *Column) Items(children ...Element) *Column {
	c.b.Children(processChildren(c.kind, children)...)
	return c
}

func (c *Column) ItemsSignalVec(src signal.DiffSource[Element]) *Column {
	c.b.ChildrenSignalVec(childDiffs(c.kind, src))
	return c
}

func (c *Column) Align(a *Align) *Column {
	c.align = &alignHolder{static: a}
	return c
}

func (c *Column) AlignSignal(src signal.Source[*Align]) *Column {
	c.align = &alignHolder{signal: src}
	return c
}

func (c *Column) AlignContent(a *Align) *Column {
	applyStaticAlign(c.b, a, contentAlignApplier(c.kind))
	return c
}

func (c *Column) AlignContentSignal(src signal.Source[*Align]) *Column {
	registerAlignSignal(c.b, src, contentAlignApplier(c.kind))
	return c
}

func (c *Column) OnSpawn(f func(*world.World, world.Entity)) *Column {
	c.b.OnSpawn(f)
	return c
}

// Row lays its children out horizontally.
type Row struct{ base }

func NewRow(attrs ...any) *Row {
	return &Row{newBase(KindRow, attrs)}
}

func (r *Row) Item(child Element) *Row {
	r.b.Child(processChild(r.kind, child))
	return r
}

func (r *Row) ItemSignal(src signal.Source[Element]) *Row {
	r.b.ChildSignal(childSignal(r.kind, src))
	return r
}

func (r *Row) Items(children ...Element) *Row {
	r.b.Children(processChildren(r.kind, children)...)
	return r
}

func (r *Row) ItemsSignalVec(src signal.DiffSource[Element]) *Row {
	r.b.ChildrenSignalVec(childDiffs(r.kind, src))
	return r
}

func (r *Row) Align(a *Align) *Row {
	r.align = &alignHolder{static: a}
	return r
}

func (r *Row) AlignSignal(src signal.Source[*Align]) *Row {
	r.align = &alignHolder{signal: src}
	return r
}

func (r *Row) AlignContent(a *Align) *Row {
	applyStaticAlign(r.b, a, contentAlignApplier(r.kind))
	return r
}

func (r *Row) AlignContentSignal(src signal.Source[*Align]) *Row {
	registerAlignSignal(r.b, src, contentAlignApplier(r.kind))
	return r
}

func (r *Row) OnSpawn(f func(*world.World, world.Entity)) *Row {
	r.b.OnSpawn(f)
	return r
}

// Stack overlaps its children in one grid cell; later layers sit on top.
type Stack struct{ base }

func NewStack(attrs ...any) *Stack {
	return &Stack{newBase(KindStack, attrs)}
}

func (s *Stack) Layer(child Element) *Stack {
	s.b.Child(processChild(s.kind, child))
	return s
}

func (s *Stack) LayerSignal(src signal.Source[Element]) *Stack {
	s.b.ChildSignal(childSignal(s.kind, src))
	return s
}

func (s *Stack) Layers(children ...Element) *Stack {
	s.b.Children(processChildren(s.kind, children)...)
	return s
}

func (s *Stack) LayersSignalVec(src signal.DiffSource[Element]) *Stack {
	s.b.ChildrenSignalVec(childDiffs(s.kind, src))
	return s
}

func (s *Stack) Align(a *Align) *Stack {
	s.align = &alignHolder{static: a}
	return s
}

func (s *Stack) AlignSignal(src signal.Source[*Align]) *Stack {
	s.align = &alignHolder{signal: src}
	return s
}

func (s *Stack) AlignContent(a *Align) *Stack {
	applyStaticAlign(s.b, a, contentAlignApplier(s.kind))
	return s
}

func (s *Stack) AlignContentSignal(src signal.Source[*Align]) *Stack {
	registerAlignSignal(s.b, src, contentAlignApplier(s.kind))
	return s
}

func (s *Stack) OnSpawn(f func(*world.World, world.Entity)) *Stack {
	s.b.OnSpawn(f)
	return s
}

func processChildren(parent ContainerKind, children []Element) []*node.Builder {
	out := make([]*node.Builder, 0, len(children))
	for _, c := range children {
		if b := processChild(parent, c); b != nil {
			out = append(out, b)
		}
	}
	return out
}
