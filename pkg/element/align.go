package element

import (
	"github.com/go-arbor/arbor/pkg/node"
	"github.com/go-arbor/arbor/pkg/signal"
	"github.com/go-arbor/arbor/pkg/style"
	"github.com/go-arbor/arbor/pkg/world"
)

// Alignment is one positioning marker. Markers on the same axis are
// mutually exclusive; Align's setters enforce that.
type Alignment uint8

const (
	AlignTop Alignment = iota
	AlignBottom
	AlignLeft
	AlignRight
	AlignCenterX
	AlignCenterY
)

var allAlignments = [...]Alignment{AlignTop, AlignBottom, AlignLeft, AlignRight, AlignCenterX, AlignCenterY}

// Align is a set of alignment markers, at most one per axis.
type Align struct {
	set uint8
}

// NewAlign returns an empty alignment set.
func NewAlign() *Align {
	return &Align{}
}

func (a *Align) with(add Alignment, clear ...Alignment) *Align {
	for _, c := range clear {
		a.set &^= 1 << c
	}
	a.set |= 1 << add
	return a
}

// Top pins to the top edge, clearing Bottom and CenterY.
func (a *Align) Top() *Align { return a.with(AlignTop, AlignBottom, AlignCenterY) }

// Bottom pins to the bottom edge, clearing Top and CenterY.
func (a *Align) Bottom() *Align { return a.with(AlignBottom, AlignTop, AlignCenterY) }

// Left pins to the left edge, clearing Right and CenterX.
func (a *Align) Left() *Align { return a.with(AlignLeft, AlignRight, AlignCenterX) }

// Right pins to the right edge, clearing Left and CenterX.
func (a *Align) Right() *Align { return a.with(AlignRight, AlignLeft, AlignCenterX) }

// CenterX centers horizontally, clearing Left and Right.
func (a *Align) CenterX() *Align { return a.with(AlignCenterX, AlignLeft, AlignRight) }

// CenterY centers vertically, clearing Top and Bottom.
func (a *Align) CenterY() *Align { return a.with(AlignCenterY, AlignTop, AlignBottom) }

// Center centers on both axes.
func (a *Align) Center() *Align { return a.CenterX().CenterY() }

// markers returns the contained alignments in declaration order.
func (a *Align) markers() []Alignment {
	if a == nil {
		return nil
	}
	out := make([]Alignment, 0, 2)
	for _, m := range allAlignments {
		if a.set&(1<<m) != 0 {
			out = append(out, m)
		}
	}
	return out
}

// alignAction distinguishes applying a marker's style deltas from
// reversing them.
type alignAction uint8

const (
	alignAdd alignAction = iota
	alignRemove
)

// applyFunc writes or reverses the style delta for one marker.
type applyFunc func(*style.Style, Alignment, alignAction)

func setAuto(v *style.Val, act alignAction) {
	if act == alignAdd {
		*v = style.AutoVal()
	} else {
		*v = style.Val{}
	}
}

func setSelf(v *style.SelfAlign, want style.SelfAlign, act alignAction) {
	if act == alignAdd {
		*v = want
	} else if *v == want {
		*v = style.SelfUnset
	}
}

func setItems(v *style.ItemsAlign, want style.ItemsAlign, act alignAction) {
	if act == alignAdd {
		*v = want
	} else if *v == want {
		*v = style.ItemsUnset
	}
}

func setJustify(v *style.ContentJustify, want style.ContentJustify, act alignAction) {
	if act == alignAdd {
		*v = want
	} else if *v == want {
		*v = style.JustifyUnset
	}
}

// childAlignApplier maps a child's alignment markers onto style
// primitives for the given parent container kind. The mapping differs per
// kind because each lays its children out along different axes.
func childAlignApplier(kind ContainerKind) applyFunc {
	switch kind {
	case KindEl, KindColumn:
		return applyColumnChildAlignment
	case KindRow:
		return applyRowChildAlignment
	case KindStack:
		return applyStackChildAlignment
	default:
		panic("element: unknown container kind")
	}
}

func applyColumnChildAlignment(s *style.Style, a Alignment, act alignAction) {
	switch a {
	case AlignTop:
		setAuto(&s.Margin.Bottom, act)
	case AlignBottom:
		setAuto(&s.Margin.Top, act)
	case AlignCenterY:
		setAuto(&s.Margin.Top, act)
		setAuto(&s.Margin.Bottom, act)
	case AlignLeft:
		setSelf(&s.AlignSelf, style.SelfStart, act)
	case AlignRight:
		setSelf(&s.AlignSelf, style.SelfEnd, act)
	case AlignCenterX:
		setSelf(&s.AlignSelf, style.SelfCenter, act)
	}
}

func applyRowChildAlignment(s *style.Style, a Alignment, act alignAction) {
	switch a {
	case AlignTop:
		setSelf(&s.AlignSelf, style.SelfStart, act)
	case AlignBottom:
		setSelf(&s.AlignSelf, style.SelfEnd, act)
	case AlignCenterY:
		setSelf(&s.AlignSelf, style.SelfCenter, act)
	case AlignLeft:
		setAuto(&s.Margin.Right, act)
	case AlignRight:
		setAuto(&s.Margin.Left, act)
	case AlignCenterX:
		setAuto(&s.Margin.Left, act)
		setAuto(&s.Margin.Right, act)
	}
}

func applyStackChildAlignment(s *style.Style, a Alignment, act alignAction) {
	switch a {
	case AlignTop:
		setSelf(&s.AlignSelf, style.SelfStart, act)
	case AlignBottom:
		setSelf(&s.AlignSelf, style.SelfEnd, act)
	case AlignCenterY:
		setSelf(&s.AlignSelf, style.SelfCenter, act)
	case AlignLeft:
		setSelf(&s.JustifySelf, style.SelfStart, act)
	case AlignRight:
		setSelf(&s.JustifySelf, style.SelfEnd, act)
	case AlignCenterX:
		setSelf(&s.JustifySelf, style.SelfCenter, act)
	}
}

// contentAlignApplier maps content alignment (how a container positions
// all of its children) onto style primitives for the given kind.
func contentAlignApplier(kind ContainerKind) applyFunc {
	switch kind {
	case KindEl, KindColumn:
		return applyColumnContentAlignment
	case KindRow, KindStack:
		return applyRowContentAlignment
	default:
		panic("element: unknown container kind")
	}
}

func applyColumnContentAlignment(s *style.Style, a Alignment, act alignAction) {
	switch a {
	case AlignTop:
		setJustify(&s.JustifyContent, style.JustifyStart, act)
	case AlignBottom:
		setJustify(&s.JustifyContent, style.JustifyEnd, act)
	case AlignCenterY:
		setJustify(&s.JustifyContent, style.JustifyCenter, act)
	case AlignLeft:
		setItems(&s.AlignItems, style.ItemsStart, act)
	case AlignRight:
		setItems(&s.AlignItems, style.ItemsEnd, act)
	case AlignCenterX:
		setItems(&s.AlignItems, style.ItemsCenter, act)
	}
}

func applyRowContentAlignment(s *style.Style, a Alignment, act alignAction) {
	switch a {
	case AlignTop:
		setItems(&s.AlignItems, style.ItemsStart, act)
	case AlignBottom:
		setItems(&s.AlignItems, style.ItemsEnd, act)
	case AlignCenterY:
		setItems(&s.AlignItems, style.ItemsCenter, act)
	case AlignLeft:
		setJustify(&s.JustifyContent, style.JustifyStart, act)
	case AlignRight:
		setJustify(&s.JustifyContent, style.JustifyEnd, act)
	case AlignCenterX:
		setJustify(&s.JustifyContent, style.JustifyCenter, act)
	}
}

func containsAlignment(set []Alignment, a Alignment) bool {
	for _, m := range set {
		if m == a {
			return true
		}
	}
	return false
}

// registerAlignSignal attaches a reactive alignment subscription. On each
// published value the deltas of the previous value are reversed first,
// then the new value's are applied; an absent (nil) value only reverses.
// The undo-before-apply discipline keeps alignment toggling composable
// with other concurrent style mutation on the same node.
func registerAlignSignal(b *node.Builder, src signal.Source[*Align], apply applyFunc) *node.Builder {
	var last []Alignment
	return node.OnSignalWithEntity(b, src, func(w *world.World, e world.Entity, a *Align) {
		world.Patch(w, e, func(s *style.Style) {
			cur := a.markers()
			for _, prev := range last {
				if !containsAlignment(cur, prev) {
					apply(s, prev, alignRemove)
				}
			}
			for _, m := range cur {
				apply(s, m, alignAdd)
			}
			last = cur
		})
	})
}

// applyStaticAlign applies markers once, at attach time.
func applyStaticAlign(b *node.Builder, a *Align, apply applyFunc) {
	markers := a.markers()
	b.WithEntity(func(w *world.World, e world.Entity) {
		world.Patch(w, e, func(s *style.Style) {
			for _, m := range markers {
				apply(s, m, alignAdd)
			}
		})
	})
}
