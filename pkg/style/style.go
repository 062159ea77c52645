// Package style defines the typed layout-style attribute that alignment
// propagation writes onto live entities.
//
// The layer itself performs no layout; these fields are instructions for
// whatever layout engine the host world runs. Zero values mean "unset":
// removing an alignment resets the fields it had written back to zero.
package style

// ValKind discriminates a dimension value.
type ValKind uint8

const (
	// Unset leaves the dimension to the layout engine's default.
	Unset ValKind = iota
	// Auto lets the layout engine absorb free space into the dimension.
	Auto
	// Px is an absolute pixel value.
	Px
)

// Val is one dimension value.
type Val struct {
	Kind ValKind
	Px   float64
}

// AutoVal returns an Auto dimension.
func AutoVal() Val { return Val{Kind: Auto} }

// PxVal returns an absolute pixel dimension.
func PxVal(px float64) Val { return Val{Kind: Px, Px: px} }

// UIRect holds one Val per edge.
type UIRect struct {
	Left, Right, Top, Bottom Val
}

// Display selects the container's layout model.
type Display uint8

const (
	DisplayFlex Display = iota
	DisplayGrid
)

// FlexDirection selects the main axis of a flex container.
type FlexDirection uint8

const (
	DirectionColumn FlexDirection = iota
	DirectionRow
)

// SelfAlign positions one child on its container's cross axis.
type SelfAlign uint8

const (
	SelfUnset SelfAlign = iota
	SelfStart
	SelfEnd
	SelfCenter
)

// ItemsAlign positions all children on the container's cross axis.
type ItemsAlign uint8

const (
	ItemsUnset ItemsAlign = iota
	ItemsStart
	ItemsEnd
	ItemsCenter
)

// ContentJustify positions all children on the container's main axis.
type ContentJustify uint8

const (
	JustifyUnset ContentJustify = iota
	JustifyStart
	JustifyEnd
	JustifyCenter
)

// GridPlacement pins a child to a grid track. Start 0 means auto.
type GridPlacement struct {
	Start int
}

// Style is the layout-style attribute carried by constructed entities.
type Style struct {
	Display       Display
	FlexDirection FlexDirection

	// Per-child positioning written by child alignment.
	AlignSelf   SelfAlign
	JustifySelf SelfAlign
	Margin      UIRect

	// Container-level positioning written by content alignment.
	AlignItems     ItemsAlign
	JustifyContent ContentJustify

	// Grid placement for layered children.
	GridColumn GridPlacement
	GridRow    GridPlacement
}
