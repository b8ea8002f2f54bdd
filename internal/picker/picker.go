// ABOUTME: Pick-mode state machine for map region selection
// ABOUTME: One click commits a radius center; two clicks commit a bounding box, with live preview between them

package picker

import (
	"github.com/MarvinLeRouge/geochallenge-cli/internal/geo"
)

// Shape selects the region variant a picker produces.
type Shape int

const (
	ShapeCircle Shape = iota
	ShapeBBox
)

// State is the pick session's current phase. Transitions only move
// forward; going back requires an explicit re-arm.
type State int

const (
	StateIdle State = iota
	StateAwaitingPoint       // circle variant: next click is the center
	StateAwaitingFirstPoint  // bbox variant: next click is the first corner
	StateAwaitingSecondPoint // bbox variant: first corner fixed, next click commits
)

// Picker coordinates a pointer-based region selection. It owns geometry
// and mode transitions only; the map surface does the rendering. A picker
// belongs to one page instance and is driven from its event loop.
type Picker struct {
	shape    Shape
	state    State
	first    geo.Point
	radiusKm float64
	region   geo.Region

	onReset  []func()
	onRegion []func(geo.Region)
}

// NewCircle creates a center-plus-radius picker.
func NewCircle(radiusKm float64) *Picker {
	return &Picker{shape: ShapeCircle, radiusKm: radiusKm}
}

// NewBBox creates a two-corner bounding box picker.
func NewBBox() *Picker {
	return &Picker{shape: ShapeBBox}
}

// OnReset registers a listener fired whenever the committed region is
// cleared; accumulated results must be dropped with it.
func (p *Picker) OnReset(fn func()) {
	p.onReset = append(p.onReset, fn)
}

// OnRegion registers a listener fired when a region is committed or redrawn.
func (p *Picker) OnRegion(fn func(geo.Region)) {
	p.onRegion = append(p.onRegion, fn)
}

// State returns the current pick phase.
func (p *Picker) State() State {
	return p.state
}

// Shape returns the region variant this picker produces.
func (p *Picker) Shape() Shape {
	return p.shape
}

// Armed reports whether the picker is capturing clicks.
func (p *Picker) Armed() bool {
	return p.state != StateIdle
}

// Arm starts a new pick session. Any previously committed region and its
// accumulated results are cleared first so no stale overlay survives.
func (p *Picker) Arm() {
	p.region = nil
	p.fireReset()
	if p.shape == ShapeCircle {
		p.state = StateAwaitingPoint
	} else {
		p.state = StateAwaitingFirstPoint
	}
}

// Cancel abandons an in-progress pick without touching any committed
// region from before the session was armed.
func (p *Picker) Cancel() {
	p.state = StateIdle
}

// Pick feeds a clicked map coordinate into the session. Returns true when
// the click completed a region. Clicks while idle are ignored.
func (p *Picker) Pick(pt geo.Point) bool {
	switch p.state {
	case StateAwaitingPoint:
		p.commit(geo.Circle{Center: pt, RadiusKm: p.radiusKm})
		return true
	case StateAwaitingFirstPoint:
		p.first = pt
		p.state = StateAwaitingSecondPoint
		return false
	case StateAwaitingSecondPoint:
		p.commit(geo.BBoxFromCorners(p.first, pt))
		return true
	default:
		return false
	}
}

// Preview returns the rectangle between the fixed first corner and the
// hovered position. Only meaningful while awaiting the second corner;
// it never mutates committed state.
func (p *Picker) Preview(hover geo.Point) (geo.BBox, bool) {
	if p.state != StateAwaitingSecondPoint {
		return geo.BBox{}, false
	}
	return geo.BBoxFromCorners(p.first, hover), true
}

// FirstCorner returns the fixed corner of an in-progress bbox pick.
func (p *Picker) FirstCorner() (geo.Point, bool) {
	if p.state != StateAwaitingSecondPoint {
		return geo.Point{}, false
	}
	return p.first, true
}

// RadiusKm returns the current radius for the circle variant.
func (p *Picker) RadiusKm() float64 {
	return p.radiusKm
}

// SetRadius changes the radius. A committed circle is redrawn around its
// existing center and the accumulated results reset; the center is not
// re-picked.
func (p *Picker) SetRadius(km float64) {
	if p.shape != ShapeCircle || km <= 0 {
		return
	}
	p.radiusKm = km

	if circle, ok := p.region.(geo.Circle); ok {
		p.fireReset()
		p.commit(geo.Circle{Center: circle.Center, RadiusKm: km})
	}
}

// Region returns the committed region, if any.
func (p *Picker) Region() (geo.Region, bool) {
	if p.region == nil {
		return nil, false
	}
	return p.region, true
}

func (p *Picker) commit(r geo.Region) {
	p.region = r
	p.state = StateIdle
	for _, fn := range p.onRegion {
		fn(r)
	}
}

func (p *Picker) fireReset() {
	for _, fn := range p.onReset {
		fn()
	}
}
