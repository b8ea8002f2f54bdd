// ABOUTME: Terminal map pane: projects a geographic viewport onto character cells
// ABOUTME: Renders markers, region overlays, preview rectangles, and the pick crosshair

package mapview

import (
	"strings"

	"github.com/MarvinLeRouge/geochallenge-cli/internal/geo"
	"github.com/MarvinLeRouge/geochallenge-cli/internal/tui/styles"
)

// Marker is a labeled point drawn on the map.
type Marker struct {
	Point geo.Point
	Label string
}

// Model is the map pane. It owns projection math and drawing state; the
// pick state machine and network calls live with the caller.
type Model struct {
	width  int
	height int

	center geo.Point
	// Degrees of latitude covered by one terminal row. A character cell
	// is roughly twice as tall as wide, so one column covers half that.
	latPerRow float64

	markers  []Marker
	region   geo.Region
	preview  *geo.BBox
	corner   *geo.Point
	home     *geo.Point
	pickMode bool

	cursorX, cursorY int
	hasCursor        bool
}

// New creates a map pane centered on the given point.
func New(center geo.Point, width, height int) Model {
	return Model{
		width:     width,
		height:    height,
		center:    center,
		latPerRow: 0.01,
	}
}

func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m Model) Width() int  { return m.width }
func (m Model) Height() int { return m.height }

func (m *Model) SetPickMode(on bool) {
	m.pickMode = on
	if !on {
		m.hasCursor = false
	}
}

func (m *Model) SetCursor(x, y int) {
	m.cursorX, m.cursorY = x, y
	m.hasCursor = true
}

func (m *Model) SetRegion(r geo.Region) {
	m.region = r
}

func (m *Model) SetPreview(b *geo.BBox) {
	m.preview = b
}

// SetCorner marks the fixed first corner of an in-progress bbox pick.
func (m *Model) SetCorner(p *geo.Point) {
	m.corner = p
}

func (m *Model) SetHome(p *geo.Point) {
	m.home = p
}

func (m *Model) SetMarkers(markers []Marker) {
	m.markers = markers
}

func (m *Model) AddMarkers(markers []Marker) {
	m.markers = append(m.markers, markers...)
}

func (m Model) MarkerCount() int {
	return len(m.markers)
}

func (m Model) lonPerCol() float64 {
	return m.latPerRow / 2
}

// PointAt converts a cell position into the geographic coordinate at its
// center. Row 0 is the northern edge.
func (m Model) PointAt(x, y int) geo.Point {
	return geo.Point{
		Lat: m.center.Lat + float64(m.height/2-y)*m.latPerRow,
		Lon: m.center.Lon + float64(x-m.width/2)*m.lonPerCol(),
	}
}

// CellOf converts a coordinate into a cell position; ok is false when the
// point falls outside the viewport.
func (m Model) CellOf(p geo.Point) (x, y int, ok bool) {
	x = m.width/2 + int(roundHalf((p.Lon-m.center.Lon)/m.lonPerCol()))
	y = m.height/2 - int(roundHalf((p.Lat-m.center.Lat)/m.latPerRow))
	ok = x >= 0 && x < m.width && y >= 0 && y < m.height
	return x, y, ok
}

func roundHalf(v float64) float64 {
	if v < 0 {
		return v - 0.5
	}
	return v + 0.5
}

// Pan moves the viewport by whole cells.
func (m *Model) Pan(dx, dy int) {
	m.center.Lon += float64(dx) * m.lonPerCol()
	m.center.Lat -= float64(dy) * m.latPerRow
}

// Zoom scales the degrees-per-row; factor < 1 zooms in.
func (m *Model) Zoom(factor float64) {
	m.latPerRow *= factor
	if m.latPerRow < 0.0001 {
		m.latPerRow = 0.0001
	}
	if m.latPerRow > 1 {
		m.latPerRow = 1
	}
}

// CenterOn recenters the viewport.
func (m *Model) CenterOn(p geo.Point) {
	m.center = p
}

func (m Model) Center() geo.Point {
	return m.center
}

// FitRegion centers on the region and zooms so its bounds fit the pane
// with a small margin.
func (m *Model) FitRegion(r geo.Region) {
	b := r.Bounds()
	m.center = b.Center()

	if m.height < 4 || m.width < 8 {
		return
	}
	latSpan := (b.MaxLat - b.MinLat) / float64(m.height-2)
	lonSpan := (b.MaxLon - b.MinLon) / float64(m.width-2) * 2
	m.latPerRow = latSpan
	if lonSpan > m.latPerRow {
		m.latPerRow = lonSpan
	}
	if m.latPerRow < 0.0001 {
		m.latPerRow = 0.0001
	}
}

// cell layers, lowest first
const (
	layerEmpty = iota
	layerGraticule
	layerRegion
	layerPreview
	layerCrosshair
	layerHome
	layerCorner
	layerMarker
)

// View renders the pane as styled terminal rows.
func (m Model) View() string {
	if m.width <= 0 || m.height <= 0 {
		return ""
	}

	runes := make([][]rune, m.height)
	layers := make([][]int, m.height)
	for y := 0; y < m.height; y++ {
		runes[y] = make([]rune, m.width)
		layers[y] = make([]int, m.width)
		for x := 0; x < m.width; x++ {
			runes[y][x] = ' '
		}
	}

	m.drawGraticule(runes, layers)
	m.drawRegion(runes, layers)
	m.drawPreview(runes, layers)
	m.drawCrosshair(runes, layers)
	m.drawCorner(runes, layers)
	m.drawHome(runes, layers)
	m.drawMarkers(runes, layers)

	var sb strings.Builder
	for y := 0; y < m.height; y++ {
		for x := 0; x < m.width; x++ {
			sb.WriteString(styleFor(layers[y][x]).Render(string(runes[y][x])))
		}
		if y < m.height-1 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

func styleFor(layer int) interface{ Render(...string) string } {
	switch layer {
	case layerGraticule:
		return styles.Graticule
	case layerRegion:
		return styles.RegionFill
	case layerPreview:
		return styles.PreviewRect
	case layerCrosshair:
		return styles.Crosshair
	case layerHome:
		return styles.HomeMarker
	case layerCorner:
		return styles.PreviewRect
	case layerMarker:
		return styles.Marker
	default:
		return styles.Subtitle
	}
}

func put(runes [][]rune, layers [][]int, x, y int, r rune, layer int) {
	if y < 0 || y >= len(runes) || x < 0 || x >= len(runes[y]) {
		return
	}
	if layer < layers[y][x] {
		return
	}
	runes[y][x] = r
	layers[y][x] = layer
}

func (m Model) drawGraticule(runes [][]rune, layers [][]int) {
	for y := 0; y < m.height; y++ {
		for x := 0; x < m.width; x++ {
			if x%10 == 0 && y%5 == 0 {
				put(runes, layers, x, y, '·', layerGraticule)
			}
		}
	}
}

func (m Model) drawRegion(runes [][]rune, layers [][]int) {
	if m.region == nil {
		return
	}
	for y := 0; y < m.height; y++ {
		for x := 0; x < m.width; x++ {
			if m.region.Contains(m.PointAt(x, y)) {
				put(runes, layers, x, y, '░', layerRegion)
			}
		}
	}
}

func (m Model) drawPreview(runes [][]rune, layers [][]int) {
	if m.preview == nil {
		return
	}
	x1, y1, _ := m.CellOf(geo.Point{Lat: m.preview.MaxLat, Lon: m.preview.MinLon})
	x2, y2, _ := m.CellOf(geo.Point{Lat: m.preview.MinLat, Lon: m.preview.MaxLon})

	for x := x1; x <= x2; x++ {
		put(runes, layers, x, y1, '▒', layerPreview)
		put(runes, layers, x, y2, '▒', layerPreview)
	}
	for y := y1; y <= y2; y++ {
		put(runes, layers, x1, y, '▒', layerPreview)
		put(runes, layers, x2, y, '▒', layerPreview)
	}
}

func (m Model) drawCrosshair(runes [][]rune, layers [][]int) {
	if !m.pickMode || !m.hasCursor {
		return
	}
	for x := 0; x < m.width; x++ {
		put(runes, layers, x, m.cursorY, '─', layerCrosshair)
	}
	for y := 0; y < m.height; y++ {
		put(runes, layers, m.cursorX, y, '│', layerCrosshair)
	}
	put(runes, layers, m.cursorX, m.cursorY, '┼', layerCrosshair)
}

func (m Model) drawCorner(runes [][]rune, layers [][]int) {
	if m.corner == nil {
		return
	}
	if x, y, ok := m.CellOf(*m.corner); ok {
		put(runes, layers, x, y, '◆', layerCorner)
	}
}

func (m Model) drawHome(runes [][]rune, layers [][]int) {
	if m.home == nil {
		return
	}
	if x, y, ok := m.CellOf(*m.home); ok {
		put(runes, layers, x, y, '⌂', layerHome)
	}
}

func (m Model) drawMarkers(runes [][]rune, layers [][]int) {
	for _, marker := range m.markers {
		if x, y, ok := m.CellOf(marker.Point); ok {
			put(runes, layers, x, y, '●', layerMarker)
		}
	}
}
