// ABOUTME: Tests for the pick-mode state machine
// ABOUTME: Verifies transitions, preview behavior, and reset notifications

package picker

import (
	"testing"

	"github.com/MarvinLeRouge/geochallenge-cli/internal/geo"
)

func TestPicker_CircleFlow(t *testing.T) {
	p := NewCircle(10)

	if p.Armed() {
		t.Fatal("picker should start idle")
	}

	p.Arm()
	if p.State() != StateAwaitingPoint {
		t.Fatalf("state after arm = %v, want StateAwaitingPoint", p.State())
	}

	center := geo.Point{Lat: 43.12, Lon: 5.93}
	if done := p.Pick(center); !done {
		t.Fatal("single click should commit a circle")
	}
	if p.State() != StateIdle {
		t.Errorf("state after commit = %v, want StateIdle", p.State())
	}

	region, ok := p.Region()
	if !ok {
		t.Fatal("expected committed region")
	}
	circle, ok := region.(geo.Circle)
	if !ok {
		t.Fatalf("region type = %T, want geo.Circle", region)
	}
	if circle.Center != center || circle.RadiusKm != 10 {
		t.Errorf("committed circle = %+v", circle)
	}
}

func TestPicker_BBoxFlow(t *testing.T) {
	p := NewBBox()
	p.Arm()

	if p.State() != StateAwaitingFirstPoint {
		t.Fatalf("state after arm = %v, want StateAwaitingFirstPoint", p.State())
	}

	if done := p.Pick(geo.Point{Lat: 43.10, Lon: 5.94}); done {
		t.Fatal("first corner must not commit")
	}
	if p.State() != StateAwaitingSecondPoint {
		t.Fatalf("state after first corner = %v, want StateAwaitingSecondPoint", p.State())
	}

	if done := p.Pick(geo.Point{Lat: 43.20, Lon: 5.80}); !done {
		t.Fatal("second corner should commit")
	}

	region, _ := p.Region()
	box, ok := region.(geo.BBox)
	if !ok {
		t.Fatalf("region type = %T, want geo.BBox", region)
	}
	want := geo.BBox{MinLat: 43.10, MinLon: 5.80, MaxLat: 43.20, MaxLon: 5.94}
	if box != want {
		t.Errorf("committed box = %+v, want %+v", box, want)
	}
}

func TestPicker_PreviewDoesNotCommit(t *testing.T) {
	p := NewBBox()
	p.Arm()
	p.Pick(geo.Point{Lat: 43.10, Lon: 5.90})

	// Hovering produces previews without advancing state
	for _, hover := range []geo.Point{
		{Lat: 43.11, Lon: 5.91},
		{Lat: 43.15, Lon: 5.95},
		{Lat: 43.05, Lon: 5.85},
	} {
		box, ok := p.Preview(hover)
		if !ok {
			t.Fatalf("expected preview for hover %v", hover)
		}
		if !box.Contains(geo.Point{Lat: 43.10, Lon: 5.90}) {
			t.Errorf("preview %+v does not contain the fixed corner", box)
		}
	}

	if p.State() != StateAwaitingSecondPoint {
		t.Error("preview must not change state")
	}
	if _, ok := p.Region(); ok {
		t.Error("preview must not commit a region")
	}
}

func TestPicker_PreviewOnlyWhileAwaitingSecond(t *testing.T) {
	p := NewBBox()

	if _, ok := p.Preview(geo.Point{Lat: 43, Lon: 5}); ok {
		t.Error("idle picker should not preview")
	}

	p.Arm()
	if _, ok := p.Preview(geo.Point{Lat: 43, Lon: 5}); ok {
		t.Error("no preview before the first corner is fixed")
	}
}

func TestPicker_ArmClearsRegionAndNotifies(t *testing.T) {
	p := NewCircle(5)
	resets := 0
	p.OnReset(func() { resets++ })

	p.Arm()
	p.Pick(geo.Point{Lat: 43.1, Lon: 5.9})

	if _, ok := p.Region(); !ok {
		t.Fatal("expected committed region")
	}

	// Re-arming drops the old region before capturing new clicks
	p.Arm()
	if _, ok := p.Region(); ok {
		t.Error("re-arm should clear the committed region")
	}
	if resets != 2 {
		t.Errorf("reset fired %d times, want 2 (one per arm)", resets)
	}
}

func TestPicker_SetRadiusKeepsCenter(t *testing.T) {
	p := NewCircle(5)
	resets := 0
	var committed []geo.Region
	p.OnReset(func() { resets++ })
	p.OnRegion(func(r geo.Region) { committed = append(committed, r) })

	p.Arm()
	center := geo.Point{Lat: 43.1, Lon: 5.9}
	p.Pick(center)

	resets = 0
	p.SetRadius(20)

	region, _ := p.Region()
	circle := region.(geo.Circle)
	if circle.Center != center {
		t.Errorf("radius change moved the center: %+v", circle.Center)
	}
	if circle.RadiusKm != 20 {
		t.Errorf("radius = %g, want 20", circle.RadiusKm)
	}
	if resets != 1 {
		t.Errorf("radius change fired %d resets, want 1", resets)
	}
	if len(committed) != 2 {
		t.Errorf("region committed %d times, want 2 (pick + redraw)", len(committed))
	}
}

func TestPicker_SetRadiusWithoutCenter(t *testing.T) {
	p := NewCircle(5)
	resets := 0
	p.OnReset(func() { resets++ })

	p.SetRadius(20)

	if resets != 0 {
		t.Error("radius change without a committed center should not reset")
	}
	if p.RadiusKm() != 20 {
		t.Errorf("radius = %g, want 20", p.RadiusKm())
	}
}

func TestPicker_IdleClicksIgnored(t *testing.T) {
	p := NewCircle(5)

	if done := p.Pick(geo.Point{Lat: 43.1, Lon: 5.9}); done {
		t.Error("clicks while idle must be ignored")
	}
	if _, ok := p.Region(); ok {
		t.Error("no region should exist after an ignored click")
	}
}

func TestPicker_CancelAbandonsSession(t *testing.T) {
	p := NewBBox()
	p.Arm()
	p.Pick(geo.Point{Lat: 43.10, Lon: 5.94})
	p.Pick(geo.Point{Lat: 43.20, Lon: 5.80})

	// A new session is armed, then abandoned mid-pick
	p.Arm()
	p.Pick(geo.Point{Lat: 44.0, Lon: 6.0})
	p.Cancel()

	if p.State() != StateIdle {
		t.Errorf("state after cancel = %v, want StateIdle", p.State())
	}
	if _, ok := p.Region(); ok {
		t.Error("arm cleared the old region; cancel must not resurrect it")
	}
}
