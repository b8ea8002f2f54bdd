// ABOUTME: Integration tests for the map screen model
// ABOUTME: Tests pick wiring, search result handling, and key transitions

package tui

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/MarvinLeRouge/geochallenge-cli/internal/api"
	"github.com/MarvinLeRouge/geochallenge-cli/internal/auth"
	"github.com/MarvinLeRouge/geochallenge-cli/internal/cache"
	"github.com/MarvinLeRouge/geochallenge-cli/internal/picker"
)

func newTestApp() *App {
	store := auth.NewStore(auth.NewMemoryStorage(), auth.NewMemoryStorage())
	client := api.New(api.Config{BaseURL: "http://localhost:8000"}, store, cache.New(0))
	app := New(client, 10)
	app.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	return app
}

func TestApp_InitialState(t *testing.T) {
	app := newTestApp()

	if app.pick != nil {
		t.Error("expected no pick session before arming")
	}
	if app.searching {
		t.Error("expected app to start idle")
	}
	if app.acc.CanSearch() {
		t.Error("expected search to be unavailable before a region is committed")
	}
}

func TestApp_RadiusPickFlow(t *testing.T) {
	app := newTestApp()

	app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}})
	if app.pick == nil || !app.pick.Armed() {
		t.Fatal("expected r to arm a pick session")
	}
	if app.pick.Shape() != picker.ShapeCircle {
		t.Errorf("expected circle shape, got %v", app.pick.Shape())
	}

	// Click the middle of the map pane (one row below the header)
	_, cmd := app.Update(tea.MouseMsg{
		X: 40, Y: 11,
		Action: tea.MouseActionPress,
		Button: tea.MouseButtonLeft,
	})
	if app.pick.Armed() {
		t.Error("expected pick session to finish after the click")
	}
	if _, ok := app.pick.Region(); !ok {
		t.Error("expected a committed region after the click")
	}
	if !app.acc.CanSearch() {
		t.Error("expected search to become available after commit")
	}
	if cmd == nil {
		t.Error("expected the click to trigger a search command")
	}
}

func TestApp_BoxPickNeedsTwoClicks(t *testing.T) {
	app := newTestApp()

	app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'b'}})
	click := tea.MouseMsg{Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}

	click.X, click.Y = 20, 8
	_, cmd := app.Update(click)
	if cmd != nil {
		t.Error("expected no search after the first corner")
	}
	if !app.pick.Armed() {
		t.Error("expected pick session to stay armed after one corner")
	}

	click.X, click.Y = 60, 16
	_, cmd = app.Update(click)
	if cmd == nil {
		t.Error("expected a search command after the second corner")
	}
	if _, ok := app.pick.Region(); !ok {
		t.Error("expected a committed region after two corners")
	}
}

func TestApp_EscCancelsPick(t *testing.T) {
	app := newTestApp()

	app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'b'}})
	app.Update(tea.KeyMsg{Type: tea.KeyEsc})

	if app.pick.Armed() {
		t.Error("expected esc to cancel the pick session")
	}
}

func TestApp_SearchDoneAddsMarkers(t *testing.T) {
	app := newTestApp()
	app.searching = true

	msg := searchDoneMsg{items: []api.Cache{
		{GC: "GC1", Lat: 43.1, Lon: 5.9},
		{GC: "GC2", Lat: 43.2, Lon: 5.8},
	}}
	app.Update(msg)

	if app.searching {
		t.Error("expected searching to clear after results arrive")
	}
	if got := app.mapPane.MarkerCount(); got != 2 {
		t.Errorf("expected 2 markers, got %d", got)
	}
	if app.statusErr {
		t.Errorf("unexpected error status: %s", app.status)
	}
}

func TestApp_SearchErrorKeepsMarkers(t *testing.T) {
	app := newTestApp()
	app.Update(searchDoneMsg{items: []api.Cache{{GC: "GC1", Lat: 43.1, Lon: 5.9}}})

	app.searching = true
	app.Update(searchDoneMsg{err: errors.New("boom")})

	if !app.statusErr {
		t.Error("expected an error status after a failed search")
	}
	if got := app.mapPane.MarkerCount(); got != 1 {
		t.Errorf("expected earlier markers to survive, got %d", got)
	}
}

func TestApp_RearmDiscardsPreviousResults(t *testing.T) {
	app := newTestApp()

	app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}})
	app.Update(tea.MouseMsg{X: 40, Y: 11, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	app.Update(searchDoneMsg{items: []api.Cache{{GC: "GC1", Lat: 43.1, Lon: 5.9}}})

	app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'b'}})
	if got := app.mapPane.MarkerCount(); got != 0 {
		t.Errorf("expected markers to clear when a new pick starts, got %d", got)
	}
	if app.acc.Count() != 0 {
		t.Errorf("expected accumulator to reset, got %d items", app.acc.Count())
	}
}

func TestApp_ViewRendersStatusAndHelp(t *testing.T) {
	app := newTestApp()
	app.setStatus("42 of 99 caches")

	view := app.View()
	if !strings.Contains(view, "42 of 99 caches") {
		t.Error("expected the status line in the view")
	}
	if !strings.Contains(view, "quit") {
		t.Error("expected the help line in the view")
	}
	if !strings.Contains(view, "not logged in") {
		t.Error("expected the anonymous header before login")
	}
}
