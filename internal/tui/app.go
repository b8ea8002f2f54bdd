// ABOUTME: Root bubbletea model for the interactive map screen
// ABOUTME: Wires the pick state machine, search accumulator, and map pane together

package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MarvinLeRouge/geochallenge-cli/internal/api"
	"github.com/MarvinLeRouge/geochallenge-cli/internal/geo"
	"github.com/MarvinLeRouge/geochallenge-cli/internal/picker"
	"github.com/MarvinLeRouge/geochallenge-cli/internal/search"
	"github.com/MarvinLeRouge/geochallenge-cli/internal/tui/mapview"
	"github.com/MarvinLeRouge/geochallenge-cli/internal/tui/styles"
)

// Layout constants
const (
	headerRows = 1 // rows above the map pane; mouse coordinates shift by this
	footerRows = 2 // status line + help line
)

// defaultCenter is shown before any home location is known
var defaultCenter = geo.Point{Lat: 46.6, Lon: 2.4}

// sessionReadyMsg is sent when the stored session has been restored
type sessionReadyMsg struct{}

// searchDoneMsg is sent when a region search page completes
type searchDoneMsg struct {
	items []api.Cache
	err   error
}

// homeSavedMsg is sent when the home location update completes
type homeSavedMsg struct {
	point geo.Point
	err   error
}

// App is the root model for the interactive map.
type App struct {
	client *api.Client
	acc    *search.Accumulator
	pick   *picker.Picker

	mapPane mapview.Model
	spin    spinner.Model

	width     int
	height    int
	radiusKm  float64
	searching bool
	status    string
	statusErr bool
}

// New creates the map application.
func New(client *api.Client, radiusKm float64) *App {
	spin := spinner.New()
	spin.Spinner = spinner.Dot
	spin.Style = lipgloss.NewStyle().Foreground(styles.Accent)

	return &App{
		client:   client,
		acc:      search.New(),
		mapPane:  mapview.New(defaultCenter, 80, 24-headerRows-footerRows),
		spin:     spin,
		radiusKm: radiusKm,
		status:   "press r to pick a search center, b to draw a box",
	}
}

func (a *App) Init() tea.Cmd {
	return tea.Batch(a.spin.Tick, a.restoreSession())
}

func (a *App) restoreSession() tea.Cmd {
	return func() tea.Msg {
		a.client.Init(context.Background())
		return sessionReadyMsg{}
	}
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.mapPane.SetSize(msg.Width, max(msg.Height-headerRows-footerRows, 1))
		return a, nil

	case sessionReadyMsg:
		if user := a.client.Store().User(); user != nil && user.Location != nil {
			a.mapPane.CenterOn(*user.Location)
			a.mapPane.SetHome(user.Location)
		}
		return a, nil

	case searchDoneMsg:
		return a.handleSearchDone(msg)

	case homeSavedMsg:
		if msg.err != nil {
			a.setError(fmt.Sprintf("saving home location failed: %v", msg.err))
			return a, nil
		}
		p := msg.point
		a.mapPane.SetHome(&p)
		a.setStatus(fmt.Sprintf("home location saved at %s", p))
		return a, nil

	case tea.MouseMsg:
		return a.handleMouse(msg)

	case tea.KeyMsg:
		return a.handleKey(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.spin, cmd = a.spin.Update(msg)
		return a, cmd
	}

	return a, nil
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return a, tea.Quit

	case "r":
		a.armPicker(picker.ShapeCircle)
		a.setStatus(fmt.Sprintf("click the map to set a %.0f km search center", a.radiusKm))
		return a, nil

	case "b":
		a.armPicker(picker.ShapeBBox)
		a.setStatus("click two opposite corners to draw a search box")
		return a, nil

	case "esc":
		if a.pick != nil && a.pick.Armed() {
			a.pick.Cancel()
			a.clearPickOverlay()
			a.setStatus("pick cancelled")
		}
		return a, nil

	case "[", "]":
		return a.adjustRadius(msg.String() == "]")

	case "m", "enter":
		if a.acc.Exhausted() {
			a.setStatus("end of list")
			return a, nil
		}
		return a, a.searchCmd()

	case "H":
		center := a.mapPane.Center()
		return a, a.saveHomeCmd(center)

	case "c":
		if user := a.client.Store().User(); user != nil && user.Location != nil {
			a.mapPane.CenterOn(*user.Location)
		}
		return a, nil

	case "up":
		a.mapPane.Pan(0, -3)
	case "down":
		a.mapPane.Pan(0, 3)
	case "left":
		a.mapPane.Pan(-6, 0)
	case "right":
		a.mapPane.Pan(6, 0)
	case "+", "=":
		a.mapPane.Zoom(0.5)
	case "-", "_":
		a.mapPane.Zoom(2)
	}
	return a, nil
}

func (a *App) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	mapY := msg.Y - headerRows
	if mapY < 0 || mapY >= a.mapPane.Height() || msg.X >= a.mapPane.Width() {
		return a, nil
	}
	pt := a.mapPane.PointAt(msg.X, mapY)

	switch msg.Action {
	case tea.MouseActionMotion:
		if a.pick != nil && a.pick.Armed() {
			a.mapPane.SetCursor(msg.X, mapY)
			if box, ok := a.pick.Preview(pt); ok {
				a.mapPane.SetPreview(&box)
			}
		}

	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft || a.pick == nil || !a.pick.Armed() {
			return a, nil
		}
		committed := a.pick.Pick(pt)
		if corner, ok := a.pick.FirstCorner(); ok {
			c := corner
			a.mapPane.SetCorner(&c)
		}
		if committed {
			a.clearPickOverlay()
			return a, a.searchCmd()
		}
	}
	return a, nil
}

func (a *App) handleSearchDone(msg searchDoneMsg) (tea.Model, tea.Cmd) {
	a.searching = false
	if msg.err != nil {
		// Prior results stay on the map; only report the failure
		a.setError(fmt.Sprintf("search failed: %v", msg.err))
		return a, nil
	}

	markers := make([]mapview.Marker, len(msg.items))
	for i, item := range msg.items {
		markers[i] = mapview.Marker{
			Point: geo.Point{Lat: item.Lat, Lon: item.Lon},
			Label: item.GC,
		}
	}
	a.mapPane.AddMarkers(markers)

	status := fmt.Sprintf("%d of %d caches", a.acc.Count(), a.acc.Total())
	if a.acc.Exhausted() {
		status += " (end of list)"
	} else {
		status += fmt.Sprintf(" (m for page %d/%d)", a.acc.Page(), a.acc.TotalPages())
	}
	a.setStatus(status)
	return a, nil
}

// armPicker starts a new pick session of the given shape, rewiring the
// accumulator and map overlays to it.
func (a *App) armPicker(shape picker.Shape) {
	var p *picker.Picker
	if shape == picker.ShapeCircle {
		p = picker.NewCircle(a.radiusKm)
	} else {
		p = picker.NewBBox()
	}

	p.OnReset(func() {
		a.acc.Reset()
		a.mapPane.SetMarkers(nil)
		a.mapPane.SetRegion(nil)
	})
	p.OnRegion(func(r geo.Region) {
		a.acc.SetFetch(a.client.RegionFetcher(r))
		a.mapPane.SetRegion(r)
		a.mapPane.FitRegion(r)
	})

	a.pick = p
	p.Arm()
	a.mapPane.SetPickMode(true)
	a.clearOverlayPreview()
}

func (a *App) adjustRadius(up bool) (tea.Model, tea.Cmd) {
	if up {
		a.radiusKm++
	} else if a.radiusKm > 1 {
		a.radiusKm--
	}

	if a.pick != nil && a.pick.Shape() == picker.ShapeCircle {
		a.pick.SetRadius(a.radiusKm)
		if _, ok := a.pick.Region(); ok {
			// Same center, new circle: refetch from page one
			a.setStatus(fmt.Sprintf("radius %.0f km", a.radiusKm))
			return a, a.searchCmd()
		}
	}
	a.setStatus(fmt.Sprintf("radius %.0f km", a.radiusKm))
	return a, nil
}

func (a *App) searchCmd() tea.Cmd {
	if a.searching || !a.acc.CanSearch() {
		return nil
	}
	a.searching = true
	return func() tea.Msg {
		items, err := a.acc.Search(context.Background())
		return searchDoneMsg{items: items, err: err}
	}
}

func (a *App) saveHomeCmd(p geo.Point) tea.Cmd {
	return func() tea.Msg {
		err := a.client.SetMyLocation(context.Background(), p)
		return homeSavedMsg{point: p, err: err}
	}
}

func (a *App) clearPickOverlay() {
	a.mapPane.SetPickMode(false)
	a.clearOverlayPreview()
}

func (a *App) clearOverlayPreview() {
	a.mapPane.SetPreview(nil)
	a.mapPane.SetCorner(nil)
}

func (a *App) setStatus(s string) {
	a.status = s
	a.statusErr = false
}

func (a *App) setError(s string) {
	a.status = s
	a.statusErr = true
}

func (a *App) View() string {
	header := styles.Title.Render("GeoChallenge map")
	if user := a.client.Store().User(); user != nil {
		header += styles.Subtitle.Render(fmt.Sprintf("  %s", user.Username))
	} else {
		header += styles.Subtitle.Render("  not logged in")
	}
	header += styles.Subtitle.Render(fmt.Sprintf("  ·  center %s", a.mapPane.Center()))

	status := a.status
	if a.searching {
		status = a.spin.View() + " searching…"
	}
	statusStyle := styles.StatusOK
	if a.statusErr {
		statusStyle = styles.StatusError
	}

	help := styles.Help.Render(
		styles.KeyStyle.Render("r") + " radius pick  " +
			styles.KeyStyle.Render("b") + " box pick  " +
			styles.KeyStyle.Render("[ ]") + " radius  " +
			styles.KeyStyle.Render("m") + " more  " +
			styles.KeyStyle.Render("H") + " set home  " +
			styles.KeyStyle.Render("±") + " zoom  " +
			styles.KeyStyle.Render("q") + " quit")

	return header + "\n" + a.mapPane.View() + "\n" + statusStyle.Render(status) + "\n" + help
}
