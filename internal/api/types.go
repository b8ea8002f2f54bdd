// ABOUTME: Wire types for the GeoChallenge Tracker API
// ABOUTME: Token pairs, user snapshots, and paginated cache search results

package api

import (
	"time"

	"github.com/MarvinLeRouge/geochallenge-cli/internal/geo"
)

// TokenPair is the response of the login and refresh endpoints.
// Refresh responses may omit the refresh token.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	TokenType    string `json:"token_type,omitempty"`
}

// Profile is the authenticated user's profile snapshot.
type Profile struct {
	ID       string `json:"_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Location is the user's saved home location.
type Location struct {
	Lat       float64    `json:"lat"`
	Lon       float64    `json:"lon"`
	Coords    string     `json:"coords,omitempty"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// Point returns the location as a geographic point, reporting false when
// no location is saved (nil receiver).
func (l *Location) Point() (geo.Point, bool) {
	if l == nil {
		return geo.Point{}, false
	}
	return geo.Point{Lat: l.Lat, Lon: l.Lon}, true
}

// Cache is a single geocache result from a region search.
type Cache struct {
	ID         string   `json:"_id"`
	GC         string   `json:"GC"`
	Title      string   `json:"title"`
	Lat        float64  `json:"lat"`
	Lon        float64  `json:"lon"`
	Difficulty float64  `json:"difficulty"`
	Terrain    float64  `json:"terrain"`
	Favorites  int      `json:"favorites"`
	DistMeters *float64 `json:"dist_meters,omitempty"`
}

// CachePage is one page of a region search. Total, Page, NbPages and
// PageSize are all optional on the wire; consumers use the accessors
// below instead of probing fields.
type CachePage struct {
	Items    []Cache `json:"items"`
	Total    *int    `json:"total,omitempty"`
	Page     int     `json:"page,omitempty"`
	NbPages  int     `json:"nb_pages,omitempty"`
	PageSize int     `json:"page_size,omitempty"`
}

// DisplayTotal is the result count to show: the server-reported total,
// falling back to the page's item count, which is zero when empty.
func (p *CachePage) DisplayTotal() int {
	if p.Total != nil {
		return *p.Total
	}
	return len(p.Items)
}

// TotalPages is the page count to paginate against. When the server omits
// nb_pages it is derived from total and page_size; with neither available
// the served page is the last one.
func (p *CachePage) TotalPages(servedPage int) int {
	if p.NbPages > 0 {
		return p.NbPages
	}
	if p.Total != nil && p.PageSize > 0 {
		pages := (*p.Total + p.PageSize - 1) / p.PageSize
		if pages < 1 {
			pages = 1
		}
		return pages
	}
	return servedPage
}
