// ABOUTME: Typed endpoint wrappers over the authenticated pipeline
// ABOUTME: Profile, home location, and paginated region search calls

package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/MarvinLeRouge/geochallenge-cli/internal/geo"
)

const (
	profileKey  = "profile"
	locationKey = "location"
)

// Profile fetches the current user's profile, serving a cached snapshot
// when one is fresh.
func (c *Client) Profile(ctx context.Context) (*Profile, error) {
	if c.snapshots != nil {
		if cached, ok := c.snapshots.Get(profileKey); ok {
			return cached.(*Profile), nil
		}
	}

	var profile Profile
	r := apiRequest{method: http.MethodGet, path: "/my/profile"}
	if err := c.do(ctx, r, &profile, false); err != nil {
		return nil, err
	}

	if c.snapshots != nil {
		c.snapshots.Set(profileKey, &profile)
	}
	return &profile, nil
}

// MyLocation fetches the user's saved home location. Returns (nil, nil)
// when no location has been saved yet.
func (c *Client) MyLocation(ctx context.Context) (*Location, error) {
	if c.snapshots != nil {
		if cached, ok := c.snapshots.Get(locationKey); ok {
			return cached.(*Location), nil
		}
	}

	var location Location
	r := apiRequest{method: http.MethodGet, path: "/my/profile/location"}
	if err := c.do(ctx, r, &location, false); err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound {
			return nil, nil
		}
		return nil, err
	}

	if c.snapshots != nil {
		c.snapshots.Set(locationKey, &location)
	}
	return &location, nil
}

type locationUpdate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// SetMyLocation saves a new home location and updates the user snapshot.
func (c *Client) SetMyLocation(ctx context.Context, p geo.Point) error {
	if !p.Valid() {
		return fmt.Errorf("coordinates out of range: %s", p)
	}

	body, err := json.Marshal(locationUpdate{Lat: p.Lat, Lon: p.Lon})
	if err != nil {
		return fmt.Errorf("failed to marshal location: %w", err)
	}

	r := apiRequest{
		method:      http.MethodPut,
		path:        "/my/profile/location",
		body:        body,
		contentType: "application/json",
	}
	if err := c.do(ctx, r, nil, false); err != nil {
		return err
	}

	if c.snapshots != nil {
		c.snapshots.Clear(locationKey)
	}
	return nil
}

// CachesWithinRadius fetches one page of caches around a center point.
func (c *Client) CachesWithinRadius(ctx context.Context, circle geo.Circle, page int) (*CachePage, error) {
	query := url.Values{}
	query.Set("lat", formatCoord(circle.Center.Lat))
	query.Set("lon", formatCoord(circle.Center.Lon))
	query.Set("radius_km", strconv.FormatFloat(circle.RadiusKm, 'f', -1, 64))
	query.Set("page", strconv.Itoa(page))
	query.Set("page_size", strconv.Itoa(c.pageSize))

	var result CachePage
	r := apiRequest{method: http.MethodGet, path: "/caches/within-radius", query: query}
	if err := c.do(ctx, r, &result, false); err != nil {
		return nil, err
	}
	return &result, nil
}

// CachesWithinBBox fetches one page of caches inside a bounding box.
func (c *Client) CachesWithinBBox(ctx context.Context, box geo.BBox, page int) (*CachePage, error) {
	query := url.Values{}
	query.Set("min_lat", formatCoord(box.MinLat))
	query.Set("min_lon", formatCoord(box.MinLon))
	query.Set("max_lat", formatCoord(box.MaxLat))
	query.Set("max_lon", formatCoord(box.MaxLon))
	query.Set("page", strconv.Itoa(page))
	query.Set("page_size", strconv.Itoa(c.pageSize))

	var result CachePage
	r := apiRequest{method: http.MethodGet, path: "/caches/within-bbox", query: query}
	if err := c.do(ctx, r, &result, false); err != nil {
		return nil, err
	}
	return &result, nil
}

// RegionFetcher returns a page-fetch function for the given region,
// dispatching to the matching search endpoint.
func (c *Client) RegionFetcher(region geo.Region) func(ctx context.Context, page int) (*CachePage, error) {
	return func(ctx context.Context, page int) (*CachePage, error) {
		switch r := region.(type) {
		case geo.Circle:
			return c.CachesWithinRadius(ctx, r, page)
		case geo.BBox:
			return c.CachesWithinBBox(ctx, r, page)
		default:
			return nil, fmt.Errorf("unsupported region type %T", region)
		}
	}
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
