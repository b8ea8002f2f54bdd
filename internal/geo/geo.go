// ABOUTME: Geographic primitives for cache search regions
// ABOUTME: Points, circles, bounding boxes, and distance math

package geo

import (
	"fmt"
	"math"
)

const (
	earthRadiusKm = 6371.0
	// kilometers per degree of latitude (and of longitude at the equator)
	kmPerDegree = 111.32
)

// Point is a geographic coordinate in decimal degrees.
type Point struct {
	Lat float64
	Lon float64
}

// Valid reports whether the point lies within coordinate range.
func (p Point) Valid() bool {
	return p.Lat >= -90 && p.Lat <= 90 && p.Lon >= -180 && p.Lon <= 180
}

func (p Point) String() string {
	return fmt.Sprintf("%.5f, %.5f", p.Lat, p.Lon)
}

// Region is a searchable area on the map.
type Region interface {
	// Bounds returns the axis-aligned bounding box enclosing the region.
	Bounds() BBox
	// Contains reports whether a point falls inside the region.
	Contains(p Point) bool
}

// Circle is a center-plus-radius search region.
type Circle struct {
	Center   Point
	RadiusKm float64
}

func (c Circle) Bounds() BBox {
	dLat := c.RadiusKm / kmPerDegree
	// Longitude degrees shrink with latitude; clamp near the poles
	cosLat := math.Cos(c.Center.Lat * math.Pi / 180)
	if cosLat < 0.01 {
		cosLat = 0.01
	}
	dLon := c.RadiusKm / (kmPerDegree * cosLat)
	return BBox{
		MinLat: c.Center.Lat - dLat,
		MinLon: c.Center.Lon - dLon,
		MaxLat: c.Center.Lat + dLat,
		MaxLon: c.Center.Lon + dLon,
	}
}

func (c Circle) Contains(p Point) bool {
	return DistanceKm(c.Center, p) <= c.RadiusKm
}

// BBox is an axis-aligned rectangular search region.
type BBox struct {
	MinLat float64
	MinLon float64
	MaxLat float64
	MaxLon float64
}

// BBoxFromCorners builds a normalized bounding box from two opposite
// corners picked in any diagonal order.
func BBoxFromCorners(a, b Point) BBox {
	return BBox{
		MinLat: math.Min(a.Lat, b.Lat),
		MinLon: math.Min(a.Lon, b.Lon),
		MaxLat: math.Max(a.Lat, b.Lat),
		MaxLon: math.Max(a.Lon, b.Lon),
	}
}

func (b BBox) Bounds() BBox {
	return b
}

func (b BBox) Contains(p Point) bool {
	return p.Lat >= b.MinLat && p.Lat <= b.MaxLat && p.Lon >= b.MinLon && p.Lon <= b.MaxLon
}

// Center returns the midpoint of the box.
func (b BBox) Center() Point {
	return Point{
		Lat: (b.MinLat + b.MaxLat) / 2,
		Lon: (b.MinLon + b.MaxLon) / 2,
	}
}

// DistanceKm returns the great-circle distance between two points (haversine).
func DistanceKm(a, b Point) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLon := (b.Lon - a.Lon) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusKm * math.Asin(math.Sqrt(h))
}
