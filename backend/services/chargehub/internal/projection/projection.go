// Package projection places geographic points on the self-drawn map.
//
// The mapping is linear around a center point and only meant for city-scale
// areas: x grows with longitude, y shrinks with latitude, both expressed as a
// percentage of the viewport and kept inside a margin so far-away stations stay
// visible at the frame edge.
package projection

import (
	"math"
	"sync"
)

const (
	// Scale converts degrees to viewport percent at zoom 1.
	Scale = 1000.0
	// MinPosition and MaxPosition bound both output axes.
	MinPosition = 5.0
	MaxPosition = 95.0

	ZoomStep    = 1.5
	MinZoom     = 0.5
	MaxZoom     = 5.0
	DefaultZoom = 1.0
)

// Point is a latitude/longitude pair in degrees.
type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// DefaultCenter is downtown San Francisco.
var DefaultCenter = Point{Lat: 37.7749, Lng: -122.4194}

// Position is a marker location in viewport percent.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Project maps point into the viewport centered on center at the given zoom.
func Project(point, center Point, zoom float64) Position {
	x := 50 + (point.Lng-center.Lng)*Scale*zoom
	y := 50 - (point.Lat-center.Lat)*Scale*zoom
	return Position{X: clamp(x, MinPosition, MaxPosition), Y: clamp(y, MinPosition, MaxPosition)}
}

// ZoomIn returns the next zoom level up.
func ZoomIn(zoom float64) float64 {
	return clamp(zoom*ZoomStep, MinZoom, MaxZoom)
}

// ZoomOut returns the next zoom level down.
func ZoomOut(zoom float64) float64 {
	return clamp(zoom/ZoomStep, MinZoom, MaxZoom)
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Max(lo, math.Min(hi, v))
}

// View is a center and zoom pair.
type View struct {
	Center Point   `json:"center"`
	Zoom   float64 `json:"zoom"`
}

// DefaultView is the initial view of a fresh viewport.
func DefaultView() View {
	return View{Center: DefaultCenter, Zoom: DefaultZoom}
}

// Viewport is the mutable view state of one map page.
type Viewport struct {
	mu   sync.RWMutex
	view View
}

// NewViewport starts at DefaultView.
func NewViewport() *Viewport {
	return &Viewport{view: DefaultView()}
}

// View returns the current view.
func (v *Viewport) View() View {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.view
}

// ZoomIn steps the zoom up and returns the new view.
func (v *Viewport) ZoomIn() View {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.view.Zoom = ZoomIn(v.view.Zoom)
	return v.view
}

// ZoomOut steps the zoom down and returns the new view.
func (v *Viewport) ZoomOut() View {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.view.Zoom = ZoomOut(v.view.Zoom)
	return v.view
}

// Recenter moves back to DefaultCenter, keeping the zoom.
func (v *Viewport) Recenter() View {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.view.Center = DefaultCenter
	return v.view
}

// Set replaces the view, clamping the zoom into range.
func (v *Viewport) Set(view View) View {
	v.mu.Lock()
	defer v.mu.Unlock()
	view.Zoom = clamp(view.Zoom, MinZoom, MaxZoom)
	v.view = view
	return v.view
}
