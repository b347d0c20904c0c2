// Package mapview turns a station list into what a map widget draws.
//
// Three renderers share the Adapter interface: a hosted vector-tile widget that
// needs an access token, an open raster-tile widget, and the self-drawn virtual
// map built on package projection. The active one comes from configuration and
// can be overridden per request.
package mapview

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/twpayne/go-geom"

	"chargehub/backend/services/chargehub/internal/models"
	"chargehub/backend/services/chargehub/internal/projection"
)

const (
	AdapterHosted  = "hosted"
	AdapterOpen    = "open"
	AdapterVirtual = "virtual"
)

var (
	ErrMissingToken    = errors.New("mapview: hosted map requires an access token")
	ErrUnknownAdapter  = errors.New("mapview: unknown map adapter")
	ErrUnknownMarker   = errors.New("mapview: no station for marker")
	ErrAdapterDisabled = errors.New("mapview: map adapter not configured")
)

// Basemap describes the background layer a widget should load.
type Basemap struct {
	Provider    string          `json:"provider"`
	StyleURL    string          `json:"style_url,omitempty"`
	TileURL     string          `json:"tile_url,omitempty"`
	AccessToken string          `json:"access_token,omitempty"`
	Attribution string          `json:"attribution,omitempty"`
	View        projection.View `json:"view"`
}

// Marker is one clickable station pin.
type Marker struct {
	StationID string               `json:"station_id"`
	Label     string               `json:"label"`
	Status    models.Status        `json:"status"`
	Color     string               `json:"color"`
	Selected  bool                 `json:"selected"`
	Latitude  float64              `json:"latitude"`
	Longitude float64              `json:"longitude"`
	Position  *projection.Position `json:"position,omitempty"`
}

// Bounds is a south-west / north-east box with widget padding.
type Bounds struct {
	South   float64 `json:"south"`
	West    float64 `json:"west"`
	North   float64 `json:"north"`
	East    float64 `json:"east"`
	Padding float64 `json:"padding,omitempty"`
	// PaddingUnit is "px" when the widget pads on screen and "deg" when the box was grown.
	PaddingUnit string `json:"padding_unit,omitempty"`
}

// Fit is the outcome of fitting the viewport to a station set.
type Fit struct {
	Bounds *Bounds         `json:"bounds,omitempty"`
	View   projection.View `json:"view"`
}

// Selection is the outcome of a marker click.
type Selection struct {
	Station models.Station  `json:"station"`
	View    projection.View `json:"view"`
	Moved   bool            `json:"moved"`
}

// Adapter renders stations onto one kind of map surface.
type Adapter interface {
	Name() string
	RenderBasemap(view projection.View) Basemap
	PlaceMarkers(stations []models.Station, selectedID string, view projection.View) []Marker
	OnMarkerClick(stations []models.Station, markerID string, view projection.View) (Selection, error)
	FitToBounds(stations []models.Station, view projection.View) Fit
}

// Config selects and parameterizes the adapters.
type Config struct {
	Default     string
	HostedToken string
	HostedStyle string
	OpenTileURL string
}

// Set holds the adapters that could be built from a Config.
type Set struct {
	adapters map[string]Adapter
	fallback string
}

// NewSet builds every adapter the configuration allows. The hosted adapter is
// only available with a token; asking for it as default without one is an error.
func NewSet(cfg Config) (*Set, error) {
	set := &Set{
		adapters: map[string]Adapter{
			AdapterOpen:    NewOpen(cfg.OpenTileURL),
			AdapterVirtual: NewVirtual(),
		},
	}

	if hosted, err := NewHosted(cfg.HostedToken, cfg.HostedStyle); err == nil {
		set.adapters[AdapterHosted] = hosted
	}

	def := strings.ToLower(strings.TrimSpace(cfg.Default))
	if def == "" {
		def = AdapterVirtual
	}
	if _, ok := set.adapters[def]; !ok {
		if def == AdapterHosted {
			return nil, ErrMissingToken
		}
		return nil, fmt.Errorf("%w: %q", ErrUnknownAdapter, cfg.Default)
	}
	set.fallback = def
	return set, nil
}

// Select returns the named adapter, or the default for an empty name.
func (s *Set) Select(name string) (Adapter, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		name = s.fallback
	}
	if a, ok := s.adapters[name]; ok {
		return a, nil
	}
	switch name {
	case AdapterHosted:
		return nil, fmt.Errorf("%w: %s", ErrAdapterDisabled, ErrMissingToken)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownAdapter, name)
	}
}

// Default returns the configured default adapter name.
func (s *Set) Default() string {
	return s.fallback
}

// Names lists the available adapters.
func (s *Set) Names() []string {
	names := make([]string, 0, len(s.adapters))
	for name := range s.adapters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func findStation(stations []models.Station, id string) (models.Station, bool) {
	for _, s := range stations {
		if s.ID == id {
			return s, true
		}
	}
	return models.Station{}, false
}

func baseMarker(s models.Station, selectedID string) Marker {
	return Marker{
		StationID: s.ID,
		Label:     s.Name,
		Status:    s.Status,
		Color:     StatusColor(string(s.Status)),
		Selected:  s.ID == selectedID,
		Latitude:  s.Latitude,
		Longitude: s.Longitude,
	}
}

// stationBounds returns the XY (lng, lat) extent of the stations, or nil when empty.
func stationBounds(stations []models.Station) *geom.Bounds {
	if len(stations) == 0 {
		return nil
	}
	b := geom.NewBounds(geom.XY)
	for _, s := range stations {
		b.Extend(geom.NewPointFlat(geom.XY, []float64{s.Longitude, s.Latitude}))
	}
	return b
}

func boundsCenter(b *geom.Bounds) projection.Point {
	return projection.Point{
		Lat: (b.Min(1) + b.Max(1)) / 2,
		Lng: (b.Min(0) + b.Max(0)) / 2,
	}
}

func toBounds(b *geom.Bounds, padding float64, unit string) *Bounds {
	return &Bounds{
		South:       b.Min(1),
		West:        b.Min(0),
		North:       b.Max(1),
		East:        b.Max(0),
		Padding:     padding,
		PaddingUnit: unit,
	}
}
