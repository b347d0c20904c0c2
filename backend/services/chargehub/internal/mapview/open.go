package mapview

import (
	"strings"

	"chargehub/backend/services/chargehub/internal/models"
	"chargehub/backend/services/chargehub/internal/projection"
)

const (
	defaultOpenTileURL = "https://{s}.tile.openstreetmap.org/{z}/{x}/{y}.png"
	openZoom           = 10
	openFocusZoom      = 13
	openPaddingDeg     = 0.1
)

// Open targets an open raster-tile widget. It needs no credential.
type Open struct {
	tileURL string
}

// NewOpen returns the open adapter, defaulting to the public OSM tile server.
func NewOpen(tileURL string) *Open {
	if strings.TrimSpace(tileURL) == "" {
		tileURL = defaultOpenTileURL
	}
	return &Open{tileURL: tileURL}
}

func (o *Open) Name() string { return AdapterOpen }

func (o *Open) RenderBasemap(view projection.View) Basemap {
	return Basemap{
		Provider:    AdapterOpen,
		TileURL:     o.tileURL,
		Attribution: "© OpenStreetMap contributors",
		View:        tiledView(view, openZoom),
	}
}

func (o *Open) PlaceMarkers(stations []models.Station, selectedID string, _ projection.View) []Marker {
	markers := make([]Marker, 0, len(stations))
	for _, s := range stations {
		markers = append(markers, baseMarker(s, selectedID))
	}
	return markers
}

// OnMarkerClick centers on the station at street zoom.
func (o *Open) OnMarkerClick(stations []models.Station, markerID string, _ projection.View) (Selection, error) {
	st, ok := findStation(stations, markerID)
	if !ok {
		return Selection{}, ErrUnknownMarker
	}
	return Selection{
		Station: st,
		View:    projection.View{Center: projection.Point{Lat: st.Latitude, Lng: st.Longitude}, Zoom: openFocusZoom},
		Moved:   true,
	}, nil
}

// FitToBounds grows the box by a fixed margin in degrees.
func (o *Open) FitToBounds(stations []models.Station, view projection.View) Fit {
	b := stationBounds(stations)
	if b == nil {
		return Fit{View: tiledView(view, openZoom)}
	}
	fit := toBounds(b, openPaddingDeg, "deg")
	fit.South -= openPaddingDeg
	fit.West -= openPaddingDeg
	fit.North += openPaddingDeg
	fit.East += openPaddingDeg
	return Fit{
		Bounds: fit,
		View:   projection.View{Center: boundsCenter(b), Zoom: openZoom},
	}
}
