package mapview

import (
	"strings"

	"chargehub/backend/services/chargehub/internal/models"
	"chargehub/backend/services/chargehub/internal/projection"
)

const (
	defaultHostedStyle = "mapbox://styles/mapbox/streets-v12"
	hostedZoom         = 10
	hostedFocusZoom    = 14
	hostedPaddingPx    = 50
)

// Hosted targets a hosted vector-tile widget.
type Hosted struct {
	token string
	style string
}

// NewHosted returns the hosted adapter. It refuses to build without a token.
func NewHosted(token, style string) (*Hosted, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrMissingToken
	}
	if strings.TrimSpace(style) == "" {
		style = defaultHostedStyle
	}
	return &Hosted{token: token, style: style}, nil
}

func (h *Hosted) Name() string { return AdapterHosted }

func (h *Hosted) RenderBasemap(view projection.View) Basemap {
	return Basemap{
		Provider:    AdapterHosted,
		StyleURL:    h.style,
		AccessToken: h.token,
		Attribution: "© Mapbox © OpenStreetMap contributors",
		View:        tiledView(view, hostedZoom),
	}
}

func (h *Hosted) PlaceMarkers(stations []models.Station, selectedID string, _ projection.View) []Marker {
	markers := make([]Marker, 0, len(stations))
	for _, s := range stations {
		markers = append(markers, baseMarker(s, selectedID))
	}
	return markers
}

// OnMarkerClick flies to the station.
func (h *Hosted) OnMarkerClick(stations []models.Station, markerID string, view projection.View) (Selection, error) {
	st, ok := findStation(stations, markerID)
	if !ok {
		return Selection{}, ErrUnknownMarker
	}
	return Selection{
		Station: st,
		View:    projection.View{Center: projection.Point{Lat: st.Latitude, Lng: st.Longitude}, Zoom: hostedFocusZoom},
		Moved:   true,
	}, nil
}

// FitToBounds hands the raw box to the widget with on-screen padding.
func (h *Hosted) FitToBounds(stations []models.Station, view projection.View) Fit {
	b := stationBounds(stations)
	if b == nil {
		return Fit{View: tiledView(view, hostedZoom)}
	}
	return Fit{
		Bounds: toBounds(b, hostedPaddingPx, "px"),
		View:   projection.View{Center: boundsCenter(b), Zoom: hostedZoom},
	}
}

// Tile widgets keep their own zoom; only the center carries over from the
// projection viewport.
func tiledView(view projection.View, zoom float64) projection.View {
	view.Zoom = zoom
	if view.Center == (projection.Point{}) {
		view.Center = projection.DefaultCenter
	}
	return view
}
