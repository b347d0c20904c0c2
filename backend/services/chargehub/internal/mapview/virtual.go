package mapview

import (
	"chargehub/backend/services/chargehub/internal/models"
	"chargehub/backend/services/chargehub/internal/projection"
)

// Virtual draws the map itself with the linear projection.
type Virtual struct{}

// NewVirtual returns the self-drawn adapter.
func NewVirtual() *Virtual {
	return &Virtual{}
}

func (v *Virtual) Name() string { return AdapterVirtual }

func (v *Virtual) RenderBasemap(view projection.View) Basemap {
	return Basemap{Provider: AdapterVirtual, View: view}
}

func (v *Virtual) PlaceMarkers(stations []models.Station, selectedID string, view projection.View) []Marker {
	markers := make([]Marker, 0, len(stations))
	for _, s := range stations {
		m := baseMarker(s, selectedID)
		pos := projection.Project(projection.Point{Lat: s.Latitude, Lng: s.Longitude}, view.Center, view.Zoom)
		m.Position = &pos
		markers = append(markers, m)
	}
	return markers
}

// OnMarkerClick selects without moving the viewport.
func (v *Virtual) OnMarkerClick(stations []models.Station, markerID string, view projection.View) (Selection, error) {
	st, ok := findStation(stations, markerID)
	if !ok {
		return Selection{}, ErrUnknownMarker
	}
	return Selection{Station: st, View: view}, nil
}

// FitToBounds centers on the middle of the stations and keeps the zoom.
func (v *Virtual) FitToBounds(stations []models.Station, view projection.View) Fit {
	b := stationBounds(stations)
	if b == nil {
		return Fit{View: view}
	}
	return Fit{
		Bounds: toBounds(b, 0, ""),
		View:   projection.View{Center: boundsCenter(b), Zoom: view.Zoom},
	}
}
