package mapview

import (
	"encoding/json"

	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"

	"chargehub/backend/services/chargehub/internal/models"
)

// FeatureCollection renders the stations as GeoJSON points, the source format
// tiled widgets load marker layers from.
func FeatureCollection(stations []models.Station, selectedID string) *geojson.FeatureCollection {
	fc := &geojson.FeatureCollection{
		Features: make([]*geojson.Feature, 0, len(stations)),
	}
	for _, s := range stations {
		fc.Features = append(fc.Features, &geojson.Feature{
			ID:       s.ID,
			Geometry: geom.NewPointFlat(geom.XY, []float64{s.Longitude, s.Latitude}),
			Properties: map[string]interface{}{
				"name":           s.Name,
				"status":         string(s.Status),
				"color":          StatusColor(string(s.Status)),
				"power_output":   s.PowerOutput,
				"connector_type": s.ConnectorType,
				"selected":       s.ID == selectedID,
			},
		})
	}
	if b := stationBounds(stations); b != nil {
		fc.BBox = b
	}
	return fc
}

// MarshalFeatureCollection encodes FeatureCollection(stations, selectedID).
func MarshalFeatureCollection(stations []models.Station, selectedID string) ([]byte, error) {
	return json.Marshal(FeatureCollection(stations, selectedID))
}
