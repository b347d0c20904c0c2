package store

import (
	"fmt"
	"time"

	"chargehub/backend/services/chargehub/internal/models"
)

const (
	// SampleIDPrefix marks records that come from the built-in sample set.
	SampleIDPrefix = "sample-"
	// LocalIDPrefix marks records created while the backend was unreachable.
	LocalIDPrefix = "local-"
	// DemoOwnerID owns every record synthesized without the backend.
	DemoOwnerID = "demo-user"
)

var sampleStations = []models.StationInput{
	{Name: "Downtown Fast Charger", Latitude: 37.7749, Longitude: -122.4194, Status: models.StatusActive, PowerOutput: 150, ConnectorType: models.ConnectorCCS},
	{Name: "Mall Charging Hub", Latitude: 37.7849, Longitude: -122.4094, Status: models.StatusActive, PowerOutput: 50, ConnectorType: models.ConnectorType2},
	{Name: "Airport Supercharger", Latitude: 37.7649, Longitude: -122.4294, Status: models.StatusMaintenance, PowerOutput: 250, ConnectorType: models.ConnectorTesla},
	{Name: "Highway Rest Stop", Latitude: 37.7549, Longitude: -122.4394, Status: models.StatusActive, PowerOutput: 75, ConnectorType: models.ConnectorCHAdeMO},
	{Name: "Hotel Parking", Latitude: 37.7949, Longitude: -122.3994, Status: models.StatusInactive, PowerOutput: 22, ConnectorType: models.ConnectorType2},
	{Name: "Business District Charger", Latitude: 37.7889, Longitude: -122.4154, Status: models.StatusActive, PowerOutput: 100, ConnectorType: models.ConnectorCCS},
}

// SampleStations expands the sample set into full records stamped relative to base.
// Entries keep their listed order and get strictly decreasing creation times so the
// newest-first invariant holds.
func SampleStations(base time.Time) []models.Station {
	stations := make([]models.Station, 0, len(sampleStations))
	for i, in := range sampleStations {
		ts := base.Add(-time.Duration(i) * time.Minute)
		stations = append(stations, models.Station{
			ID:            fmt.Sprintf("%s%d", SampleIDPrefix, i+1),
			Name:          in.Name,
			Latitude:      in.Latitude,
			Longitude:     in.Longitude,
			Status:        in.Status,
			PowerOutput:   in.PowerOutput,
			ConnectorType: in.ConnectorType,
			CreatedAt:     ts,
			UpdatedAt:     ts,
			OwnerID:       DemoOwnerID,
		})
	}
	return stations
}
