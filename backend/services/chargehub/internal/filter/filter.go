package filter

import (
	"strings"

	"chargehub/backend/services/chargehub/internal/models"
)

// All disables a status or connector filter.
const All = "all"

// Criteria is the filter bar of the list and map pages.
type Criteria struct {
	Query     string `json:"q,omitempty"`
	Status    string `json:"status,omitempty"`
	Connector string `json:"connector,omitempty"`
}

// Apply returns the stations matching every criterion, in their original order.
func Apply(stations []models.Station, c Criteria) []models.Station {
	query := strings.ToLower(strings.TrimSpace(c.Query))
	status := strings.ToLower(strings.TrimSpace(c.Status))
	connector := strings.TrimSpace(c.Connector)

	out := make([]models.Station, 0, len(stations))
	for _, s := range stations {
		if matchesSearch(s, query) && matchesStatus(s, status) && matchesConnector(s, connector) {
			out = append(out, s)
		}
	}
	return out
}

// query is already lower-cased.
func matchesSearch(s models.Station, query string) bool {
	if query == "" {
		return true
	}
	return strings.Contains(strings.ToLower(s.Name), query) ||
		strings.Contains(strings.ToLower(s.CoordinateLabel()), query)
}

func matchesStatus(s models.Station, status string) bool {
	if status == "" || status == All {
		return true
	}
	return strings.ToLower(string(s.Status)) == status
}

func matchesConnector(s models.Station, connector string) bool {
	if connector == "" || strings.EqualFold(connector, All) {
		return true
	}
	return s.ConnectorType == connector
}

// StatusCounts tallies stations per status, keyed by the lower-cased name.
func StatusCounts(stations []models.Station) map[string]int {
	counts := map[string]int{All: len(stations)}
	for _, st := range models.Statuses {
		counts[strings.ToLower(string(st))] = 0
	}
	for _, s := range stations {
		counts[strings.ToLower(string(s.Status))]++
	}
	return counts
}
