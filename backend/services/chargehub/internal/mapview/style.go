package mapview

import (
	"strconv"
	"strings"
	"time"

	"chargehub/backend/services/chargehub/internal/models"
)

// Marker colors by status.
const (
	ColorActive      = "#10b981"
	ColorMaintenance = "#f59e0b"
	ColorInactive    = "#ef4444"
	ColorUnknown     = "#6b7280"
)

// StatusColor maps a status name, in any case, to its marker color.
func StatusColor(status string) string {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case "active":
		return ColorActive
	case "maintenance":
		return ColorMaintenance
	case "inactive":
		return ColorInactive
	default:
		return ColorUnknown
	}
}

// Theme is the page palette. Marker colors do not depend on it.
type Theme struct {
	Name       string `json:"name"`
	Background string `json:"background"`
	Surface    string `json:"surface"`
	Text       string `json:"text"`
	Muted      string `json:"muted"`
	Accent     string `json:"accent"`
}

var themes = map[string]Theme{
	"light": {Name: "light", Background: "#f9fafb", Surface: "#ffffff", Text: "#111827", Muted: "#6b7280", Accent: "#2563eb"},
	"dark":  {Name: "dark", Background: "#0f172a", Surface: "#1e293b", Text: "#f1f5f9", Muted: "#94a3b8", Accent: "#22d3ee"},
}

// DefaultTheme is used when no or an unknown theme is requested.
const DefaultTheme = "light"

// ThemeByName looks a theme up case-insensitively. Unknown names get the default
// theme and ok=false.
func ThemeByName(name string) (Theme, bool) {
	t, ok := themes[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return themes[DefaultTheme], false
	}
	return t, true
}

// DetailField is one labelled row of the detail panel.
type DetailField struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// DetailPanel is the side panel shown for the selected station. All adapters share it.
type DetailPanel struct {
	StationID   string        `json:"station_id"`
	Title       string        `json:"title"`
	Status      models.Status `json:"status"`
	StatusColor string        `json:"status_color"`
	Fields      []DetailField `json:"fields"`
	Theme       Theme         `json:"theme"`
}

// NewDetailPanel lays out the panel for s.
func NewDetailPanel(s models.Station, theme Theme) DetailPanel {
	fields := []DetailField{
		{Label: "Power Output", Value: strconv.FormatFloat(s.PowerOutput, 'f', -1, 64) + " kW"},
		{Label: "Connector", Value: s.ConnectorType},
		{Label: "Location", Value: s.CoordinateLabel()},
	}
	if !s.UpdatedAt.IsZero() {
		fields = append(fields, DetailField{Label: "Last Updated", Value: s.UpdatedAt.UTC().Format(time.RFC3339)})
	}
	return DetailPanel{
		StationID:   s.ID,
		Title:       s.Name,
		Status:      s.Status,
		StatusColor: StatusColor(string(s.Status)),
		Fields:      fields,
		Theme:       theme,
	}
}
