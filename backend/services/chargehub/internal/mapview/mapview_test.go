package mapview

import (
	"encoding/json"
	"errors"
	"math"
	"testing"

	"chargehub/backend/services/chargehub/internal/models"
	"chargehub/backend/services/chargehub/internal/projection"
)

func stations() []models.Station {
	return []models.Station{
		{ID: "a", Name: "Downtown", Latitude: 37.7749, Longitude: -122.4194, Status: models.StatusActive, PowerOutput: 150, ConnectorType: models.ConnectorCCS},
		{ID: "b", Name: "Airport", Latitude: 37.7649, Longitude: -122.4294, Status: models.StatusMaintenance, ConnectorType: models.ConnectorTesla},
		{ID: "c", Name: "Hotel", Latitude: 37.7949, Longitude: -122.3994, Status: models.StatusInactive, ConnectorType: models.ConnectorType2},
		{ID: "d", Name: "Odd", Latitude: 37.78, Longitude: -122.41, Status: "Decommissioned"},
	}
}

func TestStatusColor(t *testing.T) {
	cases := map[string]string{
		"Active":      ColorActive,
		"active":      ColorActive,
		"MAINTENANCE": ColorMaintenance,
		"Inactive":    ColorInactive,
		"":            ColorUnknown,
		"Offline":     ColorUnknown,
	}
	for in, want := range cases {
		if got := StatusColor(in); got != want {
			t.Fatalf("StatusColor(%q) = %s, want %s", in, got, want)
		}
	}
}

func TestNewSetRequiresTokenForHostedDefault(t *testing.T) {
	if _, err := NewSet(Config{Default: AdapterHosted}); !errors.Is(err, ErrMissingToken) {
		t.Fatalf("expected ErrMissingToken, got %v", err)
	}
	if _, err := NewSet(Config{Default: "globe"}); !errors.Is(err, ErrUnknownAdapter) {
		t.Fatalf("expected ErrUnknownAdapter, got %v", err)
	}

	set, err := NewSet(Config{})
	if err != nil {
		t.Fatalf("new set: %v", err)
	}
	if set.Default() != AdapterVirtual {
		t.Fatalf("expected virtual default, got %s", set.Default())
	}
	if _, err := set.Select(AdapterHosted); !errors.Is(err, ErrAdapterDisabled) {
		t.Fatalf("hosted must be disabled without token, got %v", err)
	}
	if names := set.Names(); len(names) != 2 {
		t.Fatalf("expected open and virtual only, got %v", names)
	}
}

func TestSelectByName(t *testing.T) {
	set, err := NewSet(Config{Default: "OPEN", HostedToken: "pk.test"})
	if err != nil {
		t.Fatalf("new set: %v", err)
	}
	for name, want := range map[string]string{"": AdapterOpen, "hosted": AdapterHosted, " Virtual ": AdapterVirtual} {
		a, err := set.Select(name)
		if err != nil {
			t.Fatalf("select %q: %v", name, err)
		}
		if a.Name() != want {
			t.Fatalf("select %q returned %s", name, a.Name())
		}
	}
}

func TestAllAdaptersColorMarkersByStatus(t *testing.T) {
	hosted, err := NewHosted("pk.test", "")
	if err != nil {
		t.Fatalf("hosted: %v", err)
	}
	for _, a := range []Adapter{hosted, NewOpen(""), NewVirtual()} {
		markers := a.PlaceMarkers(stations(), "b", projection.DefaultView())
		if len(markers) != 4 {
			t.Fatalf("%s: expected 4 markers, got %d", a.Name(), len(markers))
		}
		want := []string{ColorActive, ColorMaintenance, ColorInactive, ColorUnknown}
		for i, m := range markers {
			if m.Color != want[i] {
				t.Fatalf("%s: marker %s color %s, want %s", a.Name(), m.StationID, m.Color, want[i])
			}
			if m.Selected != (m.StationID == "b") {
				t.Fatalf("%s: wrong selection flag on %s", a.Name(), m.StationID)
			}
		}
	}
}

func TestVirtualMarkersAreProjected(t *testing.T) {
	markers := NewVirtual().PlaceMarkers(stations(), "", projection.DefaultView())
	if markers[0].Position == nil || markers[0].Position.X != 50 || markers[0].Position.Y != 50 {
		t.Fatalf("station at the center must sit at (50,50), got %+v", markers[0].Position)
	}
	for _, m := range markers {
		if m.Position.X < projection.MinPosition || m.Position.X > projection.MaxPosition {
			t.Fatalf("marker %s outside frame: %+v", m.StationID, m.Position)
		}
	}

	open := NewOpen("").PlaceMarkers(stations(), "", projection.DefaultView())
	if open[0].Position != nil {
		t.Fatalf("tile adapters place by coordinates, not screen position")
	}
}

func TestOnMarkerClick(t *testing.T) {
	view := projection.View{Center: projection.DefaultCenter, Zoom: 2}
	hosted, _ := NewHosted("pk.test", "")

	sel, err := NewVirtual().OnMarkerClick(stations(), "c", view)
	if err != nil || sel.Station.ID != "c" || sel.Moved || sel.View != view {
		t.Fatalf("virtual click must select in place, got %+v %v", sel, err)
	}

	sel, err = NewOpen("").OnMarkerClick(stations(), "c", view)
	if err != nil || !sel.Moved || sel.View.Zoom != openFocusZoom || sel.View.Center.Lat != 37.7949 {
		t.Fatalf("open click must center on station, got %+v %v", sel, err)
	}

	sel, err = hosted.OnMarkerClick(stations(), "a", view)
	if err != nil || sel.View.Zoom != hostedFocusZoom {
		t.Fatalf("hosted click must fly to station, got %+v %v", sel, err)
	}

	if _, err := NewOpen("").OnMarkerClick(stations(), "zzz", view); !errors.Is(err, ErrUnknownMarker) {
		t.Fatalf("expected ErrUnknownMarker, got %v", err)
	}
}

func TestFitToBounds(t *testing.T) {
	hosted, _ := NewHosted("pk.test", "")
	list := stations()[:3]
	view := projection.DefaultView()

	hfit := hosted.FitToBounds(list, view)
	if hfit.Bounds == nil || hfit.Bounds.Padding != hostedPaddingPx || hfit.Bounds.PaddingUnit != "px" {
		t.Fatalf("unexpected hosted fit %+v", hfit.Bounds)
	}
	if hfit.Bounds.South != 37.7649 || hfit.Bounds.North != 37.7949 || hfit.Bounds.West != -122.4294 || hfit.Bounds.East != -122.3994 {
		t.Fatalf("unexpected hosted box %+v", hfit.Bounds)
	}

	ofit := NewOpen("").FitToBounds(list, view)
	if math.Abs(ofit.Bounds.South-(37.7649-0.1)) > 1e-9 || math.Abs(ofit.Bounds.East-(-122.3994+0.1)) > 1e-9 {
		t.Fatalf("open fit must grow the box by 0.1 degrees, got %+v", ofit.Bounds)
	}

	vfit := NewVirtual().FitToBounds(list, view)
	if math.Abs(vfit.View.Center.Lat-37.7799) > 1e-9 || math.Abs(vfit.View.Center.Lng-(-122.4144)) > 1e-9 || vfit.View.Zoom != view.Zoom {
		t.Fatalf("virtual fit must center on the box midpoint, got %+v", vfit.View)
	}

	empty := NewVirtual().FitToBounds(nil, view)
	if empty.Bounds != nil || empty.View != view {
		t.Fatalf("empty fit must leave the view alone, got %+v", empty)
	}
}

func TestThemeByName(t *testing.T) {
	if th, ok := ThemeByName("Dark"); !ok || th.Name != "dark" {
		t.Fatalf("expected dark theme, got %+v %v", th, ok)
	}
	if th, ok := ThemeByName("neon"); ok || th.Name != DefaultTheme {
		t.Fatalf("unknown theme must fall back to default, got %+v %v", th, ok)
	}
}

func TestDetailPanel(t *testing.T) {
	theme, _ := ThemeByName("dark")
	panel := NewDetailPanel(stations()[0], theme)
	if panel.Title != "Downtown" || panel.StatusColor != ColorActive || panel.Theme.Name != "dark" {
		t.Fatalf("unexpected panel %+v", panel)
	}
	if panel.Fields[0].Value != "150 kW" || panel.Fields[2].Value != "37.7749, -122.4194" {
		t.Fatalf("unexpected fields %+v", panel.Fields)
	}
}

func TestMarshalFeatureCollection(t *testing.T) {
	data, err := MarshalFeatureCollection(stations()[:2], "a")
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var decoded struct {
		Type     string    `json:"type"`
		BBox     []float64 `json:"bbox"`
		Features []struct {
			ID       string `json:"id"`
			Geometry struct {
				Type        string    `json:"type"`
				Coordinates []float64 `json:"coordinates"`
			} `json:"geometry"`
			Properties map[string]interface{} `json:"properties"`
		} `json:"features"`
	}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded.Type != "FeatureCollection" || len(decoded.Features) != 2 || len(decoded.BBox) != 4 {
		t.Fatalf("unexpected collection %s", data)
	}
	first := decoded.Features[0]
	if first.ID != "a" || first.Geometry.Type != "Point" || first.Geometry.Coordinates[0] != -122.4194 {
		t.Fatalf("unexpected first feature %+v", first)
	}
	if first.Properties["color"] != ColorActive || first.Properties["selected"] != true {
		t.Fatalf("unexpected properties %v", first.Properties)
	}
}
