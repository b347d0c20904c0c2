package service

import (
	"encoding/json"
	"errors"
	"testing"

	"chargehub/backend/services/chargehub/internal/filter"
	"chargehub/backend/services/chargehub/internal/mapview"
	"chargehub/backend/services/chargehub/internal/projection"
)

func newMapService(t *testing.T) *MapService {
	t.Helper()
	set, err := mapview.NewSet(mapview.Config{Default: mapview.AdapterVirtual})
	if err != nil {
		t.Fatalf("adapters: %v", err)
	}
	return NewMapService(set, "dark", nil)
}

func TestMapPage(t *testing.T) {
	svc := newMapService(t)
	sess := offlineSession(t)

	page, err := svc.Page(sess, MapRequest{Criteria: filter.Criteria{Status: "active"}})
	if err != nil {
		t.Fatalf("page: %v", err)
	}
	if page.Adapter != mapview.AdapterVirtual || page.Theme.Name != "dark" {
		t.Fatalf("unexpected adapter/theme %s/%s", page.Adapter, page.Theme.Name)
	}
	if len(page.Markers) != 4 || page.Detail != nil {
		t.Fatalf("expected 4 markers and no panel, got %d %v", len(page.Markers), page.Detail)
	}

	page, err = svc.Page(sess, MapRequest{Adapter: "open", Theme: "light", Selected: "sample-3"})
	if err != nil {
		t.Fatalf("page: %v", err)
	}
	if page.Basemap.Provider != mapview.AdapterOpen || page.Theme.Name != "light" {
		t.Fatalf("per-request overrides ignored: %+v", page.Basemap)
	}
	if page.Detail == nil || page.Detail.StationID != "sample-3" || page.Detail.StatusColor != mapview.ColorMaintenance {
		t.Fatalf("unexpected detail panel %+v", page.Detail)
	}

	if _, err := svc.Page(sess, MapRequest{Adapter: "hosted"}); !errors.Is(err, mapview.ErrAdapterDisabled) {
		t.Fatalf("expected hosted to be disabled, got %v", err)
	}
}

func TestMapSelectRemembersStation(t *testing.T) {
	svc := newMapService(t)
	sess := offlineSession(t)

	res, err := svc.Select(sess, "open", "", "sample-5")
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if !res.Selection.Moved || res.Detail.Title != "Hotel Parking" {
		t.Fatalf("unexpected selection %+v", res)
	}
	if sess.Selected() != "sample-5" {
		t.Fatalf("selection must be kept on the session")
	}
	if sess.Viewport.View() != projection.DefaultView() {
		t.Fatalf("tiled selection must not move the virtual viewport")
	}

	if _, err := svc.Select(sess, "", "", "nope"); !errors.Is(err, mapview.ErrUnknownMarker) {
		t.Fatalf("expected ErrUnknownMarker, got %v", err)
	}

	page, _ := svc.Page(sess, MapRequest{})
	if page.Detail == nil || page.Detail.StationID != "sample-5" {
		t.Fatalf("page must show the remembered selection")
	}
	svc.ClearSelection(sess)
	if sess.Selected() != "" {
		t.Fatalf("selection must clear")
	}
}

func TestMapViewportControls(t *testing.T) {
	svc := newMapService(t)
	sess := offlineSession(t)

	if v := svc.ZoomIn(sess); v.Zoom != 1.5 {
		t.Fatalf("zoom in: %v", v.Zoom)
	}
	if v := svc.ZoomOut(sess); v.Zoom != 1 {
		t.Fatalf("zoom out: %v", v.Zoom)
	}

	fit, err := svc.Fit(sess, "", filter.Criteria{Query: "Hotel"})
	if err != nil {
		t.Fatalf("fit: %v", err)
	}
	if fit.View.Center.Lat != 37.7949 || sess.Viewport.View().Center.Lat != 37.7949 {
		t.Fatalf("virtual fit must move the viewport, got %+v", fit.View)
	}

	if v := svc.Recenter(sess); v.Center != projection.DefaultCenter {
		t.Fatalf("recenter: %+v", v.Center)
	}
}

func TestMapGeoJSON(t *testing.T) {
	svc := newMapService(t)
	sess := offlineSession(t)

	data, err := svc.GeoJSON(sess, filter.Criteria{Connector: "Type 2"})
	if err != nil {
		t.Fatalf("geojson: %v", err)
	}
	var fc struct {
		Features []json.RawMessage `json:"features"`
	}
	if err := json.Unmarshal(data, &fc); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(fc.Features) != 2 {
		t.Fatalf("expected 2 Type 2 stations, got %d", len(fc.Features))
	}
}
