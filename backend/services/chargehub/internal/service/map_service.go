package service

import (
	"go.uber.org/zap"

	"chargehub/backend/services/chargehub/internal/filter"
	"chargehub/backend/services/chargehub/internal/mapview"
	"chargehub/backend/services/chargehub/internal/projection"
	"chargehub/backend/services/chargehub/internal/store"
)

// MapRequest carries the query of the map page.
type MapRequest struct {
	Adapter  string
	Theme    string
	Criteria filter.Criteria
	// Selected overrides the session's remembered selection when set.
	Selected string
}

// MapPage is everything a map widget needs to draw one frame.
type MapPage struct {
	Adapter  string               `json:"adapter"`
	Adapters []string             `json:"adapters"`
	Theme    mapview.Theme        `json:"theme"`
	Basemap  mapview.Basemap      `json:"basemap"`
	Markers  []mapview.Marker     `json:"markers"`
	Fit      mapview.Fit          `json:"fit"`
	Detail   *mapview.DetailPanel `json:"detail,omitempty"`
	Counts   map[string]int       `json:"counts"`
	Loading  bool                 `json:"loading"`
	Criteria filter.Criteria      `json:"criteria"`
}

// MapService drives the single map page controller. The adapter and theme are
// request parameters.
type MapService struct {
	adapters *mapview.Set
	theme    string
	logger   *zap.Logger
}

// NewMapService builds MapService with a default theme name.
func NewMapService(adapters *mapview.Set, theme string, logger *zap.Logger) *MapService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if _, ok := mapview.ThemeByName(theme); !ok {
		theme = mapview.DefaultTheme
	}
	return &MapService{adapters: adapters, theme: theme, logger: logger}
}

// Page renders the map page for the session.
func (s *MapService) Page(sess *store.Session, req MapRequest) (MapPage, error) {
	adapter, err := s.adapters.Select(req.Adapter)
	if err != nil {
		return MapPage{}, err
	}
	theme := s.themeFor(req.Theme)

	all := sess.Store.List()
	visible := filter.Apply(all, req.Criteria)
	view := sess.Viewport.View()

	selectedID := req.Selected
	if selectedID == "" {
		selectedID = sess.Selected()
	}

	page := MapPage{
		Adapter:  adapter.Name(),
		Adapters: s.adapters.Names(),
		Theme:    theme,
		Basemap:  adapter.RenderBasemap(view),
		Markers:  adapter.PlaceMarkers(visible, selectedID, view),
		Fit:      adapter.FitToBounds(visible, view),
		Counts:   filter.StatusCounts(all),
		Loading:  sess.Store.Loading(),
		Criteria: req.Criteria,
	}
	if st, ok := sess.Store.Get(selectedID); ok && selectedID != "" {
		panel := mapview.NewDetailPanel(st, theme)
		page.Detail = &panel
	}
	return page, nil
}

// GeoJSON exports the filtered stations for tiled widgets.
func (s *MapService) GeoJSON(sess *store.Session, criteria filter.Criteria) ([]byte, error) {
	visible := filter.Apply(sess.Store.List(), criteria)
	return mapview.MarshalFeatureCollection(visible, sess.Selected())
}

// SelectResult is the answer to a marker click.
type SelectResult struct {
	Selection mapview.Selection   `json:"selection"`
	Detail    mapview.DetailPanel `json:"detail"`
}

// Select handles a marker click and remembers the station for the session.
// Tiled widgets move their own camera; only the virtual viewport is kept here.
func (s *MapService) Select(sess *store.Session, adapterName, themeName, stationID string) (SelectResult, error) {
	adapter, err := s.adapters.Select(adapterName)
	if err != nil {
		return SelectResult{}, err
	}
	sel, err := adapter.OnMarkerClick(sess.Store.List(), stationID, sess.Viewport.View())
	if err != nil {
		return SelectResult{}, err
	}
	sess.Select(sel.Station.ID)
	s.logger.Debug("station selected",
		zap.String("session_id", sess.ID),
		zap.String("station_id", sel.Station.ID),
		zap.String("adapter", adapter.Name()),
	)
	return SelectResult{
		Selection: sel,
		Detail:    mapview.NewDetailPanel(sel.Station, s.themeFor(themeName)),
	}, nil
}

// ClearSelection closes the detail panel.
func (s *MapService) ClearSelection(sess *store.Session) {
	sess.Select("")
}

// ZoomIn steps the virtual viewport in.
func (s *MapService) ZoomIn(sess *store.Session) projection.View {
	return sess.Viewport.ZoomIn()
}

// ZoomOut steps the virtual viewport out.
func (s *MapService) ZoomOut(sess *store.Session) projection.View {
	return sess.Viewport.ZoomOut()
}

// Recenter returns the virtual viewport to the default center.
func (s *MapService) Recenter(sess *store.Session) projection.View {
	return sess.Viewport.Recenter()
}

// Fit fits the adapter to the filtered stations. For the virtual map the
// resulting view becomes the session's viewport.
func (s *MapService) Fit(sess *store.Session, adapterName string, criteria filter.Criteria) (mapview.Fit, error) {
	adapter, err := s.adapters.Select(adapterName)
	if err != nil {
		return mapview.Fit{}, err
	}
	visible := filter.Apply(sess.Store.List(), criteria)
	fit := adapter.FitToBounds(visible, sess.Viewport.View())
	if adapter.Name() == mapview.AdapterVirtual {
		fit.View = sess.Viewport.Set(fit.View)
	}
	return fit, nil
}

func (s *MapService) themeFor(name string) mapview.Theme {
	if name == "" {
		name = s.theme
	}
	theme, _ := mapview.ThemeByName(name)
	return theme
}

