package handlers

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"chargehub/backend/services/chargehub/internal/mapview"
	"chargehub/backend/services/chargehub/internal/projection"
	"chargehub/backend/services/chargehub/internal/service"
	"chargehub/backend/services/chargehub/internal/store"
)

// MapHandlers serves the map page controller.
type MapHandlers struct {
	maps   *service.MapService
	logger *zap.Logger
}

// NewMapHandlers returns handler struct.
func NewMapHandlers(maps *service.MapService, logger *zap.Logger) *MapHandlers {
	return &MapHandlers{maps: maps, logger: logger}
}

// Page handles GET /api/map.
func (h *MapHandlers) Page(w http.ResponseWriter, r *http.Request) {
	sess, ok := sessionOrAbort(w, r)
	if !ok {
		return
	}
	q := r.URL.Query()
	page, err := h.maps.Page(sess, service.MapRequest{
		Adapter:  q.Get("adapter"),
		Theme:    q.Get("theme"),
		Criteria: criteriaFromQuery(r),
		Selected: q.Get("selected"),
	})
	if err != nil {
		h.writeMapError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// GeoJSON handles GET /api/map/geojson.
func (h *MapHandlers) GeoJSON(w http.ResponseWriter, r *http.Request) {
	sess, ok := sessionOrAbort(w, r)
	if !ok {
		return
	}
	body, err := h.maps.GeoJSON(sess, criteriaFromQuery(r))
	if err != nil {
		h.writeMapError(w, err)
		return
	}
	writeRaw(w, http.StatusOK, "application/geo+json", body)
}

// Select handles POST /api/map/select. An empty station id clears the selection.
func (h *MapHandlers) Select(w http.ResponseWriter, r *http.Request) {
	sess, ok := sessionOrAbort(w, r)
	if !ok {
		return
	}
	var req struct {
		StationID string `json:"station_id"`
		Adapter   string `json:"adapter"`
		Theme     string `json:"theme"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.StationID == "" {
		h.maps.ClearSelection(sess)
		writeJSON(w, http.StatusOK, map[string]interface{}{"selection": nil})
		return
	}
	res, err := h.maps.Select(sess, req.Adapter, req.Theme, req.StationID)
	if err != nil {
		h.writeMapError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// Fit handles POST /api/map/fit.
func (h *MapHandlers) Fit(w http.ResponseWriter, r *http.Request) {
	sess, ok := sessionOrAbort(w, r)
	if !ok {
		return
	}
	fit, err := h.maps.Fit(sess, r.URL.Query().Get("adapter"), criteriaFromQuery(r))
	if err != nil {
		h.writeMapError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, fit)
}

// ZoomIn handles POST /api/map/zoom-in.
func (h *MapHandlers) ZoomIn(w http.ResponseWriter, r *http.Request) {
	h.viewport(w, r, h.maps.ZoomIn)
}

// ZoomOut handles POST /api/map/zoom-out.
func (h *MapHandlers) ZoomOut(w http.ResponseWriter, r *http.Request) {
	h.viewport(w, r, h.maps.ZoomOut)
}

// Recenter handles POST /api/map/recenter.
func (h *MapHandlers) Recenter(w http.ResponseWriter, r *http.Request) {
	h.viewport(w, r, h.maps.Recenter)
}

func (h *MapHandlers) viewport(w http.ResponseWriter, r *http.Request, step func(*store.Session) projection.View) {
	sess, ok := sessionOrAbort(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]projection.View{"view": step(sess)})
}

func (h *MapHandlers) writeMapError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, mapview.ErrUnknownAdapter), errors.Is(err, mapview.ErrAdapterDisabled):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, mapview.ErrUnknownMarker):
		writeError(w, http.StatusNotFound, "station not found")
	default:
		h.logger.Error("map request failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "map request failed")
	}
}
