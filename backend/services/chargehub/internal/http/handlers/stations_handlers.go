package handlers

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"chargehub/backend/services/chargehub/internal/models"
	"chargehub/backend/services/chargehub/internal/service"
	"chargehub/backend/services/chargehub/internal/store"
)

// StationsHandlers serves the station list and form endpoints.
type StationsHandlers struct {
	directory *service.DirectoryService
	logger    *zap.Logger
}

// NewStationsHandlers returns handler struct.
func NewStationsHandlers(directory *service.DirectoryService, logger *zap.Logger) *StationsHandlers {
	return &StationsHandlers{directory: directory, logger: logger}
}

// mutationResponse tells the client whether the change was saved.
type mutationResponse struct {
	Station *models.Station `json:"station,omitempty"`
	Outcome store.Outcome   `json:"outcome"`
	Warning string          `json:"warning,omitempty"`
}

func newMutationResponse(res store.Result) mutationResponse {
	resp := mutationResponse{Station: res.Station, Outcome: res.Outcome}
	if res.Outcome == store.OutcomeLocal {
		resp.Warning = "saved locally only, the change will be lost when you sign out"
	}
	return resp
}

// List handles GET /api/stations.
func (h *StationsHandlers) List(w http.ResponseWriter, r *http.Request) {
	sess, ok := sessionOrAbort(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, h.directory.List(sess, criteriaFromQuery(r)))
}

// Refresh handles POST /api/stations/refresh.
func (h *StationsHandlers) Refresh(w http.ResponseWriter, r *http.Request) {
	sess, ok := sessionOrAbort(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, h.directory.Refresh(r.Context(), sess, criteriaFromQuery(r)))
}

// Get handles GET /api/stations/{id}.
func (h *StationsHandlers) Get(w http.ResponseWriter, r *http.Request) {
	sess, ok := sessionOrAbort(w, r)
	if !ok {
		return
	}
	st, err := h.directory.Get(sess, r.PathValue("id"))
	if err != nil {
		h.writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// Create handles POST /api/stations.
func (h *StationsHandlers) Create(w http.ResponseWriter, r *http.Request) {
	sess, ok := sessionOrAbort(w, r)
	if !ok {
		return
	}
	var input models.StationInput
	if !decodeJSON(w, r, &input) {
		return
	}
	res, err := h.directory.Create(r.Context(), sess, input)
	if err != nil {
		h.writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, newMutationResponse(res))
}

// Update handles PATCH /api/stations/{id}.
func (h *StationsHandlers) Update(w http.ResponseWriter, r *http.Request) {
	sess, ok := sessionOrAbort(w, r)
	if !ok {
		return
	}
	var patch models.StationPatch
	if !decodeJSON(w, r, &patch) {
		return
	}
	res, err := h.directory.Update(r.Context(), sess, r.PathValue("id"), patch)
	if err != nil {
		h.writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newMutationResponse(res))
}

// Delete handles DELETE /api/stations/{id}.
func (h *StationsHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	sess, ok := sessionOrAbort(w, r)
	if !ok {
		return
	}
	res, err := h.directory.Delete(r.Context(), sess, r.PathValue("id"))
	if err != nil {
		h.writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newMutationResponse(res))
}

func (h *StationsHandlers) writeStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrStationNotFound):
		writeError(w, http.StatusNotFound, "station not found")
	case errors.Is(err, models.ErrNameRequired),
		errors.Is(err, models.ErrInvalidStatus),
		errors.Is(err, models.ErrInvalidConnector),
		errors.Is(err, models.ErrEmptyPatch):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, store.ErrClosed):
		writeError(w, http.StatusConflict, "session closed")
	default:
		h.logger.Error("station request failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "station request failed")
	}
}
