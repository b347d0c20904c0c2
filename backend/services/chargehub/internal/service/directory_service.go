package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"chargehub/backend/services/chargehub/internal/filter"
	"chargehub/backend/services/chargehub/internal/models"
	"chargehub/backend/services/chargehub/internal/store"
)

// ErrStationNotFound is returned for ids missing from the session's collection.
var ErrStationNotFound = errors.New("directory: station not found")

// ListPage is what the station list page renders.
type ListPage struct {
	Stations []models.Station `json:"stations"`
	Total    int              `json:"total"`
	Counts   map[string]int   `json:"counts"`
	Loading  bool             `json:"loading"`
	Criteria filter.Criteria  `json:"criteria"`
}

// DirectoryService runs the list and form pages against a session's store.
type DirectoryService struct {
	logger *zap.Logger
}

// NewDirectoryService builds DirectoryService.
func NewDirectoryService(logger *zap.Logger) *DirectoryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DirectoryService{logger: logger}
}

// List filters the session's stations. Counts cover the unfiltered collection.
func (s *DirectoryService) List(sess *store.Session, criteria filter.Criteria) ListPage {
	all := sess.Store.List()
	matched := filter.Apply(all, criteria)
	return ListPage{
		Stations: matched,
		Total:    len(all),
		Counts:   filter.StatusCounts(all),
		Loading:  sess.Store.Loading(),
		Criteria: criteria,
	}
}

// Get returns one station of the session.
func (s *DirectoryService) Get(sess *store.Session, id string) (models.Station, error) {
	st, ok := sess.Store.Get(id)
	if !ok {
		return models.Station{}, ErrStationNotFound
	}
	return st, nil
}

// Create validates the form and hands it to the store. Validation errors are
// returned before the store is touched.
func (s *DirectoryService) Create(ctx context.Context, sess *store.Session, input models.StationInput) (store.Result, error) {
	input = input.Normalize()
	if err := input.Validate(); err != nil {
		return store.Result{}, err
	}
	res := sess.Store.Create(ctx, input)
	s.log("create", sess, res)
	return res, resultError(res)
}

// Update validates the patch and applies it through the store.
func (s *DirectoryService) Update(ctx context.Context, sess *store.Session, id string, patch models.StationPatch) (store.Result, error) {
	patch = patch.Normalize()
	if err := patch.Validate(); err != nil {
		return store.Result{}, err
	}
	res := sess.Store.Update(ctx, id, patch)
	s.log("update", sess, res)
	return res, resultError(res)
}

// Delete removes a station from the session.
func (s *DirectoryService) Delete(ctx context.Context, sess *store.Session, id string) (store.Result, error) {
	res := sess.Store.Delete(ctx, id)
	s.log("delete", sess, res)
	return res, resultError(res)
}

// Refresh refetches the collection from the backend.
func (s *DirectoryService) Refresh(ctx context.Context, sess *store.Session, criteria filter.Criteria) ListPage {
	sess.Store.Refetch(ctx)
	return s.List(sess, criteria)
}

func (s *DirectoryService) log(op string, sess *store.Session, res store.Result) {
	fields := []zap.Field{
		zap.String("operation", op),
		zap.String("session_id", sess.ID),
		zap.String("outcome", string(res.Outcome)),
	}
	if res.Station != nil {
		fields = append(fields, zap.String("station_id", res.Station.ID))
	}
	if res.Err != nil {
		fields = append(fields, zap.Error(res.Err))
	}
	s.logger.Debug("station mutation", fields...)
}

// resultError turns a Failed outcome into an error for the caller.
func resultError(res store.Result) error {
	if res.OK() {
		return nil
	}
	if errors.Is(res.Err, store.ErrStationNotFound) {
		return ErrStationNotFound
	}
	if res.Err == nil {
		return errors.New("directory: operation failed")
	}
	return res.Err
}
