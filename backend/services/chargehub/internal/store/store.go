package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"chargehub/backend/services/chargehub/internal/models"
)

var (
	// ErrStationNotFound is returned when the id is not in the collection.
	ErrStationNotFound = errors.New("store: station not found")
	// ErrClosed is returned by mutations on a store that was torn down.
	ErrClosed = errors.New("store: closed")
)

// Swapped in tests.
var (
	now        = func() time.Time { return time.Now().UTC() }
	newLocalID = func() string {
		id, err := uuid.NewV7()
		if err != nil {
			return fmt.Sprintf("%s%d", LocalIDPrefix, now().UnixNano())
		}
		return LocalIDPrefix + id.String()
	}
)

// Recorder receives one observation per store operation.
type Recorder interface {
	ObserveStoreOperation(operation, outcome string)
}

// Options configures a Store.
type Options struct {
	// UserID tags records created through this store.
	UserID string
	// Timeout bounds each backend call. Zero means no extra bound.
	Timeout  time.Duration
	Logger   *zap.Logger
	Recorder Recorder
	// OnChange is called after every change, outside the store lock.
	OnChange func(Event)
}

// Store is the in-memory station collection of one session, kept newest first.
// Backend failures never surface as errors: reads fall back to the sample set and
// writes are applied locally, with the Result telling the two apart.
type Store struct {
	backend  Backend
	userID   string
	timeout  time.Duration
	logger   *zap.Logger
	recorder Recorder
	onChange func(Event)

	seedOnce sync.Once
	seed     []models.Station

	mu       sync.RWMutex
	stations []models.Station
	loading  bool
	closed   bool
}

// New constructs a store in the loading state. Call FetchAll to populate it.
func New(backend Backend, opts Options) *Store {
	if backend == nil {
		backend = Offline{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		backend:  backend,
		userID:   opts.UserID,
		timeout:  opts.Timeout,
		logger:   logger,
		recorder: opts.Recorder,
		onChange: opts.OnChange,
		stations: make([]models.Station, 0),
		loading:  true,
	}
}

// Loading is true until the first FetchAll resolves.
func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// List returns a copy of the collection.
func (s *Store) List() []models.Station {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneStations(s.stations)
}

// Get returns the record with the given id.
func (s *Store) Get(id string) (models.Station, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.indexOf(id); i >= 0 {
		return s.stations[i], true
	}
	return models.Station{}, false
}

// FetchAll replaces the collection with the backend's rows, or with the sample
// set when the backend fails. It always returns a non-nil list.
func (s *Store) FetchAll(ctx context.Context) []models.Station {
	ctx, cancel := s.backendContext(ctx)
	defer cancel()

	outcome := OutcomeDurable
	rows, err := s.listBackend(ctx)
	if err != nil {
		s.logger.Warn("fetch stations failed, serving sample data", zap.Error(err))
		rows = s.sampleStations()
		outcome = OutcomeLocal
	}

	s.mu.Lock()
	if s.closed {
		s.loading = false
		s.mu.Unlock()
		s.observe("fetch", OutcomeFailed)
		return make([]models.Station, 0)
	}
	s.stations = cloneStations(rows)
	s.loading = false
	snapshot := cloneStations(s.stations)
	s.mu.Unlock()

	s.observe("fetch", outcome)
	s.emit(Event{Kind: EventRefreshed, Outcome: outcome, Stations: snapshot})
	return cloneStations(snapshot)
}

// Refetch is FetchAll under the name the list page uses for its reload button.
func (s *Store) Refetch(ctx context.Context) []models.Station {
	return s.FetchAll(ctx)
}

// Create inserts a station. On backend failure a local record is synthesized.
// Either way the record ends up exactly once at the head of the collection.
func (s *Store) Create(ctx context.Context, input models.StationInput) Result {
	input = input.Normalize()
	if err := input.Validate(); err != nil {
		return s.fail("create", err)
	}
	if s.isClosed() {
		return s.fail("create", ErrClosed)
	}

	bctx, cancel := s.backendContext(ctx)
	row, err := s.backend.Insert(bctx, input, s.userID)
	cancel()

	outcome := OutcomeDurable
	if err != nil || row == nil {
		s.logger.Warn("create station failed, keeping local copy", zap.String("name", input.Name), zap.Error(err))
		row = s.localStation(input)
		outcome = OutcomeLocal
	}
	created := *row

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return s.fail("create", ErrClosed)
	}
	if i := s.indexOf(created.ID); i >= 0 {
		s.stations = append(s.stations[:i], s.stations[i+1:]...)
	}
	s.stations = append([]models.Station{created}, s.stations...)
	s.mu.Unlock()

	s.observe("create", outcome)
	s.emit(Event{Kind: EventCreated, Outcome: outcome, StationID: created.ID, Station: &created})
	return Result{Station: &created, Outcome: outcome, Err: err}
}

// Update applies a partial update. Only the fields named by the patch change, so
// overlapping updates of different fields all survive.
func (s *Store) Update(ctx context.Context, id string, patch models.StationPatch) Result {
	patch = patch.Normalize()
	if err := patch.Validate(); err != nil {
		return s.fail("update", err)
	}

	s.mu.RLock()
	closed, known := s.closed, s.indexOf(id) >= 0
	s.mu.RUnlock()
	if closed {
		return s.fail("update", ErrClosed)
	}
	if !known {
		return s.fail("update", ErrStationNotFound)
	}

	bctx, cancel := s.backendContext(ctx)
	row, err := s.backend.Update(bctx, id, patch)
	cancel()

	outcome := OutcomeDurable
	if err != nil || row == nil {
		s.logger.Warn("update station failed, applying locally", zap.String("station_id", id), zap.Error(err))
		outcome = OutcomeLocal
	}

	s.mu.Lock()
	i := s.indexOf(id)
	if s.closed {
		s.mu.Unlock()
		return s.fail("update", ErrClosed)
	}
	if i < 0 {
		// deleted while the backend call was in flight
		s.mu.Unlock()
		return s.fail("update", ErrStationNotFound)
	}
	current := &s.stations[i]
	if outcome == OutcomeDurable {
		patch.Merge(current, *row)
		if !row.UpdatedAt.IsZero() {
			current.UpdatedAt = row.UpdatedAt
		}
	} else {
		patch.Apply(current)
		current.UpdatedAt = now()
	}
	updated := *current
	s.mu.Unlock()

	s.observe("update", outcome)
	s.emit(Event{Kind: EventUpdated, Outcome: outcome, StationID: id, Station: &updated})
	return Result{Station: &updated, Outcome: outcome, Err: err}
}

// Delete removes the station from the collection whatever the backend answers.
func (s *Store) Delete(ctx context.Context, id string) Result {
	s.mu.RLock()
	closed, known := s.closed, s.indexOf(id) >= 0
	s.mu.RUnlock()
	if closed {
		return s.fail("delete", ErrClosed)
	}
	if !known {
		return s.fail("delete", ErrStationNotFound)
	}

	bctx, cancel := s.backendContext(ctx)
	err := s.backend.Delete(bctx, id)
	cancel()

	outcome := OutcomeDurable
	if err != nil {
		s.logger.Warn("delete station failed, removing locally", zap.String("station_id", id), zap.Error(err))
		outcome = OutcomeLocal
	}

	var removed *models.Station
	s.mu.Lock()
	if i := s.indexOf(id); i >= 0 {
		st := s.stations[i]
		removed = &st
		s.stations = append(s.stations[:i], s.stations[i+1:]...)
	}
	s.mu.Unlock()

	s.observe("delete", outcome)
	s.emit(Event{Kind: EventDeleted, Outcome: outcome, StationID: id, Station: removed})
	return Result{Station: removed, Outcome: outcome, Err: err}
}

// Close drops the collection. Later mutations fail with ErrClosed.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.stations = nil
}

func (s *Store) isClosed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.closed
}

// caller holds s.mu
func (s *Store) indexOf(id string) int {
	for i := range s.stations {
		if s.stations[i].ID == id {
			return i
		}
	}
	return -1
}

// listBackend turns a panicking backend into an error so FetchAll always
// settles the loading flag.
func (s *Store) listBackend(ctx context.Context) (rows []models.Station, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			rows, err = nil, fmt.Errorf("store: backend list panicked: %v", rec)
		}
	}()
	return s.backend.List(ctx)
}

func (s *Store) sampleStations() []models.Station {
	s.seedOnce.Do(func() {
		s.seed = SampleStations(now())
	})
	return cloneStations(s.seed)
}

func (s *Store) localStation(input models.StationInput) *models.Station {
	ts := now()
	return &models.Station{
		ID:            newLocalID(),
		Name:          input.Name,
		Latitude:      input.Latitude,
		Longitude:     input.Longitude,
		Status:        input.Status,
		PowerOutput:   input.PowerOutput,
		ConnectorType: input.ConnectorType,
		CreatedAt:     ts,
		UpdatedAt:     ts,
		OwnerID:       DemoOwnerID,
	}
}

func (s *Store) backendContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}

func (s *Store) fail(operation string, err error) Result {
	s.observe(operation, OutcomeFailed)
	return Result{Outcome: OutcomeFailed, Err: err}
}

func (s *Store) observe(operation string, outcome Outcome) {
	if s.recorder != nil {
		s.recorder.ObserveStoreOperation(operation, string(outcome))
	}
}

func (s *Store) emit(evt Event) {
	if s.onChange != nil {
		s.onChange(evt)
	}
}

func cloneStations(in []models.Station) []models.Station {
	out := make([]models.Station, len(in))
	copy(out, in)
	return out
}
