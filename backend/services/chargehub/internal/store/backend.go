package store

import (
	"context"
	"errors"

	"chargehub/backend/services/chargehub/internal/models"
)

// ErrBackendUnavailable is returned by the offline backend for every call.
var ErrBackendUnavailable = errors.New("store: backend unavailable")

// Backend is the row store holding charging_stations.
type Backend interface {
	List(ctx context.Context) ([]models.Station, error)
	Insert(ctx context.Context, input models.StationInput, ownerID string) (*models.Station, error)
	Update(ctx context.Context, id string, patch models.StationPatch) (*models.Station, error)
	Delete(ctx context.Context, id string) error
}

// Offline is a Backend that is never reachable. Stores built on it run purely
// on sample data and local mutations.
type Offline struct{}

func (Offline) List(context.Context) ([]models.Station, error) {
	return nil, ErrBackendUnavailable
}

func (Offline) Insert(context.Context, models.StationInput, string) (*models.Station, error) {
	return nil, ErrBackendUnavailable
}

func (Offline) Update(context.Context, string, models.StationPatch) (*models.Station, error) {
	return nil, ErrBackendUnavailable
}

func (Offline) Delete(context.Context, string) error {
	return ErrBackendUnavailable
}
