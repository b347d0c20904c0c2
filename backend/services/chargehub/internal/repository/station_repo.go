package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"chargehub/backend/services/chargehub/internal/models"
)

// ErrStationNotFound is returned when no row matches the requested id.
var ErrStationNotFound = errors.New("station not found")

const stationColumns = `id, name, latitude, longitude, status, power_output, connector_type, user_id, created_at, updated_at`

// StationRepository stores charging stations in Postgres.
type StationRepository struct {
	db *sql.DB
}

// NewStationRepository returns repository.
func NewStationRepository(db *sql.DB) *StationRepository {
	return &StationRepository{db: db}
}

// List returns every station, newest first.
func (r *StationRepository) List(ctx context.Context) ([]models.Station, error) {
	query := `SELECT ` + stationColumns + ` FROM charging_stations ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stations := make([]models.Station, 0)
	for rows.Next() {
		station, err := scanStation(rows)
		if err != nil {
			return nil, err
		}
		stations = append(stations, *station)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return stations, nil
}

// Insert creates a station owned by ownerID and returns the stored row.
func (r *StationRepository) Insert(ctx context.Context, input models.StationInput, ownerID string) (*models.Station, error) {
	query := `
		INSERT INTO charging_stations (name, latitude, longitude, status, power_output, connector_type, user_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + stationColumns
	row := r.db.QueryRowContext(ctx, query,
		input.Name,
		input.Latitude,
		input.Longitude,
		string(input.Status),
		input.PowerOutput,
		input.ConnectorType,
		nullableUUID(ownerID),
	)
	return scanStation(row)
}

// Update applies the non-nil patch fields and returns the stored row.
func (r *StationRepository) Update(ctx context.Context, id string, patch models.StationPatch) (*models.Station, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrStationNotFound
	}
	sets, args := patchAssignments(patch)
	if len(sets) == 0 {
		return nil, models.ErrEmptyPatch
	}
	args = append(args, id)

	query := fmt.Sprintf(`
		UPDATE charging_stations
		SET %s, updated_at = NOW()
		WHERE id = $%d
		RETURNING %s`, strings.Join(sets, ", "), len(args), stationColumns)

	station, err := scanStation(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrStationNotFound
	}
	return station, err
}

// Delete removes the station with the given id.
func (r *StationRepository) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return ErrStationNotFound
	}
	const query = `DELETE FROM charging_stations WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrStationNotFound
	}
	return nil
}

func patchAssignments(patch models.StationPatch) ([]string, []interface{}) {
	var (
		sets []string
		args []interface{}
	)
	add := func(column string, value interface{}) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if patch.Name != nil {
		add("name", *patch.Name)
	}
	if patch.Latitude != nil {
		add("latitude", *patch.Latitude)
	}
	if patch.Longitude != nil {
		add("longitude", *patch.Longitude)
	}
	if patch.Status != nil {
		add("status", string(*patch.Status))
	}
	if patch.PowerOutput != nil {
		add("power_output", *patch.PowerOutput)
	}
	if patch.ConnectorType != nil {
		add("connector_type", *patch.ConnectorType)
	}
	return sets, args
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanStation(row rowScanner) (*models.Station, error) {
	var (
		station models.Station
		status  string
		owner   sql.NullString
	)
	if err := row.Scan(
		&station.ID,
		&station.Name,
		&station.Latitude,
		&station.Longitude,
		&status,
		&station.PowerOutput,
		&station.ConnectorType,
		&owner,
		&station.CreatedAt,
		&station.UpdatedAt,
	); err != nil {
		return nil, err
	}
	station.Status = models.Status(status)
	station.OwnerID = owner.String
	return &station, nil
}

func nullableUUID(id string) interface{} {
	if _, err := uuid.Parse(id); err != nil {
		return nil
	}
	return id
}
