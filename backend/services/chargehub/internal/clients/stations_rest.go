package clients

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"chargehub/backend/services/chargehub/internal/models"
)

// ErrStationNotFound is returned when the REST API matched no row.
var ErrStationNotFound = errors.New("rest: station not found")

const restPathPrefix = "/rest/v1/"

var (
	returnRepresentation = map[string]string{
		"Prefer": "return=representation",
		"Accept": "application/vnd.pgrst.object+json",
	}
	returnMinimal = map[string]string{"Prefer": "return=minimal"}
)

// StationsRESTClient talks to a PostgREST-style hosted table API.
type StationsRESTClient struct {
	base  *BaseClient
	table string
}

// NewStationsRESTClient builds a client for table at baseURL authenticated with apiKey.
func NewStationsRESTClient(baseURL, apiKey, table string, doer HTTPDoer) *StationsRESTClient {
	if table == "" {
		table = "charging_stations"
	}
	headers := map[string]string{}
	if apiKey != "" {
		headers["apikey"] = apiKey
		headers["Authorization"] = "Bearer " + apiKey
	}
	return &StationsRESTClient{
		base:  NewBaseClient(baseURL, doer, headers),
		table: table,
	}
}

func (c *StationsRESTClient) path(query url.Values) string {
	p := restPathPrefix + c.table
	if len(query) > 0 {
		p += "?" + query.Encode()
	}
	return p
}

// List returns all rows ordered by created_at descending.
func (c *StationsRESTClient) List(ctx context.Context) ([]models.Station, error) {
	query := url.Values{}
	query.Set("select", "*")
	query.Set("order", "created_at.desc")

	stations := make([]models.Station, 0)
	if err := c.base.DoJSON(ctx, http.MethodGet, c.path(query), nil, &stations, nil); err != nil {
		return nil, err
	}
	return stations, nil
}

// Insert creates one row and returns its representation.
func (c *StationsRESTClient) Insert(ctx context.Context, input models.StationInput, ownerID string) (*models.Station, error) {
	row := struct {
		models.StationInput
		OwnerID string `json:"user_id,omitempty"`
	}{StationInput: input, OwnerID: ownerID}

	query := url.Values{}
	query.Set("select", "*")

	var station models.Station
	if err := c.base.DoJSON(ctx, http.MethodPost, c.path(query), []interface{}{row}, &station, returnRepresentation); err != nil {
		return nil, err
	}
	return &station, nil
}

// Update patches the row with the given id and returns its representation.
func (c *StationsRESTClient) Update(ctx context.Context, id string, patch models.StationPatch) (*models.Station, error) {
	query := url.Values{}
	query.Set("id", "eq."+id)
	query.Set("select", "*")

	var station models.Station
	err := c.base.DoJSON(ctx, http.MethodPatch, c.path(query), patch, &station, returnRepresentation)
	if err != nil {
		return nil, notFound(err)
	}
	return &station, nil
}

// Delete removes the row with the given id.
func (c *StationsRESTClient) Delete(ctx context.Context, id string) error {
	query := url.Values{}
	query.Set("id", "eq."+id)
	return notFound(c.base.DoJSON(ctx, http.MethodDelete, c.path(query), nil, nil, returnMinimal))
}

// A singular-object request that matched zero rows answers 406.
func notFound(err error) error {
	var apiErr *APIError
	if errors.As(err, &apiErr) && (apiErr.Status == http.StatusNotAcceptable || apiErr.Status == http.StatusNotFound) {
		return ErrStationNotFound
	}
	return err
}
