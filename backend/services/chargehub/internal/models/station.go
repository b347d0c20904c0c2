package models

import (
	"errors"
	"strconv"
	"strings"
	"time"
)

// Status is the operational state of a charging station.
type Status string

const (
	StatusActive      Status = "Active"
	StatusInactive    Status = "Inactive"
	StatusMaintenance Status = "Maintenance"
)

// Statuses lists the accepted status values in display order.
var Statuses = []Status{StatusActive, StatusInactive, StatusMaintenance}

// ParseStatus matches a status name case-insensitively.
func ParseStatus(raw string) (Status, bool) {
	for _, s := range Statuses {
		if strings.EqualFold(strings.TrimSpace(raw), string(s)) {
			return s, true
		}
	}
	return "", false
}

// Connector types accepted by the create and edit forms.
const (
	ConnectorTesla   = "Tesla Supercharger"
	ConnectorCCS     = "CCS"
	ConnectorCHAdeMO = "CHAdeMO"
	ConnectorType2   = "Type 2"
)

// ConnectorTypes lists the selectable connector labels.
var ConnectorTypes = []string{ConnectorTesla, ConnectorCCS, ConnectorCHAdeMO, ConnectorType2}

// IsKnownConnector reports whether label is one of ConnectorTypes.
func IsKnownConnector(label string) bool {
	for _, c := range ConnectorTypes {
		if c == label {
			return true
		}
	}
	return false
}

var (
	ErrNameRequired     = errors.New("station: name is required")
	ErrInvalidStatus    = errors.New("station: status must be Active, Inactive or Maintenance")
	ErrInvalidConnector = errors.New("station: unsupported connector type")
	ErrEmptyPatch       = errors.New("station: no fields to update")
)

// Station is a charging station record as stored in charging_stations.
type Station struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Latitude      float64   `json:"latitude"`
	Longitude     float64   `json:"longitude"`
	Status        Status    `json:"status"`
	PowerOutput   float64   `json:"power_output"`
	ConnectorType string    `json:"connector_type"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
	OwnerID       string    `json:"user_id,omitempty"`
}

// CoordinateLabel renders the position the way the list page shows it.
func (s Station) CoordinateLabel() string {
	return strconv.FormatFloat(s.Latitude, 'f', -1, 64) + ", " + strconv.FormatFloat(s.Longitude, 'f', -1, 64)
}

// StationInput carries the user-editable fields of a new station.
type StationInput struct {
	Name          string  `json:"name"`
	Latitude      float64 `json:"latitude"`
	Longitude     float64 `json:"longitude"`
	Status        Status  `json:"status"`
	PowerOutput   float64 `json:"power_output"`
	ConnectorType string  `json:"connector_type"`
}

// Normalize trims the name and canonicalizes the status spelling.
func (in StationInput) Normalize() StationInput {
	in.Name = strings.TrimSpace(in.Name)
	if s, ok := ParseStatus(string(in.Status)); ok {
		in.Status = s
	}
	return in
}

// Validate applies the form rules.
func (in StationInput) Validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return ErrNameRequired
	}
	if _, ok := ParseStatus(string(in.Status)); !ok {
		return ErrInvalidStatus
	}
	if !IsKnownConnector(in.ConnectorType) {
		return ErrInvalidConnector
	}
	return nil
}

// StationPatch is a partial update; nil fields are left untouched.
type StationPatch struct {
	Name          *string  `json:"name,omitempty"`
	Latitude      *float64 `json:"latitude,omitempty"`
	Longitude     *float64 `json:"longitude,omitempty"`
	Status        *Status  `json:"status,omitempty"`
	PowerOutput   *float64 `json:"power_output,omitempty"`
	ConnectorType *string  `json:"connector_type,omitempty"`
}

// IsEmpty reports whether the patch names no field.
func (p StationPatch) IsEmpty() bool {
	return p.Name == nil && p.Latitude == nil && p.Longitude == nil &&
		p.Status == nil && p.PowerOutput == nil && p.ConnectorType == nil
}

// Normalize trims the name and canonicalizes the status spelling.
func (p StationPatch) Normalize() StationPatch {
	if p.Name != nil {
		name := strings.TrimSpace(*p.Name)
		p.Name = &name
	}
	if p.Status != nil {
		if s, ok := ParseStatus(string(*p.Status)); ok {
			p.Status = &s
		}
	}
	return p
}

// Validate checks the fields that are present.
func (p StationPatch) Validate() error {
	if p.IsEmpty() {
		return ErrEmptyPatch
	}
	if p.Name != nil && strings.TrimSpace(*p.Name) == "" {
		return ErrNameRequired
	}
	if p.Status != nil {
		if _, ok := ParseStatus(string(*p.Status)); !ok {
			return ErrInvalidStatus
		}
	}
	if p.ConnectorType != nil && !IsKnownConnector(*p.ConnectorType) {
		return ErrInvalidConnector
	}
	return nil
}

// Apply writes the patch values into dst.
func (p StationPatch) Apply(dst *Station) {
	if p.Name != nil {
		dst.Name = *p.Name
	}
	if p.Latitude != nil {
		dst.Latitude = *p.Latitude
	}
	if p.Longitude != nil {
		dst.Longitude = *p.Longitude
	}
	if p.Status != nil {
		dst.Status = *p.Status
	}
	if p.PowerOutput != nil {
		dst.PowerOutput = *p.PowerOutput
	}
	if p.ConnectorType != nil {
		dst.ConnectorType = *p.ConnectorType
	}
}

// Merge copies into dst the fields named by the patch, taking their values from src.
// Fields the patch does not name keep the value already in dst.
func (p StationPatch) Merge(dst *Station, src Station) {
	if p.Name != nil {
		dst.Name = src.Name
	}
	if p.Latitude != nil {
		dst.Latitude = src.Latitude
	}
	if p.Longitude != nil {
		dst.Longitude = src.Longitude
	}
	if p.Status != nil {
		dst.Status = src.Status
	}
	if p.PowerOutput != nil {
		dst.PowerOutput = src.PowerOutput
	}
	if p.ConnectorType != nil {
		dst.ConnectorType = src.ConnectorType
	}
}
