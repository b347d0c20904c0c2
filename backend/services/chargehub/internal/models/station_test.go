package models

import (
	"errors"
	"testing"
)

func TestParseStatusIgnoresCase(t *testing.T) {
	cases := map[string]Status{
		"active":        StatusActive,
		" MAINTENANCE ": StatusMaintenance,
		"Inactive":      StatusInactive,
	}
	for raw, want := range cases {
		got, ok := ParseStatus(raw)
		if !ok || got != want {
			t.Fatalf("ParseStatus(%q) = %q, %v", raw, got, ok)
		}
	}
	if _, ok := ParseStatus("broken"); ok {
		t.Fatalf("unexpected match for unknown status")
	}
}

func TestStationInputValidate(t *testing.T) {
	valid := StationInput{Name: "Depot", Status: StatusActive, ConnectorType: ConnectorCCS}
	if err := valid.Validate(); err != nil {
		t.Fatalf("expected valid input, got %v", err)
	}

	cases := []struct {
		name  string
		input StationInput
		want  error
	}{
		{"blank name", StationInput{Name: "  ", Status: StatusActive, ConnectorType: ConnectorCCS}, ErrNameRequired},
		{"bad status", StationInput{Name: "x", Status: "Open", ConnectorType: ConnectorCCS}, ErrInvalidStatus},
		{"bad connector", StationInput{Name: "x", Status: StatusActive, ConnectorType: "NACS"}, ErrInvalidConnector},
	}
	for _, tc := range cases {
		if err := tc.input.Validate(); !errors.Is(err, tc.want) {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, err)
		}
	}
}

func TestPatchMergeTouchesOnlyNamedFields(t *testing.T) {
	status := StatusMaintenance
	patch := StationPatch{Status: &status}

	dst := Station{ID: "a", Name: "Depot", Status: StatusActive, PowerOutput: 50}
	src := Station{ID: "a", Name: "Renamed elsewhere", Status: StatusMaintenance, PowerOutput: 10}
	patch.Merge(&dst, src)

	if dst.Status != StatusMaintenance {
		t.Fatalf("expected status from src, got %s", dst.Status)
	}
	if dst.Name != "Depot" || dst.PowerOutput != 50 {
		t.Fatalf("fields outside the patch changed: %+v", dst)
	}
}

func TestPatchNormalizeAndValidate(t *testing.T) {
	name := "  Hub  "
	status := Status("maintenance")
	patch := StationPatch{Name: &name, Status: &status}.Normalize()

	if *patch.Name != "Hub" || *patch.Status != StatusMaintenance {
		t.Fatalf("unexpected normalized patch: %q %q", *patch.Name, *patch.Status)
	}
	if err := patch.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
	if err := (StationPatch{}).Validate(); !errors.Is(err, ErrEmptyPatch) {
		t.Fatalf("expected ErrEmptyPatch, got %v", err)
	}
}

func TestCoordinateLabel(t *testing.T) {
	s := Station{Latitude: 37.7749, Longitude: -122.4194}
	if got := s.CoordinateLabel(); got != "37.7749, -122.4194" {
		t.Fatalf("unexpected label %q", got)
	}
}
