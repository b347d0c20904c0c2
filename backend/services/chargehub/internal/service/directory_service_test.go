package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"chargehub/backend/services/chargehub/internal/filter"
	"chargehub/backend/services/chargehub/internal/models"
	"chargehub/backend/services/chargehub/internal/store"
)

func offlineSession(t *testing.T) *store.Session {
	t.Helper()
	reg := store.NewRegistry(func(_, userID string) *store.Store {
		return store.New(store.Offline{}, store.Options{UserID: userID})
	}, nil, nil)
	t.Cleanup(func() { reg.Release("s1") })
	sess, err := reg.Acquire(context.Background(), "s1", "user-1", time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}
	return sess
}

func TestDirectoryListFiltersAndCounts(t *testing.T) {
	svc := NewDirectoryService(nil)
	sess := offlineSession(t)

	page := svc.List(sess, filter.Criteria{Status: "active"})
	if page.Total != 6 || len(page.Stations) != 4 || page.Loading {
		t.Fatalf("unexpected page total=%d matched=%d loading=%v", page.Total, len(page.Stations), page.Loading)
	}
	if page.Counts["maintenance"] != 1 || page.Counts[filter.All] != 6 {
		t.Fatalf("counts must cover the whole collection: %v", page.Counts)
	}

	page = svc.List(sess, filter.Criteria{Query: "-122.4294"})
	if len(page.Stations) != 1 || page.Stations[0].Name != "Airport Supercharger" {
		t.Fatalf("coordinate search failed: %+v", page.Stations)
	}
}

func TestDirectoryCreateValidatesBeforeStore(t *testing.T) {
	svc := NewDirectoryService(nil)
	sess := offlineSession(t)

	_, err := svc.Create(context.Background(), sess, models.StationInput{Name: " ", Status: models.StatusActive, ConnectorType: models.ConnectorCCS})
	if !errors.Is(err, models.ErrNameRequired) {
		t.Fatalf("expected ErrNameRequired, got %v", err)
	}
	if len(sess.Store.List()) != 6 {
		t.Fatalf("rejected input must not touch the store")
	}

	res, err := svc.Create(context.Background(), sess, models.StationInput{Name: "New", Status: "active", ConnectorType: models.ConnectorCCS})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if res.Outcome != store.OutcomeLocal || res.Station.Status != models.StatusActive {
		t.Fatalf("offline create must be local, got %+v", res)
	}
	if got := sess.Store.List()[0].ID; got != res.Station.ID {
		t.Fatalf("new station must be first, got %s", got)
	}
}

func TestDirectoryUpdateAndDelete(t *testing.T) {
	svc := NewDirectoryService(nil)
	sess := offlineSession(t)
	ctx := context.Background()

	name := "Renamed"
	res, err := svc.Update(ctx, sess, "sample-2", models.StationPatch{Name: &name})
	if err != nil || res.Outcome != store.OutcomeLocal || res.Station.Name != "Renamed" {
		t.Fatalf("update: %+v %v", res, err)
	}
	if _, err := svc.Update(ctx, sess, "sample-2", models.StationPatch{}); !errors.Is(err, models.ErrEmptyPatch) {
		t.Fatalf("expected ErrEmptyPatch, got %v", err)
	}
	if _, err := svc.Update(ctx, sess, "missing", models.StationPatch{Name: &name}); !errors.Is(err, ErrStationNotFound) {
		t.Fatalf("expected ErrStationNotFound, got %v", err)
	}

	if _, err := svc.Delete(ctx, sess, "sample-2"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.Get(sess, "sample-2"); !errors.Is(err, ErrStationNotFound) {
		t.Fatalf("deleted station must be gone, got %v", err)
	}
	if _, err := svc.Delete(ctx, sess, "sample-2"); !errors.Is(err, ErrStationNotFound) {
		t.Fatalf("second delete must fail, got %v", err)
	}
}

func TestDirectoryRefreshKeepsSeed(t *testing.T) {
	svc := NewDirectoryService(nil)
	sess := offlineSession(t)
	before := sess.Store.List()

	page := svc.Refresh(context.Background(), sess, filter.Criteria{})
	if len(page.Stations) != len(before) || page.Stations[0].CreatedAt != before[0].CreatedAt {
		t.Fatalf("seed must stay stable across refetches")
	}
}
