package service

import (
	"context"
	"testing"
	"time"
)

func TestMemoryRevocations(t *testing.T) {
	ctx := context.Background()
	clock := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	m := NewMemoryRevocations()
	m.now = func() time.Time { return clock }

	if revoked, _ := m.IsRevoked(ctx, "s1"); revoked {
		t.Fatalf("fresh session must not be revoked")
	}
	_ = m.Revoke(ctx, "s1", clock.Add(time.Hour))
	if revoked, _ := m.IsRevoked(ctx, "s1"); !revoked {
		t.Fatalf("expected s1 revoked")
	}

	clock = clock.Add(2 * time.Hour)
	if revoked, _ := m.IsRevoked(ctx, "s1"); revoked {
		t.Fatalf("entry must lapse with the token")
	}
	if len(m.entries) != 0 {
		t.Fatalf("expired entry must be dropped")
	}
}
