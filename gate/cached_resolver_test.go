package gate_test

import (
	"context"
	"testing"
	"time"

	"github.com/Curtis1706/lahamarchand-main-sub001/gate"
)

type countingResolver struct {
	inner *gate.StaticResolver[string]
	calls int
}

func (r *countingResolver) Resolve(ctx context.Context, subject string) (gate.Profile, error) {
	r.calls++
	return r.inner.Resolve(ctx, subject)
}

func TestCachedResolver_CachesWithinTTL(t *testing.T) {
	counting := &countingResolver{inner: resolverWith("client", "commande:create")}
	cached := gate.NewCachedResolver[string](counting, time.Minute)

	for i := 0; i < 3; i++ {
		p, err := cached.Resolve(context.Background(), "client")
		if err != nil {
			t.Fatalf("resolve: %v", err)
		}
		if p == nil || p.Name() != "client" {
			t.Fatalf("unexpected profile: %v", p)
		}
	}
	if counting.calls != 1 {
		t.Errorf("expected 1 inner resolve, got %d", counting.calls)
	}
}

func TestCachedResolver_Invalidate(t *testing.T) {
	counting := &countingResolver{inner: resolverWith("client", "commande:create")}
	cached := gate.NewCachedResolver[string](counting, time.Minute)

	if _, err := cached.Resolve(context.Background(), "client"); err != nil {
		t.Fatalf("resolve: %v", err)
	}
	cached.Invalidate("client")
	if _, err := cached.Resolve(context.Background(), "client"); err != nil {
		t.Fatalf("resolve after invalidate: %v", err)
	}
	if counting.calls != 2 {
		t.Errorf("expected 2 inner resolves, got %d", counting.calls)
	}

	cached.InvalidateAll()
	if _, err := cached.Resolve(context.Background(), "client"); err != nil {
		t.Fatalf("resolve after invalidate all: %v", err)
	}
	if counting.calls != 3 {
		t.Errorf("expected 3 inner resolves, got %d", counting.calls)
	}
}
