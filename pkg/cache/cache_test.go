package cache_test

import (
	"context"
	"testing"
	"time"

	"qametrics-assistant/pkg/cache"
)

func TestLRUStore(t *testing.T) {
	ctx := context.Background()

	t.Run("Set And Get", func(t *testing.T) {
		s := cache.NewLRUStore(8, time.Minute)
		if err := s.Set(ctx, "k", []byte("v"), time.Minute); err != nil {
			t.Fatalf("unexpected set error: %v", err)
		}
		got, ok := s.Get(ctx, "k")
		if !ok || string(got) != "v" {
			t.Errorf("expected hit with %q, got %q (ok=%v)", "v", got, ok)
		}
	})

	t.Run("Miss On Unknown Key", func(t *testing.T) {
		s := cache.NewLRUStore(8, time.Minute)
		if _, ok := s.Get(ctx, "absent"); ok {
			t.Errorf("expected miss on unknown key")
		}
	})

	t.Run("Per Entry TTL Expiry", func(t *testing.T) {
		s := cache.NewLRUStore(8, time.Minute)
		s.Set(ctx, "short", []byte("v"), 10*time.Millisecond)
		time.Sleep(30 * time.Millisecond)
		if _, ok := s.Get(ctx, "short"); ok {
			t.Errorf("expected entry to expire after its own TTL")
		}
	})

	t.Run("Delete", func(t *testing.T) {
		s := cache.NewLRUStore(8, time.Minute)
		s.Set(ctx, "k", []byte("v"), time.Minute)
		if !s.Delete(ctx, "k") {
			t.Errorf("expected delete to report presence")
		}
		if s.Delete(ctx, "k") {
			t.Errorf("expected second delete to report absence")
		}
	})

	t.Run("Capacity Eviction", func(t *testing.T) {
		s := cache.NewLRUStore(2, time.Minute)
		s.Set(ctx, "a", []byte("1"), time.Minute)
		s.Set(ctx, "b", []byte("2"), time.Minute)
		s.Set(ctx, "c", []byte("3"), time.Minute)
		if _, ok := s.Get(ctx, "a"); ok {
			t.Errorf("expected oldest entry to be evicted at capacity")
		}
		if _, ok := s.Get(ctx, "c"); !ok {
			t.Errorf("expected newest entry to survive")
		}
	})
}

func TestKey(t *testing.T) {
	type filter struct {
		Limit  int    `json:"limit"`
		Status string `json:"status"`
	}

	k1 := cache.Key("u1", "projects", filter{Limit: 10})
	k2 := cache.Key("u1", "projects", filter{Limit: 10})
	if k1 != k2 {
		t.Errorf("expected identical filters to produce identical keys")
	}

	k3 := cache.Key("u1", "projects", filter{Limit: 20})
	if k1 == k3 {
		t.Errorf("expected different filters to produce different keys")
	}

	k4 := cache.Key("u2", "projects", filter{Limit: 10})
	if k1 == k4 {
		t.Errorf("expected different users to produce different keys")
	}
}

func TestJSONHelpers(t *testing.T) {
	ctx := context.Background()
	s := cache.NewLRUStore(8, time.Minute)

	type payload struct {
		Total int      `json:"total"`
		Codes []string `json:"codes"`
	}

	in := payload{Total: 2, Codes: []string{"DEMO", "WEB"}}
	if err := cache.SetJSON(ctx, s, "p", in, time.Minute); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var out payload
	if !cache.GetJSON(ctx, s, "p", &out) {
		t.Fatalf("expected cache hit")
	}
	if out.Total != 2 || len(out.Codes) != 2 || out.Codes[0] != "DEMO" {
		t.Errorf("unexpected roundtrip payload: %+v", out)
	}
}
