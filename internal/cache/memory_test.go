package cache

import (
	"context"
	"sort"
	"testing"
	"time"
)

func TestMemoryStore_ScanMatchesPattern(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	seed := []string{"card:7:balance", "card:7:history", "trips:total"}
	for _, key := range seed {
		if err := store.SetWithTTL(ctx, key, []byte(`x`), time.Minute); err != nil {
			t.Fatalf("seed failed: %v", err)
		}
	}

	keys, err := store.Scan(ctx, "card:*")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	sort.Strings(keys)
	if len(keys) != 2 || keys[0] != "card:7:balance" || keys[1] != "card:7:history" {
		t.Fatalf("unexpected scan result: %v", keys)
	}

	all, err := store.Scan(ctx, "*")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected all keys, got %v", all)
	}
}

func TestMemoryStore_ScanSkipsExpired(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	if err := store.SetWithTTL(ctx, "station:1:arrivals", []byte(`x`), time.Nanosecond); err != nil {
		t.Fatalf("seed failed: %v", err)
	}
	time.Sleep(time.Millisecond)

	keys, err := store.Scan(ctx, "*")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(keys) != 0 {
		t.Fatalf("expired key should be skipped, got %v", keys)
	}
}
