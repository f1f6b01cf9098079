package storage

import (
	"context"
	"testing"
)

func TestMemoryKVGetSet(t *testing.T) {
	kv := NewMemoryKV()
	ctx := context.Background()

	if _, ok, err := kv.Get(ctx, KeyCurrency); ok || err != nil {
		t.Fatalf("unwritten key: ok=%v err=%v", ok, err)
	}

	if err := kv.Set(ctx, KeyCurrency, "USD"); err != nil {
		t.Fatalf("set: %v", err)
	}
	v, ok, err := kv.Get(ctx, KeyCurrency)
	if err != nil || !ok || v != "USD" {
		t.Fatalf("get: v=%q ok=%v err=%v", v, ok, err)
	}

	// Whole-document overwrite
	if err := kv.Set(ctx, KeyCurrency, "EGP"); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	v, _, _ = kv.Get(ctx, KeyCurrency)
	if v != "EGP" {
		t.Fatalf("got %q, want EGP", v)
	}
}
