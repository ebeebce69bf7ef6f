package cache

import (
	"context"
	"testing"
	"time"
)

func TestSlotFillSkippedAfterInvalidate(t *testing.T) {
	ctx := context.Background()
	s := NewSlot(NewMemoryStore(), "gamelog:players", time.Minute)

	gen := s.Begin()
	if err := s.Invalidate(ctx); err != nil {
		t.Fatalf("invalidate: %v", err)
	}
	stored, err := s.Fill(ctx, gen, []byte(`["P1"]`))
	if err != nil || stored {
		t.Fatalf("stale fill stored=%v err=%v", stored, err)
	}
	if _, ok, _ := s.Get(ctx); ok {
		t.Fatalf("stale value must not be cached")
	}

	gen = s.Begin()
	if stored, err := s.Fill(ctx, gen, []byte(`["P1","P3"]`)); err != nil || !stored {
		t.Fatalf("fresh fill stored=%v err=%v", stored, err)
	}
	got, ok, _ := s.Get(ctx)
	if !ok || string(got) != `["P1","P3"]` {
		t.Fatalf("get=%q ok=%v", got, ok)
	}
	if err := s.Invalidate(ctx); err != nil {
		t.Fatal(err)
	}
	if _, ok, _ := s.Get(ctx); ok {
		t.Fatalf("invalidate should delete the key")
	}
}

func TestNilSlotMisses(t *testing.T) {
	ctx := context.Background()
	var s *Slot
	if NewSlot(nil, "k", time.Minute) != nil {
		t.Fatalf("nil store should give a nil slot")
	}
	if stored, err := s.Fill(ctx, s.Begin(), []byte("v")); stored || err != nil {
		t.Fatalf("stored=%v err=%v", stored, err)
	}
	if _, ok, err := s.Get(ctx); ok || err != nil {
		t.Fatalf("ok=%v err=%v", ok, err)
	}
	if err := s.Invalidate(ctx); err != nil {
		t.Fatal(err)
	}
}
