package cache

import (
	"context"
	"testing"
	"time"
)

func TestSetGet(t *testing.T) {
	ctx := context.Background()
	c := New(Config{DefaultTTL: time.Minute})
	defer c.Close()

	c.Set(ctx, "user-1", "alice")
	got, ok := c.Get(ctx, "user-1")
	if !ok || got != "alice" {
		t.Fatalf("Get() = (%v, %v), want (alice, true)", got, ok)
	}

	if _, ok := c.Get(ctx, "user-2"); ok {
		t.Error("Get() on missing key returned ok")
	}
}

func TestExpiry(t *testing.T) {
	ctx := context.Background()
	c := New(Config{})
	defer c.Close()

	c.SetWithTTL(ctx, "session", 1, 10*time.Millisecond)
	if _, ok := c.Get(ctx, "session"); !ok {
		t.Fatal("entry expired immediately")
	}

	time.Sleep(20 * time.Millisecond)
	if _, ok := c.Get(ctx, "session"); ok {
		t.Error("entry still readable past its TTL")
	}
}

func TestZeroTTLNeverExpires(t *testing.T) {
	ctx := context.Background()
	c := New(Config{})
	defer c.Close()

	c.SetWithTTL(ctx, "pinned", 1, 0)
	time.Sleep(10 * time.Millisecond)
	if _, ok := c.Get(ctx, "pinned"); !ok {
		t.Error("zero-TTL entry expired")
	}
}

func TestMaxItemsEviction(t *testing.T) {
	ctx := context.Background()
	var evicted []string
	c := New(Config{
		DefaultTTL: time.Minute,
		MaxItems:   2,
		OnEviction: func(key string, _ any) { evicted = append(evicted, key) },
	})
	defer c.Close()

	c.SetWithTTL(ctx, "a", 1, time.Millisecond) // closest to expiry
	c.SetWithTTL(ctx, "b", 2, time.Hour)
	c.SetWithTTL(ctx, "c", 3, time.Hour)

	if c.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", c.Len())
	}
	if len(evicted) != 1 || evicted[0] != "a" {
		t.Errorf("evicted = %v, want [a]", evicted)
	}
}

func TestDeleteFiresEvictionHook(t *testing.T) {
	ctx := context.Background()
	var evicted []string
	c := New(Config{OnEviction: func(key string, _ any) { evicted = append(evicted, key) }})
	defer c.Close()

	c.Set(ctx, "x", 1)
	c.Delete(ctx, "x")
	c.Delete(ctx, "x") // second delete is a no-op

	if len(evicted) != 1 || evicted[0] != "x" {
		t.Errorf("evicted = %v, want [x]", evicted)
	}
}

func TestClear(t *testing.T) {
	ctx := context.Background()
	c := New(Config{})
	defer c.Close()

	c.Set(ctx, "a", 1)
	c.Set(ctx, "b", 2)
	c.Clear(ctx)

	if c.Len() != 0 {
		t.Errorf("Len() = %d after Clear, want 0", c.Len())
	}
}

func TestBackgroundSweep(t *testing.T) {
	ctx := context.Background()
	c := New(Config{CleanupInterval: 5 * time.Millisecond})
	defer c.Close()

	c.SetWithTTL(ctx, "short", 1, time.Millisecond)
	time.Sleep(30 * time.Millisecond)

	if c.Len() != 0 {
		t.Errorf("Len() = %d after sweep, want 0", c.Len())
	}
}
