package cache

import (
	"errors"
	"testing"
	"time"
)

func TestMemoryOnceRunsOnlyOnce(t *testing.T) {
	c := NewMemory()
	runs := 0
	for i := 0; i < 3; i++ {
		if err := c.Once("key", time.Hour, func() error { runs++; return nil }); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if runs != 1 {
		t.Fatalf("expected 1 run, got %d", runs)
	}
}

func TestMemoryOnceReleasesKeyOnError(t *testing.T) {
	c := NewMemory()
	boom := errors.New("boom")
	if err := c.Once("key", time.Hour, func() error { return boom }); !errors.Is(err, boom) {
		t.Fatalf("expected the fn error, got %v", err)
	}
	ran := false
	if err := c.Once("key", time.Hour, func() error { ran = true; return nil }); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ran {
		t.Fatalf("failed fn must release the key")
	}
}

func TestMemoryExpiry(t *testing.T) {
	c := NewMemory()
	if err := c.Set("key", []byte("v"), time.Millisecond); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	time.Sleep(5 * time.Millisecond)
	if _, err := c.Get("key"); !errors.Is(err, ErrMiss) {
		t.Fatalf("expected ErrMiss after expiry, got %v", err)
	}
}

func TestMemoryGet(t *testing.T) {
	c := NewMemory()
	if err := c.Set("key", []byte("value"), 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	value, err := c.Get("key")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(value) != "value" {
		t.Fatalf("unexpected value %q", value)
	}
	if _, err := c.Get("missing"); !errors.Is(err, ErrMiss) {
		t.Fatalf("expected ErrMiss, got %v", err)
	}
}
