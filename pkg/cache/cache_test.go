package cache

import (
	"testing"
	"time"
)

func TestSetAndGet(t *testing.T) {
	c := New()
	c.Set("client:1", "value1", 1*time.Second)
	val, ok := c.Get("client:1")
	if !ok || val != "value1" {
		t.Fatalf("expected value1, got %v, exists=%v", val, ok)
	}
}

func TestExpiration(t *testing.T) {
	c := New()
	c.Set("client:1", "value1", 100*time.Millisecond)
	time.Sleep(150 * time.Millisecond)
	_, ok := c.Get("client:1")
	if ok {
		t.Fatalf("expected expired key to return false")
	}
}

func TestDelete(t *testing.T) {
	c := New()
	c.Set("clients:all", "value1", 1*time.Second)
	c.Delete("clients:all")
	_, ok := c.Get("clients:all")
	if ok {
		t.Fatalf("expected deleted key to return false")
	}
}

func TestOverwrite(t *testing.T) {
	c := New()
	c.Set("salesperson:1", "old", 1*time.Second)
	c.Set("salesperson:1", "new", 1*time.Second)
	val, ok := c.Get("salesperson:1")
	if !ok || val != "new" {
		t.Fatalf("expected new, got %v, exists=%v", val, ok)
	}
}
