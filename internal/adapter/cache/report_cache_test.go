package cache

import (
	"testing"

	"scriptscan/internal/domain"
)

func TestReportCache_GetPut(t *testing.T) {
	c := NewReportCache(10)

	if _, ok := c.Get("abc"); ok {
		t.Fatal("expected miss on empty cache")
	}

	c.Put(domain.Report{Digest: "abc", Lines: 4})
	r, ok := c.Get("abc")
	if !ok {
		t.Fatal("expected hit")
	}
	if r.Lines != 4 {
		t.Errorf("expected 4 lines, got %d", r.Lines)
	}

	c.Put(domain.Report{Digest: "abc", Lines: 5})
	if r, _ := c.Get("abc"); r.Lines != 5 {
		t.Errorf("expected replaced report, got %d lines", r.Lines)
	}
	if c.Size() != 1 {
		t.Errorf("expected size 1, got %d", c.Size())
	}
}

func TestReportCache_EvictsLeastRecentlyUsed(t *testing.T) {
	c := NewReportCache(2)
	c.Put(domain.Report{Digest: "a"})
	c.Put(domain.Report{Digest: "b"})

	// touch a so b becomes the oldest
	c.Get("a")
	c.Put(domain.Report{Digest: "c"})

	if _, ok := c.Get("b"); ok {
		t.Error("expected b to be evicted")
	}
	if _, ok := c.Get("a"); !ok {
		t.Error("expected a to survive")
	}
	if _, ok := c.Get("c"); !ok {
		t.Error("expected c to be cached")
	}
}

func TestReportCache_Invalidate(t *testing.T) {
	c := NewReportCache(0)
	c.Put(domain.Report{Digest: "a"})
	c.Invalidate()

	if _, ok := c.Get("a"); ok {
		t.Error("expected miss after invalidate")
	}
	if c.Size() != 0 {
		t.Errorf("expected empty cache, got %d", c.Size())
	}
}
