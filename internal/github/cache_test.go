package github

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestCacheRoundTrip(t *testing.T) {
	c := NewCache(t.TempDir(), time.Minute)

	c.Store("issues", []Issue{{Number: 7, Title: "t"}})

	var got []Issue
	if !c.Load("issues", &got) {
		t.Fatal("expected cache hit")
	}
	if len(got) != 1 || got[0].Number != 7 {
		t.Errorf("got %+v", got)
	}
}

func TestCacheExpiry(t *testing.T) {
	c := NewCache(t.TempDir(), time.Minute)

	c.Store("issues", []Issue{{Number: 1}})
	c.now = func() time.Time { return time.Now().Add(2 * time.Minute) }

	var got []Issue
	if c.Load("issues", &got) {
		t.Error("expired entry should miss")
	}
}

func TestCacheMissOnAbsentOrCorrupt(t *testing.T) {
	dir := t.TempDir()
	c := NewCache(dir, time.Minute)

	var got []Issue
	if c.Load("issues", &got) {
		t.Error("absent entry should miss")
	}

	os.WriteFile(filepath.Join(dir, "issues.json"), []byte("not json"), 0644)
	if c.Load("issues", &got) {
		t.Error("corrupt entry should miss")
	}
}

func TestCacheClear(t *testing.T) {
	dir := t.TempDir()
	c := NewCache(dir, time.Minute)

	c.Store("issues", []Issue{{Number: 1}})
	c.Store("repositories", []Repo{{Name: "r"}})

	if err := c.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Errorf("%d entries remain", len(entries))
	}

	// Clearing a missing dir is fine.
	c2 := NewCache(filepath.Join(dir, "nope"), time.Minute)
	if err := c2.Clear(); err != nil {
		t.Errorf("Clear on missing dir: %v", err)
	}
}
