package kv

import (
	"context"
	"path/filepath"
	"testing"
)

func exerciseStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	if _, ok, err := s.Get(ctx, "token"); err != nil || ok {
		t.Fatalf("expected missing key, got ok=%v err=%v", ok, err)
	}
	if err := s.Set(ctx, "token", "abc"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if v, ok, _ := s.Get(ctx, "token"); !ok || v != "abc" {
		t.Errorf("expected abc, got %q (ok=%v)", v, ok)
	}
	if err := s.Remove(ctx, "token"); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if _, ok, _ := s.Get(ctx, "token"); ok {
		t.Error("expected key to be removed")
	}
	if err := s.Remove(ctx, "never-set"); err != nil {
		t.Errorf("removing a missing key should succeed: %v", err)
	}
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemoryStore())
}

func TestFileStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.json")
	exerciseStore(t, NewFileStore(path))

	// Values survive a new store instance on the same file.
	ctx := context.Background()
	if err := NewFileStore(path).Set(ctx, "user", "ada"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if v, ok, _ := NewFileStore(path).Get(ctx, "user"); !ok || v != "ada" {
		t.Errorf("expected persisted value, got %q", v)
	}
}

func TestJSONHelpers(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	type user struct{ Name string }

	if err := SetJSON(ctx, s, "user", user{Name: "Ada"}); err != nil {
		t.Fatalf("SetJSON failed: %v", err)
	}
	var u user
	ok, err := GetJSON(ctx, s, "user", &u)
	if err != nil || !ok || u.Name != "Ada" {
		t.Errorf("GetJSON = %v, %v, %+v", ok, err, u)
	}

	_ = s.Set(ctx, "broken", "{")
	if _, err := GetJSON(ctx, s, "broken", &u); err == nil {
		t.Error("expected decode error")
	}
}
