package prefs

import (
	"errors"
	"path/filepath"
	"testing"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewMemory()
	if err != nil {
		t.Fatalf("new memory store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// ============================================================
// Store initialization
// ============================================================

func TestNewMemory(t *testing.T) {
	s, err := NewMemory()
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	var version int
	s.db.QueryRow("PRAGMA user_version").Scan(&version)
	if version != currentVersion {
		t.Fatalf("expected user_version %d, got %d", currentVersion, version)
	}
}

func TestNewWithPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "prefs.db")
	s, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Set("themeMode", "dark"); err != nil {
		t.Fatal(err)
	}
	s.Close()

	// Reopen: the value survives and migration is not repeated.
	s2, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	defer s2.Close()
	val, err := s2.Get("themeMode")
	if err != nil || val != "dark" {
		t.Fatalf("Get after reopen = %q, %v", val, err)
	}
}

func TestDefaultPath(t *testing.T) {
	path, err := DefaultPath()
	if err != nil {
		t.Skipf("no user config dir: %v", err)
	}
	if filepath.Base(path) != "prefs.db" {
		t.Fatalf("unexpected path %q", path)
	}
}

func TestMigrationIdempotent(t *testing.T) {
	s := newTestStore(t)
	if err := s.migrate(); err != nil {
		t.Fatalf("second migration failed: %v", err)
	}
}

// ============================================================
// Settings
// ============================================================

func TestSetAndGet(t *testing.T) {
	s := newTestStore(t)
	if err := s.Set("themeMode", "light"); err != nil {
		t.Fatal(err)
	}
	val, err := s.Get("themeMode")
	if err != nil {
		t.Fatal(err)
	}
	if val != "light" {
		t.Fatalf("expected light, got %q", val)
	}
}

func TestSetOverwrite(t *testing.T) {
	s := newTestStore(t)
	s.Set("key", "v1")
	s.Set("key", "v2")
	val, _ := s.Get("key")
	if val != "v2" {
		t.Fatalf("expected v2, got %q", val)
	}
}

func TestGetNotFound(t *testing.T) {
	s := newTestStore(t)
	_, err := s.Get("nonexistent")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDelete(t *testing.T) {
	s := newTestStore(t)
	s.Set("key", "v")
	if err := s.Delete("key"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Get("key"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestAll(t *testing.T) {
	s := newTestStore(t)
	s.Set("b", "2")
	s.Set("a", "1")
	all, err := s.All()
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 2 || all[0].Key != "a" || all[1].Value != "2" {
		t.Fatalf("unexpected settings: %+v", all)
	}
}

func TestClosedStoreErrors(t *testing.T) {
	s, err := NewMemory()
	if err != nil {
		t.Fatal(err)
	}
	s.Close()
	if err := s.Set("k", "v"); err == nil {
		t.Fatal("expected error writing to a closed store")
	}
	if _, err := s.Get("k"); err == nil || errors.Is(err, ErrNotFound) {
		t.Fatalf("expected a database error, got %v", err)
	}
}
