package token

import (
	"path/filepath"
	"testing"
)

func TestFileStorageRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tokens.json")
	s := NewFileStorage(path)

	pair, err := s.Load()
	if err != nil {
		t.Fatalf("Load on missing file: %v", err)
	}
	if !pair.Empty() {
		t.Fatalf("expected empty pair, got %+v", pair)
	}

	want := Pair{AccessToken: "access", RefreshToken: "refresh"}
	if err := s.Save(want); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := s.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got != want {
		t.Fatalf("Load = %+v, want %+v", got, want)
	}
}

func TestFileStorageClear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tokens.json")
	s := NewFileStorage(path)

	if err := s.Save(Pair{AccessToken: "a", RefreshToken: "r"}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := s.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if err := s.Clear(); err != nil {
		t.Fatalf("Clear on missing file must be idempotent: %v", err)
	}

	pair, err := s.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !pair.Empty() {
		t.Fatalf("expected empty pair after Clear, got %+v", pair)
	}
}

func TestFileStorageCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "tokens.json")
	s := NewFileStorage(path)

	if err := s.Save(Pair{AccessToken: "a"}); err != nil {
		t.Fatalf("Save into missing directory: %v", err)
	}

	pair, err := s.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if pair.AccessToken != "a" {
		t.Fatalf("AccessToken = %q, want %q", pair.AccessToken, "a")
	}
}

func TestMemoryStorage(t *testing.T) {
	s := NewMemoryStorage()

	if err := s.Save(Pair{AccessToken: "a", RefreshToken: "r"}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	pair, err := s.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if pair.AccessToken != "a" || pair.RefreshToken != "r" {
		t.Fatalf("unexpected pair: %+v", pair)
	}

	if err := s.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	pair, _ = s.Load()
	if !pair.Empty() {
		t.Fatalf("expected empty pair after Clear, got %+v", pair)
	}
}
