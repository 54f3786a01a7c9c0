package store

import (
	"os"
	"testing"
)

func TestMemoryStore(t *testing.T) {
	s := NewMemory()
	defer s.Close()

	// Test Append and Recent
	if err := s.Append("let x = 1 in Print x", "1"); err != nil {
		t.Fatalf("Append failed: %v", err)
	}
	if err := s.Append("Print 2", "2"); err != nil {
		t.Fatalf("Append failed: %v", err)
	}

	entries, err := s.Recent(0)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	// Newest first
	if entries[0].Source != "Print 2" || entries[0].Output != "2" {
		t.Errorf("unexpected newest entry: %+v", entries[0])
	}
	if entries[1].Source != "let x = 1 in Print x" {
		t.Errorf("unexpected oldest entry: %+v", entries[1])
	}

	// Limit
	entries, err = s.Recent(1)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(entries) != 1 || entries[0].Source != "Print 2" {
		t.Errorf("unexpected limited entries: %+v", entries)
	}
}

func TestMemoryMetadata(t *testing.T) {
	s := NewMemory()
	defer s.Close()

	if err := s.SetMetadata("key", "value"); err != nil {
		t.Fatalf("SetMetadata failed: %v", err)
	}
	got, err := s.GetMetadata("key")
	if err != nil {
		t.Fatalf("GetMetadata failed: %v", err)
	}
	if got != "value" {
		t.Errorf("expected 'value', got %q", got)
	}
}

func TestSQLiteStore(t *testing.T) {
	// Create temp file
	f, err := os.CreateTemp("", "rpal-test-*.db")
	if err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}
	path := f.Name()
	f.Close()
	defer os.Remove(path)

	s, err := NewSQLite(path)
	if err != nil {
		t.Fatalf("Failed to create SQLite store: %v", err)
	}

	if err := s.Append("Print 'hi'", "hi"); err != nil {
		t.Fatalf("Append failed: %v", err)
	}
	if err := s.Append("Print(1+1)", "2"); err != nil {
		t.Fatalf("Append failed: %v", err)
	}

	entries, err := s.Recent(10)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Source != "Print(1+1)" || entries[0].Output != "2" {
		t.Errorf("unexpected newest entry: %+v", entries[0])
	}
	if entries[0].Ts == "" {
		t.Error("expected a timestamp")
	}

	// Schema version is recorded
	version, err := s.GetMetadata("schema_version")
	if err != nil {
		t.Fatalf("GetMetadata failed: %v", err)
	}
	if version != SchemaVersion {
		t.Errorf("expected schema version %s, got %s", SchemaVersion, version)
	}

	if err := s.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	// Reopen: history persists
	s, err = NewSQLite(path)
	if err != nil {
		t.Fatalf("Failed to reopen SQLite store: %v", err)
	}
	defer s.Close()

	entries, err = s.Recent(0)
	if err != nil {
		t.Fatalf("Recent after reopen failed: %v", err)
	}
	if len(entries) != 2 {
		t.Errorf("expected 2 entries after reopen, got %d", len(entries))
	}
}

func TestSQLiteRejectsUnknownSchema(t *testing.T) {
	f, err := os.CreateTemp("", "rpal-test-*.db")
	if err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}
	path := f.Name()
	f.Close()
	defer os.Remove(path)

	s, err := NewSQLite(path)
	if err != nil {
		t.Fatalf("Failed to create SQLite store: %v", err)
	}
	if err := s.SetMetadata("schema_version", "999"); err != nil {
		t.Fatalf("SetMetadata failed: %v", err)
	}
	s.Close()

	if _, err := NewSQLite(path); err == nil {
		t.Fatal("expected an unsupported schema version error")
	}
}
