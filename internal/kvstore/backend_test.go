package kvstore

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func exerciseBackend(t *testing.T, b Backend) {
	t.Helper()
	ctx := context.Background()

	if _, ok, err := b.Get(ctx, "missing"); err != nil || ok {
		t.Fatalf("expected missing key, got ok=%v err=%v", ok, err)
	}
	if err := b.Set(ctx, "savedGames", `[{"id":"1"}]`); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := b.Set(ctx, "savedGames", `[{"id":"2"}]`); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	v, ok, err := b.Get(ctx, "savedGames")
	if err != nil || !ok || v != `[{"id":"2"}]` {
		t.Fatalf("expected overwritten value, got %q ok=%v err=%v", v, ok, err)
	}
	if err := b.Delete(ctx, "savedGames"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok, _ := b.Get(ctx, "savedGames"); ok {
		t.Fatalf("expected key deleted")
	}
	if err := b.Delete(ctx, "savedGames"); err != nil {
		t.Fatalf("expected deleting an absent key to succeed, got %v", err)
	}
}

func TestMemoryBackend(t *testing.T) {
	exerciseBackend(t, NewMemoryBackend())
}

func TestFileBackend(t *testing.T) {
	b, err := NewFileBackend(filepath.Join(t.TempDir(), "storage"))
	if err != nil {
		t.Fatalf("new file backend: %v", err)
	}
	exerciseBackend(t, b)
}

func TestFileBackendLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	b, err := NewFileBackend(dir)
	if err != nil {
		t.Fatalf("new file backend: %v", err)
	}
	if err := b.Set(context.Background(), "a/b", "value"); err != nil {
		t.Fatalf("set: %v", err)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 || filepath.Ext(entries[0].Name()) != ".json" {
		t.Fatalf("expected single json file, got %v", entries)
	}
}

func TestFileBackendRequiresRoot(t *testing.T) {
	if _, err := NewFileBackend(""); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}

func TestSQLBackendSQLite(t *testing.T) {
	b, err := OpenSQL("file:" + filepath.Join(t.TempDir(), "kv.db"))
	if err != nil {
		t.Fatalf("open sql: %v", err)
	}
	t.Cleanup(func() { _ = b.Close() })
	exerciseBackend(t, b)
}

func TestDialectorSniffsDSN(t *testing.T) {
	cases := map[string]string{
		"postgres://u:p@localhost:5432/db": "postgres",
		"postgresql://localhost/db":        "postgres",
		"sqlite:///tmp/x.db":               "sqlite",
		"file:x.db":                        "sqlite",
	}
	for dsn, want := range cases {
		if got := dialector(dsn).Name(); got != want {
			t.Fatalf("dialector(%q) = %s, want %s", dsn, got, want)
		}
	}
}

func TestOpenDrivers(t *testing.T) {
	b, closer, err := Open(Options{Driver: DriverNone})
	if err != nil || b != nil || closer == nil {
		t.Fatalf("expected nil backend for none driver, got %v err=%v", b, err)
	}

	b, _, err = Open(Options{Driver: DriverMemory, QuotaBytes: 10})
	if err != nil {
		t.Fatalf("open memory: %v", err)
	}
	if _, ok := b.(*QuotaBackend); !ok {
		t.Fatalf("expected quota wrapper, got %T", b)
	}

	b, _, err = Open(Options{Driver: DriverFile, Path: t.TempDir()})
	if err != nil {
		t.Fatalf("open file: %v", err)
	}
	if _, ok := b.(*FileBackend); !ok {
		t.Fatalf("expected file backend, got %T", b)
	}

	if _, _, err := Open(Options{Driver: "floppy"}); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
	if _, _, err := Open(Options{Driver: DriverRedis}); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured without redis url, got %v", err)
	}
}
