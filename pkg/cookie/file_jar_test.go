package cookie

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestFileJarPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cookies.yaml")

	jar, err := NewFileJar(path)
	if err != nil {
		t.Fatalf("NewFileJar() error = %v", err)
	}

	if raw, err := jar.Cookie(); err != nil || raw != "" {
		t.Fatalf("Cookie() on missing file = %q, %v", raw, err)
	}

	if err := NewStore(jar).Set("a", "hello world", 1); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	// A second jar over the same file sees the cookie.
	other, err := NewFileJar(path)
	if err != nil {
		t.Fatalf("NewFileJar() error = %v", err)
	}
	got, ok := NewStore(other).Get("a")
	if !ok || got != "hello world" {
		t.Errorf("Get(a) = %q, %v, want hello world", got, ok)
	}

	if err := NewStore(other).Delete("a"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	entries, err := jar.Entries()
	if err != nil {
		t.Fatalf("Entries() error = %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("expected no cookies, got %v", entries)
	}
}

func TestFileJarRequiresPath(t *testing.T) {
	if _, err := NewFileJar(""); err == nil {
		t.Error("expected error for empty path")
	}
}

func TestFileJarCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cookies.yaml")
	if err := os.WriteFile(path, []byte("cookies: [unterminated"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	jar, _ := NewFileJar(path)
	if _, err := jar.Cookie(); err == nil {
		t.Error("expected parse error")
	}
	if _, ok := NewStore(jar).Get("a"); ok {
		t.Error("Get on corrupt jar should be absent")
	}
}

func TestFileJarWatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cookies.yaml")
	jar, _ := NewFileJar(path)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changed := make(chan struct{}, 1)
	if err := jar.Watch(ctx, func() {
		select {
		case changed <- struct{}{}:
		default:
		}
	}); err != nil {
		t.Fatalf("Watch() error = %v", err)
	}

	writer, _ := NewFileJar(path)
	if err := writer.SetCookie("a=1"); err != nil {
		t.Fatalf("SetCookie() error = %v", err)
	}

	select {
	case <-changed:
	case <-time.After(5 * time.Second):
		t.Fatal("no change notification received")
	}

	if got, ok := NewStore(jar).Get("a"); !ok || got != "1" {
		t.Errorf("Get(a) = %q, %v after reload", got, ok)
	}
}
