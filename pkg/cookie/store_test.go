package cookie

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

// fakeClock is a settable clock shared by a jar and a store.
type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestStore(t *testing.T) (*Store, *MemoryJar, *fakeClock) {
	t.Helper()

	clock := &fakeClock{t: time.Date(2026, 3, 14, 12, 0, 0, 500_000_000, time.UTC)}
	jar := NewMemoryJarWithClock(clock.Now)
	return NewStore(jar, WithClock(clock.Now)), jar, clock
}

func TestSetGetRoundTrip(t *testing.T) {
	store, _, _ := newTestStore(t)

	if err := store.Set("a", "1", 1); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	got, ok := store.Get("a")
	if !ok || got != "1" {
		t.Errorf("Get(a) = %q, %v, want 1, true", got, ok)
	}
}

func TestSetEscapesValue(t *testing.T) {
	store, jar, _ := newTestStore(t)

	value := "x=1; y=two words"
	if err := store.Set("pref", value, 10); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	raw, _ := jar.Cookie()
	if strings.Contains(raw, " words") {
		t.Errorf("raw cookie string not escaped: %q", raw)
	}

	got, ok := store.Get("pref")
	if !ok || got != value {
		t.Errorf("Get(pref) = %q, %v, want %q", got, ok, value)
	}
}

func TestExpiry(t *testing.T) {
	store, _, clock := newTestStore(t)

	if err := store.Set("short", "v", 1); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := store.SetSession("session", "s"); err != nil {
		t.Fatalf("SetSession() error = %v", err)
	}

	clock.Advance(23 * time.Hour)
	if _, ok := store.Get("short"); !ok {
		t.Error("cookie expired too early")
	}

	clock.Advance(2 * time.Hour)
	if _, ok := store.Get("short"); ok {
		t.Error("cookie should have expired after one day")
	}
	if got, ok := store.Get("session"); !ok || got != "s" {
		t.Errorf("session cookie = %q, %v, want s, true", got, ok)
	}
}

func TestDelete(t *testing.T) {
	store, jar, _ := newTestStore(t)

	if err := store.Set("a", "1", 1); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := store.Delete("a"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	if _, ok := store.Get("a"); ok {
		t.Error("Get(a) after Delete should be absent")
	}
	if raw, _ := jar.Cookie(); raw != "" {
		t.Errorf("expected empty cookie string, got %q", raw)
	}

	// Deleting an unknown cookie is harmless.
	if err := store.Delete("missing"); err != nil {
		t.Errorf("Delete(missing) error = %v", err)
	}
}

func TestClearAll(t *testing.T) {
	store, jar, _ := newTestStore(t)

	for _, line := range []string{"a=1", "b=2"} {
		if err := jar.SetCookie(line); err != nil {
			t.Fatalf("SetCookie(%q) error = %v", line, err)
		}
	}
	if raw, _ := jar.Cookie(); raw != "a=1; b=2" {
		t.Fatalf("cookie string = %q, want %q", raw, "a=1; b=2")
	}

	if err := store.ClearAll(); err != nil {
		t.Fatalf("ClearAll() error = %v", err)
	}

	for _, name := range []string{"a", "b"} {
		if _, ok := store.Get(name); ok {
			t.Errorf("Get(%s) after ClearAll should be absent", name)
		}
	}
}

// failingJar refuses writes for selected cookie names.
type failingJar struct {
	*MemoryJar
	fail map[string]bool
}

func (j *failingJar) SetCookie(line string) error {
	e, err := ParseLine(line)
	if err != nil {
		return err
	}
	if j.fail[e.Name] {
		return errors.New("write refused")
	}
	return j.MemoryJar.SetCookie(line)
}

func TestClearAllContinuesPastFailures(t *testing.T) {
	jar := &failingJar{MemoryJar: NewMemoryJar(), fail: map[string]bool{}}
	for _, line := range []string{"a=1", "b=2", "c=3"} {
		if err := jar.SetCookie(line); err != nil {
			t.Fatalf("SetCookie(%q) error = %v", line, err)
		}
	}
	jar.fail["b"] = true

	store := NewStore(jar)
	err := store.ClearAll()
	if err == nil {
		t.Fatal("expected an aggregated error")
	}
	if !strings.Contains(err.Error(), "delete b") {
		t.Errorf("error should mention b, got %v", err)
	}

	raw, _ := jar.Cookie()
	if raw != "b=2" {
		t.Errorf("remaining cookies = %q, want %q", raw, "b=2")
	}
}

func TestGetMatchesWholeNames(t *testing.T) {
	store, jar, _ := newTestStore(t)

	for _, line := range []string{"xa=wrong", "a=right"} {
		if err := jar.SetCookie(line); err != nil {
			t.Fatalf("SetCookie(%q) error = %v", line, err)
		}
	}

	if got, ok := store.Get("a"); !ok || got != "right" {
		t.Errorf("Get(a) = %q, %v, want right", got, ok)
	}
	if _, ok := store.Get("x"); ok {
		t.Error("Get(x) should not match xa")
	}
}

func TestGetEmptyJar(t *testing.T) {
	store, _, _ := newTestStore(t)
	if _, ok := store.Get("a"); ok {
		t.Error("Get on empty jar should be absent")
	}
}

func TestNames(t *testing.T) {
	got := Names("a=1; b=2;  c=3;")
	if diff := cmp.Diff([]string{"a", "b", "c"}, got); diff != "" {
		t.Errorf("Names() mismatch (-want +got):\n%s", diff)
	}
}

func TestParseLine(t *testing.T) {
	exp := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	tests := []struct {
		name    string
		line    string
		want    Entry
		wantErr bool
	}{
		{name: "session", line: "a=1", want: Entry{Name: "a", Value: "1"}},
		{name: "expires", line: "a=1; expires=Fri, 02 Jan 2026 03:04:05 GMT", want: Entry{Name: "a", Value: "1", Expires: &exp}},
		{name: "other attrs ignored", line: "a=1; path=/", want: Entry{Name: "a", Value: "1"}},
		{name: "empty value", line: "a=", want: Entry{Name: "a", Value: ""}},
		{name: "no pair", line: "garbage", wantErr: true},
		{name: "empty name", line: "=1", wantErr: true},
		{name: "bad date", line: "a=1; expires=tomorrow", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseLine(tt.line)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLine() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				if !errors.Is(err, ErrMalformed) {
					t.Errorf("expected ErrMalformed, got %v", err)
				}
				return
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ParseLine() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFormatLine(t *testing.T) {
	exp := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	if got := FormatLine("a", "1", nil); got != "a=1" {
		t.Errorf("FormatLine(session) = %q", got)
	}
	if got := FormatLine("a", "1", &exp); got != "a=1; expires=Fri, 02 Jan 2026 03:04:05 GMT" {
		t.Errorf("FormatLine(expires) = %q", got)
	}
}
