package cookie

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
)

// TimeFormat is the layout of the expires attribute (toGMTString style).
const TimeFormat = "Mon, 02 Jan 2006 15:04:05 GMT"

// ErrMalformed is returned for a cookie line that has no name=value pair.
var ErrMalformed = errors.New("malformed cookie")

// Jar is the environment cookie string.
type Jar interface {
	// Cookie returns every live cookie as "name=value; name2=value2".
	Cookie() (string, error)

	// SetCookie applies a single "name=value[; expires=<date>]" line. An
	// expiration at or before the jar's current time evicts the cookie.
	SetCookie(line string) error
}

// Entry is one cookie held by a jar.
type Entry struct {
	Name    string     `yaml:"name"`
	Value   string     `yaml:"value"`
	Expires *time.Time `yaml:"expires,omitempty"`
}

func (e Entry) expired(now time.Time) bool {
	return e.Expires != nil && !e.Expires.After(now)
}

// ParseLine parses a "name=value[; attr=...]" cookie line. Only the expires
// attribute is interpreted; the rest are ignored.
func ParseLine(line string) (Entry, error) {
	parts := strings.Split(line, ";")

	name, value, ok := strings.Cut(parts[0], "=")
	name = strings.TrimSpace(name)
	if !ok || name == "" {
		return Entry{}, fmt.Errorf("%w: %q", ErrMalformed, line)
	}

	entry := Entry{Name: name, Value: strings.TrimSpace(value)}
	for _, attr := range parts[1:] {
		k, v, _ := strings.Cut(attr, "=")
		if !strings.EqualFold(strings.TrimSpace(k), "expires") {
			continue
		}
		exp, err := time.Parse(TimeFormat, strings.TrimSpace(v))
		if err != nil {
			return Entry{}, fmt.Errorf("%w: bad expires %q: %v", ErrMalformed, v, err)
		}
		entry.Expires = &exp
	}

	return entry, nil
}

// FormatLine renders a cookie line for Jar.SetCookie. A nil expires produces
// a session cookie.
func FormatLine(name, value string, expires *time.Time) string {
	line := name + "=" + value
	if expires != nil {
		line += "; expires=" + expires.UTC().Format(TimeFormat)
	}
	return line
}

// entries is the ordered cookie set shared by the jar implementations.
type entries []Entry

func (es entries) apply(e Entry, now time.Time) entries {
	for i := range es {
		if es[i].Name != e.Name {
			continue
		}
		if e.expired(now) {
			return append(es[:i:i], es[i+1:]...)
		}
		es[i] = e
		return es
	}
	if e.expired(now) {
		return es
	}
	return append(es, e)
}

func (es entries) prune(now time.Time) entries {
	live := es[:0]
	for _, e := range es {
		if !e.expired(now) {
			live = append(live, e)
		}
	}
	return live
}

func (es entries) String() string {
	pairs := make([]string, len(es))
	for i, e := range es {
		pairs[i] = e.Name + "=" + e.Value
	}
	return strings.Join(pairs, "; ")
}

// MemoryJar is an in-process Jar.
type MemoryJar struct {
	mu      sync.Mutex
	entries entries
	now     func() time.Time
}

// NewMemoryJar returns an empty jar using the wall clock.
func NewMemoryJar() *MemoryJar {
	return &MemoryJar{now: time.Now}
}

// NewMemoryJarWithClock returns an empty jar that evaluates expirations
// against now.
func NewMemoryJarWithClock(now func() time.Time) *MemoryJar {
	return &MemoryJar{now: now}
}

// Cookie implements Jar.
func (j *MemoryJar) Cookie() (string, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	j.entries = j.entries.prune(j.now())
	return j.entries.String(), nil
}

// SetCookie implements Jar.
func (j *MemoryJar) SetCookie(line string) error {
	e, err := ParseLine(line)
	if err != nil {
		return err
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	j.entries = j.entries.apply(e, j.now())
	return nil
}

// Entries returns a copy of the live cookies.
func (j *MemoryJar) Entries() []Entry {
	j.mu.Lock()
	defer j.mu.Unlock()

	j.entries = j.entries.prune(j.now())
	out := make([]Entry, len(j.entries))
	copy(out, j.entries)
	return out
}
