package cookie

import (
	"fmt"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
)

// Store provides the cookie helpers over a Jar.
type Store struct {
	jar Jar
	now func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithClock sets the clock used to compute expirations.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// NewStore creates a Store over jar.
func NewStore(jar Jar, opts ...Option) *Store {
	s := &Store{
		jar: jar,
		now: time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Jar returns the underlying jar.
func (s *Store) Jar() Jar {
	return s.jar
}

// Set writes name=value expiring expireDays days from now.
func (s *Store) Set(name, value string, expireDays int) error {
	expires := s.now().AddDate(0, 0, expireDays)
	return s.write(name, Escape(value), &expires)
}

// SetSession writes name=value without an expiration.
func (s *Store) SetSession(name, value string) error {
	return s.write(name, Escape(value), nil)
}

// Get returns the unescaped value of the named cookie.
func (s *Store) Get(name string) (string, bool) {
	raw, err := s.jar.Cookie()
	if err != nil || raw == "" {
		return "", false
	}
	return lookup(raw, name)
}

// Delete expires the named cookie, rewriting its current value with an
// expiration one millisecond in the past.
func (s *Store) Delete(name string) error {
	var current string
	if raw, err := s.jar.Cookie(); err == nil {
		current, _ = lookupRaw(raw, name)
	}

	expires := s.now().Add(-time.Millisecond)
	return s.write(name, current, &expires)
}

// ClearAll deletes every cookie present in the jar. Failures do not stop the
// scan; they are returned together once every name has been attempted.
func (s *Store) ClearAll() error {
	raw, err := s.jar.Cookie()
	if err != nil {
		return fmt.Errorf("failed to read cookies: %w", err)
	}

	var result *multierror.Error
	for _, name := range Names(raw) {
		if err := s.Delete(name); err != nil {
			result = multierror.Append(result, fmt.Errorf("delete %s: %w", name, err))
		}
	}

	return result.ErrorOrNil()
}

// Names lists the cookie names found in a raw cookie string, in order.
func Names(raw string) []string {
	var names []string
	for _, pair := range strings.Split(raw, ";") {
		name, _, _ := strings.Cut(pair, "=")
		if name = strings.TrimSpace(name); name != "" {
			names = append(names, name)
		}
	}
	return names
}

func (s *Store) write(name, encoded string, expires *time.Time) error {
	if err := s.jar.SetCookie(FormatLine(name, encoded, expires)); err != nil {
		return fmt.Errorf("failed to set cookie %s: %w", name, err)
	}
	return nil
}

func lookup(raw, name string) (string, bool) {
	v, ok := lookupRaw(raw, name)
	if !ok {
		return "", false
	}
	return Unescape(v), true
}

// lookupRaw finds name= at a pair boundary and returns the text up to the
// next ';' or the end of the string.
func lookupRaw(raw, name string) (string, bool) {
	needle := name + "="
	for start := 0; start < len(raw); {
		idx := strings.Index(raw[start:], needle)
		if idx < 0 {
			return "", false
		}
		idx += start

		if atBoundary(raw, idx) {
			valueStart := idx + len(needle)
			end := strings.IndexByte(raw[valueStart:], ';')
			if end < 0 {
				return raw[valueStart:], true
			}
			return raw[valueStart : valueStart+end], true
		}
		start = idx + 1
	}
	return "", false
}

func atBoundary(raw string, idx int) bool {
	for i := idx - 1; i >= 0; i-- {
		switch raw[i] {
		case ' ', '\t':
			continue
		case ';':
			return true
		default:
			return false
		}
	}
	return true
}
