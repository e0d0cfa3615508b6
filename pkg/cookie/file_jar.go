package cookie

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// jarFile is the on-disk layout of a FileJar.
type jarFile struct {
	Cookies []Entry `yaml:"cookies"`
}

// FileJar is a Jar persisted to a YAML file, so cookies survive across
// processes. Every read goes back to the file.
type FileJar struct {
	path   string
	mu     sync.Mutex
	now    func() time.Time
	logger zerolog.Logger
}

// FileJarOption configures a FileJar.
type FileJarOption func(*FileJar)

// WithFileJarClock sets the clock used to evaluate expirations.
func WithFileJarClock(now func() time.Time) FileJarOption {
	return func(j *FileJar) {
		j.now = now
	}
}

// WithFileJarLogger sets the logger used by Watch.
func WithFileJarLogger(logger zerolog.Logger) FileJarOption {
	return func(j *FileJar) {
		j.logger = logger
	}
}

// NewFileJar returns a jar stored at path. The file is created on first write.
func NewFileJar(path string, opts ...FileJarOption) (*FileJar, error) {
	if path == "" {
		return nil, fmt.Errorf("cookie jar path is required")
	}

	j := &FileJar{
		path:   path,
		now:    time.Now,
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(j)
	}
	return j, nil
}

// Path returns the backing file path.
func (j *FileJar) Path() string {
	return j.path
}

// Cookie implements Jar.
func (j *FileJar) Cookie() (string, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	es, err := j.load()
	if err != nil {
		return "", err
	}
	return es.prune(j.now()).String(), nil
}

// SetCookie implements Jar.
func (j *FileJar) SetCookie(line string) error {
	e, err := ParseLine(line)
	if err != nil {
		return err
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	es, err := j.load()
	if err != nil {
		return err
	}

	now := j.now()
	return j.save(es.prune(now).apply(e, now))
}

// Entries returns the live cookies stored in the file.
func (j *FileJar) Entries() ([]Entry, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	es, err := j.load()
	if err != nil {
		return nil, err
	}
	return es.prune(j.now()), nil
}

// Watch reloads on external changes to the jar file, calling onChange after
// each burst of writes. It returns once the watcher is running; the watcher
// stops when ctx is done.
func (j *FileJar) Watch(ctx context.Context, onChange func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}

	// Watch the directory: saves replace the file by rename.
	dir := filepath.Dir(j.path)
	if err := watcher.Add(dir); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	go j.processEvents(ctx, watcher, onChange)

	j.logger.Debug().
		Str("path", j.path).
		Msg("Started watching cookie jar")

	return nil
}

func (j *FileJar) processEvents(ctx context.Context, watcher *fsnotify.Watcher, onChange func()) {
	defer watcher.Close()

	// Debounce reload events
	var reloadTimer *time.Timer
	reloadDelay := 100 * time.Millisecond
	target := filepath.Clean(j.path)

	for {
		select {
		case <-ctx.Done():
			if reloadTimer != nil {
				reloadTimer.Stop()
			}
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}

			j.logger.Debug().
				Str("file", event.Name).
				Str("op", event.Op.String()).
				Msg("Cookie jar changed")

			if reloadTimer != nil {
				reloadTimer.Stop()
			}
			reloadTimer = time.AfterFunc(reloadDelay, onChange)

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			j.logger.Warn().Err(err).Msg("Cookie jar watcher error")
		}
	}
}

func (j *FileJar) load() (entries, error) {
	data, err := os.ReadFile(j.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cookie jar: %w", err)
	}

	var f jarFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse cookie jar: %w", err)
	}
	return entries(f.Cookies), nil
}

func (j *FileJar) save(es entries) error {
	if es == nil {
		es = entries{}
	}

	data, err := yaml.Marshal(jarFile{Cookies: es})
	if err != nil {
		return fmt.Errorf("failed to encode cookie jar: %w", err)
	}

	dir := filepath.Dir(j.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create cookie jar directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(j.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp cookie jar: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write cookie jar: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close cookie jar: %w", err)
	}

	if err := os.Rename(tmp.Name(), j.path); err != nil {
		return fmt.Errorf("failed to replace cookie jar: %w", err)
	}
	return nil
}
