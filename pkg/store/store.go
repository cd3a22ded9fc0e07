// Package store implements a persistent key-value settings store backed by
// a single JSON file.
//
// Every mutation is written through to disk by replacing the whole file,
// serialised with sorted keys and a four-space indent. The file is read back
// before each Set, so edits made by other programs between operations are
// kept. A Store is safe for concurrent use within a process. Separate
// processes sharing a file should use WithFileLock or WithLocker, otherwise
// the last writer wins.
package store

import (
	"context"
	"errors"
	"os"
	"sort"
	"sync"

	// Packages
	otel "github.com/mutablelogic/go-client/pkg/otel"
	settings "github.com/mutablelogic/go-settings"
	lock "github.com/mutablelogic/go-settings/pkg/lock"
	attribute "go.opentelemetry.io/otel/attribute"
	trace "go.opentelemetry.io/otel/trace"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// Store is a settings file and its in-memory contents
type Store struct {
	mu       sync.RWMutex
	dir      string
	path     string
	perm     os.FileMode
	locker   lock.Locker
	tracer   trace.Tracer
	logger   Logger
	contents map[string]any
}

///////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// New opens the settings file for path. When path is an existing regular
// file its directory is used, otherwise path is taken as the directory.
// The file within it is named by WithFilename.
//
// A missing directory or file is created unless WithCreate(false) is given,
// in which case New returns ErrNotFound and creates nothing. A file which is
// not a JSON object returns ErrMalformed. On success the file is rewritten
// in canonical form.
func New(path string, opts ...Opt) (*Store, error) {
	o, err := applyOpts(opts...)
	if err != nil {
		return nil, err
	}
	dir, file, err := resolve(path, o.filename)
	if err != nil {
		return nil, err
	}
	if err := ensureDir(dir, o.create, o.dirPerm); err != nil {
		return nil, err
	}
	if !o.create {
		if found, err := exists(file); err != nil {
			return nil, err
		} else if !found {
			return nil, settings.ErrNotFound.Withf("file %q", file)
		}
	}
	if o.fileLock {
		locker, err := lock.NewFile(file + lockExt)
		if err != nil {
			return nil, err
		}
		o.locker = locker
	}

	s := &Store{
		dir:      dir,
		path:     file,
		perm:     o.filePerm,
		locker:   o.locker,
		tracer:   o.tracer,
		logger:   o.logger,
		contents: map[string]any{},
	}
	if err := s.withLock(context.Background(), s.open); err != nil {
		return nil, err
	}

	// Return success
	return s, nil
}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Dir returns the absolute directory containing the settings file
func (s *Store) Dir() string {
	return s.dir
}

// Path returns the absolute path of the settings file
func (s *Store) Path() string {
	return s.path
}

// Update replaces the in-memory contents with those on disk. On error the
// previous contents are kept.
func (s *Store) Update(ctx context.Context) (err error) {
	_, endSpan := otel.StartSpan(s.tracer, ctx, "Update",
		attribute.String("path", s.path),
	)
	defer func() { endSpan(err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.refresh()
}

// Set re-reads the file, assigns value to key and writes the file. The value
// must be JSON serialisable and is stored in its decoded JSON form.
func (s *Store) Set(ctx context.Context, key string, value any) (err error) {
	ctx, endSpan := otel.StartSpan(s.tracer, ctx, "Set",
		attribute.String("path", s.path),
		attribute.String("key", key),
	)
	defer func() { endSpan(err) }()

	v, err := normalise(value)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.withLock(ctx, func() error {
		return s.set(key, v)
	})
}

// Get returns the value for key. When the key is absent the value given by
// WithDefault is returned, or nil, and WithAdd also persists it. WithRefresh
// re-reads the file first.
func (s *Store) Get(ctx context.Context, key string, opts ...GetOpt) (result any, err error) {
	o := applyGetOpts(opts...)
	ctx, endSpan := otel.StartSpan(s.tracer, ctx, "Get",
		attribute.String("path", s.path),
		attribute.String("key", key),
		attribute.Bool("add", o.add),
		attribute.Bool("refresh", o.refresh),
	)
	defer func() { endSpan(err) }()

	// Fast path without touching the file
	if !o.add && !o.refresh {
		s.mu.RLock()
		defer s.mu.RUnlock()
		if v, exists := s.contents[key]; exists {
			return clone(v), nil
		}
		return normalise(o.def)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if o.refresh {
		if err := s.refresh(); err != nil {
			return nil, err
		}
	}
	if v, exists := s.contents[key]; exists {
		return clone(v), nil
	}
	def, err := normalise(o.def)
	if err != nil {
		return nil, err
	}
	if o.add {
		if err := s.withLock(ctx, func() error {
			return s.set(key, def)
		}); err != nil {
			return nil, err
		}
		s.logger.Printf(ctx, "added default for %q", key)
	}
	return clone(def), nil
}

// Delete removes key from the contents and returns true if it was present.
// A missing key returns false and is not an error. With persist the file is
// rewritten, otherwise the removal reaches disk with the next write.
func (s *Store) Delete(ctx context.Context, key string, persist bool) (deleted bool, err error) {
	ctx, endSpan := otel.StartSpan(s.tracer, ctx, "Delete",
		attribute.String("path", s.path),
		attribute.String("key", key),
		attribute.Bool("persist", persist),
	)
	defer func() { endSpan(err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	v, exists := s.contents[key]
	if !exists {
		return false, nil
	}
	delete(s.contents, key)
	if !persist {
		return true, nil
	}
	if err := s.withLock(ctx, s.write); err != nil {
		s.contents[key] = v
		return false, err
	}
	return true, nil
}

// Dump returns a deep copy of the in-memory contents
func (s *Store) Dump() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return clone(s.contents).(map[string]any)
}

// Keys returns the keys of the in-memory contents in sorted order
func (s *Store) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.contents))
	for key := range s.contents {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

// open creates the file if missing, reads it and writes it back in
// canonical form.
func (s *Store) open() error {
	found, err := exists(s.path)
	if err != nil {
		return err
	}
	if !found {
		if err := writeJSON(s.path, map[string]any{}, s.perm); err != nil {
			return err
		}
		s.logger.Printf(context.Background(), "created %q", s.path)
	}
	if err := s.refresh(); err != nil {
		return err
	}
	return s.write()
}

// refresh replaces contents with the file on disk
func (s *Store) refresh() error {
	contents, err := readJSON(s.path)
	if err != nil {
		if errors.Is(err, settings.ErrMalformed) {
			s.logger.Print(context.Background(), err)
		}
		return err
	}
	s.contents = contents
	return nil
}

// set re-reads the file, assigns key and writes the file. The previous
// value is restored if the write fails.
func (s *Store) set(key string, value any) error {
	if err := s.refresh(); err != nil {
		return err
	}
	prev, existed := s.contents[key]
	s.contents[key] = value
	if err := s.write(); err != nil {
		if existed {
			s.contents[key] = prev
		} else {
			delete(s.contents, key)
		}
		return err
	}
	return nil
}

// write serialises contents to the file
func (s *Store) write() error {
	return writeJSON(s.path, s.contents, s.perm)
}

// withLock holds the locker while fn runs
func (s *Store) withLock(ctx context.Context, fn func() error) (err error) {
	if err := s.locker.Lock(ctx); err != nil {
		return err
	}
	defer func() {
		if unlockErr := s.locker.Unlock(); err == nil {
			err = unlockErr
		}
	}()
	return fn()
}
