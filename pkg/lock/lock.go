// Package lock provides the lock strategies a settings store can hold
// around each read-modify-write of its file.
//
// The store itself only guards its in-memory state. Processes sharing a
// settings file race unless they share a file lock from NewFile.
package lock

import (
	"context"
	"time"

	// Packages
	flock "github.com/gofrs/flock"
	settings "github.com/mutablelogic/go-settings"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// Locker is acquired before a store reads its file for modification and
// released after the write.
type Locker interface {
	// Lock blocks until the lock is held or ctx is done.
	Lock(ctx context.Context) error

	// Unlock releases a held lock.
	Unlock() error
}

type nop struct{}

type mutex struct {
	ch chan struct{}
}

// File is an advisory lock on a sidecar file, safe to share between
// processes.
type File struct {
	flock *flock.Flock
	retry time.Duration
}

var _ Locker = nop{}
var _ Locker = (*mutex)(nil)
var _ Locker = (*File)(nil)

///////////////////////////////////////////////////////////////////////////////
// GLOBALS

const (
	// DefaultRetry is the interval between attempts to take a file lock.
	DefaultRetry = 50 * time.Millisecond
)

///////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// Nop returns a Locker which never blocks.
func Nop() Locker {
	return nop{}
}

// NewMutex returns a process-local Locker. Share one between stores opened
// on the same file to serialise them.
func NewMutex() Locker {
	return &mutex{ch: make(chan struct{}, 1)}
}

// NewFile returns an advisory lock on path. The lock file is created on
// first acquisition and never removed.
func NewFile(path string) (*File, error) {
	if path == "" {
		return nil, settings.ErrBadParameter.With("lock path is required")
	}
	return &File{
		flock: flock.New(path),
		retry: DefaultRetry,
	}, nil
}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS - NOP

func (nop) Lock(context.Context) error { return nil }
func (nop) Unlock() error              { return nil }

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS - MUTEX

// Lock acquires the mutex, giving up when ctx is done.
func (m *mutex) Lock(ctx context.Context) error {
	select {
	case m.ch <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Unlock releases the mutex.
func (m *mutex) Unlock() error {
	select {
	case <-m.ch:
		return nil
	default:
		return settings.ErrBadParameter.With("unlock of unlocked mutex")
	}
}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS - FILE

// Path returns the path of the lock file.
func (f *File) Path() string {
	return f.flock.Path()
}

// Lock takes an exclusive lock, retrying until it is held or ctx is done.
func (f *File) Lock(ctx context.Context) error {
	locked, err := f.flock.TryLockContext(ctx, f.retry)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return settings.ErrInternalServerError.Withf("lock %q: %v", f.Path(), err)
	}
	if !locked {
		return settings.ErrInternalServerError.Withf("lock %q: not acquired", f.Path())
	}
	return nil
}

// Unlock releases the lock.
func (f *File) Unlock() error {
	if err := f.flock.Unlock(); err != nil {
		return settings.ErrInternalServerError.Withf("unlock %q: %v", f.Path(), err)
	}
	return nil
}
