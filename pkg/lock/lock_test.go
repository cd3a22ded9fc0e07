package lock_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	// Packages
	settings "github.com/mutablelogic/go-settings"
	lock "github.com/mutablelogic/go-settings/pkg/lock"
	assert "github.com/stretchr/testify/assert"
)

///////////////////////////////////////////////////////////////////////////////
// NOP

func Test_lock_001(t *testing.T) {
	assert := assert.New(t)
	l := lock.Nop()
	assert.NoError(l.Lock(context.TODO()))
	assert.NoError(l.Lock(context.TODO()))
	assert.NoError(l.Unlock())
}

///////////////////////////////////////////////////////////////////////////////
// MUTEX

// Lock, unlock, lock again
func Test_lock_002(t *testing.T) {
	assert := assert.New(t)
	l := lock.NewMutex()
	assert.NoError(l.Lock(context.TODO()))
	assert.NoError(l.Unlock())
	assert.NoError(l.Lock(context.TODO()))
	assert.NoError(l.Unlock())
}

// A held mutex blocks until the context expires
func Test_lock_003(t *testing.T) {
	assert := assert.New(t)
	l := lock.NewMutex()
	assert.NoError(l.Lock(context.TODO()))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := l.Lock(ctx)
	assert.ErrorIs(err, context.DeadlineExceeded)
	assert.NoError(l.Unlock())
}

// Unlock without a lock is an error
func Test_lock_004(t *testing.T) {
	assert := assert.New(t)
	err := lock.NewMutex().Unlock()
	assert.True(errors.Is(err, settings.ErrBadParameter))
}

///////////////////////////////////////////////////////////////////////////////
// FILE

// Empty path is rejected
func Test_lock_005(t *testing.T) {
	assert := assert.New(t)
	_, err := lock.NewFile("")
	assert.True(errors.Is(err, settings.ErrBadParameter))
}

// Lock and unlock creates the lock file
func Test_lock_006(t *testing.T) {
	assert := assert.New(t)
	path := filepath.Join(t.TempDir(), "settings.ini.lock")
	l, err := lock.NewFile(path)
	assert.NoError(err)
	assert.Equal(path, l.Path())
	assert.NoError(l.Lock(context.TODO()))
	assert.FileExists(path)
	assert.NoError(l.Unlock())
}

// A second lock on the same file waits until the first is released
func Test_lock_007(t *testing.T) {
	assert := assert.New(t)
	path := filepath.Join(t.TempDir(), "settings.ini.lock")
	a, _ := lock.NewFile(path)
	b, _ := lock.NewFile(path)

	assert.NoError(a.Lock(context.TODO()))

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	assert.Error(b.Lock(ctx))

	assert.NoError(a.Unlock())
	assert.NoError(b.Lock(context.TODO()))
	assert.NoError(b.Unlock())
}
