package store

import (
	"os"

	// Packages
	settings "github.com/mutablelogic/go-settings"
	lock "github.com/mutablelogic/go-settings/pkg/lock"
	trace "go.opentelemetry.io/otel/trace"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// Opt is a functional option for configuring a store
type Opt func(*opts) error

// GetOpt is a functional option for a single Get call
type GetOpt func(*getopts)

type opts struct {
	filename string
	create   bool
	filePerm os.FileMode
	dirPerm  os.FileMode
	locker   lock.Locker
	fileLock bool
	tracer   trace.Tracer
	logger   Logger
}

type getopts struct {
	def     any
	add     bool
	refresh bool
}

///////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

func applyOpts(o ...Opt) (*opts, error) {
	opts := &opts{
		filename: DefaultFilename,
		create:   true,
		filePerm: FilePerm,
		dirPerm:  DirPerm,
		locker:   lock.Nop(),
		logger:   discard{},
	}
	for _, opt := range o {
		if err := opt(opts); err != nil {
			return nil, err
		}
	}
	return opts, nil
}

func applyGetOpts(o ...GetOpt) *getopts {
	opts := new(getopts)
	for _, opt := range o {
		opt(opts)
	}
	return opts
}

///////////////////////////////////////////////////////////////////////////////
// STORE OPTIONS

// WithFilename sets the name of the settings file within the directory.
// The default is "settings.ini".
func WithFilename(name string) Opt {
	return func(o *opts) error {
		if name == "" {
			return settings.ErrBadParameter.With("filename is required")
		}
		o.filename = name
		return nil
	}
}

// WithCreate controls whether a missing directory and file are created.
// When false, a missing file fails construction with ErrNotFound.
func WithCreate(create bool) Opt {
	return func(o *opts) error {
		o.create = create
		return nil
	}
}

// WithFileMode sets the permission bits of the settings file
func WithFileMode(perm os.FileMode) Opt {
	return func(o *opts) error {
		if perm&0o600 != 0o600 {
			return settings.ErrBadParameter.Withf("file mode %o is not owner read-write", perm)
		}
		o.filePerm = perm
		return nil
	}
}

// WithDirMode sets the permission bits used when creating the directory
func WithDirMode(perm os.FileMode) Opt {
	return func(o *opts) error {
		if perm&0o700 != 0o700 {
			return settings.ErrBadParameter.Withf("directory mode %o is not owner accessible", perm)
		}
		o.dirPerm = perm
		return nil
	}
}

// WithLocker sets the lock held around each read-modify-write of the file.
// The default never blocks, so separate processes writing the same file race
// and the last writer wins.
func WithLocker(locker lock.Locker) Opt {
	return func(o *opts) error {
		if locker == nil {
			return settings.ErrBadParameter.With("locker is required")
		}
		o.locker = locker
		o.fileLock = false
		return nil
	}
}

// WithFileLock holds an advisory lock on a sidecar "<file>.lock" around each
// read-modify-write. The lock file sits next to the settings file.
func WithFileLock() Opt {
	return func(o *opts) error {
		o.fileLock = true
		return nil
	}
}

// WithTracer sets the tracer used to open a span for each file operation
func WithTracer(tracer trace.Tracer) Opt {
	return func(o *opts) error {
		o.tracer = tracer
		return nil
	}
}

// WithLogger sets the logger for lifecycle messages
func WithLogger(logger Logger) Opt {
	return func(o *opts) error {
		if logger == nil {
			logger = discard{}
		}
		o.logger = logger
		return nil
	}
}

///////////////////////////////////////////////////////////////////////////////
// GET OPTIONS

// WithDefault sets the value returned when the key is absent
func WithDefault(value any) GetOpt {
	return func(o *getopts) {
		o.def = value
	}
}

// WithAdd persists the default when the key is absent
func WithAdd() GetOpt {
	return func(o *getopts) {
		o.add = true
	}
}

// WithRefresh re-reads the file before looking up the key
func WithRefresh() GetOpt {
	return func(o *getopts) {
		o.refresh = true
	}
}
