package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	// Packages
	kong "github.com/alecthomas/kong"
	store "github.com/mutablelogic/go-settings/pkg/store"
	telemetry "github.com/mutablelogic/go-settings/pkg/telemetry"
	version "github.com/mutablelogic/go-settings/pkg/version"
	trace "go.opentelemetry.io/otel/trace"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

type CLI struct {
	Globals

	// Commands
	Get     GetCommand     `cmd:"" help:"Get a setting"`
	Set     SetCommand     `cmd:"" help:"Set a setting"`
	Delete  DeleteCommand  `cmd:"" help:"Delete a setting"`
	Dump    DumpCommand    `cmd:"" help:"Dump all settings"`
	Keys    KeysCommand    `cmd:"" help:"List setting names"`
	Version VersionCommand `cmd:"" help:"Print version information"`
}

type Globals struct {
	Path     string `name:"path" env:"SETTINGS_PATH" help:"Settings directory, or a file whose directory is used" default:"."`
	Filename string `name:"filename" env:"SETTINGS_FILENAME" help:"Settings file name within the directory" default:"settings.ini"`
	NoCreate bool   `name:"no-create" help:"Fail if the settings file does not exist"`
	Lock     bool   `name:"lock" help:"Hold an advisory lock file while writing"`
	Debug    bool   `name:"debug" help:"Enable debug output"`

	// OpenTelemetry
	OTel struct {
		Endpoint string `name:"endpoint" env:"OTEL_EXPORTER_OTLP_ENDPOINT" help:"OTLP/HTTP endpoint for traces" optional:""`
	} `embed:"" prefix:"otel."`

	// Private
	ctx      context.Context
	execName string
	tracer   trace.Tracer
	out      io.Writer
	store    *store.Store
}

///////////////////////////////////////////////////////////////////////////////
// MAIN

func main() {
	cli := CLI{}
	cmd := kong.Parse(&cli,
		kong.Name(execName()),
		kong.Description("Persistent JSON settings store"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{Compact: true}),
	)

	// Create a context
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	cli.Globals.ctx = ctx
	cli.Globals.execName = execName()
	cli.Globals.out = os.Stdout

	// Tracing
	tracer, shutdown, err := telemetry.Setup(ctx, cli.Globals.execName, version.Version(), cli.OTel.Endpoint)
	cmd.FatalIfErrorf(err)
	cli.Globals.tracer = tracer

	// Run the command, flushing spans before reporting any error
	err = cmd.Run(&cli.Globals)
	_ = shutdown(context.Background())
	cmd.FatalIfErrorf(err)
}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Store opens the settings store described by the global flags
func (g *Globals) Store() (*store.Store, error) {
	if g.store != nil {
		return g.store, nil
	}
	opts := []store.Opt{
		store.WithFilename(g.Filename),
		store.WithCreate(!g.NoCreate),
		store.WithTracer(g.tracer),
	}
	if g.Lock {
		opts = append(opts, store.WithFileLock())
	}
	if g.Debug {
		opts = append(opts, store.WithLogger(store.NewLogger(os.Stderr)))
	}
	s, err := store.New(g.Path, opts...)
	if err != nil {
		return nil, err
	}
	g.store = s
	return s, nil
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

func execName() string {
	name, err := os.Executable()
	if err != nil {
		panic(err)
	}
	return filepath.Base(name)
}
