package main

import (
	"fmt"

	// Packages
	otel "github.com/mutablelogic/go-client/pkg/otel"
	settings "github.com/mutablelogic/go-settings"
	store "github.com/mutablelogic/go-settings/pkg/store"
	version "github.com/mutablelogic/go-settings/pkg/version"
	attribute "go.opentelemetry.io/otel/attribute"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

type GetCommand struct {
	Key     string  `arg:"" name:"key" help:"Setting name"`
	Default *string `name:"default" help:"Value (JSON or plain text) returned when the setting is missing" optional:""`
	Add     bool    `name:"add" help:"Store the default when the setting is missing"`
	Refresh bool    `name:"refresh" help:"Re-read the settings file before the lookup"`
}

type SetCommand struct {
	Key   string `arg:"" name:"key" help:"Setting name"`
	Value string `arg:"" name:"value" help:"Value, parsed as JSON when valid and otherwise stored as text"`
}

type DeleteCommand struct {
	Key       string `arg:"" name:"key" help:"Setting name"`
	NoPersist bool   `name:"no-persist" help:"Do not rewrite the settings file"`
}

type DumpCommand struct {
	Format string `name:"format" help:"Output format" enum:"json,yaml" default:"json"`
}

type KeysCommand struct{}

type VersionCommand struct {
	Format string `name:"format" help:"Output format" enum:"json,yaml" default:"json"`
}

///////////////////////////////////////////////////////////////////////////////
// COMMANDS

func (cmd *GetCommand) Run(ctx *Globals) (err error) {
	s, err := ctx.Store()
	if err != nil {
		return err
	}

	// OTEL
	parent, endSpan := otel.StartSpan(ctx.tracer, ctx.ctx, "GetCommand",
		attribute.String("key", cmd.Key),
	)
	defer func() { endSpan(err) }()

	opts := []store.GetOpt{}
	if cmd.Default != nil {
		opts = append(opts, store.WithDefault(parseValue(*cmd.Default)))
	}
	if cmd.Add {
		opts = append(opts, store.WithAdd())
	}
	if cmd.Refresh {
		opts = append(opts, store.WithRefresh())
	}

	value, err := s.Get(parent, cmd.Key, opts...)
	if err != nil {
		return err
	}
	return writeValue(ctx.out, value)
}

func (cmd *SetCommand) Run(ctx *Globals) (err error) {
	s, err := ctx.Store()
	if err != nil {
		return err
	}

	// OTEL
	parent, endSpan := otel.StartSpan(ctx.tracer, ctx.ctx, "SetCommand",
		attribute.String("key", cmd.Key),
	)
	defer func() { endSpan(err) }()

	return s.Set(parent, cmd.Key, parseValue(cmd.Value))
}

func (cmd *DeleteCommand) Run(ctx *Globals) (err error) {
	s, err := ctx.Store()
	if err != nil {
		return err
	}

	// OTEL
	parent, endSpan := otel.StartSpan(ctx.tracer, ctx.ctx, "DeleteCommand",
		attribute.String("key", cmd.Key),
	)
	defer func() { endSpan(err) }()

	deleted, err := s.Delete(parent, cmd.Key, !cmd.NoPersist)
	if err != nil {
		return err
	} else if !deleted {
		return settings.ErrNotFound.Withf("setting %q", cmd.Key)
	}
	return nil
}

func (cmd *DumpCommand) Run(ctx *Globals) error {
	s, err := ctx.Store()
	if err != nil {
		return err
	}
	return writeFormat(ctx.out, cmd.Format, s.Dump())
}

func (cmd *KeysCommand) Run(ctx *Globals) error {
	s, err := ctx.Store()
	if err != nil {
		return err
	}
	for _, key := range s.Keys() {
		if _, err := fmt.Fprintln(ctx.out, key); err != nil {
			return err
		}
	}
	return nil
}

func (cmd *VersionCommand) Run(ctx *Globals) error {
	return writeFormat(ctx.out, cmd.Format, version.Get(ctx.execName))
}
