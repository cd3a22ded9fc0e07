package telemetry_test

import (
	"context"
	"errors"
	"testing"

	// Packages
	settings "github.com/mutablelogic/go-settings"
	telemetry "github.com/mutablelogic/go-settings/pkg/telemetry"
	assert "github.com/stretchr/testify/assert"
)

// Test tracing is disabled without an endpoint
func Test_telemetry_001(t *testing.T) {
	assert := assert.New(t)
	tracer, shutdown, err := telemetry.Setup(context.TODO(), "settings", "dev", "")
	assert.NoError(err)
	assert.Nil(tracer)
	assert.NotNil(shutdown)
	assert.NoError(shutdown(context.TODO()))
}

// Test a service name is required when an endpoint is set
func Test_telemetry_002(t *testing.T) {
	assert := assert.New(t)
	_, _, err := telemetry.Setup(context.TODO(), "", "dev", "http://localhost:4318")
	assert.True(errors.Is(err, settings.ErrBadParameter))
}

// Test an endpoint yields a tracer; the exporter connects lazily
func Test_telemetry_003(t *testing.T) {
	assert := assert.New(t)
	tracer, shutdown, err := telemetry.Setup(context.TODO(), "settings", "dev", "http://localhost:4318")
	assert.NoError(err)
	assert.NotNil(tracer)
	_, span := tracer.Start(context.TODO(), "test")
	span.End()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_ = shutdown(ctx)
}
