package store_test

import (
	"bytes"
	"context"
	"testing"

	// Packages
	store "github.com/mutablelogic/go-settings/pkg/store"
	assert "github.com/stretchr/testify/assert"
)

// Test the logger reports file creation and added defaults
func Test_logger_001(t *testing.T) {
	assert := assert.New(t)
	var buf bytes.Buffer
	s, err := store.New(t.TempDir(), store.WithLogger(store.NewLogger(&buf)))
	if !assert.NoError(err) {
		t.FailNow()
	}
	assert.Contains(buf.String(), "settings: ")
	assert.Contains(buf.String(), "created")

	buf.Reset()
	_, err = s.Get(context.TODO(), "theme", store.WithDefault("dark"), store.WithAdd())
	assert.NoError(err)
	assert.Contains(buf.String(), `added default for "theme"`)
}
