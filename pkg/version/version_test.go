package version_test

import (
	"runtime"
	"testing"

	// Packages
	version "github.com/mutablelogic/go-settings/pkg/version"
	assert "github.com/stretchr/testify/assert"
)

func Test_version_001(t *testing.T) {
	assert := assert.New(t)
	version.GitTag = "v1.2.3"
	defer func() { version.GitTag = "" }()
	assert.Equal("v1.2.3", version.Version())

	info := version.Get("settings")
	assert.Equal("settings", info.Name)
	assert.Equal("v1.2.3", info.Version)
	assert.Equal(runtime.Version(), info.Compiler)
	assert.Equal(runtime.GOOS+"/"+runtime.GOARCH, info.Platform)
}

func Test_version_002(t *testing.T) {
	assert := assert.New(t)
	version.GitBranch = "main"
	defer func() { version.GitBranch = "" }()
	assert.Equal("main", version.Version())
}
