package store

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	// Packages
	settings "github.com/mutablelogic/go-settings"
	assert "github.com/stretchr/testify/assert"
)

///////////////////////////////////////////////////////////////////////////////
// FILE UTILITY TESTS

// Test resolve with a file, an existing directory and a missing directory
func Test_file_001(t *testing.T) {
	assert := assert.New(t)
	dir := t.TempDir()
	file := filepath.Join(dir, "app.bin")
	assert.NoError(os.WriteFile(file, nil, FilePerm))

	d, p, err := resolve(file, DefaultFilename)
	assert.NoError(err)
	assert.Equal(dir, d)
	assert.Equal(filepath.Join(dir, DefaultFilename), p)

	d, p, err = resolve(dir, "other.json")
	assert.NoError(err)
	assert.Equal(dir, d)
	assert.Equal(filepath.Join(dir, "other.json"), p)

	missing := filepath.Join(dir, "missing")
	d, _, err = resolve(missing, DefaultFilename)
	assert.NoError(err)
	assert.Equal(missing, d)
}

// Test resolve makes relative paths absolute
func Test_file_002(t *testing.T) {
	assert := assert.New(t)
	d, p, err := resolve("relative", DefaultFilename)
	assert.NoError(err)
	assert.True(filepath.IsAbs(d))
	assert.True(filepath.IsAbs(p))
	assert.Equal("relative", filepath.Base(d))
}

// Test resolve rejects bad filenames
func Test_file_003(t *testing.T) {
	assert := assert.New(t)
	for _, name := range []string{"", ".", "..", "a/b", "/abs"} {
		_, _, err := resolve(t.TempDir(), name)
		assert.True(errors.Is(err, settings.ErrBadParameter), "filename %q", name)
	}
}

// Test marshal output is canonical
func Test_file_004(t *testing.T) {
	assert := assert.New(t)
	data, err := marshal(nil)
	assert.NoError(err)
	assert.Equal("{}", string(data))

	data, err = marshal(map[string]any{"b": json.Number("2"), "a": []any{}, "c": map[string]any{}})
	assert.NoError(err)
	assert.Equal("{\n    \"a\": [],\n    \"b\": 2,\n    \"c\": {}\n}", string(data))
}

// Test unmarshal accepts one object, with surrounding whitespace
func Test_file_005(t *testing.T) {
	assert := assert.New(t)
	contents, err := unmarshal([]byte("  {\"a\": 1}\n\n"))
	assert.NoError(err)
	assert.Equal(map[string]any{"a": json.Number("1")}, contents)

	contents, err = unmarshal([]byte("null"))
	assert.NoError(err)
	assert.NotNil(contents)
	assert.Empty(contents)

	_, err = unmarshal([]byte("{} []"))
	assert.Error(err)
}

// Test readJSON maps errors to sentinels
func Test_file_006(t *testing.T) {
	assert := assert.New(t)
	dir := t.TempDir()

	_, err := readJSON(filepath.Join(dir, "missing.json"))
	assert.True(errors.Is(err, settings.ErrNotFound))

	path := filepath.Join(dir, "bad.json")
	assert.NoError(os.WriteFile(path, []byte("{"), FilePerm))
	_, err = readJSON(path)
	assert.True(errors.Is(err, settings.ErrMalformed))
}

// Test ensureDir without create reports a missing directory
func Test_file_007(t *testing.T) {
	assert := assert.New(t)
	dir := filepath.Join(t.TempDir(), "a", "b")
	err := ensureDir(dir, false, DirPerm)
	assert.True(errors.Is(err, settings.ErrNotFound))
	assert.NoError(ensureDir(dir, true, DirPerm))
	assert.DirExists(dir)

	file := filepath.Join(dir, "file")
	assert.NoError(os.WriteFile(file, nil, FilePerm))
	err = ensureDir(file, true, DirPerm)
	assert.True(errors.Is(err, settings.ErrBadParameter))
}

// Test normalise and clone
func Test_file_008(t *testing.T) {
	assert := assert.New(t)
	v, err := normalise([]int{1, 2})
	assert.NoError(err)
	assert.Equal([]any{json.Number("1"), json.Number("2")}, v)

	v, err = normalise(map[string]int{"a": 1})
	assert.NoError(err)
	assert.Equal(map[string]any{"a": json.Number("1")}, v)

	_, err = normalise(make(chan int))
	assert.True(errors.Is(err, settings.ErrBadParameter))

	src := map[string]any{"list": []any{"x"}}
	dst := clone(src).(map[string]any)
	dst["list"].([]any)[0] = "y"
	assert.Equal("x", src["list"].([]any)[0])
}
