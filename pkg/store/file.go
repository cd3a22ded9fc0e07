package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"

	// Packages
	settings "github.com/mutablelogic/go-settings"
)

///////////////////////////////////////////////////////////////////////////////
// GLOBALS

const (
	DefaultFilename             = "settings.ini"
	DirPerm         os.FileMode = 0o755 // Directory permission when creating the settings directory
	FilePerm        os.FileMode = 0o644 // File permission for the settings file
	indent                      = "    "
	lockExt                     = ".lock"
)

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS - FILE UTILITIES

// resolve returns the settings directory and absolute file path for a base
// path, which is either an existing file or a directory.
func resolve(base, filename string) (string, string, error) {
	if base == "" {
		return "", "", settings.ErrBadParameter.With("path is required")
	}
	if filename == "" || filename == "." || filename == ".." || filename != filepath.Base(filename) {
		return "", "", settings.ErrBadParameter.Withf("invalid filename %q", filename)
	}

	dir := base
	if info, err := os.Stat(base); err == nil && info.Mode().IsRegular() {
		dir = filepath.Dir(base)
	}
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", "", settings.ErrInternalServerError.Withf("abs: %v", err)
	}
	return dir, filepath.Join(dir, filename), nil
}

// ensureDir creates dir when create is set, and otherwise reports a
// missing directory as not found.
func ensureDir(dir string, create bool, perm os.FileMode) error {
	info, err := os.Stat(dir)
	switch {
	case err == nil && info.IsDir():
		return nil
	case err == nil:
		return settings.ErrBadParameter.Withf("not a directory: %q", dir)
	case !errors.Is(err, os.ErrNotExist):
		return settings.ErrInternalServerError.Withf("stat: %v", err)
	case !create:
		return settings.ErrNotFound.Withf("directory %q", dir)
	}
	if err := os.MkdirAll(dir, perm); err != nil {
		return settings.ErrInternalServerError.Withf("mkdir: %v", err)
	}
	return nil
}

// exists returns true if path names an existing regular file.
func exists(path string) (bool, error) {
	info, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	} else if err != nil {
		return false, settings.ErrInternalServerError.Withf("stat: %v", err)
	} else if !info.Mode().IsRegular() {
		return false, settings.ErrBadParameter.Withf("not a regular file: %q", path)
	}
	return true, nil
}

// marshal encodes contents with sorted keys and a fixed indent. HTML
// characters are not escaped and there is no trailing newline.
func marshal(contents map[string]any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", indent)
	if contents == nil {
		contents = map[string]any{}
	}
	if err := enc.Encode(contents); err != nil {
		return nil, settings.ErrBadParameter.Withf("marshal: %v", err)
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// unmarshal decodes a single JSON object and nothing else. Numbers are kept
// as json.Number. A null document decodes to an empty mapping.
func unmarshal(data []byte) (map[string]any, error) {
	var contents map[string]any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&contents); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.New("trailing data after object")
	}
	if contents == nil {
		contents = map[string]any{}
	}
	return contents, nil
}

// writeJSON replaces the file at path with the serialised contents. The
// data is written to a temp file in the same directory, synced and renamed
// over path, so readers never observe a partial document.
func writeJSON(path string, contents map[string]any, perm os.FileMode) error {
	data, err := marshal(contents)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+"-*.tmp")
	if err != nil {
		return settings.ErrInternalServerError.Withf("create temp: %v", err)
	}
	defer func() {
		tmp.Close()
		os.Remove(tmp.Name())
	}()

	if _, err := tmp.Write(data); err != nil {
		return settings.ErrInternalServerError.Withf("write: %v", err)
	}
	if err := tmp.Chmod(perm); err != nil {
		return settings.ErrInternalServerError.Withf("chmod: %v", err)
	}
	if err := tmp.Sync(); err != nil {
		return settings.ErrInternalServerError.Withf("sync: %v", err)
	}
	if err := tmp.Close(); err != nil {
		return settings.ErrInternalServerError.Withf("close: %v", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return settings.ErrInternalServerError.Withf("rename: %v", err)
	}
	return nil
}

// readJSON reads and decodes the file at path. Returns ErrNotFound when the
// file does not exist and ErrMalformed when it is not a JSON object.
func readJSON(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, settings.ErrNotFound.Withf("file %q", path)
		}
		return nil, settings.ErrInternalServerError.Withf("read: %v", err)
	}
	contents, err := unmarshal(data)
	if err != nil {
		return nil, settings.ErrMalformed.Withf("%q: %v", path, err)
	}
	return contents, nil
}
