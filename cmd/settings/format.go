package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	// Packages
	settings "github.com/mutablelogic/go-settings"
	yaml "gopkg.in/yaml.v3"
)

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

// parseValue returns the decoded JSON value of text, or text itself when it
// is not valid JSON.
func parseValue(text string) any {
	var v any
	dec := json.NewDecoder(bytes.NewReader([]byte(text)))
	dec.UseNumber()
	if err := dec.Decode(&v); err != nil || dec.More() {
		return text
	}
	return v
}

// writeValue prints strings as plain text and other values as JSON
func writeValue(w io.Writer, v any) error {
	if s, ok := v.(string); ok {
		_, err := fmt.Fprintln(w, s)
		return err
	}
	return writeFormat(w, "json", v)
}

// writeFormat prints v as indented JSON or as YAML
func writeFormat(w io.Writer, format string, v any) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "    ")
		return enc.Encode(v)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(plain(v)); err != nil {
			return err
		}
		return enc.Close()
	default:
		return settings.ErrBadParameter.Withf("unsupported format %q", format)
	}
}

// plain replaces json.Number with int64 or float64 so YAML renders numbers
// rather than quoted strings.
func plain(v any) any {
	switch v := v.(type) {
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return n
		}
		if f, err := v.Float64(); err == nil {
			return f
		}
		return v.String()
	case map[string]any:
		result := make(map[string]any, len(v))
		for key, value := range v {
			result[key] = plain(value)
		}
		return result
	case []any:
		result := make([]any, len(v))
		for i, value := range v {
			result[i] = plain(value)
		}
		return result
	default:
		return v
	}
}
