package store

import (
	"bytes"
	"encoding/json"

	// Packages
	settings "github.com/mutablelogic/go-settings"
)

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// GetString returns the string value for key, or an empty string if the key
// is missing or not a string.
func (s *Store) GetString(key string) string {
	v, _ := s.value(key).(string)
	return v
}

// GetBool returns the boolean value for key, or false if the key is missing
// or not a boolean.
func (s *Store) GetBool(key string) bool {
	v, _ := s.value(key).(bool)
	return v
}

// GetInt returns the integer value for key, or zero if the key is missing
// or not an integer.
func (s *Store) GetInt(key string) int64 {
	if n, ok := s.value(key).(json.Number); ok {
		if v, err := n.Int64(); err == nil {
			return v
		}
	}
	return 0
}

// GetFloat64 returns the numeric value for key, or zero if the key is
// missing or not a number.
func (s *Store) GetFloat64(key string) float64 {
	if n, ok := s.value(key).(json.Number); ok {
		if v, err := n.Float64(); err == nil {
			return v
		}
	}
	return 0
}

// Decode unmarshals the value for key into v, which should be a pointer.
// Returns ErrNotFound if the key is missing.
func (s *Store) Decode(key string, v any) error {
	s.mu.RLock()
	value, exists := s.contents[key]
	s.mu.RUnlock()
	if !exists {
		return settings.ErrNotFound.Withf("key %q", key)
	}
	data, err := json.Marshal(value)
	if err != nil {
		return settings.ErrInternalServerError.Withf("marshal: %v", err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return settings.ErrBadParameter.Withf("key %q: %v", key, err)
	}
	return nil
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

func (s *Store) value(key string) any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.contents[key]
}

// normalise returns v in the form it takes after a round trip through the
// file: nil, string, bool, json.Number, []any or map[string]any.
func normalise(v any) (any, error) {
	switch v := v.(type) {
	case nil, string, bool:
		return v, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, settings.ErrBadParameter.Withf("marshal: %v", err)
	}
	var result any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&result); err != nil {
		return nil, settings.ErrInternalServerError.Withf("unmarshal: %v", err)
	}
	return result, nil
}

// clone returns a deep copy of a normalised value
func clone(v any) any {
	switch v := v.(type) {
	case map[string]any:
		result := make(map[string]any, len(v))
		for key, value := range v {
			result[key] = clone(value)
		}
		return result
	case []any:
		result := make([]any, len(v))
		for i, value := range v {
			result[i] = clone(value)
		}
		return result
	default:
		return v
	}
}
