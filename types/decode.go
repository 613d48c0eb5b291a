// Package types defines the JSON records exchanged with the Pesto API.
//
// Request records marshal through struct tags and are never validated on the
// client side; the API is authoritative on validation. Response records use
// strict decoders: a missing key is an error wrapping ErrMissingField rather
// than a silently zeroed field.
//
//nolint:revive // types is a common Go package naming convention
package types

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrMissingField indicates a response body lacks a key the SDK relies on.
// Use errors.Is(err, ErrMissingField) to detect it.
var ErrMissingField = errors.New("missing field")

// fields is a JSON object decoded one level deep.
type fields map[string]json.RawMessage

// decodeFields parses data as a JSON object. path names the object in error
// messages ("" for the document root).
func decodeFields(data []byte, path string) (fields, error) {
	var f fields
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode %s: %w", displayPath(path), err)
	}
	if f == nil {
		return nil, fmt.Errorf("%w: %s is null", ErrMissingField, displayPath(path))
	}
	return f, nil
}

// raw returns the raw value under key, or an ErrMissingField error.
func (f fields) raw(path, key string) (json.RawMessage, error) {
	v, ok := f[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMissingField, joinPath(path, key))
	}
	return v, nil
}

// decode unmarshals the value under key into dst.
func (f fields) decode(path, key string, dst any) error {
	v, err := f.raw(path, key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(v, dst); err != nil {
		return fmt.Errorf("decode %s: %w", joinPath(path, key), err)
	}
	return nil
}

func joinPath(path, key string) string {
	if path == "" {
		return key
	}
	return path + "." + key
}

func displayPath(path string) string {
	if path == "" {
		return "body"
	}
	return path
}
