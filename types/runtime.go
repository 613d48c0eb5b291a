package types

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Runtime describes one language/version pair the API can execute.
type Runtime struct {
	Language string   `json:"language"`
	Version  string   `json:"version"`
	Aliases  []string `json:"aliases"`
	Compiled bool     `json:"compiled"`
}

// Matches reports whether name equals the language or one of its aliases,
// ignoring case.
func (r Runtime) Matches(name string) bool {
	if strings.EqualFold(r.Language, name) {
		return true
	}
	for _, a := range r.Aliases {
		if strings.EqualFold(a, name) {
			return true
		}
	}
	return false
}

// UnmarshalJSON decodes a Runtime, requiring every key.
func (r *Runtime) UnmarshalJSON(data []byte) error {
	return r.decode(data, "")
}

func (r *Runtime) decode(data []byte, path string) error {
	f, err := decodeFields(data, path)
	if err != nil {
		return err
	}
	var rt Runtime
	if err := f.decode(path, "language", &rt.Language); err != nil {
		return err
	}
	if err := f.decode(path, "version", &rt.Version); err != nil {
		return err
	}
	if err := f.decode(path, "aliases", &rt.Aliases); err != nil {
		return err
	}
	if err := f.decode(path, "compiled", &rt.Compiled); err != nil {
		return err
	}
	*r = rt
	return nil
}

// RuntimeCatalog is the body of GET /api/list-runtimes. Order and duplicates
// are kept exactly as the API sent them.
type RuntimeCatalog struct {
	Runtimes []Runtime `json:"runtime"`
}

// UnmarshalJSON decodes the catalog, requiring the runtime array and every
// key of each element.
func (c *RuntimeCatalog) UnmarshalJSON(data []byte) error {
	f, err := decodeFields(data, "")
	if err != nil {
		return err
	}
	var items []json.RawMessage
	if err := f.decode("", "runtime", &items); err != nil {
		return err
	}
	runtimes := make([]Runtime, len(items))
	for i, item := range items {
		if err := runtimes[i].decode(item, fmt.Sprintf("runtime[%d]", i)); err != nil {
			return err
		}
	}
	c.Runtimes = runtimes
	return nil
}

// Len returns the number of runtimes.
func (c RuntimeCatalog) Len() int { return len(c.Runtimes) }
