package catalog

import (
	"errors"
	"fmt"

	"github.com/teknologi-umum/pesto/types"
)

// ErrUnknownRuntime indicates no runtime matches the requested name and
// version.
var ErrUnknownRuntime = errors.New("unknown runtime")

// Resolve finds the runtime for a language name or alias, ignoring case.
// An empty version picks the last match in API order; otherwise the first
// exact version match wins.
func Resolve(rc types.RuntimeCatalog, name, version string) (types.Runtime, error) {
	var (
		found types.Runtime
		ok    bool
	)
	for _, rt := range rc.Runtimes {
		if !rt.Matches(name) {
			continue
		}
		if version == "" {
			found, ok = rt, true
			continue
		}
		if rt.Version == version {
			return rt, nil
		}
	}
	if ok {
		return found, nil
	}
	if version == "" {
		return types.Runtime{}, fmt.Errorf("%w: %s", ErrUnknownRuntime, name)
	}
	return types.Runtime{}, fmt.Errorf("%w: %s %s", ErrUnknownRuntime, name, version)
}
