// Package config loads the pesto CLI config file.
package config

import (
	"os"
	"regexp"
)

// envRef matches ${VAR} and ${VAR:-default}. A bare $VAR is left alone so
// tokens and URLs containing '$' survive.
var envRef = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(?::-([^}]*))?\}`)

// ExpandEnv substitutes environment references in config text.
//
// A reference expands to the variable's value when it is non-empty,
// otherwise to its default (empty when none is given). A token left empty
// this way fails later with pesto.ErrEmptyToken.
func ExpandEnv(input string) string {
	return envRef.ReplaceAllStringFunc(input, func(ref string) string {
		m := envRef.FindStringSubmatch(ref)
		if v := os.Getenv(m[1]); v != "" {
			return v
		}
		return m[2]
	})
}
