package pipeline

import (
	"regexp"

	"cifcommon/internal/logging"
)

// Lookup resolves environment variables for ${...} placeholders.
type Lookup interface {
	Lookup(name string) (string, bool)
}

// placeholder matches ${NAME}, ${NAME:-default}, ${NAME|word} and
// ${NAME|word:-default}. Groups: 1 = name, 2 = filter, 3 = default marker, 4 = default.
var placeholder = regexp.MustCompile(`\$\{([a-zA-Z_][a-zA-Z0-9_]*)(\|word)?(:-([^}]*))?\}`)

var nonWord = regexp.MustCompile(`[\W_]+`)

// expand replaces placeholders in value. The word filter drops everything
// but letters and digits, which keeps branch names usable in resource names.
func expand(value string, env Lookup) string {
	if value == "" {
		return value
	}
	return placeholder.ReplaceAllStringFunc(value, func(match string) string {
		g := placeholder.FindStringSubmatch(match)
		v, ok := env.Lookup(g[1])
		if !ok {
			if g[3] == "" {
				logging.L().Warn("environment variable not set", "variable", g[1])
			}
			v = g[4]
		}
		if g[2] != "" {
			v = nonWord.ReplaceAllString(v, "")
		}
		return v
	})
}
