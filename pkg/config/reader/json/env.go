package json

import (
	"os"
	"regexp"
)

// envPattern matches ${NAME} and ${NAME:default}
var envPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(?::([^}]*))?\}`)

// ReplaceEnvVars expands ${NAME} and ${NAME:default} references with the
// process environment. Unset variables without a default expand to "".
func ReplaceEnvVars(raw []byte) ([]byte, error) {
	return envPattern.ReplaceAllFunc(raw, func(m []byte) []byte {
		parts := envPattern.FindSubmatch(m)
		if v, ok := os.LookupEnv(string(parts[1])); ok && v != "" {
			return []byte(v)
		}
		return parts[2]
	}), nil
}
