package domain

import (
	"fmt"
	"strings"
)

const (
	secretScheme = "tivona://"

	BackendTokenKey = secretScheme + "backend/token"
)

// SecretPath turns a tivona:// secret key into a slash separated relative
// path usable by file and pass stores.
func SecretPath(key string) (string, error) {
	trimmed := strings.TrimSpace(key)
	if !strings.HasPrefix(trimmed, secretScheme) {
		return "", fmt.Errorf("invalid secret key %q: want %s prefix", key, secretScheme)
	}

	rest := strings.Trim(strings.TrimPrefix(trimmed, secretScheme), "/")
	if rest == "" {
		return "", fmt.Errorf("invalid secret key %q: empty path", key)
	}

	segments := strings.Split(rest, "/")
	for _, segment := range segments {
		if segment == "" || segment == "." || segment == ".." {
			return "", fmt.Errorf("invalid secret key %q", key)
		}
	}

	return "tivona/" + strings.Join(segments, "/"), nil
}
