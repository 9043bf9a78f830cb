package params

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/vvka-141/sqlaction/pkg/sqlaction"
)

// ParseKeyValuePairs converts a slice of "key=value" strings into a map.
//
// Example:
//
//	vars, err := ParseKeyValuePairs([]string{"Environment=prod", "Schema=sales"})
//	// Returns: map[string]string{"Environment": "prod", "Schema": "sales"}
func ParseKeyValuePairs(pairs []string) (map[string]string, error) {
	result := make(map[string]string, len(pairs))

	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("%w: variable %q is not in key=value format (example: --var Environment=production)", sqlaction.ErrInvalidConfig, pair)
		}

		key = strings.TrimSpace(key)
		if key == "" {
			return nil, fmt.Errorf("%w: variable has empty key: %q", sqlaction.ErrInvalidConfig, pair)
		}

		result[key] = value
	}

	return result, nil
}

// LoadVariableFiles reads .env formatted files with godotenv. Files are
// applied in order, so a key in a later file overrides an earlier one.
// The process environment is not modified.
func LoadVariableFiles(paths ...string) (map[string]string, error) {
	result := make(map[string]string)
	for _, path := range paths {
		vars, err := godotenv.Read(path)
		if err != nil {
			return nil, fmt.Errorf("%w: cannot read variable file %s: %w", sqlaction.ErrFileAccess, path, err)
		}
		for k, v := range vars {
			result[k] = v
		}
	}
	return result, nil
}

// Merge combines variable maps; later maps win.
func Merge(sources ...map[string]string) map[string]string {
	result := make(map[string]string)
	for _, source := range sources {
		for k, v := range source {
			result[k] = v
		}
	}
	return result
}
