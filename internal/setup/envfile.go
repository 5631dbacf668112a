package setup

import (
	"errors"
	"fmt"
	"io/fs"
	"sort"

	"github.com/joho/godotenv"
)

// ReadEnvFile loads a dotenv file. A missing file is an empty environment.
func ReadEnvFile(path string) (map[string]string, error) {
	env, err := godotenv.Read(path)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return env, nil
}

// WriteEnvFile writes env to path, sorted by key
func WriteEnvFile(path string, env map[string]string) error {
	if err := godotenv.Write(env, path); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// ApplyCredentials copies non-empty updates into env and returns the changed keys.
// Empty values keep what env already has.
func ApplyCredentials(env, updates map[string]string) []string {
	var changed []string
	for key, value := range updates {
		if value == "" || env[key] == value {
			continue
		}
		env[key] = value
		changed = append(changed, key)
	}
	sort.Strings(changed)
	return changed
}
