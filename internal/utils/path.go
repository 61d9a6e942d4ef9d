package utils

import (
	"fmt"
	"os"
	"path/filepath"
)

// PathUtil joins a base path with a storage key and makes sure every parent
// directory exists.
func PathUtil(path string, key string) (string, error) {
	filePath := filepath.Join(path, key)

	if err := os.MkdirAll(filepath.Dir(filePath), os.ModePerm); err != nil {
		return "", fmt.Errorf("failed to create directories: %w", err)
	}
	return filePath, nil
}
