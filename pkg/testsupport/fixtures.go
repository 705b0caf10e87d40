package testsupport

import (
	"fmt"
	"os"
	"path/filepath"
)

// Fixture reads a file from the calling package's testdata directory. The
// path is resolved relative to the test's working directory, which the test
// runner pins to the package under test.
func Fixture(name string) ([]byte, error) {
	path := filepath.Join("testdata", name)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("testsupport: read fixture %s: %w", path, err)
	}
	return data, nil
}
