package romloader

import (
	"fmt"

	"github.com/bodgit/sevenzip"
)

// extractFrom7z extracts the first ROM from a 7z archive
func extractFrom7z(path string) ([]byte, string, error) {
	r, err := sevenzip.OpenReader(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open 7z: %w", err)
	}
	defer r.Close()

	for _, f := range r.File {
		if f.FileInfo().IsDir() || !isROMFile(f.Name) {
			continue
		}
		return readMember(f.Name, f.Open)
	}
	return nil, "", ErrNoROMFile
}
