package romloader

import (
	"archive/zip"
	"fmt"
	"io"
	"path/filepath"
)

// openFunc opens one archive member.
type openFunc func() (io.ReadCloser, error)

// readMember reads an archive member through open, enforcing the size limit.
func readMember(name string, open openFunc) ([]byte, string, error) {
	rc, err := open()
	if err != nil {
		return nil, "", fmt.Errorf("failed to open %s: %w", name, err)
	}
	defer rc.Close()

	data, err := limitedRead(rc)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read %s: %w", name, err)
	}
	return data, filepath.Base(name), nil
}

// extractFromZIP extracts the first ROM from a ZIP archive
func extractFromZIP(path string) ([]byte, string, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open zip: %w", err)
	}
	defer r.Close()

	for _, f := range r.File {
		if f.FileInfo().IsDir() || !isROMFile(f.Name) {
			continue
		}
		if f.UncompressedSize64 > maxROMSize {
			return nil, "", fmt.Errorf("%s: %w", f.Name, ErrFileTooLarge)
		}
		return readMember(f.Name, f.Open)
	}
	return nil, "", ErrNoROMFile
}
