package romloader

import (
	"archive/tar"
	"bufio"
	"bytes"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// tarMagic is the ustar signature at offset 257 of a tar header block.
var tarMagic = []byte("ustar")

// extractFromGzip extracts a ROM from a gzip file. A gzipped tar yields its
// first ROM member; a plain gzip yields its content, named after the
// gzip header or the file name without ".gz".
func extractFromGzip(path string) ([]byte, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open gzip: %w", err)
	}
	defer f.Close()

	zr, err := gzip.NewReader(f)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read gzip header: %w", err)
	}
	defer zr.Close()

	br := bufio.NewReaderSize(zr, 512)
	block, err := br.Peek(512)
	if err != nil && err != io.EOF {
		return nil, "", fmt.Errorf("failed to decompress: %w", err)
	}
	if len(block) >= 262 && bytes.HasPrefix(block[257:], tarMagic) {
		return extractFromTar(br)
	}

	name := zr.Name
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	data, err := limitedRead(br)
	if err != nil {
		return nil, "", fmt.Errorf("failed to decompress: %w", err)
	}
	return data, filepath.Base(name), nil
}

// extractFromTar returns the first ROM member of a tar stream.
func extractFromTar(r io.Reader) ([]byte, string, error) {
	tr := tar.NewReader(r)
	for {
		header, err := tr.Next()
		if err == io.EOF {
			return nil, "", ErrNoROMFile
		}
		if err != nil {
			return nil, "", fmt.Errorf("failed to read tar entry: %w", err)
		}
		if header.Typeflag != tar.TypeReg || !isROMFile(header.Name) {
			continue
		}

		data, err := limitedRead(tr)
		if err != nil {
			return nil, "", fmt.Errorf("failed to read %s: %w", header.Name, err)
		}
		return data, filepath.Base(header.Name), nil
	}
}
