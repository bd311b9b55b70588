// Package romloader loads Master System, Game Gear and SG-1000 cartridge
// images from plain files or from the first ROM inside an archive
// (ZIP, 7z, gzip, tar.gz, RAR).
package romloader

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Magic bytes for format detection
var (
	magicZIP    = []byte{0x50, 0x4B, 0x03, 0x04}
	magicZIPEnd = []byte{0x50, 0x4B, 0x05, 0x06} // empty zip
	magic7z     = []byte{0x37, 0x7A, 0xBC, 0xAF, 0x27, 0x1C}
	magicGzip   = []byte{0x1F, 0x8B}
	magicRAR    = []byte{0x52, 0x61, 0x72, 0x21} // "Rar!"
)

// romExtensions are the cartridge image extensions, lower case.
var romExtensions = []string{".sms", ".gg", ".sg"}

// Maximum ROM size (8MB safety limit)
const maxROMSize = 8 * 1024 * 1024

var (
	// ErrNoROMFile is returned when an archive holds no cartridge image.
	ErrNoROMFile = errors.New("no .sms, .gg or .sg file found in archive")
	// ErrUnsupportedFormat is returned for unrecognized file formats.
	ErrUnsupportedFormat = errors.New("unsupported file format")
	// ErrFileTooLarge is returned when extracted content exceeds the size limit.
	ErrFileTooLarge = errors.New("file exceeds maximum size limit")
)

type formatType int

const (
	formatUnknown formatType = iota
	formatRaw
	formatZIP
	format7z
	formatGzip
	formatRAR
)

func (f formatType) String() string {
	switch f {
	case formatRaw:
		return "raw"
	case formatZIP:
		return "zip"
	case format7z:
		return "7z"
	case formatGzip:
		return "gzip"
	case formatRAR:
		return "rar"
	default:
		return "unknown"
	}
}

// extractors open an archive and return the first ROM inside it.
var extractors = map[formatType]func(path string) ([]byte, string, error){
	formatZIP:  extractFromZIP,
	format7z:   extractFrom7z,
	formatGzip: extractFromGzip,
	formatRAR:  extractFromRAR,
}

// LoadROM loads a ROM from a file path, extracting it from an archive when
// needed. It returns the ROM data and the base name of the ROM file, which
// carries the extension the console can be told from.
func LoadROM(path string) ([]byte, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	header := make([]byte, 16)
	n, err := io.ReadFull(f, header)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return nil, "", fmt.Errorf("failed to read file header: %w", err)
	}

	format := detectFormat(header[:n], path)
	if format == formatRaw {
		if _, err := f.Seek(0, io.SeekStart); err != nil {
			return nil, "", fmt.Errorf("failed to seek file: %w", err)
		}
		data, err := limitedRead(f)
		if err != nil {
			return nil, "", fmt.Errorf("failed to read ROM: %w", err)
		}
		return data, filepath.Base(path), nil
	}

	extract, ok := extractors[format]
	if !ok {
		return nil, "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
	return extract(path)
}

// detectFormat determines the file format from magic bytes, then from the
// extension.
func detectFormat(header []byte, path string) formatType {
	switch {
	case bytes.HasPrefix(header, magicZIP), bytes.HasPrefix(header, magicZIPEnd):
		return formatZIP
	case bytes.HasPrefix(header, magicRAR):
		return formatRAR
	case bytes.HasPrefix(header, magic7z):
		return format7z
	case bytes.HasPrefix(header, magicGzip):
		return formatGzip
	}

	lower := strings.ToLower(path)
	if isROMFile(lower) {
		return formatRaw
	}
	switch {
	case strings.HasSuffix(lower, ".zip"):
		return formatZIP
	case strings.HasSuffix(lower, ".7z"):
		return format7z
	case strings.HasSuffix(lower, ".gz"), strings.HasSuffix(lower, ".tgz"):
		return formatGzip
	case strings.HasSuffix(lower, ".rar"):
		return formatRAR
	}
	return formatUnknown
}

// isROMFile reports whether name has a cartridge image extension
// (case-insensitive).
func isROMFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range romExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

// limitedRead reads from r up to maxROMSize bytes, returning an error if exceeded
func limitedRead(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxROMSize+1))
	if err != nil {
		return nil, err
	}
	if len(data) > maxROMSize {
		return nil, ErrFileTooLarge
	}
	return data, nil
}
