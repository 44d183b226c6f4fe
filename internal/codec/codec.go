package codec

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// Importer reads a source document in one format
type Importer interface {
	Parse(r io.Reader) (*Document, error)
	Format() string
}

// Exporter writes a source document in one format
type Exporter interface {
	Export(doc *Document, w io.Writer) error
	Format() string
}

// Codec both reads and writes one format
type Codec interface {
	Importer
	Exporter
}

// ForFormat returns the codec for a format name
func ForFormat(format string) (Codec, error) {
	switch strings.ToLower(format) {
	case "yaml", "yml":
		return NewYAMLCodec(), nil
	case "json":
		return NewJSONCodec(), nil
	case "toml":
		return NewTOMLCodec(), nil
	}
	return nil, fmt.Errorf("unsupported format %q", format)
}

// ForPath picks a codec from a file extension
func ForPath(path string) (Codec, error) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return nil, fmt.Errorf("no extension on %s", path)
	}
	return ForFormat(ext)
}
