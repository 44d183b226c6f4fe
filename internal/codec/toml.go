package codec

import (
	"fmt"
	"io"
	"strings"

	"github.com/BurntSushi/toml"
)

// TOMLCodec handles TOML import/export
type TOMLCodec struct{}

// NewTOMLCodec creates a new TOML codec
func NewTOMLCodec() *TOMLCodec {
	return &TOMLCodec{}
}

// Format returns the codec format identifier
func (c *TOMLCodec) Format() string {
	return "toml"
}

// Parse imports a source document from TOML
func (c *TOMLCodec) Parse(r io.Reader) (*Document, error) {
	var doc Document
	meta, err := toml.NewDecoder(r).Decode(&doc)
	if err != nil {
		return nil, fmt.Errorf("failed to parse TOML: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("failed to parse TOML: unknown keys %s", strings.Join(keys, ", "))
	}

	return &doc, nil
}

// Export exports a source document to TOML
func (c *TOMLCodec) Export(doc *Document, w io.Writer) error {
	if err := toml.NewEncoder(w).Encode(doc); err != nil {
		return fmt.Errorf("failed to encode TOML: %w", err)
	}

	return nil
}
