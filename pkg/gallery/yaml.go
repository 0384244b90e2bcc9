package gallery

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	perrors "github.com/matzehuels/photogrid/pkg/errors"
)

// DefaultFile is the conventional content file name.
const DefaultFile = "gallery.yaml"

// Parse decodes a YAML gallery document. Unknown fields are rejected so
// typos in hand-written content surface early.
func Parse(data []byte) (*Gallery, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var g Gallery
	if err := dec.Decode(&g); err != nil {
		if errors.Is(err, io.EOF) {
			return &Gallery{}, nil
		}
		return nil, perrors.Wrap(perrors.ErrCodeDecode, err, "parse gallery")
	}
	return &g, nil
}

// LoadFile reads and parses the YAML file at path.
func LoadFile(path string) (*Gallery, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, perrors.Wrap(perrors.ErrCodeFileNotFound, err, "gallery file %s", path)
	}
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Marshal encodes g as YAML.
func Marshal(g *Gallery) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(g); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// FileSource loads a gallery from a YAML file.
type FileSource struct {
	Path string
}

// Load implements [Source].
func (s FileSource) Load(ctx context.Context) (*Gallery, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return LoadFile(s.Path)
}

// String returns the file path.
func (s FileSource) String() string { return s.Path }
