package ir

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/opdot/opdot/pkg/errors"
)

// =============================================================================
// Module Serialization API
// =============================================================================

// Marshal converts a module to pretty-printed JSON bytes.
func Marshal(m *Module) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeModuleTo(m, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes JSON bytes into a validated module.
func Unmarshal(data []byte) (*Module, error) {
	return readModuleFrom(bytes.NewReader(data))
}

// WriteFile writes a module to a JSON file with 0644 permissions.
func WriteFile(m *Module, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return writeModuleTo(m, f)
}

// Write encodes a module as JSON to an io.Writer.
func Write(m *Module, w io.Writer) error {
	return writeModuleTo(m, w)
}

// ReadFile reads a JSON file and returns the decoded, validated module.
func ReadFile(path string) (*Module, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "module file %s", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return readModuleFrom(f)
}

// Read decodes a JSON module from an io.Reader.
func Read(r io.Reader) (*Module, error) {
	return readModuleFrom(r)
}

// =============================================================================
// Internal Implementation
// =============================================================================

func writeModuleTo(m *Module, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(m); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

func readModuleFrom(r io.Reader) (*Module, error) {
	var m Module
	if err := json.NewDecoder(r).Decode(&m); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidModule, err, "decode module")
	}
	if err := Validate(&m); err != nil {
		return nil, err
	}
	return &m, nil
}
