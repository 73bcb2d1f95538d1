// FILE: lixenwraith/nsconfig/loader.go
package nsconfig

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Supported file store formats
const (
	FormatJSON = "json"
	FormatTOML = "toml"
	FormatYAML = "yaml"
)

// FileStore converts between the raw content of a backing file and the
// mapping held by a namespace. Implementations must decode a file to a
// mapping at the top level.
type FileStore interface {
	Format() string
	Decode(raw []byte) (map[string]any, error)
	Encode(data map[string]any) ([]byte, error)
}

// JSONStore is the reference format: one object per file, pretty printed.
type JSONStore struct{}

func (JSONStore) Format() string { return FormatJSON }

func (JSONStore) Decode(raw []byte) (map[string]any, error) {
	data := make(map[string]any)
	if len(bytes.TrimSpace(raw)) == 0 {
		return data, nil
	}

	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.UseNumber() // Preserve number precision
	if err := decoder.Decode(&data); err != nil {
		return nil, fmt.Errorf("failed to parse JSON config: %w", err)
	}
	return data, nil
}

func (JSONStore) Encode(data map[string]any) ([]byte, error) {
	out, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config data to JSON: %w", err)
	}
	return append(out, '\n'), nil
}

// TOMLStore reads and writes TOML documents.
type TOMLStore struct{}

func (TOMLStore) Format() string { return FormatTOML }

func (TOMLStore) Decode(raw []byte) (map[string]any, error) {
	data := make(map[string]any)
	if err := toml.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("failed to parse TOML config: %w", err)
	}
	return data, nil
}

func (TOMLStore) Encode(data map[string]any) ([]byte, error) {
	var buf bytes.Buffer
	encoder := toml.NewEncoder(&buf)
	if err := encoder.Encode(data); err != nil {
		return nil, fmt.Errorf("failed to marshal config data to TOML: %w", err)
	}
	return buf.Bytes(), nil
}

// YAMLStore reads and writes YAML documents.
type YAMLStore struct{}

func (YAMLStore) Format() string { return FormatYAML }

func (YAMLStore) Decode(raw []byte) (map[string]any, error) {
	data := make(map[string]any)
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("failed to parse YAML config: %w", err)
	}
	if data == nil {
		// An empty document leaves the map nil
		data = make(map[string]any)
	}
	return data, nil
}

func (YAMLStore) Encode(data map[string]any) ([]byte, error) {
	out, err := yaml.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config data to YAML: %w", err)
	}
	return out, nil
}

// StoreForFormat returns the store registered for a format name.
func StoreForFormat(format string) (FileStore, error) {
	switch strings.ToLower(format) {
	case FormatJSON:
		return JSONStore{}, nil
	case FormatTOML, "tml":
		return TOMLStore{}, nil
	case FormatYAML, "yml":
		return YAMLStore{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// storeForExtension picks a store from the file extension, nil when the
// extension names no supported format.
func storeForExtension(path string) FileStore {
	store, err := StoreForFormat(detectFileFormat(path))
	if err != nil {
		return nil
	}
	return store
}

// storeForData picks the store whose format accepts raw. Blank or
// unrecognized content gets JSON, so a later Save writes the reference format.
func storeForData(raw []byte) FileStore {
	if len(bytes.TrimSpace(raw)) == 0 {
		return JSONStore{}
	}
	store, err := StoreForFormat(DetectFormat(raw))
	if err != nil {
		return JSONStore{}
	}
	return store
}

// detectFileFormat determines format from file extension
func detectFileFormat(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".toml", ".tml":
		return FormatTOML
	case ".json":
		return FormatJSON
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return ""
	}
}

// DetectFormat attempts to detect format by parsing the content.
// Returns "" when no supported format accepts the data.
func DetectFormat(data []byte) string {
	// Try JSON first (strict format)
	var jsonTest map[string]any
	if err := json.Unmarshal(data, &jsonTest); err == nil {
		return FormatJSON
	}

	var tomlTest map[string]any
	if err := toml.Unmarshal(data, &tomlTest); err == nil {
		return FormatTOML
	}

	var yamlTest map[string]any
	if err := yaml.Unmarshal(data, &yamlTest); err == nil {
		return FormatYAML
	}

	return ""
}
