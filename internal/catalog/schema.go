package catalog

import (
	"embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed config/schema.yaml
var schemaYAML embed.FS

// Schema maps dataset column headers onto logical field keys.
type Schema struct {
	Fields []FieldConfig `yaml:"fields"`

	byHeader map[string]string
}

// FieldConfig declares one logical field and the headers that may carry it.
type FieldConfig struct {
	Key     string   `yaml:"key"`
	Headers []string `yaml:"headers"`
}

// LoadSchema reads a schema from path when it exists, otherwise the embedded default.
func LoadSchema(path string) (*Schema, error) {
	var data []byte
	if path != "" {
		if b, err := os.ReadFile(path); err == nil {
			data = b
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("read schema %s: %w", path, err)
		}
	}
	if data == nil {
		b, err := schemaYAML.ReadFile("config/schema.yaml")
		if err != nil {
			return nil, fmt.Errorf("read embedded schema: %w", err)
		}
		data = b
	}

	expanded := os.ExpandEnv(string(data))

	var s Schema
	if err := yaml.Unmarshal([]byte(expanded), &s); err != nil {
		return nil, fmt.Errorf("parse schema: %w", err)
	}
	s.index()
	return &s, nil
}

// DefaultSchema returns the embedded schema. It panics if the embedded file is
// broken, which would be a build defect.
func DefaultSchema() *Schema {
	s, err := LoadSchema("")
	if err != nil {
		panic(err)
	}
	return s
}

func (s *Schema) index() {
	s.byHeader = make(map[string]string)
	for _, f := range s.Fields {
		key := strings.TrimSpace(f.Key)
		if key == "" {
			continue
		}
		s.byHeader[headerKey(key)] = key
		for _, h := range f.Headers {
			if h = headerKey(h); h != "" {
				s.byHeader[h] = key
			}
		}
	}
}

// Resolve returns the logical key for a dataset header. Unknown headers map to
// themselves so no column is lost.
func (s *Schema) Resolve(header string) string {
	if s != nil {
		if s.byHeader == nil {
			s.index()
		}
		if key, ok := s.byHeader[headerKey(header)]; ok {
			return key
		}
	}
	return strings.TrimSpace(header)
}

func headerKey(h string) string {
	return strings.ToLower(normalizeSpace(h))
}
