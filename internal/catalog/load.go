package catalog

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/zjrosen/tincture/internal/log"
)

//go:embed default_catalog.yaml
var defaultCatalog []byte

// File is the YAML form of a catalog.
type File struct {
	Languages []LanguageFile `yaml:"languages"`
}

// LanguageFile is one language in a catalog file.
type LanguageFile struct {
	Name            string      `yaml:"name"`
	Labels          LabelRule   `yaml:"labels"`
	Classifications []EntryFile `yaml:"classifications"`
}

// EntryFile is one classification in a catalog file.
type EntryFile struct {
	Name  string `yaml:"name"`
	Label string `yaml:"label"`
	Token string `yaml:"token"`
}

// Parse decodes a YAML catalog.
func Parse(data []byte) (*Static, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing catalog: %w", err)
	}

	s := NewStatic()
	for i, lf := range f.Languages {
		if lf.Name == "" {
			return nil, fmt.Errorf("language %d: name is required", i)
		}
		lang := Language{Name: lf.Name, Labels: lf.Labels}
		for _, ef := range lf.Classifications {
			lang.Entries = append(lang.Entries, Entry(ef))
		}
		s.Add(lang)
	}
	return s, nil
}

// LoadFile reads a YAML catalog from path.
func LoadFile(path string) (*Static, error) {
	data, err := os.ReadFile(path) //nolint:gosec // G304: catalog path is user-configured
	if err != nil {
		return nil, fmt.Errorf("reading catalog: %w", err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, err
	}
	log.Debug(log.CatCatalog, "Loaded catalog", "path", path, "languages", len(s.Languages()))
	return s, nil
}

// Default returns the built-in catalog.
func Default() *Static {
	s, err := Parse(defaultCatalog)
	if err != nil {
		panic(fmt.Sprintf("built-in catalog: %v", err))
	}
	return s
}

// Load returns the catalog at path, or the built-in one when path is empty.
func Load(path string) (*Static, error) {
	if path == "" {
		return Default(), nil
	}
	return LoadFile(path)
}
