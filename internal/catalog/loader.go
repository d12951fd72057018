package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// bundle is the on-disk shape of a static catalog file.
type bundle struct {
	Tours []RawTour `yaml:"tours"`
}

// LoadBundle reads a static YAML catalog bundle, normalizes every record
// and returns a frozen Store. This is the no-database ingestion path; the
// Postgres repository provides the remote-query one.
func LoadBundle(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog bundle: %w", err)
	}
	return ParseBundle(data)
}

// ParseBundle parses bundle bytes. Split out from LoadBundle for tests.
func ParseBundle(data []byte) (*Store, error) {
	var b bundle
	if err := yaml.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("parse catalog bundle: %w", err)
	}
	tours, err := NormalizeAll(b.Tours)
	if err != nil {
		return nil, fmt.Errorf("parse catalog bundle: %w", err)
	}
	return NewStore(tours)
}
