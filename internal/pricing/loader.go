package pricing

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type addOnBundle struct {
	AddOns []AddOn `yaml:"addOns"`
}

// LoadAddOnBundle reads the add-on section of a static catalog bundle. The
// tour section of the same file is handled by the catalog package.
func LoadAddOnBundle(path string) ([]AddOn, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read add-on bundle: %w", err)
	}
	return ParseAddOnBundle(data)
}

// ParseAddOnBundle parses bundle bytes. Split out from LoadAddOnBundle for
// tests.
func ParseAddOnBundle(data []byte) ([]AddOn, error) {
	var b addOnBundle
	if err := yaml.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("parse add-on bundle: %w", err)
	}
	for _, a := range b.AddOns {
		if a.ID == "" {
			return nil, fmt.Errorf("parse add-on bundle: %w: empty id", ErrInvalidInput)
		}
		if a.Price < 0 {
			return nil, fmt.Errorf("parse add-on bundle: %w: add-on %s has negative price", ErrInvalidInput, a.ID)
		}
		switch a.Kind {
		case AddOnTransport, AddOnFlight:
		default:
			return nil, fmt.Errorf("parse add-on bundle: %w: add-on %s has unknown kind %q", ErrInvalidInput, a.ID, a.Kind)
		}
	}
	return b.AddOns, nil
}
