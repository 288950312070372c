package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/iliyamo/rental-booking/internal/model"
)

// DefaultProperties is used when PROPERTIES_FILE is not set.
var DefaultProperties = []model.Property{
	{ID: 1, Name: "Casa Isidro N°1", Color: "#4361ee", Icon: "fas fa-city"},
	{ID: 2, Name: "Depto Isidro N°2", Color: "#7209b7", Icon: "fas fa-umbrella-beach"},
	{ID: 3, Name: "Casa Alsina", Color: "#f72585", Icon: "fas fa-building"},
}

// LoadProperties reads the property list from a JSON file, or returns
// DefaultProperties when path is empty. Ids must be positive and unique.
func LoadProperties(path string) ([]model.Property, error) {
	if path == "" {
		return append([]model.Property(nil), DefaultProperties...), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read properties: %w", err)
	}
	var props []model.Property
	if err := json.Unmarshal(raw, &props); err != nil {
		return nil, fmt.Errorf("decode properties: %w", err)
	}
	if len(props) == 0 {
		return nil, fmt.Errorf("properties file %s is empty", path)
	}
	seen := map[int]bool{}
	for _, p := range props {
		if p.ID < 1 {
			return nil, fmt.Errorf("property %q has invalid id %d", p.Name, p.ID)
		}
		if seen[p.ID] {
			return nil, fmt.Errorf("duplicate property id %d", p.ID)
		}
		seen[p.ID] = true
	}
	return props, nil
}
