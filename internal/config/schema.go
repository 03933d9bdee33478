package config

import (
	"encoding/json"
	"fmt"

	pkgconfig "github.com/goran-ethernal/OwnerScan/pkg/config"
	"github.com/invopop/jsonschema"
)

// GenerateSchema returns the JSON Schema describing the configuration file.
// Field names follow the json tags, which match the YAML and TOML keys.
func GenerateSchema() ([]byte, error) {
	reflector := &jsonschema.Reflector{
		FieldNameTag:               "json",
		RequiredFromJSONSchemaTags: true,
		DoNotReference:             true,
	}

	schema := reflector.Reflect(&pkgconfig.Config{})
	schema.Title = "OwnerScan configuration"
	schema.Required = []string{"networks"}

	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config schema: %w", err)
	}

	return data, nil
}
