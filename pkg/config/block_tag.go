package config

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/goran-ethernal/OwnerScan/internal/common"
	"github.com/invopop/jsonschema"
	"gopkg.in/yaml.v3"
)

const latestTag = "latest"

// BlockTag is either a concrete block number or the "latest" tag.
// It accepts a number, a decimal or 0x-prefixed string, or "latest" in every config format.
type BlockTag struct {
	Number uint64
	Latest bool
}

// ParseBlockTag parses "latest", a decimal number or a 0x-prefixed hex number.
func ParseBlockTag(s string) (BlockTag, error) {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, latestTag) {
		return BlockTag{Latest: true}, nil
	}

	n, err := common.ParseUint64orHex(&s)
	if err != nil {
		return BlockTag{}, fmt.Errorf("invalid block %q: must be a block number or %q", s, latestTag)
	}

	return BlockTag{Number: n}, nil
}

// String returns "latest" or the decimal block number.
func (b BlockTag) String() string {
	if b.Latest {
		return latestTag
	}
	return strconv.FormatUint(b.Number, 10)
}

// MarshalText encodes the tag as text.
func (b BlockTag) MarshalText() ([]byte, error) {
	return []byte(b.String()), nil
}

// UnmarshalText decodes the tag from text.
func (b *BlockTag) UnmarshalText(data []byte) error {
	parsed, err := ParseBlockTag(string(data))
	if err != nil {
		return err
	}
	*b = parsed
	return nil
}

// UnmarshalJSON accepts both JSON numbers and strings.
func (b *BlockTag) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		return b.UnmarshalText([]byte(s))
	}

	var n uint64
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("invalid block %s: must be a block number or %q", string(data), latestTag)
	}
	*b = BlockTag{Number: n}
	return nil
}

// UnmarshalYAML accepts both YAML integers and strings.
func (b *BlockTag) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("invalid block at line %d: expected a scalar", value.Line)
	}
	return b.UnmarshalText([]byte(value.Value))
}

// UnmarshalTOML accepts both TOML integers and strings.
func (b *BlockTag) UnmarshalTOML(value any) error {
	switch v := value.(type) {
	case int64:
		if v < 0 {
			return fmt.Errorf("invalid block %d: must not be negative", v)
		}
		*b = BlockTag{Number: uint64(v)}
		return nil
	case string:
		return b.UnmarshalText([]byte(v))
	default:
		return fmt.Errorf("invalid block %v: must be a block number or %q", value, latestTag)
	}
}

// JSONSchema returns a custom schema to be used for the JSON Schema generation of this type
func (BlockTag) JSONSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Title:       "BlockTag",
		Description: "Block number or \"latest\"",
		OneOf: []*jsonschema.Schema{
			{Type: "integer", Minimum: json.Number("0")},
			{Type: "string", Pattern: `^(latest|0x[0-9a-fA-F]+|[0-9]+)$`},
		},
		Examples: []any{"latest", 18000000},
	}
}
