package events

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

var (
	eventNamePattern = regexp.MustCompile(`^[A-Z][a-zA-Z0-9_]*$`)
	paramNamePattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)
)

// Param is one parameter of an event signature.
type Param struct {
	Name    string
	Type    string // canonical Solidity type, e.g. "uint256"
	Indexed bool
}

// Signature is a parsed event signature.
type Signature struct {
	Name   string
	Params []Param
}

// ParseSignature parses either a canonical signature ("Transfer(address,address,uint256)")
// or a named one ("Transfer(address indexed from, address indexed to, uint256 value)").
// Type aliases are normalized: uint -> uint256, int -> int256.
func ParseSignature(sig string) (*Signature, error) {
	sig = strings.TrimSpace(sig)
	if sig == "" {
		return nil, fmt.Errorf("empty signature")
	}

	openParen := strings.Index(sig, "(")
	if openParen == -1 {
		return nil, fmt.Errorf("invalid signature %q: missing opening parenthesis", sig)
	}

	closeParen := strings.LastIndex(sig, ")")
	if closeParen == -1 || closeParen < openParen {
		return nil, fmt.Errorf("invalid signature %q: malformed parentheses", sig)
	}
	if strings.TrimSpace(sig[closeParen+1:]) != "" {
		return nil, fmt.Errorf("invalid signature %q: trailing characters", sig)
	}

	name := strings.TrimSpace(sig[:openParen])
	if !eventNamePattern.MatchString(name) {
		return nil, fmt.Errorf("invalid event name %q", name)
	}

	body := strings.TrimSpace(sig[openParen+1 : closeParen])
	if body == "" {
		return &Signature{Name: name}, nil
	}

	parts := strings.Split(body, ",")
	params := make([]Param, 0, len(parts))
	for i, part := range parts {
		param, err := parseParam(strings.TrimSpace(part), i)
		if err != nil {
			return nil, fmt.Errorf("invalid parameter %d of %s: %w", i, name, err)
		}
		params = append(params, param)
	}

	return &Signature{Name: name, Params: params}, nil
}

func parseParam(s string, index int) (Param, error) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return Param{}, fmt.Errorf("empty parameter")
	}

	param := Param{Type: normalizeType(fields[0])}
	if _, err := abi.NewType(param.Type, "", nil); err != nil {
		return Param{}, fmt.Errorf("invalid type %q: %w", fields[0], err)
	}

	switch len(fields) {
	case 1:
		param.Name = fmt.Sprintf("param%d", index)
	case 2: //nolint:mnd
		if fields[1] == "indexed" {
			param.Indexed = true
			param.Name = fmt.Sprintf("param%d", index)
		} else {
			param.Name = fields[1]
		}
	case 3: //nolint:mnd
		if fields[1] != "indexed" {
			return Param{}, fmt.Errorf("expected 'indexed' keyword, got %q", fields[1])
		}
		param.Indexed = true
		param.Name = fields[2]
	default:
		return Param{}, fmt.Errorf("too many parts in %q", s)
	}

	if !paramNamePattern.MatchString(param.Name) {
		return Param{}, fmt.Errorf("invalid parameter name %q", param.Name)
	}

	return param, nil
}

// normalizeType expands the uint/int aliases, including inside array types.
func normalizeType(typ string) string {
	base, suffix := typ, ""
	if idx := strings.Index(typ, "["); idx != -1 {
		base, suffix = typ[:idx], typ[idx:]
	}

	switch base {
	case "uint":
		base = "uint256"
	case "int":
		base = "int256"
	}

	return base + suffix
}

// Canonical returns the signature without names or indexed markers,
// e.g. "SafeSetup(address,address[],uint256,address,address)".
func (s *Signature) Canonical() string {
	types := make([]string, len(s.Params))
	for i, p := range s.Params {
		types[i] = p.Type
	}
	return s.Name + "(" + strings.Join(types, ",") + ")"
}

// IndexedCount returns the number of indexed parameters.
func (s *Signature) IndexedCount() int {
	n := 0
	for _, p := range s.Params {
		if p.Indexed {
			n++
		}
	}
	return n
}

// DataArguments returns the ABI arguments encoded in the log data section,
// i.e. the non-indexed parameters in declaration order.
func (s *Signature) DataArguments() (abi.Arguments, error) {
	args := make(abi.Arguments, 0, len(s.Params))
	for _, p := range s.Params {
		if p.Indexed {
			continue
		}

		typ, err := abi.NewType(p.Type, "", nil)
		if err != nil {
			return nil, fmt.Errorf("invalid type %q for %s: %w", p.Type, p.Name, err)
		}
		args = append(args, abi.Argument{Name: p.Name, Type: typ})
	}
	return args, nil
}
