// Package registry loads and validates the per-issuer-type mapping of
// logical financial fields to prioritized XBRL identifiers and qualifiers.
// The registry is built once at startup and is read-only afterwards.
package registry

import (
	_ "embed"
	"io"
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/aomi-research/edinet-cli/internal/model"
)

// ErrConfig indicates a malformed mapping document. It is fatal at startup
// and never recovered.
var ErrConfig = eris.New("registry: invalid mapping config")

// ErrProfileNotFound indicates a lookup for an issuer type the registry
// does not define.
var ErrProfileNotFound = eris.New("registry: profile not found")

// MemberUnqualified is the member-priority sentinel that permits selecting
// a fact carrying no dimensional member.
const MemberUnqualified = "unqualified"

//go:embed mappings.yaml
var defaultMappings []byte

// Rule maps one logical field to its prioritized source vocabulary.
// All three lists are ordered: earlier entries win.
type Rule struct {
	DisplayName          string   `yaml:"display_name"`
	CandidateIdentifiers []string `yaml:"candidate_identifiers"`
	ContextPriority      []string `yaml:"context_priority"`
	MemberPriority       []string `yaml:"member_priority"`
}

// Field pairs a logical field name with its rule, preserving declaration order.
type Field struct {
	Name string
	Rule Rule
}

// Profile holds the ordered field rules for one issuer type.
type Profile struct {
	IssuerType model.IssuerType
	Fields     []Field
}

// FieldNames returns the logical field names in declaration order.
func (p *Profile) FieldNames() []string {
	names := make([]string, len(p.Fields))
	for i, f := range p.Fields {
		names[i] = f.Name
	}
	return names
}

// Registry is the immutable catalogue of issuer-type profiles.
type Registry struct {
	profiles map[model.IssuerType]*Profile
	order    []model.IssuerType
}

// Default loads the built-in mapping tables.
func Default() (*Registry, error) {
	r, err := Load(defaultMappings)
	if err != nil {
		// The embedded document is part of the build; failing to load it
		// is a programming error, but surface it like any config failure.
		return nil, err
	}
	return r, nil
}

// LoadFile reads and validates a mapping document from disk.
func LoadFile(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(ErrConfig, "read %s: %v", path, err)
	}
	return Load(data)
}

// LoadReader reads and validates a mapping document from a reader.
func LoadReader(r io.Reader) (*Registry, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, eris.Wrapf(ErrConfig, "read: %v", err)
	}
	return Load(data)
}

// Load parses and eagerly validates a YAML mapping document. Validation
// happens here, not during resolution, so configuration errors surface
// before any extraction runs. Unknown extra keys are ignored.
func Load(data []byte) (*Registry, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, eris.Wrapf(ErrConfig, "parse yaml: %v", err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, eris.Wrap(ErrConfig, "empty document")
	}

	root := doc.Content[0]
	profilesNode := mappingValue(root, "profiles")
	if profilesNode == nil {
		return nil, eris.Wrap(ErrConfig, "missing profiles section")
	}
	if profilesNode.Kind != yaml.MappingNode {
		return nil, eris.Wrap(ErrConfig, "profiles must be a mapping")
	}

	reg := &Registry{profiles: make(map[model.IssuerType]*Profile)}
	for i := 0; i+1 < len(profilesNode.Content); i += 2 {
		issuer := model.IssuerType(profilesNode.Content[i].Value)
		profile, err := parseProfile(issuer, profilesNode.Content[i+1])
		if err != nil {
			return nil, err
		}
		if _, dup := reg.profiles[issuer]; dup {
			return nil, eris.Wrapf(ErrConfig, "duplicate profile %q", issuer)
		}
		reg.profiles[issuer] = profile
		reg.order = append(reg.order, issuer)
	}
	if len(reg.profiles) == 0 {
		return nil, eris.Wrap(ErrConfig, "no profiles defined")
	}
	return reg, nil
}

func parseProfile(issuer model.IssuerType, node *yaml.Node) (*Profile, error) {
	if node.Kind != yaml.MappingNode {
		return nil, eris.Wrapf(ErrConfig, "profile %q must be a mapping", issuer)
	}

	profile := &Profile{IssuerType: issuer}
	seen := make(map[string]bool)
	for i := 0; i+1 < len(node.Content); i += 2 {
		name := node.Content[i].Value
		if seen[name] {
			return nil, eris.Wrapf(ErrConfig, "profile %q: duplicate field %q", issuer, name)
		}
		seen[name] = true

		var rule Rule
		if err := node.Content[i+1].Decode(&rule); err != nil {
			return nil, eris.Wrapf(ErrConfig, "profile %q field %q: %v", issuer, name, err)
		}
		if err := validateRule(issuer, name, rule); err != nil {
			return nil, err
		}
		profile.Fields = append(profile.Fields, Field{Name: name, Rule: rule})
	}
	if len(profile.Fields) == 0 {
		return nil, eris.Wrapf(ErrConfig, "profile %q has no fields", issuer)
	}
	return profile, nil
}

func validateRule(issuer model.IssuerType, name string, rule Rule) error {
	if len(rule.CandidateIdentifiers) == 0 {
		return eris.Wrapf(ErrConfig, "profile %q field %q: empty candidate_identifiers", issuer, name)
	}
	if len(rule.ContextPriority) == 0 {
		return eris.Wrapf(ErrConfig, "profile %q field %q: empty context_priority", issuer, name)
	}
	if len(rule.MemberPriority) == 0 {
		return eris.Wrapf(ErrConfig, "profile %q field %q: empty member_priority", issuer, name)
	}
	for _, lists := range [][]string{rule.CandidateIdentifiers, rule.ContextPriority, rule.MemberPriority} {
		for _, v := range lists {
			if v == "" {
				return eris.Wrapf(ErrConfig, "profile %q field %q: empty priority entry", issuer, name)
			}
		}
	}
	return nil
}

// Profile returns the rules for the given issuer type.
func (r *Registry) Profile(issuer model.IssuerType) (*Profile, error) {
	p, ok := r.profiles[issuer]
	if !ok {
		return nil, eris.Wrapf(ErrProfileNotFound, "issuer type %q", issuer)
	}
	return p, nil
}

// IssuerTypes returns the defined issuer types in declaration order.
func (r *Registry) IssuerTypes() []model.IssuerType {
	out := make([]model.IssuerType, len(r.order))
	copy(out, r.order)
	return out
}

// mappingValue returns the value node for a key in a mapping node, or nil.
func mappingValue(node *yaml.Node, key string) *yaml.Node {
	if node.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value == key {
			return node.Content[i+1]
		}
	}
	return nil
}
