package policy

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// File is the YAML layout of a policy file:
//
//	rules:
//	  - pattern: /admin/**
//	    access: role
//	    role: ADMIN
//	  - pattern: /events/**
//	    methods: [GET]
//	    access: public
type File struct {
	Rules []FileRule `yaml:"rules"`
}

type FileRule struct {
	Pattern string   `yaml:"pattern"`
	Methods []string `yaml:"methods,omitempty"`
	Access  string   `yaml:"access"`
	Role    string   `yaml:"role,omitempty"`
}

// Parse decodes a YAML policy document into rules, in file order.
func Parse(data []byte) ([]Rule, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("policy: parse: %w", err)
	}
	if len(f.Rules) == 0 {
		return nil, fmt.Errorf("%w: policy file declares no rules", ErrInvalidRule)
	}

	rules := make([]Rule, 0, len(f.Rules))
	for i, fr := range f.Rules {
		access, err := ParseAccess(fr.Access)
		if err != nil {
			return nil, fmt.Errorf("policy: rule %d: %w", i, err)
		}
		rules = append(rules, Rule{
			Pattern: fr.Pattern,
			Methods: fr.Methods,
			Access:  access,
			Role:    fr.Role,
		})
	}
	return rules, nil
}

// LoadFile reads and parses the policy file at path.
func LoadFile(path string) ([]Rule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("policy: read %s: %w", path, err)
	}
	return Parse(data)
}
