package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrEmptyKeyPath is returned when a key path is empty.
var ErrEmptyKeyPath = errors.New("empty key path")

// ParseKeyPath splits a dotted key path into its segments.
func ParseKeyPath(path string) ([]string, error) {
	if path == "" {
		return nil, ErrEmptyKeyPath
	}
	return strings.Split(path, "."), nil
}

// SetNestedValue sets value at keyPath inside a YAML document node,
// creating intermediate mappings as needed. Existing comments and key order
// are kept.
func SetNestedValue(root *yaml.Node, keyPath []string, value interface{}) error {
	if len(keyPath) == 0 {
		return ErrEmptyKeyPath
	}

	if root.Kind == 0 {
		root.Kind = yaml.DocumentNode
	}
	if root.Kind != yaml.DocumentNode {
		return fmt.Errorf("expected document node, got kind %d", root.Kind)
	}
	if len(root.Content) == 0 {
		root.Content = []*yaml.Node{{Kind: yaml.MappingNode, Tag: "!!map"}}
	}

	node := root.Content[0]
	for i, key := range keyPath {
		if node.Kind != yaml.MappingNode {
			return fmt.Errorf("cannot set %q: %q is not a mapping",
				strings.Join(keyPath, "."), strings.Join(keyPath[:i], "."))
		}

		last := i == len(keyPath)-1
		child := mappingValue(node, key)
		if child == nil {
			child = &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
			node.Content = append(node.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key}, child)
		}

		if last {
			var encoded yaml.Node
			if err := encoded.Encode(value); err != nil {
				return fmt.Errorf("encoding value for %q: %w", key, err)
			}
			child.Kind = encoded.Kind
			child.Tag = encoded.Tag
			child.Value = encoded.Value
			child.Style = encoded.Style
			child.Content = encoded.Content
			return nil
		}
		node = child
	}
	return nil
}

// GetNestedValue returns the node at keyPath, or nil if any segment is missing.
func GetNestedValue(root *yaml.Node, keyPath []string) *yaml.Node {
	if root == nil || len(keyPath) == 0 {
		return nil
	}

	node := root
	if node.Kind == yaml.DocumentNode {
		if len(node.Content) == 0 {
			return nil
		}
		node = node.Content[0]
	}

	for _, key := range keyPath {
		if node.Kind != yaml.MappingNode {
			return nil
		}
		node = mappingValue(node, key)
		if node == nil {
			return nil
		}
	}
	return node
}

func mappingValue(mapping *yaml.Node, key string) *yaml.Node {
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		if mapping.Content[i].Value == key {
			return mapping.Content[i+1]
		}
	}
	return nil
}

// GetConfigValue reads the scalar stored at key in the YAML config at
// configPath. ok is false when the file or the key does not exist.
func GetConfigValue(configPath, key string) (value string, ok bool, err error) {
	keyPath, err := ParseKeyPath(key)
	if err != nil {
		return "", false, err
	}

	data, err := os.ReadFile(configPath)
	if errors.Is(err, os.ErrNotExist) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("reading %s: %w", configPath, err)
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return "", false, nil
	}

	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return "", false, fmt.Errorf("parsing %s: %w", configPath, err)
	}
	node := GetNestedValue(&root, keyPath)
	if node == nil || node.Kind != yaml.ScalarNode {
		return "", false, nil
	}
	return node.Value, true, nil
}

// SetConfigValue validates value against the key's schema and writes it to
// the YAML config at configPath, creating the file and its directory if needed.
func SetConfigValue(configPath, key, value string) error {
	parsed, err := ValidateValue(key, value)
	if err != nil {
		return err
	}

	keyPath, err := ParseKeyPath(key)
	if err != nil {
		return err
	}

	var root yaml.Node
	data, err := os.ReadFile(configPath)
	switch {
	case err == nil:
		if err := ValidateYAMLSyntaxFromBytes(data, configPath); err != nil {
			return err
		}
		if len(strings.TrimSpace(string(data))) > 0 {
			if err := yaml.Unmarshal(data, &root); err != nil {
				return fmt.Errorf("parsing %s: %w", configPath, err)
			}
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return fmt.Errorf("reading %s: %w", configPath, err)
	}

	if err := SetNestedValue(&root, keyPath, parsed.Parsed); err != nil {
		return err
	}

	out, err := yaml.Marshal(&root)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(configPath, out, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", configPath, err)
	}
	return nil
}
