package config

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// ConfigValueType defines the expected type for a configuration value.
type ConfigValueType int

const (
	TypeBool ConfigValueType = iota
	TypeInt
	TypeFloat
	TypeDuration
	TypeString
	TypeEnum
)

// String returns the string representation of ConfigValueType.
func (t ConfigValueType) String() string {
	switch t {
	case TypeBool:
		return "bool"
	case TypeInt:
		return "int"
	case TypeFloat:
		return "float"
	case TypeDuration:
		return "duration"
	case TypeString:
		return "string"
	case TypeEnum:
		return "enum"
	default:
		return "unknown"
	}
}

// ConfigKeySchema defines a known configuration key with its expected type and validation rules.
type ConfigKeySchema struct {
	Path          string          // Dotted key path (e.g., "watch.debounce")
	Type          ConfigValueType // Expected value type for validation
	AllowedValues []string        // Valid values for enum types (empty for non-enums)
	Description   string          // Human-readable description for help text
	Default       interface{}     // Default value
}

// KnownKeys is the registry of all known configuration keys with their schemas.
var KnownKeys = map[string]ConfigKeySchema{
	"source": {
		Path:          "source",
		Type:          TypeEnum,
		AllowedValues: []string{SourceGit, SourceFile},
		Description:   "Where version history is read from",
		Default:       SourceGit,
	},
	"repo_path": {
		Path:        "repo_path",
		Type:        TypeString,
		Description: "Repository path for the git source (empty = current directory)",
		Default:     "",
	},
	"ref": {
		Path:        "ref",
		Type:        TypeString,
		Description: "Revision whose history is read (empty = HEAD)",
		Default:     "",
	},
	"log_file": {
		Path:        "log_file",
		Type:        TypeString,
		Description: "YAML or JSON log document for the file source",
		Default:     "",
	},
	"component_id": {
		Path:        "component_id",
		Type:        TypeString,
		Description: "Component name shown in output",
		Default:     "",
	},
	"output": {
		Path:          "output",
		Type:          TypeEnum,
		AllowedValues: []string{"text", "markdown", "json", "yaml"},
		Description:   "Output format for compare and log",
		Default:       "text",
	},
	"plain": {
		Path:        "plain",
		Type:        TypeBool,
		Description: "Disable colors and badge icons",
		Default:     false,
	},
	"max_width": {
		Path:        "max_width",
		Type:        TypeInt,
		Description: "Wrap width for messages (0 = terminal width)",
		Default:     0,
	},
	"debug": {
		Path:        "debug",
		Type:        TypeBool,
		Description: "Verbose debug logging to stderr",
		Default:     false,
	},
	"watch.debounce": {
		Path:        "watch.debounce",
		Type:        TypeDuration,
		Description: "Collapse bursts of file events into one reload (e.g., 300ms, 1s)",
		Default:     "300ms",
	},
}

// SortedKeys returns the known key paths in alphabetical order.
func SortedKeys() []string {
	keys := make([]string, 0, len(KnownKeys))
	for k := range KnownKeys {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ErrUnknownKey is returned when trying to access an unknown configuration key.
type ErrUnknownKey struct {
	Key string
}

func (e ErrUnknownKey) Error() string {
	return "unknown configuration key: " + e.Key
}

// GetKeySchema returns the schema for a known configuration key.
// Returns ErrUnknownKey if the key is not in the registry.
func GetKeySchema(path string) (ConfigKeySchema, error) {
	schema, ok := KnownKeys[path]
	if !ok {
		return ConfigKeySchema{}, ErrUnknownKey{Key: path}
	}
	return schema, nil
}

// InferType determines the ConfigValueType from a string value.
// Order of inference: bool literals -> integers -> durations -> string fallback.
func InferType(value string) ConfigValueType {
	if value == "true" || value == "false" {
		return TypeBool
	}
	if _, err := strconv.Atoi(value); err == nil {
		return TypeInt
	}
	if _, err := time.ParseDuration(value); err == nil {
		return TypeDuration
	}
	return TypeString
}

// ParsedValue represents a configuration value after type inference and validation.
type ParsedValue struct {
	Raw    string      // Original string input from user
	Parsed interface{} // Value converted to correct type
	Type   ConfigValueType
}

// ValidateValue validates a value against the schema for a given key.
// Returns the parsed value or an error with details about what's wrong.
func ValidateValue(key, value string) (ParsedValue, error) {
	schema, err := GetKeySchema(key)
	if err != nil {
		return ParsedValue{}, err
	}
	parsed, err := validateAgainstSchema(schema, value)
	if err != nil {
		if inferred := InferType(value); inferred != TypeString && inferred != schema.Type {
			return ParsedValue{}, fmt.Errorf("%w; %s looks like a %s but %s expects %s",
				err, value, inferred, key, schema.Type)
		}
		return ParsedValue{}, err
	}
	return parsed, nil
}

// validateAgainstSchema validates a value against a specific schema.
func validateAgainstSchema(schema ConfigKeySchema, value string) (ParsedValue, error) {
	switch schema.Type {
	case TypeBool:
		return parseBoolValue(value)
	case TypeInt:
		return parseIntValue(value)
	case TypeFloat:
		return parseFloatValue(value)
	case TypeDuration:
		return parseDurationValue(value)
	case TypeEnum:
		return parseEnumValue(schema, value)
	case TypeString:
		return ParsedValue{Raw: value, Parsed: value, Type: TypeString}, nil
	default:
		return ParsedValue{}, fmt.Errorf("unsupported type: %v", schema.Type)
	}
}

// parseBoolValue parses and validates a boolean value.
func parseBoolValue(value string) (ParsedValue, error) {
	switch strings.ToLower(value) {
	case "true":
		return ParsedValue{Raw: value, Parsed: true, Type: TypeBool}, nil
	case "false":
		return ParsedValue{Raw: value, Parsed: false, Type: TypeBool}, nil
	default:
		return ParsedValue{}, fmt.Errorf("invalid boolean: %q (expected true or false)", value)
	}
}

// parseIntValue parses and validates an integer value.
func parseIntValue(value string) (ParsedValue, error) {
	n, err := strconv.Atoi(value)
	if err != nil {
		return ParsedValue{}, fmt.Errorf("invalid integer: %q", value)
	}
	return ParsedValue{Raw: value, Parsed: n, Type: TypeInt}, nil
}

// parseFloatValue parses and validates a float value.
func parseFloatValue(value string) (ParsedValue, error) {
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return ParsedValue{}, fmt.Errorf("invalid float: %q", value)
	}
	return ParsedValue{Raw: value, Parsed: f, Type: TypeFloat}, nil
}

// parseDurationValue parses and validates a duration value.
func parseDurationValue(value string) (ParsedValue, error) {
	d, err := time.ParseDuration(value)
	if err != nil {
		return ParsedValue{}, fmt.Errorf("invalid duration: %q (examples: 5m, 1h30m, 10s)", value)
	}
	return ParsedValue{Raw: value, Parsed: d.String(), Type: TypeDuration}, nil
}

// parseEnumValue validates a value against allowed enum options.
func parseEnumValue(schema ConfigKeySchema, value string) (ParsedValue, error) {
	for _, allowed := range schema.AllowedValues {
		if value == allowed {
			return ParsedValue{Raw: value, Parsed: value, Type: TypeEnum}, nil
		}
	}
	return ParsedValue{}, fmt.Errorf(
		"invalid value: %q (valid options: %s)",
		value,
		strings.Join(schema.AllowedValues, ", "),
	)
}
