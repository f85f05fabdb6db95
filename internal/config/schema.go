package config

import (
	"fmt"
	"maps"
	"slices"
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
	Path          string          // Key path (e.g., "max_parallel")
	Type          ConfigValueType // Expected value type for validation
	AllowedValues []string        // Valid values for enum types (empty for non-enums)
	Description   string          // Human-readable description for help text
	Default       any             // Default value
}

// KnownKeys is the registry of all known configuration keys with their schemas.
var KnownKeys = map[string]ConfigKeySchema{
	"parser": {
		Path:          "parser",
		Type:          TypeEnum,
		AllowedValues: []string{"uv", "pip"},
		Description:   "Dependency tool whose output is parsed",
		Default:       "uv",
	},
	"output_format": {
		Path:          "output_format",
		Type:          TypeEnum,
		AllowedValues: []string{"terminal", "html", "markdown", "json"},
		Description:   "Report format",
		Default:       "terminal",
	},
	"output_file": {
		Path:        "output_file",
		Type:        TypeString,
		Description: "File to write the report to (html defaults to changelog_report.html)",
		Default:     "",
	},
	"plain": {
		Path:        "plain",
		Type:        TypeBool,
		Description: "Disable colors and spinners in terminal output",
		Default:     false,
	},
	"max_parallel": {
		Path:        "max_parallel",
		Type:        TypeInt,
		Description: "Maximum packages researched concurrently (1-32)",
		Default:     8,
	},
	"http_timeout": {
		Path:        "http_timeout",
		Type:        TypeDuration,
		Description: "Per-request HTTP timeout (e.g., 15s, 1m)",
		Default:     "15s",
	},
	"requests_per_second": {
		Path:        "requests_per_second",
		Type:        TypeFloat,
		Description: "Outbound request rate limit (0 = unlimited)",
		Default:     10.0,
	},
	"github_token": {
		Path:        "github_token",
		Type:        TypeString,
		Description: "GitHub token for API search, archives and clones (falls back to GITHUB_TOKEN)",
		Default:     "",
	},
	"fetch_method": {
		Path:          "fetch_method",
		Type:          TypeEnum,
		AllowedValues: []string{"archive", "git"},
		Description:   "How repositories are fetched: archive download or shallow git clone",
		Default:       "archive",
	},
	"search_fallback": {
		Path:        "search_fallback",
		Type:        TypeBool,
		Description: "Search GitHub when PyPI metadata has no repository URL",
		Default:     true,
	},
	"pypi_url": {
		Path:        "pypi_url",
		Type:        TypeString,
		Description: "Base URL of the PyPI JSON API",
		Default:     "https://pypi.org",
	},
	"github_api_url": {
		Path:        "github_api_url",
		Type:        TypeString,
		Description: "Base URL of the GitHub REST API",
		Default:     "https://api.github.com",
	},
	"github_url": {
		Path:        "github_url",
		Type:        TypeString,
		Description: "Base URL for GitHub archives, clones and blob links",
		Default:     "https://github.com",
	},
	"log_level": {
		Path:          "log_level",
		Type:          TypeEnum,
		AllowedValues: []string{"debug", "info", "warn", "error"},
		Description:   "Minimum log level written to stderr",
		Default:       "warn",
	},
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

// SortedKeys returns every known key in alphabetical order.
func SortedKeys() []string {
	return slices.Sorted(maps.Keys(KnownKeys))
}

// ParsedValue represents a configuration value after type inference and validation.
type ParsedValue struct {
	Raw    string // Original string input from user
	Parsed any    // Value converted to correct type
	Type   ConfigValueType
}

// ValidateValue validates a value against the schema for a given key.
// Returns the parsed value or an error with details about what's wrong.
func ValidateValue(key, value string) (ParsedValue, error) {
	schema, err := GetKeySchema(key)
	if err != nil {
		return ParsedValue{}, err
	}
	return validateAgainstSchema(schema, value)
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
