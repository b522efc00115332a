package config

import (
	"fmt"
	"strings"
)

// OutputFormat selects how sesamctl renders results.
type OutputFormat string

const (
	OutputTable OutputFormat = "table"
	OutputJSON  OutputFormat = "json"
	OutputYAML  OutputFormat = "yaml"
)

// UnmarshalText implements encoding.TextUnmarshaler for OutputFormat.
func (f *OutputFormat) UnmarshalText(text []byte) error {
	v := strings.ToLower(strings.TrimSpace(string(text)))
	switch v {
	case "table", "json", "yaml":
		*f = OutputFormat(v)
		return nil
	case "yml":
		*f = OutputYAML
		return nil
	default:
		return fmt.Errorf("invalid OutputFormat: %q (valid options: table, json, yaml)", v)
	}
}

// String implements fmt.Stringer; together with Set and Type it satisfies pflag.Value.
func (f *OutputFormat) String() string { return string(*f) }

// Set parses s into f.
func (f *OutputFormat) Set(s string) error { return f.UnmarshalText([]byte(s)) }

// Type names the flag value type in help output.
func (f *OutputFormat) Type() string { return "format" }

// CLIConfig holds sesamctl defaults that flags can override.
type CLIConfig struct {
	Output OutputFormat `env:"SESAM_OUTPUT" envDefault:"table"`
}
