package summarizer

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Formatter defines the interface for formatting a Summary.
type Formatter interface {
	// Format converts a Summary to a formatted string.
	Format(summary *Summary) string
}

// FormatFunc is a function adapter for the Formatter interface.
type FormatFunc func(summary *Summary) string

// Format implements the Formatter interface.
func (f FormatFunc) Format(summary *Summary) string {
	return f(summary)
}

// NewYAMLFormatter returns a Formatter that renders the summary as YAML.
func NewYAMLFormatter() Formatter {
	return FormatFunc(func(summary *Summary) string {
		data, err := yaml.Marshal(summary)
		if err != nil {
			return fmt.Sprintf("# failed to marshal summary: %v\n", err)
		}
		return string(data)
	})
}
