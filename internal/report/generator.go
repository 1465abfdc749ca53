// Package report renders analytics and enrichment results as JSON, YAML or
// aligned text tables.
package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"fjacquet/spendtag/internal/logging"
)

// Supported output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// ValidateFormat checks that format is one Generate understands.
func ValidateFormat(format string) error {
	switch format {
	case FormatText, FormatJSON, FormatYAML:
		return nil
	default:
		return fmt.Errorf("unsupported output format: %s. Supported formats are 'text', 'json', 'yaml'", format)
	}
}

// Generator renders report values in the requested format.
type Generator struct {
	logger logging.Logger
}

// NewGenerator creates a new Generator.
func NewGenerator(logger logging.Logger) *Generator {
	return &Generator{logger: logging.OrDiscard(logger)}
}

// Generate renders v. Text output is only available for the value types
// listed in writeText.
func (g *Generator) Generate(v interface{}, format string) ([]byte, error) {
	switch format {
	case FormatJSON:
		return g.generateJSON(v)
	case FormatYAML:
		return g.generateYAML(v)
	case FormatText, "":
		var buf bytes.Buffer
		if err := writeText(&buf, v); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	default:
		return nil, ValidateFormat(format)
	}
}

// Write renders v to w.
func (g *Generator) Write(w io.Writer, v interface{}, format string) error {
	data, err := g.Generate(v, format)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

func (g *Generator) generateJSON(v interface{}) ([]byte, error) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		g.logger.WithError(err).Error("Failed to marshal JSON report")
		return nil, fmt.Errorf("failed to marshal JSON report: %w", err)
	}
	return append(out, '\n'), nil
}

func (g *Generator) generateYAML(v interface{}) ([]byte, error) {
	out, err := yaml.Marshal(v)
	if err != nil {
		g.logger.WithError(err).Error("Failed to marshal YAML report")
		return nil, fmt.Errorf("failed to marshal YAML report: %w", err)
	}
	return out, nil
}
