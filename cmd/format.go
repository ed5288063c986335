package cmd

import (
	"encoding/json"
	"io"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// writeFormatted encodes value as JSON or YAML, or hands it to table for the default format.
func writeFormatted(w io.Writer, format string, value interface{}, table func(io.Writer) error) error {
	switch format {
	case "json":
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(value)
	case "yaml":
		encoder := yaml.NewEncoder(w)
		defer func() { _ = encoder.Close() }()
		return encoder.Encode(value)
	case "table", "":
		return table(w)
	}

	return eris.Errorf("unknown format %s (must be one of table, json or yaml)", format)
}
