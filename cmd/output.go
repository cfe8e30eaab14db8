package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

type outputFormat string

const (
	formatText outputFormat = "text"
	formatJSON outputFormat = "json"
	formatYAML outputFormat = "yaml"
)

func parseOutputFormat(raw string) (outputFormat, error) {
	switch format := outputFormat(strings.ToLower(strings.TrimSpace(raw))); format {
	case formatText, formatJSON, formatYAML:
		return format, nil
	case "":
		return formatText, nil
	default:
		return "", fmt.Errorf("unsupported output format %q (want text, json or yaml)", raw)
	}
}

// writeOutput encodes value as JSON or YAML, or calls text for the human
// readable form.
func writeOutput(w io.Writer, format outputFormat, value any, text func() (string, error)) error {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(value)
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(value); err != nil {
			return err
		}
		return enc.Close()
	default:
		rendered, err := text()
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, rendered)
		return err
	}
}
