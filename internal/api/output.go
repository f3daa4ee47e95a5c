package api

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// OutputFormat defines the output format for CLI commands.
type OutputFormat string

const (
	OutputFormatYAML OutputFormat = "yaml"
	OutputFormatJSON OutputFormat = "json"
	OutputFormatText OutputFormat = "text"
)

// globalOutputFormat is set by the root command's --output flag.
var globalOutputFormat = OutputFormatText

// SetOutputFormat sets the global output format.
func SetOutputFormat(format string) {
	switch OutputFormat(format) {
	case OutputFormatJSON, OutputFormatYAML, OutputFormatText:
		globalOutputFormat = OutputFormat(format)
	default:
		globalOutputFormat = OutputFormatText
	}
}

// GetOutputFormat returns the current global output format.
func GetOutputFormat() OutputFormat {
	return globalOutputFormat
}

// Output writes data to stdout in the configured format. In text mode,
// string data is printed verbatim; everything else falls back to YAML.
func Output(data any) error {
	return OutputTo(os.Stdout, globalOutputFormat, data)
}

// OutputTo writes data to the given writer in the specified format.
func OutputTo(w io.Writer, format OutputFormat, data any) error {
	switch format {
	case OutputFormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(data)
	case OutputFormatText:
		if s, ok := data.(string); ok {
			_, err := fmt.Fprintln(w, s)
			return err
		}
		fallthrough
	case OutputFormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(data)
	default:
		return fmt.Errorf("unknown output format: %s", format)
	}
}
