package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-yaml"
)

// OutputFormat selects how Output renders a result.
type OutputFormat string

const (
	FormatYAML OutputFormat = "yaml"
	FormatJSON OutputFormat = "json"
	// FormatRaw writes []byte and string results as-is and anything else as
	// YAML.
	FormatRaw OutputFormat = "raw"
)

// OutputOptions configures output behavior.
type OutputOptions struct {
	Format OutputFormat

	// File is the output file path (empty for stdout).
	File string

	// Indent is the indentation for JSON output.
	Indent string

	// Writer overrides File.
	Writer io.Writer
}

// Output writes result to the configured destination.
func Output(result any, opts OutputOptions) error {
	var w io.Writer = os.Stdout

	if opts.Writer != nil {
		w = opts.Writer
	} else if opts.File != "" {
		f, err := os.Create(opts.File)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		w = f
	}

	switch opts.Format {
	case FormatJSON:
		return outputJSON(w, result, opts.Indent)
	case FormatYAML, "":
		return outputYAML(w, result)
	case FormatRaw:
		return outputRaw(w, result)
	default:
		return fmt.Errorf("unsupported output format: %s", opts.Format)
	}
}

func outputJSON(w io.Writer, result any, indent string) error {
	enc := json.NewEncoder(w)
	if indent == "" {
		indent = "  "
	}
	enc.SetIndent("", indent)
	return enc.Encode(result)
}

func outputYAML(w io.Writer, result any) error {
	data, err := yaml.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}
	_, err = w.Write(data)
	return err
}

func outputRaw(w io.Writer, result any) error {
	switch v := result.(type) {
	case []byte:
		_, err := w.Write(v)
		return err
	case string:
		_, err := io.WriteString(w, v)
		return err
	default:
		return outputYAML(w, result)
	}
}

// Print helpers write to stderr; stdout is reserved for audio and results.

// Stderr is where the print helpers write.
var Stderr io.Writer = os.Stderr

// PrintSuccess prints a success message with checkmark.
func PrintSuccess(format string, args ...any) {
	fmt.Fprintln(Stderr, DefaultStyles.OK.Render("✓")+" "+fmt.Sprintf(format, args...))
}

// PrintError prints an error message.
func PrintError(format string, args ...any) {
	fmt.Fprintln(Stderr, DefaultStyles.Fail.Render("Error:")+" "+fmt.Sprintf(format, args...))
}

// PrintInfo prints an info message.
func PrintInfo(format string, args ...any) {
	fmt.Fprintf(Stderr, "ℹ "+format+"\n", args...)
}

// PrintWarning prints a warning message.
func PrintWarning(format string, args ...any) {
	fmt.Fprintln(Stderr, DefaultStyles.Warn.Render("⚠")+" "+fmt.Sprintf(format, args...))
}
