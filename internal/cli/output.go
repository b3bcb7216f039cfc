package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"
)

// Output formats accepted by --format.
const (
	formatJSON  = "json"
	formatYAML  = "yaml"
	formatTable = "table"
)

// Status markers. Colors are dropped automatically when stdout is not a
// terminal or NO_COLOR is set.
func okMark() string { return color.GreenString("[ OK ]") }
func warnMark() string { return color.YellowString("[WARN]") }
func failLabel(s string) string {
	return color.New(color.FgRed, color.Bold).Sprint(s)
}

func checkFormat(cmd *cobra.Command, format string, allowed ...string) error {
	for _, a := range allowed {
		if format == a {
			return nil
		}
	}
	return usageErrorf(cmd, "unsupported --format %q (want one of %v)", format, allowed)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printYAML(w io.Writer, v any) error {
	plain, err := toPlain(v)
	if err != nil {
		return err
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(plain); err != nil {
		return fmt.Errorf("encoding yaml: %w", err)
	}
	return enc.Close()
}

func printFormat(w io.Writer, format string, v any) error {
	if format == formatYAML {
		return printYAML(w, v)
	}
	return printJSON(w, v)
}

// toPlain converts v to maps, slices and scalars through its JSON encoding
// so YAML output uses the same field names, with numbers as int64 or float64.
func toPlain(v any) (any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var out any
	if err := dec.Decode(&out); err != nil {
		return nil, err
	}
	return plainNumbers(out), nil
}

func plainNumbers(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, val := range t {
			t[k] = plainNumbers(val)
		}
	case []any:
		for i, val := range t {
			t[i] = plainNumbers(val)
		}
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return i
		}
		if f, err := t.Float64(); err == nil {
			return f
		}
		return t.String()
	}
	return v
}
