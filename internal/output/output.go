// Package output renders command results as JSON, YAML or a table.
package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"gopkg.in/yaml.v3"
)

// Format selects how a result is rendered.
type Format string

const (
	JSON  Format = "json"
	YAML  Format = "yaml"
	Table Format = "table"
)

// Formats lists the accepted values for ParseFormat.
var Formats = []Format{Table, JSON, YAML}

// ParseFormat validates a user-supplied format name. Matching is case-insensitive.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown output format %q (want one of table, json, yaml)", s)
}

// Tabular is implemented by values that can be drawn as a table.
type Tabular interface {
	Header() table.Row
	Rows() []table.Row
}

// Write renders v to w in format f. Table output requires v to implement Tabular.
func Write(w io.Writer, f Format, v any) error {
	switch f {
	case JSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case YAML:
		return writeYAML(w, v)
	case Table:
		t, ok := v.(Tabular)
		if !ok {
			return fmt.Errorf("output: %T cannot be rendered as a table", v)
		}
		writeTable(w, t)
		return nil
	default:
		return fmt.Errorf("output: unknown format %q", f)
	}
}

// writeYAML goes through the JSON form so keys match the API field names.
// Numbers are kept as json.Number to avoid float formatting of large ids.
func writeYAML(w io.Writer, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("output: encoding yaml: %w", err)
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var generic any
	if err := dec.Decode(&generic); err != nil {
		return fmt.Errorf("output: encoding yaml: %w", err)
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(generic); err != nil {
		return fmt.Errorf("output: encoding yaml: %w", err)
	}
	return enc.Close()
}

func writeTable(w io.Writer, t Tabular) {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(t.Header())
	tw.AppendRows(t.Rows())
	tw.Render()
}

// Fields is a two-column FIELD/VALUE table for single records.
type Fields []Field

// Field is one row of a Fields table.
type Field struct {
	Name  string
	Value any
}

// Header implements Tabular.
func (f Fields) Header() table.Row {
	return table.Row{"FIELD", "VALUE"}
}

// Rows implements Tabular.
func (f Fields) Rows() []table.Row {
	rows := make([]table.Row, 0, len(f))
	for _, field := range f {
		rows = append(rows, table.Row{field.Name, field.Value})
	}
	return rows
}
