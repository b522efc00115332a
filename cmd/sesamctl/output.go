package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/gpse/sesam-client/config"
	"github.com/jmespath-community/go-jmespath"
	"gopkg.in/yaml.v3"
)

// tableFn writes tab-separated rows; the printer aligns them.
type tableFn func(w io.Writer)

type printer struct {
	out    io.Writer
	format config.OutputFormat
	query  string
}

// print renders v in the selected format. Results filtered by --query have no
// fixed shape, so in table mode they fall back to JSON.
func (p *printer) print(v any, table tableFn) error {
	if p.query != "" {
		filtered, err := applyQuery(p.query, v)
		if err != nil {
			return err
		}
		v, table = filtered, nil
	}

	switch p.format {
	case config.OutputYAML:
		return p.yaml(v)
	case config.OutputJSON:
		return p.json(v)
	default:
		if table == nil {
			return p.json(v)
		}
		tw := tabwriter.NewWriter(p.out, 0, 4, 2, ' ', 0)
		table(tw)
		return tw.Flush()
	}
}

func (p *printer) json(v any) error {
	enc := json.NewEncoder(p.out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}

func (p *printer) yaml(v any) error {
	generic, err := toGeneric(v, true)
	if err != nil {
		return err
	}
	enc := yaml.NewEncoder(p.out)
	enc.SetIndent(2)
	if err := enc.Encode(generic); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	return enc.Close()
}

// toGeneric round-trips v through JSON so field names follow the json tags.
// With keepInts, integral numbers stay int64 instead of float64.
func toGeneric(v any, keepInts bool) (any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode result: %w", err)
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	if keepInts {
		dec.UseNumber()
	}
	var out any
	if err := dec.Decode(&out); err != nil {
		return nil, fmt.Errorf("decode result: %w", err)
	}
	if keepInts {
		out = normalizeNumbers(out)
	}
	return out, nil
}

func normalizeNumbers(v any) any {
	switch t := v.(type) {
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return i
		}
		f, _ := t.Float64()
		return f
	case map[string]any:
		for k, e := range t {
			t[k] = normalizeNumbers(e)
		}
	case []any:
		for i, e := range t {
			t[i] = normalizeNumbers(e)
		}
	}
	return v
}

func applyQuery(expr string, v any) (any, error) {
	if _, err := jmespath.Compile(expr); err != nil {
		return nil, fmt.Errorf("invalid --query: %w", err)
	}
	data, err := toGeneric(v, false)
	if err != nil {
		return nil, err
	}
	out, err := jmespath.Search(expr, data)
	if err != nil {
		return nil, fmt.Errorf("apply --query: %w", err)
	}
	return out, nil
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
