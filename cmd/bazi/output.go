package main

import (
	"encoding/json"
	"fmt"
	"io"

	"bazi-fengshui/bazi"
	"bazi-fengshui/lunar"

	"gopkg.in/yaml.v3"
)

const (
	formatJSON = "json"
	formatYAML = "yaml"
)

func newEngine(model string) (*bazi.Engine, error) {
	m, err := bazi.ParseModel(model)
	if err != nil {
		return nil, err
	}
	return bazi.NewEngine(lunar.New(), bazi.WithModel(m)), nil
}

// writeOutput renders v as indented JSON or as YAML with the same keys.
func writeOutput(w io.Writer, format string, v interface{}) error {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case formatYAML:
		raw, err := json.Marshal(v)
		if err != nil {
			return err
		}
		var doc interface{}
		if err := json.Unmarshal(raw, &doc); err != nil {
			return err
		}
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown format %q (want json or yaml)", format)
	}
}
