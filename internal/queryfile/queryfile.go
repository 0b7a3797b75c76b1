// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package queryfile loads and saves search queries and results as JSON
// or YAML files, picking the codec by file extension. The CLI reads its
// search infiles and writes its templates and outfiles through here.
package queryfile

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/aurorax-space/go-aurorax/pkg/aurorax"
)

// Load reads path and decodes it into v. Files ending in .yaml or .yml
// decode as YAML, everything else as JSON.
func Load(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("%w: reading query file: %v", aurorax.ErrBadParameters, err)
	}
	if isYAML(path) {
		if err := yaml.Unmarshal(data, v); err != nil {
			return fmt.Errorf("%w: parsing query file %s: %v", aurorax.ErrBadParameters, path, err)
		}
		return nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: parsing query file %s: %v", aurorax.ErrBadParameters, path, err)
	}
	return nil
}

// Save writes v to path, as YAML for .yaml/.yml files and as JSON
// otherwise. JSON is indented by indent spaces (2 when indent is not
// positive) unless minify is set.
func Save(path string, v any, indent int, minify bool) error {
	var (
		data []byte
		err  error
	)
	if isYAML(path) {
		data, err = yaml.Marshal(v)
	} else {
		data, err = marshalJSON(v, indent, minify)
	}
	if err != nil {
		return fmt.Errorf("encoding query file: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing query file: %w", err)
	}
	return nil
}

// WriteJSON renders v as JSON on w, followed by a newline. Indented by
// indent spaces (2 when indent is not positive) unless minify is set.
func WriteJSON(w io.Writer, v any, indent int, minify bool) error {
	data, err := marshalJSON(v, indent, minify)
	if err != nil {
		return fmt.Errorf("encoding output: %w", err)
	}
	if _, err := fmt.Fprintf(w, "%s\n", data); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	return nil
}

func marshalJSON(v any, indent int, minify bool) ([]byte, error) {
	if minify {
		return json.Marshal(v)
	}
	if indent <= 0 {
		indent = 2
	}
	return json.MarshalIndent(v, "", strings.Repeat(" ", indent))
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}
