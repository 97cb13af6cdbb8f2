// Package jsonout writes the JSON artifacts produced by a processing run.
package jsonout

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Write serializes v as indented JSON to path, creating parent
// directories as needed. HTML escaping is off so rate text like
// "3 < incluidos" survives round-trips readably.
func Write(path string, v any) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("jsonout.Write mkdir %s: %w", dir, err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("jsonout.Write create %s: %w", path, err)
	}
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		f.Close()
		return fmt.Errorf("jsonout.Write encode %s: %w", path, err)
	}
	return f.Close()
}
