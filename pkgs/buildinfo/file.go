package buildinfo

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// Marshal encodes t as JSON. Keys are sorted, so equal tables always encode
// to the same bytes.
func Marshal(t Table) ([]byte, error) {
	if t == nil {
		t = Table{}
	}
	return json.Marshal(t)
}

// WriteFile persists t at path, creating parent directories as needed.
func WriteFile(path string, t Table) error {
	data, err := Marshal(t)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadFile loads a table written by WriteFile.
func ReadFile(path string) (Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var t Table
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, err
	}
	return t, nil
}
