package issuer

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// AdminExport — админский side-channel с плейнтекстом ключей.
// Сервис эти файлы никогда не читает; ядро их не трогает.
type AdminExport struct {
	Dir string
}

const (
	keysFile    = "keys.txt"
	summaryFile = "licenses.json"
)

type summary struct {
	Licenses  []string `json:"licenses"`
	DaysValid int      `json:"days_valid"`
	Metadata  string   `json:"metadata"`
}

// AppendKeys дописывает плейнтекст-ключи в keys.txt (по одному на строку).
func (e AdminExport) AppendKeys(issued []Issued) error {
	if err := os.MkdirAll(e.Dir, 0o700); err != nil {
		return fmt.Errorf("admin export: %w", err)
	}
	f, err := os.OpenFile(filepath.Join(e.Dir, keysFile), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return fmt.Errorf("admin export: %w", err)
	}
	defer f.Close()
	for _, one := range issued {
		if _, err := fmt.Fprintln(f, one.Key); err != nil {
			return fmt.Errorf("admin export: %w", err)
		}
	}
	return nil
}

// WriteSummary пишет licenses.json по итогам серии выпуска.
func (e AdminExport) WriteSummary(issued []Issued, days int, metadata string) error {
	if err := os.MkdirAll(e.Dir, 0o700); err != nil {
		return fmt.Errorf("admin export: %w", err)
	}
	keys := make([]string, len(issued))
	for i, one := range issued {
		keys[i] = one.Key
	}
	data, err := json.MarshalIndent(summary{Licenses: keys, DaysValid: days, Metadata: metadata}, "", "    ")
	if err != nil {
		return fmt.Errorf("admin export: %w", err)
	}
	if err := os.WriteFile(filepath.Join(e.Dir, summaryFile), data, 0o600); err != nil {
		return fmt.Errorf("admin export: %w", err)
	}
	return nil
}
