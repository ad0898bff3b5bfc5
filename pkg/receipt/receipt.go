// pkg/receipt/receipt.go
package receipt

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// FileName is the receipt written into every keg
const FileName = "INSTALL_RECEIPT.json"

// Receipt records how a keg was built
type Receipt struct {
	Name         string   `json:"name"`
	Version      string   `json:"version"`
	Head         bool     `json:"head"`
	Options      []string `json:"options"`      // enabled build options
	Dependencies []string `json:"dependencies"` // resolved dependency names
	Runtimes     []string `json:"runtimes"`     // python interpreters built for
	Source       Source   `json:"source"`
	Files        []string `json:"files"` // installed files, from --record
	InstalledAt  string   `json:"installed_at"`
}

// Source identifies what was built
type Source struct {
	URL      string `json:"url"`
	Checksum string `json:"checksum,omitempty"`
}

// New creates a receipt stamped with the current time
func New(name, version string) *Receipt {
	return &Receipt{
		Name:        name,
		Version:     version,
		InstalledAt: time.Now().UTC().Format(time.RFC3339),
	}
}

// Write saves the receipt into prefix
func Write(prefix string, r *Receipt) error {
	if err := os.MkdirAll(prefix, 0755); err != nil {
		return fmt.Errorf("creating keg directory: %w", err)
	}

	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling receipt: %w", err)
	}

	if err := os.WriteFile(filepath.Join(prefix, FileName), data, 0644); err != nil {
		return fmt.Errorf("writing receipt: %w", err)
	}
	return nil
}

// Read loads the receipt from prefix
func Read(prefix string) (*Receipt, error) {
	data, err := os.ReadFile(filepath.Join(prefix, FileName))
	if err != nil {
		return nil, fmt.Errorf("reading receipt: %w", err)
	}

	var r Receipt
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("parsing receipt: %w", err)
	}
	return &r, nil
}

// List returns every receipt under <root>/Cellar, sorted by name then
// version. Kegs without a readable receipt are skipped.
func List(root string) ([]*Receipt, error) {
	kegs, err := filepath.Glob(filepath.Join(root, "Cellar", "*", "*", FileName))
	if err != nil {
		return nil, err
	}

	var receipts []*Receipt
	for _, path := range kegs {
		r, err := Read(filepath.Dir(path))
		if err != nil {
			continue
		}
		receipts = append(receipts, r)
	}

	sort.Slice(receipts, func(i, j int) bool {
		if receipts[i].Name != receipts[j].Name {
			return receipts[i].Name < receipts[j].Name
		}
		return receipts[i].Version < receipts[j].Version
	})
	return receipts, nil
}

// AddFiles appends installed files, skipping duplicates
func (r *Receipt) AddFiles(files ...string) {
	seen := make(map[string]bool, len(r.Files))
	for _, f := range r.Files {
		seen[f] = true
	}
	for _, f := range files {
		if !seen[f] {
			seen[f] = true
			r.Files = append(r.Files, f)
		}
	}
}

// ParseRecord reads a setup.py --record file: one installed path per line
func ParseRecord(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening record: %w", err)
	}
	defer f.Close()

	var files []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			files = append(files, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading record: %w", err)
	}
	return files, nil
}
