package dataset

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
)

// Info describes one discoverable dataset folder.
type Info struct {
	Name     string `json:"name"`
	Dir      string `json:"dir"`
	Location string `json:"location"`
}

// Dataset folders follow the export convention "<n>. <name>".
var datasetDirRegex = regexp.MustCompile(`^\d+\.\s*(.+)$`)

// Discover lists dataset folders under root. The store file does not have to
// exist yet; opening a discovered dataset creates it.
func Discover(root string) ([]Info, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("dataset: readdir %s: %w", root, err)
	}
	var infos []Info
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		m := datasetDirRegex.FindStringSubmatch(e.Name())
		if m == nil {
			continue
		}
		dir := filepath.Join(root, e.Name())
		infos = append(infos, Info{
			Name:     m[1],
			Dir:      dir,
			Location: filepath.Join(dir, StoreFile),
		})
	}
	return infos, nil
}
