package catalog

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Open picks a provider for path:
//   - a .yaml or .yml file: YAMLProvider
//   - a directory holding cpus.csv: CSVProvider
//   - a directory holding .cue files: CUEProvider
func Open(path string) (Provider, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}

	if !info.IsDir() {
		switch strings.ToLower(filepath.Ext(path)) {
		case ".yaml", ".yml":
			return NewYAMLProvider(path), nil
		case ".cue":
			return NewCUEProvider(filepath.Dir(path)), nil
		}
		return nil, fmt.Errorf("open catalog: unsupported file %s", path)
	}

	if _, err := os.Stat(filepath.Join(path, CPU.FileName())); err == nil {
		return CSVProvider{Dir: path}, nil
	}

	cueFiles, err := filepath.Glob(filepath.Join(path, "*.cue"))
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	if len(cueFiles) > 0 {
		return NewCUEProvider(path), nil
	}

	return nil, fmt.Errorf("open catalog: %s holds neither %s nor .cue files", path, CPU.FileName())
}

// LoadPath opens path and loads the full catalog from it.
func LoadPath(ctx context.Context, path string) (*Catalog, error) {
	p, err := Open(path)
	if err != nil {
		return nil, err
	}
	return Load(ctx, p)
}
