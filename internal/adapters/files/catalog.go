// Package files lists and opens the XML documents served by the API:
// plan files and delivery request files, each kept in a flat directory.
package files

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"courier-route-service/internal/domain"
)

// Catalog is a read-only view of one directory of *.xml files.
type Catalog struct {
	Dir string
}

func NewCatalog(dir string) *Catalog {
	return &Catalog{Dir: dir}
}

// Names returns the sorted names of the *.xml files in the directory. A
// missing directory yields an empty list.
func (c *Catalog) Names() ([]string, error) {
	entries, err := os.ReadDir(c.Dir)
	if errors.Is(err, fs.ErrNotExist) {
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("list %q: %w", c.Dir, err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".xml") {
			continue
		}
		names = append(names, e.Name())
	}
	slices.Sort(names)
	return names, nil
}

// Resolve appends ".xml" when missing and returns the file's path inside the
// directory. Names with path separators or ".." are rejected.
func (c *Catalog) Resolve(name string) (string, error) {
	name = domain.XMLFileName(name)
	if name == "" || strings.ContainsAny(name, `/\`) || strings.Contains(name, "..") {
		return "", fmt.Errorf("resolve %q: %w", name, domain.ErrInvalidFileName)
	}

	path := filepath.Join(c.Dir, name)
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) || (err == nil && info.IsDir()) {
		return "", fmt.Errorf("resolve %q: %w", name, domain.ErrFileNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("resolve %q: %w", name, err)
	}
	return path, nil
}

func (c *Catalog) Open(name string) (*os.File, error) {
	path, err := c.Resolve(name)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %q: %w", name, err)
	}
	return f, nil
}

func (c *Catalog) ReadFile(name string) ([]byte, error) {
	path, err := c.Resolve(name)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %q: %w", name, err)
	}
	return data, nil
}
