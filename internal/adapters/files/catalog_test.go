package files

import (
	"os"
	"path/filepath"
	"testing"

	"courier-route-service/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCatalog(t *testing.T) *Catalog {
	t.Helper()
	dir := t.TempDir()
	for _, name := range []string{"smallPlan.xml", "grandPlan.xml", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("<reseau/>"), 0o644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.xml"), 0o755))
	return NewCatalog(dir)
}

func TestCatalogNames(t *testing.T) {
	names, err := newCatalog(t).Names()
	require.NoError(t, err)
	assert.Equal(t, []string{"grandPlan.xml", "smallPlan.xml"}, names)
}

func TestCatalogNamesMissingDir(t *testing.T) {
	names, err := NewCatalog(filepath.Join(t.TempDir(), "absent")).Names()
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestCatalogResolve(t *testing.T) {
	c := newCatalog(t)

	path, err := c.Resolve("smallPlan")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(c.Dir, "smallPlan.xml"), path)

	_, err = c.Resolve("mediumPlan.xml")
	assert.ErrorIs(t, err, domain.ErrFileNotFound)

	_, err = c.Resolve("nested.xml")
	assert.ErrorIs(t, err, domain.ErrFileNotFound)

	for _, bad := range []string{"../secret.xml", "a/b.xml", `a\b.xml`, ""} {
		_, err = c.Resolve(bad)
		assert.ErrorIs(t, err, domain.ErrInvalidFileName, bad)
	}
}

func TestCatalogReadFile(t *testing.T) {
	data, err := newCatalog(t).ReadFile("grandPlan")
	require.NoError(t, err)
	assert.Equal(t, "<reseau/>", string(data))
}
