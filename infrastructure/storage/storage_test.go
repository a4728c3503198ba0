package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"todo_e2e/domain/entities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfileDirsAreUnique(t *testing.T) {
	root := t.TempDir()

	a, err := NewProfileDir(root)
	require.NoError(t, err)
	b, err := NewProfileDir(root)
	require.NoError(t, err)

	assert.NotEqual(t, a.Path, b.Path)
	assert.True(t, strings.HasPrefix(filepath.Base(a.Path), profilePrefix))
	assert.DirExists(t, a.Path)

	require.NoError(t, a.Remove())
	require.NoError(t, a.Remove())
	assert.NoDirExists(t, a.Path)
	assert.DirExists(t, b.Path)
}

func TestArtifactStore(t *testing.T) {
	dir := t.TempDir()
	store, err := NewArtifactStore(dir)
	require.NoError(t, err)

	path, err := store.SaveScreenshot("remove item/1", []byte("png"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(filepath.Base(path), "remove_item_1_"))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "png", string(data))

	report := entities.Report{
		Driver:    "memory",
		StartedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		Results: []entities.CaseResult{
			{Name: "add-item", Status: entities.CaseStatusPassed, Closed: true},
			{Name: "remove-item", Status: entities.CaseStatusFailed, Error: "boom", Closed: true},
		},
	}
	require.NoError(t, store.SaveReport(report))

	loaded, err := LoadReport(dir)
	require.NoError(t, err)
	assert.Equal(t, report.Results, loaded.Results)
	assert.False(t, loaded.OK())
	assert.Len(t, loaded.Failed(), 1)
}
