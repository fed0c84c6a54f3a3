package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSeedFile(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		want    []string
		wantErr string
	}{
		{"valid", "categories:\n  - Books\n  - Toys\n", []string{"Books", "Toys"}, ""},
		{"unknown key", "categorys:\n  - Books\n", nil, "failed to parse YAML"},
		{"empty file", "", nil, "empty"},
		{"empty list", "categories: []\n", nil, "no categories"},
		{"not a list", "categories: Books\n", nil, "failed to parse YAML"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			seed, err := parseSeedFile([]byte(tc.data))
			if tc.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, seed.Categories)
		})
	}
}

func TestCategoryAddCommand(t *testing.T) {
	dbPath := setupEnv(t)

	out, err := execute(t, "category", "add", "Books", "Home & Garden")
	require.NoError(t, err)
	assert.Contains(t, out, `created category "Books"`)
	assert.Contains(t, out, `created category "Home & Garden"`)

	_, err = execute(t, "category", "add", "Books")
	require.Error(t, err)

	cats, err := openTestDB(t, dbPath).Categories().List(context.Background())
	require.NoError(t, err)
	assert.Len(t, cats, 2)
}

func TestCategorySeedCommand(t *testing.T) {
	dbPath := setupEnv(t)

	_, err := execute(t, "category", "add", "Books")
	require.NoError(t, err)

	seedPath := filepath.Join(t.TempDir(), "categories.yaml")
	require.NoError(t, os.WriteFile(seedPath, []byte("categories:\n  - Books\n  - Toys\n  - Music\n"), 0o600))

	out, err := execute(t, "category", "seed", seedPath)
	require.NoError(t, err)
	assert.Contains(t, out, "seeded 2 new of 3 categories")

	out, err = execute(t, "category", "seed", seedPath)
	require.NoError(t, err)
	assert.Contains(t, out, "seeded 0 new of 3 categories")

	cats, err := openTestDB(t, dbPath).Categories().List(context.Background())
	require.NoError(t, err)
	names := make([]string, len(cats))
	for i, c := range cats {
		names[i] = c.Name
	}
	assert.ElementsMatch(t, []string{"Books", "Toys", "Music"}, names)
}

func TestCategorySeedMissingFile(t *testing.T) {
	setupEnv(t)
	_, err := execute(t, "category", "seed", filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read seed file")
}
