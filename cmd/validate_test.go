package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/Ramsey-B/mint/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runValidate(t *testing.T, content string) (models.ValidationResult, error) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "bundle.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"validate", path})
	err := cmd.Execute()

	var result models.ValidationResult
	require.NoError(t, json.Unmarshal(out.Bytes(), &result))
	return result, err
}

func TestValidateCommand(t *testing.T) {
	t.Run("valid bundle", func(t *testing.T) {
		result, err := runValidate(t, `{
			"exportVersion": "1.0",
			"exportDate": "2026-03-14T09:26:53Z",
			"cocktailRecipes": [{"id": "r1", "name": "Mojito"}]
		}`)
		require.NoError(t, err)
		assert.True(t, result.Valid)
		assert.Equal(t, 1, result.Summary.CocktailCount)
	})

	t.Run("invalid bundle", func(t *testing.T) {
		result, err := runValidate(t, `{"exportVersion": "2.0"}`)
		require.Error(t, err)
		assert.False(t, result.Valid)
		assert.NotEmpty(t, result.Errors)
	})

	t.Run("missing file", func(t *testing.T) {
		cmd := newRootCmd()
		cmd.SetOut(&bytes.Buffer{})
		cmd.SetArgs([]string{"validate", filepath.Join(t.TempDir(), "missing.json")})
		assert.Error(t, cmd.Execute())
	})
}
