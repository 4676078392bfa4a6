package store

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"formdetect/internal/classify"
	"formdetect/internal/form/models"
	"formdetect/internal/sentinel"
)

func tempStorePath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "db.json")
}

func TestFileStore_LoadAllMissingFileIsEmptyCatalog(t *testing.T) {
	store := NewFileStore(tempStorePath(t))

	templates, err := store.LoadAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, templates)
}

func TestFileStore_AppendThenLoadAll(t *testing.T) {
	store := NewFileStore(tempStorePath(t))
	ctx := context.Background()

	first := models.NewTemplate("MyForm", models.Signature{
		"email": classify.TypeEmail,
		"phone": classify.TypePhone,
		"date":  classify.TypeDate,
		"text":  classify.TypeText,
	})
	second := models.NewTemplate("ContactRequest", models.Signature{
		"email":   classify.TypeEmail,
		"message": classify.TypeText,
	})

	require.NoError(t, store.Append(ctx, first))
	require.NoError(t, store.Append(ctx, second))

	templates, err := store.LoadAll(ctx)
	require.NoError(t, err)
	require.Len(t, templates, 2)

	// registration order preserved
	assert.Equal(t, "MyForm", templates[0].Name)
	assert.Equal(t, "ContactRequest", templates[1].Name)
	assert.True(t, first.Signature.Equal(templates[0].Signature))
	assert.True(t, second.Signature.Equal(templates[1].Signature))
}

// The persisted schema stores field types, never the submitted values.
func TestFileStore_PersistedSchema(t *testing.T) {
	path := tempStorePath(t)
	store := NewFileStore(path)

	template := models.NewTemplate("MyForm", models.Signature{"email": classify.TypeEmail})
	require.NoError(t, store.Append(context.Background(), template))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var records []struct {
		Name   string            `json:"name"`
		Fields map[string]string `json:"fields"`
	}
	require.NoError(t, json.Unmarshal(data, &records))
	require.Len(t, records, 1)
	assert.Equal(t, "MyForm", records[0].Name)
	assert.Equal(t, map[string]string{"email": "email"}, records[0].Fields)
}

func TestFileStore_LoadAllRejectsMalformedFile(t *testing.T) {
	path := tempStorePath(t)
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := NewFileStore(path).LoadAll(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, sentinel.ErrUnavailable)
}

func TestFileStore_LoadAllRejectsUnknownFieldType(t *testing.T) {
	path := tempStorePath(t)
	payload := `[{"name":"Broken","fields":{"age":"number"}}]`
	require.NoError(t, os.WriteFile(path, []byte(payload), 0o644))

	_, err := NewFileStore(path).LoadAll(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, sentinel.ErrInvalidInput)
}

func TestFileStore_Health(t *testing.T) {
	path := tempStorePath(t)
	store := NewFileStore(path)

	// missing file: catalog not written yet, still healthy
	assert.NoError(t, store.Health())

	require.NoError(t, store.Append(context.Background(), models.NewTemplate("T", models.Signature{"x": classify.TypeText})))
	assert.NoError(t, store.Health())
}
