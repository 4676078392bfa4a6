package seeder

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"formdetect/internal/classify"
	"formdetect/internal/form/service"
	"formdetect/internal/form/store"
)

func newSeededService(t *testing.T) *service.Service {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	storage := store.NewFileStore(filepath.Join(t.TempDir(), "db.json"))
	return service.New(store.NewInMemory(), storage, classify.New(), logger)
}

func TestSeedAll(t *testing.T) {
	svc := newSeededService(t)
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	ctx := context.Background()

	seeded, err := New(svc, logger).SeedAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, len(defaultTemplates), seeded)

	// the reference submission resolves to the seeded MyForm template
	result, err := svc.Match(ctx, map[string]string{
		"email": "d@a.w",
		"phone": "+78005553535",
		"date":  "11.08.1997",
		"text":  "xyz",
	})
	require.NoError(t, err)
	assert.True(t, result.Matched)
	assert.Equal(t, "MyForm", result.TemplateName)
}

func TestSeedAll_Idempotent(t *testing.T) {
	svc := newSeededService(t)
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	ctx := context.Background()
	s := New(svc, logger)

	_, err := s.SeedAll(ctx)
	require.NoError(t, err)

	seeded, err := s.SeedAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, seeded)

	templates, err := svc.Templates(ctx)
	require.NoError(t, err)
	assert.Len(t, templates, len(defaultTemplates))
}
