package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"formdetect/internal/classify"
	"formdetect/internal/form/models"
	"formdetect/internal/sentinel"
)

// record is the persisted template schema: the template name plus a
// mapping from field name to its recorded FieldType string. Field values
// are never persisted, only their inferred types.
type record struct {
	Name   string            `json:"name"`
	Fields map[string]string `json:"fields"`
}

// FileStore is the storage collaborator: a JSON file holding the catalog
// as an array of {"name", "fields"} records in registration order.
// Appends are serialized and replace the file atomically via rename, so
// a crashed write never leaves a half-written catalog behind.
type FileStore struct {
	mu   sync.Mutex
	path string
}

// NewFileStore creates a file store backed by path. The file is created
// on first append; a missing file reads as an empty catalog.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// LoadAll reads every persisted template in registration order.
// A missing file yields an empty catalog; an unreadable or malformed
// file is an error so startup fails loudly instead of silently dropping
// the catalog.
func (s *FileStore) LoadAll(_ context.Context) ([]*models.Template, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.readRecords()
	if err != nil {
		return nil, err
	}

	templates := make([]*models.Template, 0, len(records))
	for _, rec := range records {
		signature := make(models.Signature, len(rec.Fields))
		for name, typeStr := range rec.Fields {
			fieldType, ok := classify.ParseFieldType(typeStr)
			if !ok {
				return nil, fmt.Errorf("template %q field %q has unknown type %q: %w",
					rec.Name, name, typeStr, sentinel.ErrInvalidInput)
			}
			signature[name] = fieldType
		}
		templates = append(templates, models.NewTemplate(rec.Name, signature))
	}
	return templates, nil
}

// Append persists one template at the end of the catalog file.
func (s *FileStore) Append(_ context.Context, t *models.Template) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.readRecords()
	if err != nil {
		return err
	}

	fields := make(map[string]string, len(t.Signature))
	for name, fieldType := range t.Signature {
		fields[name] = string(fieldType)
	}
	records = append(records, record{Name: t.Name, Fields: fields})

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("encode catalog: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".db-*.json")
	if err != nil {
		return fmt.Errorf("write catalog file: %w: %w", err, sentinel.ErrUnavailable)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write catalog file: %w: %w", err, sentinel.ErrUnavailable)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write catalog file: %w: %w", err, sentinel.ErrUnavailable)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace catalog file: %w: %w", err, sentinel.ErrUnavailable)
	}
	return nil
}

// Health reports whether the catalog file is readable. A missing file is
// healthy: the catalog simply has not been written yet.
func (s *FileStore) Health() error {
	_, err := os.Stat(s.path)
	if err == nil || os.IsNotExist(err) {
		return nil
	}
	return fmt.Errorf("catalog file: %w", err)
}

func (s *FileStore) readRecords() ([]record, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read catalog file: %w: %w", err, sentinel.ErrUnavailable)
	}

	var records []record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode catalog file: %w: %w", err, sentinel.ErrUnavailable)
	}
	return records, nil
}
