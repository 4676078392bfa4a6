package models

import (
	"time"

	"github.com/google/uuid"

	"formdetect/internal/classify"
)

// Signature maps field names to their inferred types for one form
// submission or one registered template. Insertion order is irrelevant.
type Signature map[string]classify.FieldType

// Equal reports exact key-set and per-key type equality.
// This is the identity rule used for duplicate detection at registration.
func (s Signature) Equal(other Signature) bool {
	if len(s) != len(other) {
		return false
	}
	for name, fieldType := range s {
		if otherType, ok := other[name]; !ok || otherType != fieldType {
			return false
		}
	}
	return true
}

// Subsumes reports whether every field the receiver declares is present
// in query with the same type. Extra query fields are ignored: a template
// declares only the fields that define it, so a template with fewer
// fields can match a richer submission, while a template requiring a
// field absent from the query never matches.
func (s Signature) Subsumes(query Signature) bool {
	for name, fieldType := range s {
		if queryType, ok := query[name]; !ok || queryType != fieldType {
			return false
		}
	}
	return true
}

// Clone returns an independent copy of the signature.
func (s Signature) Clone() Signature {
	if s == nil {
		return nil
	}
	out := make(Signature, len(s))
	for name, fieldType := range s {
		out[name] = fieldType
	}
	return out
}

// Template is a named, registered reference signature used to recognize
// future submissions of the same form type. Immutable after creation.
type Template struct {
	ID        uuid.UUID
	Name      string
	Signature Signature
	CreatedAt time.Time
}

// NewTemplate creates a template with a fresh ID and a defensive copy of
// the signature.
func NewTemplate(name string, signature Signature) *Template {
	return &Template{
		ID:        uuid.New(),
		Name:      name,
		Signature: signature.Clone(),
		CreatedAt: time.Now().UTC(),
	}
}

// BuildSignature applies the classifier to every field of form
// independently. The result has exactly the same key set as the input:
// no field is dropped, renamed, or deduplicated. Deterministic for a
// fixed classifier.
func BuildSignature(classifier *classify.Classifier, form map[string]string) Signature {
	signature := make(Signature, len(form))
	for name, value := range form {
		signature[name] = classifier.Classify(value)
	}
	return signature
}

// MatchResult is the outcome of matching one submission against the
// catalog: either the name of the first matching template, or the
// computed signature so the caller can inspect or register it.
type MatchResult struct {
	Matched      bool
	TemplateName string
	Signature    Signature
}
