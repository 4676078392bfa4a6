// Package classify infers a semantic field type for raw form values.
//
// Classification is total: any value that matches no specific detector
// degrades to TypeText instead of failing. Detectors run in a fixed
// order (date, phone, email) so ambiguous values resolve the same way
// on every call.
package classify

import (
	"regexp"
	"time"

	"github.com/nyaruka/phonenumbers"
)

// FieldType is the semantic type inferred for a single form field value.
type FieldType string

const (
	TypeDate  FieldType = "date"
	TypePhone FieldType = "phone"
	TypeEmail FieldType = "email"
	TypeText  FieldType = "text"
)

// ParseFieldType converts a stored type string back to a FieldType.
func ParseFieldType(s string) (FieldType, bool) {
	switch FieldType(s) {
	case TypeDate, TypePhone, TypeEmail, TypeText:
		return FieldType(s), true
	default:
		return "", false
	}
}

// DefaultRegion is the numbering-plan region used when none is configured.
const DefaultRegion = "RU"

var (
	dayFirstPattern  = regexp.MustCompile(`^\d{1,2}\.\d{1,2}\.\d{4}$`)
	yearFirstPattern = regexp.MustCompile(`^\d{4}\.\d{1,2}\.\d{1,2}$`)
	emailPattern     = regexp.MustCompile(`^[a-zA-Z0-9_.+-]+@[a-zA-Z0-9-]+\.[a-zA-Z0-9-.]+$`)
)

// Classifier maps one raw string value to one FieldType.
// Safe for concurrent use: it holds no mutable state after construction.
type Classifier struct {
	region    string
	detectors []detector
}

type detector struct {
	fieldType FieldType
	matches   func(string) bool
}

// Option configures the Classifier.
type Option func(*Classifier)

// WithDefaultRegion sets the numbering-plan region applied to phone
// candidates without an international prefix, e.g. "RU" or "US".
// An empty region selects strict E.164: only values with a leading +
// can classify as phone.
func WithDefaultRegion(region string) Option {
	return func(c *Classifier) {
		c.region = region
	}
}

// New creates a Classifier. The default phone region is DefaultRegion.
func New(opts ...Option) *Classifier {
	c := &Classifier{region: DefaultRegion}
	for _, opt := range opts {
		opt(c)
	}
	// Order is load-bearing: a value that parses as both a date and a
	// phone number must classify as date.
	c.detectors = []detector{
		{TypeDate, isDate},
		{TypePhone, c.isPhone},
		{TypeEmail, isEmail},
	}
	return c
}

// Classify returns the FieldType for value. It never fails; values
// matching no detector classify as TypeText, including the empty string.
func (c *Classifier) Classify(value string) FieldType {
	for _, d := range c.detectors {
		if d.matches(value) {
			return d.fieldType
		}
	}
	return TypeText
}

// isDate reports whether value is a complete calendar date in
// DD.MM.YYYY or YYYY.MM.DD form. The regexp anchors the shape
// (dot-separated, four-digit year, nothing else); time.Parse then
// rejects out-of-range day and month values, so 32.01.2020 and
// 2020.13.01 fall through to the next detector.
func isDate(value string) bool {
	if dayFirstPattern.MatchString(value) {
		if _, err := time.Parse("2.1.2006", value); err == nil {
			return true
		}
	}
	if yearFirstPattern.MatchString(value) {
		if _, err := time.Parse("2006.1.2", value); err == nil {
			return true
		}
	}
	return false
}

// isPhone reports whether value is a valid number under the configured
// numbering plan. Structural parseability is not enough: the number must
// also be valid (correct length, assigned area/operator range).
func (c *Classifier) isPhone(value string) bool {
	num, err := phonenumbers.Parse(value, c.region)
	if err != nil {
		return false
	}
	return phonenumbers.IsValidNumber(num)
}

// isEmail applies the anchored address pattern. The part after the final
// dot is only constrained by the character class, so multi-level domains
// and trailing dots both pass.
func isEmail(value string) bool {
	return emailPattern.MatchString(value)
}
