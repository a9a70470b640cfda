package versionlog

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Document is the on-disk form of a component's version log.
// JSON documents decode through the same path since JSON is valid YAML.
type Document struct {
	Component string  `yaml:"component" json:"component"`
	Logs      LogList `yaml:"logs" json:"logs"`
}

// ValidationError represents a log document validation error with context.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return e.Message
}

// Load reads and validates a log document from the given path.
func Load(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}
	defer f.Close()

	return Decode(f)
}

// Decode reads and validates a log document from r.
func Decode(r io.Reader) (*Document, error) {
	var doc Document

	dec := yaml.NewDecoder(r)
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return &Document{Logs: LogList{}}, nil
		}
		return nil, fmt.Errorf("parsing log document: %w", err)
	}

	if err := Validate(&doc); err != nil {
		return nil, err
	}
	if doc.Logs == nil {
		doc.Logs = LogList{}
	}

	return &doc, nil
}

// Encode writes doc as a YAML log document that Decode reads back.
func Encode(w io.Writer, doc *Document) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encoding log document: %w", err)
	}
	return enc.Close()
}

// Validate checks that every entry has a unique hash and, when dated, a
// numeric millisecond timestamp.
func Validate(doc *Document) error {
	seen := make(map[string]int, len(doc.Logs))

	for i, e := range doc.Logs {
		if strings.TrimSpace(e.Hash) == "" {
			return &ValidationError{
				Field:   fmt.Sprintf("logs[%d].hash", i),
				Message: "required field is empty",
			}
		}
		if first, dup := seen[e.Hash]; dup {
			return &ValidationError{
				Field:   fmt.Sprintf("logs[%d].hash", i),
				Message: fmt.Sprintf("duplicate hash %q (first seen at logs[%d])", e.Hash, first),
			}
		}
		seen[e.Hash] = i

		if e.Date != "" {
			if _, err := strconv.ParseInt(strings.TrimSpace(e.Date), 10, 64); err != nil {
				return &ValidationError{
					Field:   fmt.Sprintf("logs[%d].date", i),
					Message: fmt.Sprintf("invalid timestamp %q (expected milliseconds since epoch)", e.Date),
				}
			}
		}
	}

	return nil
}

// IsValidationError returns true if the error is a ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
