package loader

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"unicode/utf8"

	"github.com/sirupsen/logrus"

	"event-dataset-processor/internal/models"
)

// LoadError is returned when a dataset file cannot be read or decoded
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("failed to load dataset %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Load reads and decodes the dataset file at path
func Load(path string) (*models.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	defer f.Close()

	doc, err := Decode(f)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}

	logrus.WithFields(logrus.Fields{
		"path":          path,
		"entries":       len(doc.Entries),
		"total_entries": doc.Metadata.TotalEntries,
	}).Info("Dataset loaded")

	return doc, nil
}

// Decode parses a dataset document from r and fills defaults so that
// downstream stages never see nil event lists. The input must be UTF-8 and
// hold exactly one JSON object.
func Decode(r io.Reader) (*models.Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset: %w", err)
	}
	if !utf8.Valid(data) {
		return nil, fmt.Errorf("invalid dataset JSON: input is not valid UTF-8")
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	var raw json.RawMessage
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("invalid dataset JSON: %w", err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("invalid dataset JSON: unexpected data after top-level value")
	}
	if bytes.Equal(raw, []byte("null")) {
		return nil, fmt.Errorf("invalid dataset JSON: top-level value is null")
	}

	var doc models.Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("invalid dataset JSON: %w", err)
	}

	if doc.Entries == nil {
		doc.Entries = []models.DatasetEntry{}
	}
	for i := range doc.Entries {
		if doc.Entries[i].Events == nil {
			doc.Entries[i].Events = []models.Event{}
		}
	}

	return &doc, nil
}
