package exporter

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"event-dataset-processor/internal/models"
)

// Header is the exact column order of the training CSV
var Header = []string{
	"email_body_length",
	"email_subject_length",
	"has_time_keywords",
	"has_date_pattern",
	"action",
	"label",
}

// IOError is returned when the destination cannot be written
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("failed to %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// DefaultFilename returns training_data_<YYYYMMDD_HHMMSS>.csv for now
func DefaultFilename(now time.Time) string {
	return fmt.Sprintf("training_data_%s.csv", now.Format("20060102_150405"))
}

// DefaultPath joins dir and the timestamped default filename
func DefaultPath(dir string, now time.Time) string {
	if dir == "" {
		dir = "."
	}
	return filepath.Join(dir, DefaultFilename(now))
}

// Export writes rows as CSV to path and returns the path written.
// The file is written under a temporary name and renamed into place, so
// the destination either holds the complete export or is left untouched.
func Export(rows []models.FeatureRow, path string) (string, error) {
	if path == "" {
		path = DefaultPath(".", time.Now())
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return "", &IOError{Op: "create", Path: path, Err: err}
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			tmp.Close()
			os.Remove(tmpName)
		}
	}()

	w := csv.NewWriter(tmp)
	if err := w.Write(Header); err != nil {
		return "", &IOError{Op: "write", Path: path, Err: err}
	}
	for _, row := range rows {
		if err := w.Write(record(row)); err != nil {
			return "", &IOError{Op: "write", Path: path, Err: err}
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", &IOError{Op: "write", Path: path, Err: err}
	}

	if err := tmp.Chmod(0o644); err != nil {
		return "", &IOError{Op: "chmod", Path: path, Err: err}
	}
	if err := tmp.Close(); err != nil {
		return "", &IOError{Op: "close", Path: path, Err: err}
	}
	if err := os.Rename(tmpName, path); err != nil {
		return "", &IOError{Op: "rename", Path: path, Err: err}
	}
	committed = true

	logrus.WithFields(logrus.Fields{
		"path": path,
		"rows": len(rows),
	}).Info("Training data exported")

	return path, nil
}

func record(row models.FeatureRow) []string {
	return []string{
		strconv.Itoa(row.EmailBodyLength),
		strconv.Itoa(row.EmailSubjectLength),
		strconv.FormatBool(row.HasTimeKeywords),
		strconv.FormatBool(row.HasDatePattern),
		row.Action,
		strconv.Itoa(row.Label),
	}
}
