package exporter

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"event-dataset-processor/internal/models"
)

// ReadCSV reads a training CSV written by Export back into FeatureRows
func ReadCSV(path string) ([]models.FeatureRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = len(Header)

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	for i, name := range Header {
		if header[i] != name {
			return nil, fmt.Errorf("unexpected column %d: got %q, want %q", i, header[i], name)
		}
	}

	var rows []models.FeatureRow
	for line := 2; ; line++ {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read line %d: %w", line, err)
		}

		row, err := parseRecord(rec)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		rows = append(rows, row)
	}

	return rows, nil
}

func parseRecord(rec []string) (models.FeatureRow, error) {
	var (
		row models.FeatureRow
		err error
	)

	if row.EmailBodyLength, err = strconv.Atoi(rec[0]); err != nil {
		return row, fmt.Errorf("invalid email_body_length: %w", err)
	}
	if row.EmailSubjectLength, err = strconv.Atoi(rec[1]); err != nil {
		return row, fmt.Errorf("invalid email_subject_length: %w", err)
	}
	if row.HasTimeKeywords, err = strconv.ParseBool(rec[2]); err != nil {
		return row, fmt.Errorf("invalid has_time_keywords: %w", err)
	}
	if row.HasDatePattern, err = strconv.ParseBool(rec[3]); err != nil {
		return row, fmt.Errorf("invalid has_date_pattern: %w", err)
	}
	row.Action = rec[4]
	if row.Label, err = strconv.Atoi(rec[5]); err != nil {
		return row, fmt.Errorf("invalid label: %w", err)
	}

	return row, nil
}
