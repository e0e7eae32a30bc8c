// Package ingest parses uploaded sweep data files into measurement points.
package ingest

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/ohmlab/ohmlab/pkg/models"
)

// ParseError marks a failure caused by the uploaded file rather than by
// infrastructure. The processing layer stores its message on the sweep and
// reports the sweep as failed instead of retrying.
type ParseError struct {
	Reason string
}

func (e *ParseError) Error() string {
	return e.Reason
}

// Parse decodes sweep data according to its MIME type. Supported formats:
// text/csv with a "voltage,current" header and one pair per line, and
// application/json with {"points":[{"voltage":..,"current":..}]}.
func Parse(data []byte, mimeType string) ([]models.Measurement, error) {
	var points []models.Measurement
	var err error

	switch mimeType {
	case "text/csv":
		points, err = parseCSV(data)
	case "application/json":
		points, err = parseJSON(data)
	default:
		return nil, &ParseError{Reason: fmt.Sprintf("unsupported sweep data type: %s", mimeType)}
	}
	if err != nil {
		return nil, err
	}

	if len(points) < 2 {
		return nil, &ParseError{Reason: "sweep must contain at least 2 points"}
	}
	for i, p := range points {
		if !isFinite(p.Voltage) || !isFinite(p.Current) {
			return nil, &ParseError{Reason: fmt.Sprintf("point %d is not a finite number", i+1)}
		}
	}

	return points, nil
}

func parseCSV(data []byte) ([]models.Measurement, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, &ParseError{Reason: fmt.Sprintf("invalid CSV: %v", err)}
	}
	if len(records) == 0 {
		return nil, &ParseError{Reason: "empty sweep file"}
	}

	// Header row is optional; skip it when the first cell is not numeric.
	start := 0
	if _, err := strconv.ParseFloat(strings.TrimSpace(records[0][0]), 64); err != nil {
		start = 1
	}

	var points []models.Measurement
	for i, record := range records[start:] {
		if len(record) != 2 {
			return nil, &ParseError{Reason: fmt.Sprintf("line %d: expected 2 columns, got %d", start+i+1, len(record))}
		}

		voltage, err := strconv.ParseFloat(strings.TrimSpace(record[0]), 64)
		if err != nil {
			return nil, &ParseError{Reason: fmt.Sprintf("line %d: invalid voltage %q", start+i+1, record[0])}
		}
		current, err := strconv.ParseFloat(strings.TrimSpace(record[1]), 64)
		if err != nil {
			return nil, &ParseError{Reason: fmt.Sprintf("line %d: invalid current %q", start+i+1, record[1])}
		}

		points = append(points, models.Measurement{Voltage: voltage, Current: current})
	}

	return points, nil
}

func parseJSON(data []byte) ([]models.Measurement, error) {
	var payload struct {
		Points []models.Measurement `json:"points"`
	}

	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, &ParseError{Reason: fmt.Sprintf("invalid JSON: %v", err)}
	}

	return payload.Points, nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
