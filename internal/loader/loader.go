// Package loader reads and decodes k6 result files.
//
// Decoding is strict at the document level (a file that is not valid JSON
// fails with ErrDecode) but lenient at the field level: the model types
// absorb missing fields and wrong value types during unmarshaling.
package loader

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/nao1215/loadlens/internal/model"
)

// Loader errors. Both force a non-zero exit: a report is never printed
// for a file that could not be fully decoded.
var (
	// ErrNotFound is returned when the result file does not exist.
	ErrNotFound = errors.New("file not found")

	// ErrDecode is returned when the result file exists but is not a
	// valid JSON record. The underlying cause is included in the message.
	ErrDecode = errors.New("failed to decode result file")
)

// Load reads the result file at path and decodes it into a ResultRecord.
func Load(path string) (*model.ResultRecord, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided result path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("failed to read result file %s: %w", path, err)
	}

	var record model.ResultRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("%w %s: %v", ErrDecode, path, err)
	}

	return &record, nil
}
