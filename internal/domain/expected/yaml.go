package expected

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrDecode reports a seed document that is not a list of rows.
var ErrDecode = errors.New("decode expected strokes")

// DecodeRows reads a YAML list of rows:
//
//   - bucket: "11-15"
//     domain: PUTT
//     key: "putt:0-1m"
//     expected: 1.03
func DecodeRows(r io.Reader) ([]Row, error) {
	var rows []Row
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&rows); err != nil {
		if errors.Is(err, io.EOF) {
			return []Row{}, nil
		}
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	return rows, nil
}

// LoadFile decodes the seed file at path.
func LoadFile(path string) ([]Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close() //nolint:errcheck
	rows, err := DecodeRows(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rows, nil
}
