package store

import (
	"errors"

	"github.com/goccy/go-json"
)

// ErrInvalidValue is returned when a record serializes to something that is
// not valid JSON, such as a non-finite float.
var ErrInvalidValue = errors.New("store: record does not encode to valid JSON")

// Values are plain JSON with the record's field names. Decoding ignores
// unknown fields and leaves missing ones at their zero value, so snapshots
// written by older or newer builds still load.

func encode(record interface{}) ([]byte, error) {
	data, err := json.Marshal(record)
	if err != nil {
		return nil, err
	}
	// The encoder writes NaN and Inf as bare tokens that no decoder accepts.
	if !json.Valid(data) {
		return nil, ErrInvalidValue
	}
	return data, nil
}

func decode(value []byte, out interface{}) error {
	return json.Unmarshal(value, out)
}
