package req

import (
	"encoding/json"
	"errors"
	"io"
)

// Decode читает JSON из r в значение типа T
func Decode[T any](r io.Reader) (T, error) {
	var payload T
	if err := json.NewDecoder(r).Decode(&payload); err != nil {
		if errors.Is(err, io.EOF) {
			return payload, errors.New("empty payload")
		}
		return payload, err
	}
	return payload, nil
}
