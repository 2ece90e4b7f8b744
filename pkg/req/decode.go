package req

import (
	"errors"
	"io"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Decode читает JSON тело запроса в T.
// Пустое тело даёт нулевое значение T.
func Decode[T any](body io.Reader) (T, error) {
	var payload T
	err := json.NewDecoder(body).Decode(&payload)
	if err != nil && !errors.Is(err, io.EOF) {
		return payload, err
	}
	return payload, nil
}
