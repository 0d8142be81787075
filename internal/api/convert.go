package api

import (
	"github.com/mitchellh/mapstructure"
)

// Convert copies a loosely typed value (typically a decoded JSON map)
// into a typed DTO, matching fields by their json tags. Weak typing is
// enabled so clients may send numbers as strings and vice versa.
func Convert(src, dst any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		Result:           dst,
		WeaklyTypedInput: true,
		ZeroFields:       true,
	})
	if err != nil {
		return err
	}

	return decoder.Decode(src)
}

// ConvertValue is a generic helper that returns the converted value.
func ConvertValue[T any](src any) (T, error) {
	var result T
	err := Convert(src, &result)
	return result, err
}
