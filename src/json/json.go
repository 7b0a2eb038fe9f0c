// Package json routes encoding through json-iterator while keeping the
// semantics of encoding/json, so struct tags and Unmarshaler
// implementations behave the same as with the standard library.
package json

import (
	"bytes"
	"errors"
	"fmt"

	jsoniter "github.com/json-iterator/go"
)

var api = jsoniter.ConfigCompatibleWithStandardLibrary

var (
	Marshal   = api.Marshal
	Unmarshal = api.Unmarshal
)

type RawMessage = jsoniter.RawMessage

// ErrEmptyBody is returned by DecodeBody when the payload holds nothing but
// whitespace.
var ErrEmptyBody = errors.New("empty response body")

// DecodeBody unmarshals a complete response payload into v.
func DecodeBody(body []byte, v any) error {
	if len(bytes.TrimSpace(body)) == 0 {
		return ErrEmptyBody
	}
	if err := api.Unmarshal(body, v); err != nil {
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	return nil
}
