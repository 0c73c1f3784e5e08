package record

import (
	"bytes"
	"encoding/gob"

	"github.com/fxamacker/cbor/v2"
	gojson "github.com/goccy/go-json"
)

// All the serialized forms of a record are the list of its values: names are erased and cannot be recovered.
// Decoding into a record replaces its content, the resulting slots are unnamed.

func (r *Record[T]) MarshalJSON() ([]byte, error) {
	return gojson.Marshal(r.Values())
}

func (r *Record[T]) UnmarshalJSON(data []byte) error {
	var values []T
	if err := gojson.Unmarshal(data, &values); err != nil {
		return err
	}
	return r.reset(values)
}

// MarshalYAML implements the interface marshaler of github.com/goccy/go-yaml.
func (r *Record[T]) MarshalYAML() (any, error) {
	return r.Values(), nil
}

// UnmarshalYAML implements the interface unmarshaler of github.com/goccy/go-yaml.
func (r *Record[T]) UnmarshalYAML(unmarshal func(any) error) error {
	var values []T
	if err := unmarshal(&values); err != nil {
		return err
	}
	return r.reset(values)
}

func (r *Record[T]) MarshalCBOR() ([]byte, error) {
	return cbor.Marshal(r.Values())
}

func (r *Record[T]) UnmarshalCBOR(data []byte) error {
	var values []T
	if err := cbor.Unmarshal(data, &values); err != nil {
		return err
	}
	return r.reset(values)
}

func (r *Record[T]) GobEncode() ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(r.Values()); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (r *Record[T]) GobDecode(data []byte) error {
	var values []T
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&values); err != nil {
		return err
	}
	return r.reset(values)
}
