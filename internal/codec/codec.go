// Package codec provides the named encodings used to persist record values.
//
// Persisted snapshots store the name of the codec that produced them, a codec name should therefore never
// be reused for a different encoding.
package codec

import (
	"bytes"
	"encoding/gob"
	"slices"

	"github.com/fxamacker/cbor/v2"
	gojson "github.com/goccy/go-json"
	"github.com/goccy/go-yaml"
)

const (
	GO_JSON_NAME = "go-json"
	YAML_NAME    = "yaml"
	CBOR_NAME    = "cbor"
	GOB_NAME     = "gob"

	MAX_NAME_LENGTH = 255
)

var (
	// Default is the codec used when none is configured.
	Default Codec = GoJSON{}

	_ = []Codec{GoJSON{}, YAML{}, CBOR{}, Gob{}}
)

// A Codec encodes and decodes values, implementations should be safe for concurrent use.
type Codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
	Name() string
}

// ByName returns a built-in codec by its stable name.
func ByName(name string) (Codec, bool) {
	switch name {
	case GO_JSON_NAME:
		return GoJSON{}, true
	case YAML_NAME:
		return YAML{}, true
	case CBOR_NAME:
		return CBOR{}, true
	case GOB_NAME:
		return Gob{}, true
	default:
		return nil, false
	}
}

// Names returns the names of the built-in codecs, sorted.
func Names() []string {
	names := []string{GO_JSON_NAME, YAML_NAME, CBOR_NAME, GOB_NAME}
	slices.Sort(names)
	return names
}

// GoJSON is a JSON codec backed by github.com/goccy/go-json.
type GoJSON struct{}

func (GoJSON) Marshal(v any) ([]byte, error)      { return gojson.Marshal(v) }
func (GoJSON) Unmarshal(data []byte, v any) error { return gojson.Unmarshal(data, v) }
func (GoJSON) Name() string                       { return GO_JSON_NAME }

// YAML is backed by github.com/goccy/go-yaml.
type YAML struct{}

func (YAML) Marshal(v any) ([]byte, error)      { return yaml.Marshal(v) }
func (YAML) Unmarshal(data []byte, v any) error { return yaml.Unmarshal(data, v) }
func (YAML) Name() string                       { return YAML_NAME }

// CBOR is backed by github.com/fxamacker/cbor/v2, it is the most compact encoding.
type CBOR struct{}

func (CBOR) Marshal(v any) ([]byte, error)      { return cbor.Marshal(v) }
func (CBOR) Unmarshal(data []byte, v any) error { return cbor.Unmarshal(data, v) }
func (CBOR) Name() string                       { return CBOR_NAME }

// Gob uses encoding/gob, decoding requires the exact Go type of the encoded value.
type Gob struct{}

func (Gob) Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (Gob) Unmarshal(data []byte, v any) error {
	return gob.NewDecoder(bytes.NewReader(data)).Decode(v)
}

func (Gob) Name() string { return GOB_NAME }
