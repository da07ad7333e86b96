// Package encoder handles source encodings formats
package encoder

import (
	"bytes"
	"encoding/json"

	"github.com/BurntSushi/toml"
	"github.com/ghodss/yaml"
)

type Encoder interface {
	Encode(interface{}) ([]byte, error)
	Decode([]byte, interface{}) error
	String() string
}

// formats understood by the reader, keyed by ChangeSet.Format
const (
	JSON = "json"
	YAML = "yaml"
	TOML = "toml"
)

type codec struct {
	name   string
	encode func(interface{}) ([]byte, error)
	decode func([]byte, interface{}) error
}

func (c codec) Encode(v interface{}) ([]byte, error) { return c.encode(v) }

func (c codec) Decode(d []byte, v interface{}) error { return c.decode(d, v) }

func (c codec) String() string { return c.name }

func NewJSON() Encoder {
	return codec{name: JSON, encode: json.Marshal, decode: json.Unmarshal}
}

// NewYAML decodes through ghodss/yaml so yaml documents share the json struct tags
func NewYAML() Encoder {
	return codec{
		name:   YAML,
		encode: func(v interface{}) ([]byte, error) { return yaml.Marshal(v) },
		decode: func(d []byte, v interface{}) error { return yaml.Unmarshal(d, v) },
	}
}

func NewTOML() Encoder {
	return codec{
		name: TOML,
		encode: func(v interface{}) ([]byte, error) {
			var b bytes.Buffer
			if err := toml.NewEncoder(&b).Encode(v); err != nil {
				return nil, err
			}
			return b.Bytes(), nil
		},
		decode: toml.Unmarshal,
	}
}

// Defaults returns a fresh registry of the built-in formats
func Defaults() map[string]Encoder {
	m := make(map[string]Encoder, 3)
	for _, e := range []Encoder{NewJSON(), NewYAML(), NewTOML()} {
		m[e.String()] = e
	}
	return m
}
