package json

import (
	"errors"
	"time"

	"dario.cat/mergo"

	"github.com/ninja0404/old-runners/pkg/config/encoder"
	"github.com/ninja0404/old-runners/pkg/config/reader"
	"github.com/ninja0404/old-runners/pkg/config/source"
)

type jsonReader struct {
	opts reader.Options
	json encoder.Encoder
}

// Merge decodes every change set with its own encoder and merges them in
// order, later sources overriding earlier ones. The result is always json.
func (j *jsonReader) Merge(changes ...*source.ChangeSet) (*source.ChangeSet, error) {
	var merged map[string]interface{}

	for _, m := range changes {
		if m == nil {
			continue
		}

		if len(m.Data) == 0 {
			continue
		}

		codec, ok := j.opts.Encoding[m.Format]
		if !ok {
			// fallback
			codec = j.json
		}

		data, err := ReplaceEnvVars(m.Data)
		if err != nil {
			return nil, err
		}

		var parsed map[string]interface{}
		if err := codec.Decode(data, &parsed); err != nil {
			return nil, err
		}
		if merged == nil {
			merged = make(map[string]interface{})
		}
		if err := mergo.Merge(&merged, parsed, mergo.WithOverride); err != nil {
			return nil, err
		}
	}

	b, err := j.json.Encode(merged)
	if err != nil {
		return nil, err
	}

	cs := &source.ChangeSet{
		Timestamp: time.Now(),
		Data:      b,
		Source:    "json",
		Format:    j.json.String(),
	}
	cs.Checksum = cs.Sum()

	return cs, nil
}

func (j *jsonReader) Values(ch *source.ChangeSet) (reader.Values, error) {
	if ch == nil {
		return nil, errors.New("changeset is nil")
	}
	if ch.Format != "json" {
		return nil, errors.New("unsupported format")
	}
	return newValues(ch)
}

func (j *jsonReader) String() string {
	return "json"
}

// NewReader creates a json reader
func NewReader(opts ...reader.Option) reader.Reader {
	options := reader.NewOptions(opts...)
	return &jsonReader{
		json: encoder.NewJSON(),
		opts: options,
	}
}
