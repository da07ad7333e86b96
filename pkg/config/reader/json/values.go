package json

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	simple "github.com/bitly/go-simplejson"

	"github.com/ninja0404/old-runners/pkg/config/reader"
	"github.com/ninja0404/old-runners/pkg/config/source"
)

type jsonValues struct {
	ch *source.ChangeSet
	sj *simple.Json
}

type jsonValue struct {
	*simple.Json
}

func newValues(ch *source.ChangeSet) (reader.Values, error) {
	data, err := ReplaceEnvVars(ch.Data)
	if err != nil {
		return nil, err
	}
	sj, err := simple.NewJson(data)
	if err != nil {
		return nil, err
	}
	return &jsonValues{ch, sj}, nil
}

func (j *jsonValues) Get(path ...string) reader.Value {
	return &jsonValue{j.sj.GetPath(path...)}
}

func (j *jsonValues) Bytes() []byte {
	b, _ := j.sj.MarshalJSON()
	return b
}

func (j *jsonValues) Map() map[string]interface{} {
	m, _ := j.sj.Map()
	return m
}

func (j *jsonValues) Scan(v interface{}) error {
	return scan(j.sj, v)
}

func (j *jsonValues) String() string {
	return "json"
}

// text returns scalars that arrived quoted, e.g. "${RADAR_TTL:30}" after substitution
func (j *jsonValue) text() (string, bool) {
	s, err := j.Json.String()
	return strings.TrimSpace(s), err == nil
}

func (j *jsonValue) Bool(def bool) bool {
	if b, err := j.Json.Bool(); err == nil {
		return b
	}
	if s, ok := j.text(); ok {
		if b, err := strconv.ParseBool(s); err == nil {
			return b
		}
	}
	return def
}

func (j *jsonValue) Int(def int) int {
	if i, err := j.Json.Int(); err == nil {
		return i
	}
	if s, ok := j.text(); ok {
		if i, err := strconv.Atoi(s); err == nil {
			return i
		}
	}
	return def
}

func (j *jsonValue) Float64(def float64) float64 {
	if f, err := j.Json.Float64(); err == nil {
		return f
	}
	if s, ok := j.text(); ok {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
	}
	return def
}

func (j *jsonValue) String(def string) string {
	return j.Json.MustString(def)
}

func (j *jsonValue) Duration(def time.Duration) time.Duration {
	if s, ok := j.text(); ok {
		if d, err := time.ParseDuration(s); err == nil {
			return d
		}
	}
	return def
}

// StringSlice accepts both a json array and a comma separated string
func (j *jsonValue) StringSlice(def []string) []string {
	if s, ok := j.text(); ok {
		out := make([]string, 0)
		for _, p := range strings.Split(s, ",") {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		if len(out) == 0 {
			return def
		}
		return out
	}
	return j.Json.MustStringArray(def)
}

func (j *jsonValue) Scan(v interface{}) error {
	return scan(j.Json, v)
}

func (j *jsonValue) Bytes() []byte {
	if b, err := j.Json.Bytes(); err == nil {
		return b
	}
	b, err := j.Json.MarshalJSON()
	if err != nil {
		return []byte{}
	}
	return b
}

func scan(sj *simple.Json, v interface{}) error {
	b, err := sj.MarshalJSON()
	if err != nil {
		return err
	}
	return json.Unmarshal(b, v)
}
