package model

import (
	"bytes"
	"encoding/json"
	"math"

	"github.com/ninja0404/old-runners/pkg/utils"
)

var nullLiteral = []byte("null")

// Number is a loosely typed upstream numeric field. JSON numbers and numeric
// strings are accepted; null, absent, malformed and non-finite values leave
// it invalid instead of failing the whole payload.
type Number struct {
	Value float64
	Valid bool
}

func NewNumber(v float64) Number {
	return Number{Value: v, Valid: true}
}

func (n *Number) UnmarshalJSON(data []byte) error {
	*n = Number{}
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, nullLiteral) {
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return nil
		}
		if v, ok := utils.ParseNumber(s); ok {
			*n = Number{Value: v, Valid: true}
		}
		return nil
	}

	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return nil
	}
	if !math.IsNaN(v) && !math.IsInf(v, 0) {
		*n = Number{Value: v, Valid: true}
	}
	return nil
}

func (n Number) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return nullLiteral, nil
	}
	return json.Marshal(n.Value)
}

// Or returns the value, or def when the field was absent or unusable.
func (n Number) Or(def float64) float64 {
	if !n.Valid {
		return def
	}
	return n.Value
}

// Ptr nil when invalid
func (n Number) Ptr() *float64 {
	if !n.Valid {
		return nil
	}
	v := n.Value
	return &v
}
