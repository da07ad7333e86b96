package logger

import (
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
)

func FieldMod(value string) Field {
	value = strings.Replace(value, " ", ".", -1)
	return String("mod", value)
}

// FieldErr ...
func FieldErr(err error) Field {
	return zap.Error(err)
}

func FieldMethod(value string) Field {
	return String("method", value)
}

// FieldNetwork network identifier used by the upstream sources (solana, eth, ...)
func FieldNetwork(value string) Field {
	return String("network", value)
}

func FieldURL(value string) Field {
	return String("url", value)
}

func FieldRequestID(value string) Field {
	return String("request_id", value)
}

func FieldCost(value time.Duration) Field {
	return String("cost", fmt.Sprintf("%.3f", float64(value.Round(time.Microsecond))/float64(time.Millisecond)))
}

// FieldStack ...
func FieldStack(value []byte) Field {
	return ByteString("stack", value)
}
