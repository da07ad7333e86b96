package utils

import (
	"github.com/google/uuid"
)

// GenerateRequestID short id used in X-Request-ID and request scoped logs
func GenerateRequestID() string {
	return uuid.New().String()[:8]
}
