package utils

import (
	"fmt"
	"hash/fnv"
)

// HashKey shortens long keys (upstream URLs carrying 30 addresses) into a
// fixed width cache key.
func HashKey(prefix string, src string) string {
	h := fnv.New64a()
	h.Write([]byte(src))
	return fmt.Sprintf("%s%016x", prefix, h.Sum64())
}
