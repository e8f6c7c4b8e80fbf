package fileadapter

import (
	"fmt"
	"hash/fnv"
)

// contentHash returns a short deterministic digest of message content. It is
// the dedup anchor for externalId generation: identical content always hashes
// to the same value across imports.
func contentHash(content string) string {
	h := fnv.New32a()
	h.Write([]byte(content))
	return fmt.Sprintf("%08x", h.Sum32())
}
