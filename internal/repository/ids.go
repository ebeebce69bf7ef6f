package repository

import (
	"crypto/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

var ids = struct {
	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
}{entropy: ulid.Monotonic(rand.Reader, 0)}

// NewID returns a monotonic ULID for t. IDs minted in the same millisecond
// still sort in call order, which makes id a usable tie-break for sorting.
func NewID(t time.Time) string {
	ids.mu.Lock()
	defer ids.mu.Unlock()
	return ulid.MustNew(ulid.Timestamp(t), ids.entropy).String()
}
