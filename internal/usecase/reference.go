package usecase

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// NewReference builds a unique human-opaque reference: a typed prefix, a
// monotonic millisecond timestamp, and a random suffix so references never
// collide across tenants or concurrent checkouts.
func NewReference(prefix string) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return fmt.Sprintf("%s-%d-%s", prefix, time.Now().UnixMilli(), suffix)
}
