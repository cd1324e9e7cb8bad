// internal/utils/token.go
package utils

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// NewToken returns a uniqueness-sufficient record id for entities that do
// not carry an ordering contract (customers, products, categories,
// attributes, variants). The millisecond prefix keeps ids in rough
// chronological creation order; the uuid suffix carries the uniqueness.
func NewToken() string {
	return fmt.Sprintf("%d-%s", time.Now().UnixMilli(), uuid.NewString()[:8])
}
