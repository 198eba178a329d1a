package models

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// NewID generates an entity-prefixed opaque id such as "route_3fa85f64b3c1".
// The 12-hex random suffix makes ids globally unique without coordination.
func NewID(prefix string) string {
	hex := strings.ReplaceAll(uuid.New().String(), "-", "")
	return fmt.Sprintf("%s_%s", prefix, hex[:12])
}
