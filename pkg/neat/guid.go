package neat

import (
	"strings"

	"github.com/google/uuid"
)

// NewGUID returns a random RFC 4122 version 4 identifier in upper case,
// e.g. "3F2504E0-4F89-41D3-9A0C-0305E82C3301".
func NewGUID() string {
	return strings.ToUpper(uuid.New().String())
}
