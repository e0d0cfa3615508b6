package neat

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidHex is returned by HexToRGB for input that is not six hex digits.
var ErrInvalidHex = errors.New("invalid hex color")

// HexToRGB converts "#RRGGBB" or "RRGGBB" to "rgb(r,g,b)".
func HexToRGB(hex string) (string, error) {
	value := strings.TrimPrefix(hex, "#")
	if len(value) != 6 {
		return "", fmt.Errorf("%w: %q", ErrInvalidHex, hex)
	}

	var rgb [3]uint64
	for i := range rgb {
		c, err := strconv.ParseUint(value[i*2:i*2+2], 16, 8)
		if err != nil {
			return "", fmt.Errorf("%w: %q", ErrInvalidHex, hex)
		}
		rgb[i] = c
	}

	return fmt.Sprintf("rgb(%d,%d,%d)", rgb[0], rgb[1], rgb[2]), nil
}
