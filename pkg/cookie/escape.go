package cookie

import (
	"strconv"
	"strings"
)

const hexDigits = "0123456789ABCDEF"

// Escape encodes s the way the legacy escape() function does: characters in
// A-Z a-z 0-9 @*_+-./ are kept, code points below 256 become %XX and
// everything else becomes %uXXXX (UTF-16 code units).
func Escape(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	for _, r := range s {
		switch {
		case isUnreserved(r):
			b.WriteRune(r)
		case r < 256:
			b.WriteByte('%')
			b.WriteByte(hexDigits[r>>4])
			b.WriteByte(hexDigits[r&0xF])
		default:
			for _, unit := range utf16Units(r) {
				b.WriteString("%u")
				b.WriteByte(hexDigits[unit>>12&0xF])
				b.WriteByte(hexDigits[unit>>8&0xF])
				b.WriteByte(hexDigits[unit>>4&0xF])
				b.WriteByte(hexDigits[unit&0xF])
			}
		}
	}

	return b.String()
}

// Unescape reverses Escape. Malformed escape sequences are copied through
// unchanged.
func Unescape(s string) string {
	if !strings.Contains(s, "%") {
		return s
	}

	var (
		b     strings.Builder
		units []uint16
	)
	b.Grow(len(s))

	flush := func() {
		if len(units) == 0 {
			return
		}
		b.WriteString(decodeUTF16(units))
		units = units[:0]
	}

	for i := 0; i < len(s); {
		if s[i] == '%' {
			if i+6 <= len(s) && s[i+1] == 'u' {
				if v, err := strconv.ParseUint(s[i+2:i+6], 16, 16); err == nil {
					units = append(units, uint16(v))
					i += 6
					continue
				}
			}
			if i+3 <= len(s) {
				if v, err := strconv.ParseUint(s[i+1:i+3], 16, 8); err == nil {
					units = append(units, uint16(v))
					i += 3
					continue
				}
			}
		}

		flush()
		b.WriteByte(s[i])
		i++
	}
	flush()

	return b.String()
}

func isUnreserved(r rune) bool {
	switch {
	case r >= 'A' && r <= 'Z', r >= 'a' && r <= 'z', r >= '0' && r <= '9':
		return true
	}
	return strings.ContainsRune("@*_+-./", r)
}

func utf16Units(r rune) []uint16 {
	if r < 0x10000 {
		return []uint16{uint16(r)}
	}
	r -= 0x10000
	return []uint16{uint16(0xD800 + (r>>10)&0x3FF), uint16(0xDC00 + r&0x3FF)}
}

func decodeUTF16(units []uint16) string {
	var b strings.Builder
	for i := 0; i < len(units); i++ {
		u := units[i]
		if u >= 0xD800 && u < 0xDC00 && i+1 < len(units) {
			if lo := units[i+1]; lo >= 0xDC00 && lo < 0xE000 {
				b.WriteRune(rune(u-0xD800)<<10 + rune(lo-0xDC00) + 0x10000)
				i++
				continue
			}
		}
		b.WriteRune(rune(u))
	}
	return b.String()
}
