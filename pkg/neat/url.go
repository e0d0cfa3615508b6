package neat

import (
	"net/url"
	"regexp"
	"strings"
)

// URLParameterByName returns the first value of the query parameter name in
// rawURL, with '+' read as a space and percent escapes decoded. It returns ""
// when the parameter is absent. A value that fails to decode is returned with
// only the '+' substitution applied.
func URLParameterByName(name, rawURL string) string {
	re, err := regexp.Compile(`[?&]` + regexp.QuoteMeta(name) + `=([^&#]*)`)
	if err != nil {
		return ""
	}

	m := re.FindStringSubmatch(rawURL)
	if m == nil {
		return ""
	}

	value := strings.ReplaceAll(m[1], "+", " ")
	if decoded, err := url.PathUnescape(value); err == nil {
		return decoded
	}
	return value
}
