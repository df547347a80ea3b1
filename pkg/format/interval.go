package format

import (
	"regexp"
	"strconv"
	"strings"
)

// NotApplicable is shown in place of an empty scan interval.
const NotApplicable = "n/a"

var scanIntervalPattern = regexp.MustCompile(`^(?:(\d+)h)?(?:(\d+)m)?(?:(\d+)s)?$`)

// ParseScanInterval turns a compact interval code such as "1h30m20s" into a
// display string with the zero components removed ("0h10m0s" -> "10m").
// Codes that are not of that form are returned as given.
func ParseScanInterval(code string) string {
	if code == "" {
		return NotApplicable
	}

	groups := scanIntervalPattern.FindStringSubmatch(code)
	if groups == nil {
		return code
	}

	var sb strings.Builder
	for i, suffix := range []string{"h", "m", "s"} {
		raw := groups[i+1]
		if raw == "" {
			continue
		}
		n, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return code
		}
		if n == 0 {
			continue
		}
		sb.WriteString(strconv.FormatUint(n, 10))
		sb.WriteString(suffix)
	}

	if sb.Len() == 0 {
		return NotApplicable
	}
	return sb.String()
}
