// Package dateexpr parses and evaluates the "${<format>[±N]}" date
// expression tokens used throughout parameter templates.
package dateexpr

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// layout tokens recognized in a format-body, checked longest-first so that
// "yyyy" is matched before a stray "y" would be.
var layoutTokens = []struct {
	token  string
	goLayout string
}{
	{"yyyy", "2006"},
	{"MM", "01"},
	{"dd", "02"},
	{"HH", "15"},
	{"mm", "04"},
	{"ss", "05"},
}

// IsCandidate reports whether token contains at least one recognized
// date-format token, i.e. whether it is worth attempting to parse as a date
// expression at all.
func IsCandidate(token string) bool {
	for _, lt := range layoutTokens {
		if strings.Contains(token, lt.token) {
			return true
		}
	}
	return false
}

// Eval attempts to evaluate token (the text between "${" and "}", already
// stripped of delimiters) as a date expression relative to today. It
// returns the formatted value and ok=true on success; ok=false means the
// token should be left untouched by the caller (either it is not a date
// expression at all, or it looked like one but had a malformed offset).
func Eval(token string, today time.Time) (value string, ok bool) {
	if !IsCandidate(token) {
		return "", false
	}

	formatBody, offsetDays, hasOffset, malformed := splitOffset(token)
	if malformed {
		return "", false
	}

	d := today
	if hasOffset {
		d = today.AddDate(0, 0, offsetDays)
	}
	return formatDate(formatBody, d), true
}

// splitOffset separates a trailing "+N" / "-N" suffix from formatBody. The
// boundary between the format body and the offset suffix is the end of the
// last recognized layout token in the string (not merely the last literal
// '+'/'-' byte, which would also match date separators like the dash in
// "yyyy-MM-dd"). If nothing follows the last layout token, hasOffset is
// false. malformed is true when a sign immediately follows the last layout
// token but is not followed by a valid non-negative integer running to the
// end of the string.
func splitOffset(token string) (formatBody string, offsetDays int, hasOffset bool, malformed bool) {
	bodyEnd := 0
	for _, lt := range layoutTokens {
		if idx := strings.LastIndex(token, lt.token); idx >= 0 {
			if end := idx + len(lt.token); end > bodyEnd {
				bodyEnd = end
			}
		}
	}

	suffix := token[bodyEnd:]
	if suffix == "" {
		return token, 0, false, false
	}

	var sign int
	switch suffix[0] {
	case '+':
		sign = 1
	case '-':
		sign = -1
	default:
		// Trailing text that isn't an offset sign is left as literal
		// format-body content.
		return token, 0, false, false
	}

	digits := suffix[1:]
	if digits == "" {
		return token, 0, false, true
	}
	n, err := strconv.Atoi(digits)
	if err != nil || n < 0 {
		return token, 0, false, true
	}
	return token[:bodyEnd], sign * n, true, false
}

// formatDate renders d according to formatBody, replacing each recognized
// token with its zero-padded value and leaving any other characters (e.g.
// literal separators like '-' or '/') untouched.
func formatDate(formatBody string, d time.Time) string {
	var b strings.Builder
	i := 0
	for i < len(formatBody) {
		matched := false
		for _, lt := range layoutTokens {
			if strings.HasPrefix(formatBody[i:], lt.token) {
				b.WriteString(d.Format(lt.goLayout))
				i += len(lt.token)
				matched = true
				break
			}
		}
		if !matched {
			b.WriteByte(formatBody[i])
			i++
		}
	}
	return b.String()
}

// StrftimeToGo converts a small, commonly-used subset of strftime directives
// (%Y %m %d %H %M %S) to a Go reference-time layout, for the backfill
// planner's date_param_formats field. Unsupported directives are passed
// through literally.
func StrftimeToGo(strftime string) string {
	replacer := strings.NewReplacer(
		"%Y", "2006",
		"%m", "01",
		"%d", "02",
		"%H", "15",
		"%M", "04",
		"%S", "05",
	)
	return replacer.Replace(strftime)
}

// FormatStrftime formats d using a strftime-style layout string.
func FormatStrftime(d time.Time, strftime string) (string, error) {
	if strftime == "" {
		return "", fmt.Errorf("dateexpr: empty strftime layout")
	}
	return d.Format(StrftimeToGo(strftime)), nil
}

// Canonical formats d in the canonical YYYY-MM-DD form.
func Canonical(d time.Time) string {
	return d.Format("2006-01-02")
}

// NoDash strips dashes from the canonical form, e.g. "20240115".
func NoDash(d time.Time) string {
	return strings.ReplaceAll(Canonical(d), "-", "")
}
