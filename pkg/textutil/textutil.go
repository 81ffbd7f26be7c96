// Package textutil holds small string helpers shared by the decoder and the
// host service.
package textutil

import (
	"strconv"
	"strings"
	"time"
	"unicode"
)

// DefaultDateLayout renders dates as day/month/year.
const DefaultDateLayout = "02/01/2006"

// CamelToUnderscore converts "CamelCase" into "camel_case". Every upper-case
// rune except a leading one starts a new word.
func CamelToUnderscore(camel string) string {
	var b strings.Builder
	b.Grow(len(camel) + 4)
	for i, r := range camel {
		if unicode.IsUpper(r) && i > 0 {
			b.WriteByte('_')
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}

// DateTime formats value, read as a UTC unix timestamp in (fractional)
// seconds, with layout. Values that are not numbers are returned unchanged.
func DateTime(value string, layout string) string {
	f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return value
	}
	if strings.TrimSpace(layout) == "" {
		layout = DefaultDateLayout
	}
	sec := int64(f)
	nsec := int64((f - float64(sec)) * float64(time.Second))
	return time.Unix(sec, nsec).UTC().Format(layout)
}
