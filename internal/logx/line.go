package logx

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/mattn/go-isatty"
)

const timeLayout = "2006/01/02 - 15:04:05"

const (
	ansiReset  = "\x1b[0m"
	ansiGreen  = "\x1b[97;42m"
	ansiYellow = "\x1b[90;43m"
	ansiRed    = "\x1b[97;41m"
	ansiBlue   = "\x1b[97;44m"
)

// ColorEnabled resolves a logging.color mode (auto, always, never) against w.
// In auto mode only terminals get colour, and NO_COLOR turns it off.
func ColorEnabled(mode string, w io.Writer) bool {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "always":
		return true
	case "never":
		return false
	}
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// ColorizeStatusWith formats an HTTP status, wrapped in an ANSI colour
// matching its class when color is set.
func ColorizeStatusWith(status int, color bool) string {
	s := strconv.Itoa(status)
	if !color {
		return s
	}
	var code string
	switch {
	case status >= 500:
		code = ansiRed
	case status >= 400:
		code = ansiYellow
	case status >= 300:
		code = ansiBlue
	default:
		code = ansiGreen
	}
	return code + " " + s + " " + ansiReset
}

// FormatRequestLine renders the default access-log line:
//
//	time | status | latency | ip | method path | k=v k=v
//
// Fields are sorted by key; empty values are skipped.
func FormatRequestLine(e AccessEntry, color bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s | %s | %v | %s | %s %s",
		e.Time.Format(timeLayout),
		ColorizeStatusWith(e.Status, color),
		e.Latency,
		strings.TrimSpace(e.ClientIP),
		strings.TrimSpace(e.Method),
		e.Path,
	)

	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	sep := " | "
	for _, k := range keys {
		v := fieldString(e.Fields[k])
		if v == "" {
			continue
		}
		b.WriteString(sep)
		sep = " "
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(v)
	}
	return b.String()
}
