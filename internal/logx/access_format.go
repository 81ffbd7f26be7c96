package logx

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// AccessEntry is the data behind one access-log line.
type AccessEntry struct {
	Time     time.Time
	Status   int
	Latency  time.Duration
	ClientIP string
	Method   string
	Path     string
	// Fields carries per-request values such as request_id or field_count.
	Fields map[string]any
}

var accessLogFormatPresets = map[string]string{
	"reqshape_combined": "$time_local | $status | $latency | $client_ip | $method $path | request_id=$request_id mobile=$mobile sources=$source_count fields=$field_count error_kind=$error_kind",
	"reqshape_minimal":  "$time_local | $status | $latency | $method $path | request_id=$request_id fields=$field_count",
}

type entryVar func(e AccessEntry, color bool) string

func fieldVar(name string) entryVar {
	return func(e AccessEntry, _ bool) string { return fieldString(e.Fields[name]) }
}

var accessLogVars = map[string]entryVar{
	"time_local": func(e AccessEntry, _ bool) string { return e.Time.Format(timeLayout) },
	"status":     func(e AccessEntry, color bool) string { return ColorizeStatusWith(e.Status, color) },
	"latency":    func(e AccessEntry, _ bool) string { return e.Latency.String() },
	"client_ip":  func(e AccessEntry, _ bool) string { return e.ClientIP },
	"method":     func(e AccessEntry, _ bool) string { return e.Method },
	"path":       func(e AccessEntry, _ bool) string { return e.Path },

	"request_id":   fieldVar("request_id"),
	"mobile":       fieldVar("mobile"),
	"source_count": fieldVar("source_count"),
	"field_count":  fieldVar("field_count"),
	"error_kind":   fieldVar("error_kind"),
}

func fieldString(v any) string {
	if v == nil {
		return ""
	}
	return strings.TrimSpace(fmt.Sprint(v))
}

// ResolveAccessLogFormat returns format when set, otherwise the named preset.
func ResolveAccessLogFormat(format string, preset string) (string, error) {
	if strings.TrimSpace(format) != "" {
		return format, nil
	}
	p := strings.ToLower(strings.TrimSpace(preset))
	if p == "" {
		return "", nil
	}
	out, ok := accessLogFormatPresets[p]
	if !ok {
		return "", fmt.Errorf("invalid access_log_format_preset: %q", preset)
	}
	return out, nil
}

// AccessLogFormatter renders access-log lines from a compiled $var format.
type AccessLogFormatter struct {
	literals []string
	vars     []entryVar
}

// CompileAccessLogFormat parses format; "$$" is a literal dollar. A blank
// format compiles to a nil formatter.
//
// The compiled form alternates literals and variables: literals[i] is
// written before vars[i], and the last literal closes the line.
func CompileAccessLogFormat(format string) (*AccessLogFormatter, error) {
	if strings.TrimSpace(format) == "" {
		return nil, nil
	}
	f := &AccessLogFormatter{}
	var lit strings.Builder
	rest := format
	for {
		i := strings.IndexByte(rest, '$')
		if i < 0 {
			lit.WriteString(rest)
			break
		}
		lit.WriteString(rest[:i])
		rest = rest[i+1:]
		if strings.HasPrefix(rest, "$") {
			lit.WriteByte('$')
			rest = rest[1:]
			continue
		}
		n := varNameLen(rest)
		if n == 0 {
			return nil, fmt.Errorf("invalid access_log_format: missing variable name after '$' at pos %d", len(format)-len(rest)-1)
		}
		fn, ok := accessLogVars[rest[:n]]
		if !ok {
			return nil, fmt.Errorf("invalid access_log_format: unknown variable $%s", rest[:n])
		}
		f.literals = append(f.literals, lit.String())
		f.vars = append(f.vars, fn)
		lit.Reset()
		rest = rest[n:]
	}
	f.literals = append(f.literals, lit.String())
	return f, nil
}

func varNameLen(s string) int {
	n := 0
	for n < len(s) {
		c := s[n]
		if c != '_' && (c < 'a' || c > 'z') && (c < 'A' || c > 'Z') && (c < '0' || c > '9') {
			break
		}
		n++
	}
	return n
}

// Format renders e. Variables without a value render as "-".
func (f *AccessLogFormatter) Format(e AccessEntry, color bool) string {
	if f == nil {
		return ""
	}
	var b strings.Builder
	for i, fn := range f.vars {
		b.WriteString(f.literals[i])
		v := strings.TrimSpace(fn(e, color))
		if v == "" {
			v = "-"
		}
		b.WriteString(v)
	}
	b.WriteString(f.literals[len(f.literals)-1])
	return b.String()
}

func AccessLogAllowedVars() []string {
	keys := make([]string, 0, len(accessLogVars))
	for k := range accessLogVars {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
