package logging

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"
)

// Format represents the log output format
type Format string

const (
	FormatJSON Format = "json"
	FormatText Format = "text"
)

// ParseFormat parses a log format string, defaulting to text
func ParseFormat(s string) Format {
	if strings.EqualFold(s, string(FormatJSON)) {
		return FormatJSON
	}
	return FormatText
}

// DefaultTemplate is the text line layout when no template is configured
const DefaultTemplate = "{timestamp} [{level}] {message}"

// encoder renders one log entry. Text lines follow a template whose
// placeholders are {level}, {timestamp} and {message}; fields and the error
// are appended as key=value pairs in key order.
type encoder struct {
	format   Format
	template string
	now      func() time.Time
}

func newEncoder(format Format, template string) encoder {
	if template == "" {
		template = DefaultTemplate
	}
	return encoder{format: format, template: template, now: time.Now}
}

func (e encoder) encode(level Level, msg string, err error, fields Fields) ([]byte, error) {
	if e.format == FormatJSON {
		return e.encodeJSON(level, msg, err, fields)
	}
	return e.encodeText(level, msg, err, fields), nil
}

func (e encoder) encodeJSON(level Level, msg string, err error, fields Fields) ([]byte, error) {
	entry := map[string]interface{}{
		"timestamp": e.now().UTC().Format(time.RFC3339),
		"level":     level.String(),
		"message":   msg,
	}

	if err != nil {
		entry["error"] = err.Error()
	}

	for k, v := range fields {
		entry[k] = v
	}

	data, jsonErr := json.Marshal(entry)
	if jsonErr != nil {
		return nil, jsonErr
	}

	return append(data, '\n'), nil
}

func (e encoder) encodeText(level Level, msg string, err error, fields Fields) []byte {
	var b strings.Builder
	b.WriteString(strings.NewReplacer(
		"{level}", level.String(),
		"{timestamp}", e.now().UTC().Format("2006-01-02T15:04:05.000Z"),
		"{message}", msg,
	).Replace(e.template))

	if err != nil {
		fmt.Fprintf(&b, " error=%q", err.Error())
	}

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%v", k, fields[k])
	}

	b.WriteByte('\n')
	return []byte(b.String())
}

// mergeFields returns a new map holding base overlaid with extra
func mergeFields(base, extra Fields) Fields {
	merged := make(Fields, len(base)+len(extra))
	for k, v := range base {
		merged[k] = v
	}
	for k, v := range extra {
		merged[k] = v
	}
	return merged
}
