// Package repair turns the transcoder's raw text into canonical JSON: it
// drops dangling commas, cuts a trailing recorder source map and re-indents
// the result.
package repair

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// SourceMapMarker starts the source map comment the recorder may append.
const SourceMapMarker = "//# recorderSourceMap"

// ErrMalformedOutput means the repaired text is still not valid JSON. It
// points at a defect in the emitter or the repair steps, never at the input.
var ErrMalformedOutput = errors.New("malformed converter output")

// Run applies StripTrailingCommas, RemoveSourceMap and Canonicalize in order.
func Run(raw string) (string, error) {
	return Canonicalize(RemoveSourceMap(StripTrailingCommas(raw)))
}

// StripTrailingCommas removes every comma that follows a complete value and
// precedes a closing brace or bracket, together with the whitespace between
// the value and the comma. Commas inside string literals are left alone.
func StripTrailingCommas(s string) string {
	out := make([]byte, 0, len(s))
	inString, escaped := false, false

	for i := 0; i < len(s); i++ {
		c := s[i]
		if inString {
			out = append(out, c)
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			inString = true
		case ',':
			trimmed := bytes.TrimRight(out, " \t\r\n")
			if endsValue(trimmed) && closerFollows(s[i+1:]) {
				out = trimmed
				continue
			}
		}
		out = append(out, c)
	}
	return string(out)
}

func endsValue(b []byte) bool {
	if len(b) == 0 {
		return false
	}
	switch last := b[len(b)-1]; {
	case last == '"', last == '}', last == ']':
		return true
	case last >= '0' && last <= '9':
		return true
	}
	return bytes.HasSuffix(b, []byte("true")) ||
		bytes.HasSuffix(b, []byte("false")) ||
		bytes.HasSuffix(b, []byte("null"))
}

func closerFollows(rest string) bool {
	rest = strings.TrimLeft(rest, " \t\r\n")
	return rest != "" && (rest[0] == '}' || rest[0] == ']')
}

// RemoveSourceMap truncates s at the last source map marker that sits
// outside string literals. Markers inside strings are user data. Text
// without such a marker is returned unchanged.
func RemoveSourceMap(s string) string {
	cut := -1
	inString, escaped := false, false

	for i := 0; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		if c == '"' {
			inString = true
			continue
		}
		if strings.HasPrefix(s[i:], SourceMapMarker) {
			cut = i
			// The marker opens a line comment; quotes in it are not strings.
			end := strings.IndexByte(s[i:], '\n')
			if end < 0 {
				break
			}
			i += end
		}
	}

	if cut < 0 {
		return s
	}
	return s[:cut]
}

// Canonicalize validates s and re-indents it with two spaces, keeping key
// order as written.
func Canonicalize(s string) (string, error) {
	src := bytes.TrimSpace([]byte(s))
	var buf bytes.Buffer
	if err := json.Indent(&buf, src, "", "  "); err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedOutput, err)
	}
	return buf.String(), nil
}
