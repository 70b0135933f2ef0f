package llm

import (
	"encoding/json"
	"errors"
	"io"
	"strings"
)

const codeFence = "```"

// ParseReply turns a raw model completion into a Reply. It never fails: when
// no JSON object can be recovered the stripped text becomes an unknown reply.
func ParseReply(raw string) Reply {
	stripped := stripCodeFences(raw)

	for _, candidate := range replyCandidates(stripped) {
		obj, ok := decodeObject(candidate)
		if !ok {
			continue
		}
		reply := coerceReply(obj)
		if nested, ok := parseNestedReply(reply); ok {
			reply = nested
		}
		return sanitizeReply(reply)
	}

	return Reply{InferredCommand: CommandUnknown, ResponseText: stripped}
}

// replyCandidates lists the strings worth decoding, best first.
func replyCandidates(stripped string) []string {
	if extracted, ok := extractFirstObject(stripped); ok && extracted != stripped {
		return []string{extracted, stripped}
	}
	return []string{stripped}
}

// decoders are tried in order on every candidate; the first object wins.
var decoders = []func(string) (map[string]any, bool){
	strictDecode,
	normalizedDecode,
}

func decodeObject(s string) (map[string]any, bool) {
	for _, decode := range decoders {
		if obj, ok := decode(s); ok {
			return obj, true
		}
	}
	return nil, false
}

func strictDecode(s string) (map[string]any, bool) {
	dec := json.NewDecoder(strings.NewReader(s))
	dec.UseNumber()

	var obj map[string]any
	if err := dec.Decode(&obj); err != nil || obj == nil {
		return nil, false
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, false
	}
	return obj, true
}

func normalizedDecode(s string) (map[string]any, bool) {
	normalized := normalizeJSONLike(s)
	if normalized == s {
		return nil, false
	}
	return strictDecode(normalized)
}

// normalizers rewrite "almost JSON" into JSON. Each one leaves
// double-quoted strings untouched.
var normalizers = []func(string) string{
	extractOrKeep,
	singleToDoubleQuotes,
	quoteBareKeys,
	dropTrailingCommas,
}

func normalizeJSONLike(s string) string {
	s = strings.TrimSpace(s)
	for _, normalize := range normalizers {
		s = normalize(s)
	}
	return s
}

func coerceReply(obj map[string]any) Reply {
	reply := Reply{InferredCommand: CommandUnknown}
	if s, ok := obj["inferredCommand"].(string); ok {
		reply.InferredCommand = ParseInferredCommand(s)
	}
	if s, ok := obj["responseText"].(string); ok {
		reply.ResponseText = strings.TrimSpace(s)
	}
	for k, v := range obj {
		if k == "inferredCommand" || k == "responseText" {
			continue
		}
		if reply.Extra == nil {
			reply.Extra = make(map[string]any)
		}
		reply.Extra[k] = v
	}
	return reply
}

// parseNestedReply recovers completions where the model put a whole reply
// object inside responseText.
func parseNestedReply(outer Reply) (Reply, bool) {
	text := outer.ResponseText
	if !strings.HasPrefix(text, "{") || !mentionsReplyKeys(text) {
		return Reply{}, false
	}
	obj, ok := decodeObject(text)
	if !ok {
		return Reply{}, false
	}
	nested := coerceReply(obj)
	if nested.ResponseText == "" && nested.InferredCommand == outer.InferredCommand {
		return Reply{}, false
	}
	for k, v := range outer.Extra {
		if _, exists := nested.Extra[k]; exists {
			continue
		}
		if nested.Extra == nil {
			nested.Extra = make(map[string]any)
		}
		nested.Extra[k] = v
	}
	return nested, true
}

func mentionsReplyKeys(text string) bool {
	return strings.Contains(text, "inferredCommand") || strings.Contains(text, "responseText")
}

func sanitizeReply(reply Reply) Reply {
	if looksLikeJSONEcho(reply.ResponseText) {
		reply.ResponseText = ""
	}
	return reply
}

func looksLikeJSONEcho(text string) bool {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return false
	}
	if strings.HasPrefix(trimmed, "{") && strings.Contains(trimmed, "inferredCommand") {
		return true
	}
	for _, key := range []string{"inferredCommand", "responseText"} {
		if strings.Contains(trimmed, `"`+key+`"`) || strings.Contains(trimmed, `'`+key+`'`) {
			return true
		}
	}
	return false
}

func stripCodeFences(value string) string {
	trimmed := strings.TrimSpace(value)
	if !strings.HasPrefix(trimmed, codeFence) {
		return trimmed
	}
	lines := strings.Split(trimmed, "\n")[1:]
	if n := len(lines); n > 0 && strings.HasPrefix(strings.TrimSpace(lines[n-1]), codeFence) {
		lines = lines[:n-1]
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// extractFirstObject returns the first balanced {...} substring. Braces
// inside single- or double-quoted strings do not count.
func extractFirstObject(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return "", false
	}
	depth := 0
	var quote byte
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if quote != 0 {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == quote:
				quote = 0
			}
			continue
		}
		switch c {
		case '"', '\'':
			quote = c
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}

func extractOrKeep(s string) string {
	if extracted, ok := extractFirstObject(s); ok {
		return extracted
	}
	return s
}

// skipDoubleQuoted returns the index just past the double-quoted string
// starting at s[i], or len(s) when it is unterminated.
func skipDoubleQuoted(s string, i int) int {
	for j := i + 1; j < len(s); j++ {
		switch s[j] {
		case '\\':
			j++
		case '"':
			return j + 1
		}
	}
	return len(s)
}

func singleToDoubleQuotes(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		switch s[i] {
		case '"':
			end := skipDoubleQuoted(s, i)
			b.WriteString(s[i:end])
			i = end
		case '\'':
			end, inner, ok := readSingleQuoted(s, i)
			if !ok {
				b.WriteString(s[i:])
				return b.String()
			}
			b.WriteByte('"')
			b.WriteString(inner)
			b.WriteByte('"')
			i = end
		default:
			b.WriteByte(s[i])
			i++
		}
	}
	return b.String()
}

// readSingleQuoted reads the single-quoted literal at s[i] and returns its
// content re-escaped for a double-quoted JSON string.
func readSingleQuoted(s string, i int) (end int, inner string, ok bool) {
	var b strings.Builder
	for j := i + 1; j < len(s); j++ {
		c := s[j]
		switch {
		case c == '\\' && j+1 < len(s):
			if s[j+1] == '\'' {
				b.WriteByte('\'')
			} else {
				b.WriteByte(c)
				b.WriteByte(s[j+1])
			}
			j++
		case c == '"':
			b.WriteString(`\"`)
		case c == '\'':
			return j + 1, b.String(), true
		default:
			b.WriteByte(c)
		}
	}
	return 0, "", false
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func quoteBareKeys(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 16)
	expectKey := false
	for i := 0; i < len(s); {
		c := s[i]
		switch {
		case c == '"':
			end := skipDoubleQuoted(s, i)
			b.WriteString(s[i:end])
			i = end
			expectKey = false
		case c == '{' || c == ',':
			b.WriteByte(c)
			i++
			expectKey = true
		case isSpace(c):
			b.WriteByte(c)
			i++
		case expectKey && isIdentStart(c):
			j := i + 1
			for j < len(s) && isIdentPart(s[j]) {
				j++
			}
			k := j
			for k < len(s) && isSpace(s[k]) {
				k++
			}
			if k < len(s) && s[k] == ':' {
				b.WriteByte('"')
				b.WriteString(s[i:j])
				b.WriteByte('"')
			} else {
				b.WriteString(s[i:j])
			}
			i = j
			expectKey = false
		default:
			b.WriteByte(c)
			i++
			expectKey = false
		}
	}
	return b.String()
}

func dropTrailingCommas(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		switch s[i] {
		case '"':
			end := skipDoubleQuoted(s, i)
			b.WriteString(s[i:end])
			i = end
		case ',':
			j := i + 1
			for j < len(s) && isSpace(s[j]) {
				j++
			}
			if j < len(s) && (s[j] == '}' || s[j] == ']') {
				i++
				continue
			}
			b.WriteByte(',')
			i++
		default:
			b.WriteByte(s[i])
			i++
		}
	}
	return b.String()
}
