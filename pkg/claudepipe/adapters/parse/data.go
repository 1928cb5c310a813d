package parse

import (
	"encoding/json"
	"regexp"
	"strings"
)

// fencedJSON matches a ```json fenced code block and captures its body.
var fencedJSON = regexp.MustCompile("(?s)```(?:json)\\s*\\n(.*?)```")

// Data extracts structured data from the text view. It tries, in order:
// the first ```json fenced block, the entire text, and finally the first
// brace- or bracket-delimited substring. The first successful parse wins;
// nil means no parse succeeded.
func (r *Response) Data() (any, error) {
	text, err := r.Text()
	if err != nil {
		return nil, err
	}

	for _, candidate := range dataCandidates(text) {
		var value any
		if json.Unmarshal([]byte(candidate), &value) == nil {
			return value, nil
		}
	}

	return nil, nil
}

// dataCandidates lists the substrings Data attempts to parse, in order.
func dataCandidates(text string) []string {
	var candidates []string

	if match := fencedJSON.FindStringSubmatch(text); match != nil {
		candidates = append(candidates, strings.TrimSpace(match[1]))
	}

	candidates = append(candidates, strings.TrimSpace(text))

	if sub := delimitedSubstring(text, '{', '}'); sub != "" {
		candidates = append(candidates, sub)
	}
	if sub := delimitedSubstring(text, '[', ']'); sub != "" {
		candidates = append(candidates, sub)
	}

	return candidates
}

// delimitedSubstring returns the substring from the first open delimiter
// to its balanced close, or "" when no balanced region exists.
func delimitedSubstring(text string, open, closing byte) string {
	start := strings.IndexByte(text, open)
	if start < 0 {
		return ""
	}

	depth := 0
	inString := false
	for i := start; i < len(text); i++ {
		c := text[i]
		if inString {
			switch c {
			case '\\':
				i++
			case '"':
				inString = false
			}

			continue
		}
		switch c {
		case '"':
			inString = true
		case open:
			depth++
		case closing:
			depth--
			if depth == 0 {
				return text[start : i+1]
			}
		}
	}

	return ""
}
