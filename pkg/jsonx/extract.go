// Package jsonx extracts JSON payloads from free-form model output.
package jsonx

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ErrNoObject is returned when no balanced JSON object can be found.
var ErrNoObject = fmt.Errorf("no JSON object found in text")

// ExtractObject finds the first balanced {...} span in text and unmarshals it
// into v. Language models wrap JSON in prose, markdown fences or stray
// punctuation; everything outside the balanced span is ignored. Braces inside
// JSON strings are handled, so `{"a": "}"}` extracts correctly.
func ExtractObject(text string, v interface{}) error {
	raw, err := FirstObject(text)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return fmt.Errorf("unmarshal extracted object: %w", err)
	}
	return nil
}

// FirstObject returns the first balanced {...} span in text.
func FirstObject(text string) (string, error) {
	start := strings.IndexByte(text, '{')
	if start < 0 {
		return "", ErrNoObject
	}

	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(text); i++ {
		c := text[i]

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

		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start : i+1], nil
			}
		}
	}

	return "", ErrNoObject
}
