package ai

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mitchellh/mapstructure"
)

// ExtractJSON strips markdown fences and surrounding chatter from a model
// response, returning the outermost JSON object or array it contains.
func ExtractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.TrimSpace(strings.Trim(raw, "`"))

	start := strings.IndexAny(raw, "{[")
	if start == -1 {
		return raw
	}
	closer := byte('}')
	if raw[start] == '[' {
		closer = ']'
	}
	end := strings.LastIndexByte(raw, closer)
	if end < start {
		return raw[start:]
	}
	return raw[start : end+1]
}

// DecodeJSON parses a model response into out. Field types are coerced
// loosely so "3" decodes into an int and a single string into a slice.
func DecodeJSON(raw string, out any) error {
	cleaned := ExtractJSON(raw)
	if cleaned == "" {
		return &Error{Kind: KindMalformed, Err: fmt.Errorf("empty response")}
	}

	var data any
	if err := json.Unmarshal([]byte(cleaned), &data); err != nil {
		return &Error{Kind: KindMalformed, Err: fmt.Errorf("parse response: %w", err)}
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		TagName:          "json",
		Result:           out,
	})
	if err != nil {
		return fmt.Errorf("build decoder: %w", err)
	}

	if err := decoder.Decode(data); err != nil {
		return &Error{Kind: KindMalformed, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}
