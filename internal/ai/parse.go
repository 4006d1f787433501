package ai

import (
	"encoding/json"
	"fmt"
	"regexp"

	"github.com/xeipuuv/gojsonschema"
)

var (
	orderingPattern   = regexp.MustCompile(`\[[\d,\s]+\]`)
	suggestionPattern = regexp.MustCompile(`\[[\s\S]*?\]`)
)

const suggestionSchemaJSON = `{
  "type": "array",
  "items": {
    "type": "object",
    "required": ["choreId", "suggestedUserId"],
    "properties": {
      "choreId": { "type": "integer" },
      "suggestedUserId": { "type": "integer" },
      "reason": { "type": "string" }
    }
  }
}`

var suggestionSchemaLoader = gojsonschema.NewStringLoader(suggestionSchemaJSON)

// ParseOrdering extracts the first bracketed list of integers from text.
// When none is found, or it does not decode, it returns a copy of fallback
// and reports fellBack.
func ParseOrdering(text string, fallback []int64) (ids []int64, fellBack bool) {
	match := orderingPattern.FindString(text)
	if match != "" {
		var parsed []int64
		if err := json.Unmarshal([]byte(match), &parsed); err == nil {
			return parsed, false
		}
	}
	return append([]int64{}, fallback...), true
}

// ParseSuggestions extracts the first bracketed span of text and decodes it
// as reassignment suggestions. Text without brackets yields no suggestions.
// A span that is not a valid suggestion array returns ErrMalformedResponse.
func ParseSuggestions(text string) ([]Suggestion, error) {
	match := suggestionPattern.FindString(text)
	if match == "" {
		return []Suggestion{}, nil
	}

	result, err := gojsonschema.Validate(suggestionSchemaLoader, gojsonschema.NewStringLoader(match))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if !result.Valid() {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, result.Errors()[0])
	}

	suggestions := []Suggestion{}
	if err := json.Unmarshal([]byte(match), &suggestions); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return suggestions, nil
}
