package validation

import (
	"bytes"
	"encoding/json"
	"errors"
)

// TitleRequiredMessage is returned to clients when the title is unusable.
const TitleRequiredMessage = "Title is required and must be a string"

var ErrTitleRequired = errors.New(TitleRequiredMessage)

// PostInput is a validated post creation payload.
type PostInput struct {
	Title   string
	Content *string
}

// ParsePostInput reads a JSON object with a required, non-empty string title
// and an optional content. Content that is not a JSON string is dropped.
func ParsePostInput(body []byte) (PostInput, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return PostInput{}, ErrTitleRequired
	}

	rawTitle, ok := fields["title"]
	if !ok || !isJSONString(rawTitle) {
		return PostInput{}, ErrTitleRequired
	}

	var input PostInput
	if err := json.Unmarshal(rawTitle, &input.Title); err != nil || input.Title == "" {
		return PostInput{}, ErrTitleRequired
	}

	if rawContent, ok := fields["content"]; ok && isJSONString(rawContent) {
		var content string
		if err := json.Unmarshal(rawContent, &content); err == nil {
			input.Content = &content
		}
	}

	return input, nil
}

func isJSONString(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '"'
}
