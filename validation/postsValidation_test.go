package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePostInputRejectsUnusableTitles(t *testing.T) {
	bodies := map[string]string{
		"missing":      `{}`,
		"null":         `{"title":null}`,
		"number":       `{"title":42}`,
		"empty":        `{"title":""}`,
		"object":       `{"title":{"text":"hi"}}`,
		"array body":   `["title"]`,
		"null body":    `null`,
		"malformed":    `{"title":`,
		"empty body":   ``,
		"string body":  `"title"`,
		"bool title":   `{"title":true}`,
		"list title":   `{"title":["a"]}`,
		"content only": `{"content":"C"}`,
	}

	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			_, err := ParsePostInput([]byte(body))
			assert.ErrorIs(t, err, ErrTitleRequired)
		})
	}
}

func TestParsePostInputKeepsStringContent(t *testing.T) {
	input, err := ParsePostInput([]byte(`{"title":"T","content":"C"}`))
	require.NoError(t, err)
	assert.Equal(t, "T", input.Title)
	require.NotNil(t, input.Content)
	assert.Equal(t, "C", *input.Content)
}

func TestParsePostInputDropsNonStringContent(t *testing.T) {
	for _, content := range []string{`12`, `{"a":1}`, `null`, `true`, `["x"]`} {
		input, err := ParsePostInput([]byte(`{"title":"T","content":` + content + `}`))
		require.NoError(t, err, content)
		assert.Nil(t, input.Content, content)
	}

	input, err := ParsePostInput([]byte(`{"title":"T"}`))
	require.NoError(t, err)
	assert.Nil(t, input.Content)
}

func TestParsePostInputKeepsEmptyStringContent(t *testing.T) {
	input, err := ParsePostInput([]byte(`{"title":"T","content":""}`))
	require.NoError(t, err)
	require.NotNil(t, input.Content)
	assert.Empty(t, *input.Content)
}
