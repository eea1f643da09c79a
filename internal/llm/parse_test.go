package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseQuestionArray_Valid(t *testing.T) {
	raw := "  \n[{\"text\":\"Q1\",\"options\":[\"a\",\"b\",\"c\",\"d\"],\"answer\":\"b\"}]\n "

	qs, err := ParseQuestionArray(raw)
	require.NoError(t, err)
	require.Len(t, qs, 1)
	assert.Equal(t, "Q1", qs[0].Text)
	assert.Equal(t, []string{"a", "b", "c", "d"}, qs[0].Options)
	assert.Equal(t, "b", qs[0].Answer)
}

func TestParseQuestionArray_NotArray(t *testing.T) {
	for _, raw := range []string{`{"text":"Q1"}`, `"questions"`, `42`, `null`} {
		_, err := ParseQuestionArray(raw)
		assert.ErrorIs(t, err, ErrNotArray, raw)
	}
}

func TestParseQuestionArray_InvalidJSON(t *testing.T) {
	_, err := ParseQuestionArray(`[{"text":`)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotArray)
}

func TestParseQuestionArray_MistypedElementBecomesZero(t *testing.T) {
	raw := `[{"text":"Q1","options":"abcd","answer":"a"}, 7, {"text":"Q2","options":["a","b","c","d"],"answer":"c"}]`

	qs, err := ParseQuestionArray(raw)
	require.NoError(t, err)
	require.Len(t, qs, 3)
	assert.Empty(t, qs[0].Text)
	assert.Empty(t, qs[1].Text)
	assert.Equal(t, "Q2", qs[2].Text)
}

func TestUserMessage(t *testing.T) {
	assert.Equal(t, ChatFailedMessage, UserMessage(chatError(assert.AnError)))
	assert.Equal(t, ExtractFailedMessage, UserMessage(extractError(ErrNotArray)))
	assert.Equal(t, "An unknown error occurred.", UserMessage(assert.AnError))
	assert.Empty(t, UserMessage(nil))
}

func TestError_UnwrapKeepsCause(t *testing.T) {
	err := extractError(ErrNotArray)
	assert.ErrorIs(t, err, ErrNotArray)
	assert.Equal(t, ExtractFailedMessage, err.Error())
}
