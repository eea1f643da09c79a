package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

func candidate(text string) map[string]any {
	return map[string]any{
		"candidates": []any{
			map[string]any{
				"content": map[string]any{
					"role":  "model",
					"parts": []any{map[string]any{"text": text}},
				},
			},
		},
	}
}

func newTestGemini(t *testing.T, h http.HandlerFunc) *GeminiProvider {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	p, err := NewGeminiProvider(context.Background(), GeminiOptions{
		APIKey:            "test-key",
		BaseURL:           srv.URL + "/",
		RequestsPerMinute: 6000,
	})
	require.NoError(t, err)
	return p
}

func TestNewGeminiProvider_MissingKey(t *testing.T) {
	_, err := NewGeminiProvider(context.Background(), GeminiOptions{})
	assert.ErrorIs(t, err, ErrMissingAPIKey)
}

func TestGeminiProvider_StreamChat(t *testing.T) {
	var body map[string]any
	p := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, "gemini-2.5-flash:streamGenerateContent")
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &body)

		w.Header().Set("Content-Type", "text/event-stream")
		for _, frag := range []string{"Hel", "lo"} {
			data, _ := json.Marshal(candidate(frag))
			fmt.Fprintf(w, "data: %s\n\n", data)
		}
	})

	ch, err := p.StreamChat(context.Background(), "Say hello")
	require.NoError(t, err)

	var got []string
	for c := range ch {
		require.NoError(t, c.Err)
		got = append(got, c.Content)
	}
	assert.Equal(t, []string{"Hel", "lo"}, got)

	gen, _ := body["generationConfig"].(map[string]any)
	require.NotNil(t, gen)
	assert.InDelta(t, 0.7, gen["temperature"], 0.0001)
	assert.InDelta(t, 0.95, gen["topP"], 0.0001)
	assert.Contains(t, fmt.Sprint(body["systemInstruction"]), "Smearn AI")
}

func TestGeminiProvider_StreamChat_BackendError(t *testing.T) {
	p := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		io.WriteString(w, `{"error":{"code":500,"message":"boom","status":"INTERNAL"}}`)
	})

	ch, err := p.StreamChat(context.Background(), "hi")
	require.NoError(t, err)

	var last StreamChunk
	for c := range ch {
		last = c
	}
	require.Error(t, last.Err)
	assert.Equal(t, ChatFailedMessage, last.Err.Error())
	assert.NotContains(t, last.Err.Error(), "boom")
}

func TestGeminiProvider_ExtractQuestions(t *testing.T) {
	var body map[string]any
	p := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, ":generateContent"))
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &body)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(candidate(` [{"text":"Q1","options":["a","b","c","d"],"answer":"b"}] `))
	})

	qs, err := p.ExtractQuestions(context.Background(), Attachment{MIMEType: "image/png", Data: []byte("png-bytes")})
	require.NoError(t, err)
	require.Len(t, qs, 1)
	assert.Equal(t, "Q1", qs[0].Text)

	gen, _ := body["generationConfig"].(map[string]any)
	require.NotNil(t, gen)
	assert.Equal(t, "application/json", gen["responseMimeType"])
	assert.Contains(t, fmt.Sprint(body["contents"]), "image/png")

	schema, _ := gen["responseSchema"].(map[string]any)
	require.NotNil(t, schema, "response schema not sent")
	assert.True(t, strings.EqualFold("array", fmt.Sprint(schema["type"])))

	item, _ := schema["items"].(map[string]any)
	require.NotNil(t, item)
	assert.True(t, strings.EqualFold("object", fmt.Sprint(item["type"])))
	assert.ElementsMatch(t, []any{"text", "options", "answer"}, item["required"])

	props, _ := item["properties"].(map[string]any)
	require.NotNil(t, props)
	options, _ := props["options"].(map[string]any)
	require.NotNil(t, options)
	assert.True(t, strings.EqualFold("array", fmt.Sprint(options["type"])))
	// int64 fields may be encoded as strings
	assert.Equal(t, "4", fmt.Sprint(options["minItems"]))
	assert.Equal(t, "4", fmt.Sprint(options["maxItems"]))
	for _, key := range []string{"text", "answer"} {
		prop, _ := props[key].(map[string]any)
		require.NotNil(t, prop, key)
		assert.True(t, strings.EqualFold("string", fmt.Sprint(prop["type"])), key)
	}
}

func TestGeminiProvider_ExtractQuestions_NotArray(t *testing.T) {
	p := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(candidate(`{"text":"Q1"}`))
	})

	_, err := p.ExtractQuestions(context.Background(), Attachment{MIMEType: "image/png", Data: []byte("x")})
	require.Error(t, err)
	assert.Equal(t, ExtractFailedMessage, err.Error())
	assert.ErrorIs(t, err, ErrNotArray)
}

func TestQuestionSchema(t *testing.T) {
	s := QuestionSchema()
	require.Equal(t, genai.TypeArray, s.Type)
	require.NotNil(t, s.Items)
	assert.Equal(t, genai.TypeObject, s.Items.Type)
	assert.ElementsMatch(t, []string{"text", "options", "answer"}, s.Items.Required)

	options := s.Items.Properties["options"]
	require.NotNil(t, options)
	assert.Equal(t, genai.TypeArray, options.Type)
	require.NotNil(t, options.MinItems)
	require.NotNil(t, options.MaxItems)
	assert.EqualValues(t, 4, *options.MinItems)
	assert.EqualValues(t, 4, *options.MaxItems)
	assert.Equal(t, genai.TypeString, options.Items.Type)
}
