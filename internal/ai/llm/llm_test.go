package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSchema() *Schema {
	return &Schema{
		Type: "object",
		Properties: map[string]*Schema{
			"response": {Type: "string"},
		},
		Required: []string{"response"},
	}
}

func TestMistralClient_Generate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var body struct {
			Model          string            `json:"model"`
			Messages       []chatMessage     `json:"messages"`
			ResponseFormat map[string]string `json:"response_format"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "test-model", body.Model)
		assert.Equal(t, "json_object", body.ResponseFormat["type"])
		require.Len(t, body.Messages, 2)
		assert.Equal(t, "system", body.Messages[0].Role)
		assert.Contains(t, body.Messages[0].Content, `"required":["response"]`)
		assert.Equal(t, "hello", body.Messages[1].Content)

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"choices":[{"message":{"content":"{\"response\":\"hi\"}"}}]}`)
	}))
	defer server.Close()

	client := NewMistralClient("test-key", "test-model", server.URL)
	out, err := client.Generate(context.Background(), Request{System: "be nice", User: "hello", Schema: testSchema()})
	require.NoError(t, err)
	assert.Equal(t, `{"response":"hi"}`, out)
	assert.Equal(t, "mistral:test-model", client.Name())
}

func TestMistralClient_Errors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		kind    ErrorKind
	}{
		{
			name: "non-2xx status",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusServiceUnavailable)
			},
			kind: KindUnavailable,
		},
		{
			name: "no choices",
			handler: func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, `{"choices":[]}`)
			},
			kind: KindUnavailable,
		},
		{
			name: "garbage body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, `<html>`)
			},
			kind: KindUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			_, err := NewMistralClient("k", "", server.URL).Generate(context.Background(), Request{User: "x"})
			require.Error(t, err)
			assert.Equal(t, tt.kind, KindOf(err))
		})
	}
}

func TestMistralClient_DeadlineIsTransport(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := NewMistralClient("k", "", server.URL).Generate(ctx, Request{User: "x"})
	require.Error(t, err)
	assert.Equal(t, KindTransport, KindOf(err))
}

func TestGeminiClient_Generate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, ":generateContent"), r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"candidates":[{"content":{"role":"model","parts":[{"text":"{\"response\":\"hi\"}"}]}}]}`)
	}))
	defer server.Close()

	client, err := NewGeminiClient(context.Background(), "test-key", "gemini-test", WithGeminiBaseURL(server.URL))
	require.NoError(t, err)

	out, err := client.Generate(context.Background(), Request{System: "sys", User: "hello", Schema: testSchema()})
	require.NoError(t, err)
	assert.Equal(t, `{"response":"hi"}`, out)
}

func TestGeminiClient_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprint(w, `{"error":{"code":500,"message":"boom","status":"INTERNAL"}}`)
	}))
	defer server.Close()

	client, err := NewGeminiClient(context.Background(), "test-key", "gemini-test", WithGeminiBaseURL(server.URL))
	require.NoError(t, err)

	_, err = client.Generate(context.Background(), Request{User: "hello"})
	require.Error(t, err)

	var modelErr *Error
	assert.True(t, errors.As(err, &modelErr))
}

func TestNewGeminiClient_RequiresKey(t *testing.T) {
	_, err := NewGeminiClient(context.Background(), "", "")
	assert.Error(t, err)
}

func TestToGenaiSchema(t *testing.T) {
	s := toGenaiSchema(&Schema{
		Type: "object",
		Properties: map[string]*Schema{
			"ids": {Type: "array", Items: &Schema{Type: "string"}},
		},
		Required: []string{"ids"},
	})
	require.NotNil(t, s)
	assert.Equal(t, []string{"ids"}, s.Required)
	require.Contains(t, s.Properties, "ids")
	assert.NotNil(t, s.Properties["ids"].Items)
}

func TestDisabled(t *testing.T) {
	_, err := Disabled{}.Generate(context.Background(), Request{})
	assert.Equal(t, KindUnavailable, KindOf(err))
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindSchemaInvalid, KindOf(NewError(KindSchemaInvalid, "p", errors.New("x"))))
	assert.Equal(t, KindSchemaInvalid, KindOf(fmt.Errorf("wrapped: %w", NewError(KindSchemaInvalid, "p", errors.New("x")))))
	assert.Equal(t, KindTransport, KindOf(context.DeadlineExceeded))
	assert.Equal(t, KindUnavailable, KindOf(errors.New("boom")))
}

func TestNew(t *testing.T) {
	ctx := context.Background()

	m, err := New(ctx, ProviderConfig{Provider: ProviderGemini})
	require.NoError(t, err)
	assert.IsType(t, Disabled{}, m)

	m, err = New(ctx, ProviderConfig{Provider: ProviderMistral, APIKey: "k", Model: "mistral-large-latest"})
	require.NoError(t, err)
	assert.Equal(t, "mistral:mistral-large-latest", m.Name())

	m, err = New(ctx, ProviderConfig{Provider: ProviderGemini, APIKey: "k"})
	require.NoError(t, err)
	assert.Equal(t, "gemini:"+DefaultGeminiModel, m.Name())

	_, err = New(ctx, ProviderConfig{Provider: "openai", APIKey: "k"})
	assert.Error(t, err)
}
