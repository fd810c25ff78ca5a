package llm

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const anthropicReply = `{
  "id": "msg_01",
  "type": "message",
  "role": "assistant",
  "model": "claude-3-5-haiku-latest",
  "content": [{"type": "text", "text": "{\"sentiment\":\"negative\",\"intensity\":6,\"emotion_type\":\"disappointed\"}"}],
  "stop_reason": "end_turn",
  "stop_sequence": null,
  "usage": {"input_tokens": 10, "output_tokens": 12}
}`

func TestAnthropicClient(t *testing.T) {
	t.Run("missing API key", func(t *testing.T) {
		_, err := newAnthropicClient(Config{})
		require.Error(t, err)
	})

	t.Run("returns first text block", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "test-key", r.Header.Get("X-Api-Key"))
			w.Header().Set("Content-Type", "application/json")
			_, _ = fmt.Fprint(w, anthropicReply)
		}))
		defer server.Close()

		client, err := newAnthropicClient(Config{APIKey: "test-key", BaseURL: server.URL})
		require.NoError(t, err)

		content, err := client.Complete(context.Background(), Request{System: "sys", Prompt: "hi"})
		require.NoError(t, err)
		assert.JSONEq(t, `{"sentiment":"negative","intensity":6,"emotion_type":"disappointed"}`, content)
	})

	t.Run("sdk retries are disabled", func(t *testing.T) {
		var hits atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			hits.Add(1)
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = fmt.Fprint(w, `{"type":"error","error":{"type":"api_error","message":"boom"}}`)
		}))
		defer server.Close()

		client, err := newAnthropicClient(Config{APIKey: "k", BaseURL: server.URL})
		require.NoError(t, err)

		_, err = client.Complete(context.Background(), Request{Prompt: "hi"})
		require.Error(t, err)
		assert.Equal(t, int32(1), hits.Load())
	})
}
