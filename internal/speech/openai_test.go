package speech

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestOpenAIEngine(t *testing.T, handler http.HandlerFunc, rate, voice int) (*OpenAIEngine, *[]byte) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := openai.DefaultConfig("test-key")
	cfg.BaseURL = srv.URL + "/v1"

	e := NewOpenAIEngine(openai.NewClientWithConfig(cfg), rate, voice)
	var played []byte
	e.play = func(_ context.Context, audio io.ReadCloser) error {
		b, err := io.ReadAll(audio)
		played = b
		return err
	}
	return e, &played
}

func TestOpenAIEngine_Speak(t *testing.T) {
	var got map[string]any
	e, played := newTestOpenAIEngine(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/audio/speech", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "audio/mpeg")
		w.Write([]byte("ID3fake-mp3"))
	}, 350, 4)

	require.NoError(t, e.Speak(t.Context(), "Let's talk about travel."))

	assert.Equal(t, "tts-1", got["model"])
	assert.Equal(t, "Let's talk about travel.", got["input"])
	assert.Equal(t, "nova", got["voice"])
	assert.Equal(t, "mp3", got["response_format"])
	assert.Equal(t, 2.0, got["speed"])
	assert.Equal(t, "ID3fake-mp3", string(*played))
}

func TestOpenAIEngine_ServerError(t *testing.T) {
	e, played := newTestOpenAIEngine(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":{"message":"boom","type":"server_error"}}`))
	}, 150, 0)

	require.Error(t, e.Speak(t.Context(), "hello"))
	assert.Empty(t, *played)
}

func TestOpenAIEngine_VoiceClamped(t *testing.T) {
	e := NewOpenAIEngine(openai.NewClient("k"), 0, 99)
	assert.Equal(t, openai.VoiceShimmer, e.voice)
	assert.Equal(t, 1.0, e.speed)

	e = NewOpenAIEngine(openai.NewClient("k"), 0, -3)
	assert.Equal(t, openai.VoiceAlloy, e.voice)
}
