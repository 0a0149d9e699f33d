package adapter_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kaiwa-dev/kaiwa/pkg/adapter"
	"github.com/m-mizutani/gt"
)

func TestTTSSynthesize(t *testing.T) {
	var gotText, gotLanguage string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gt.Equal(t, r.Method, http.MethodPost)
		gt.Equal(t, r.Header.Get("Content-Type"), "application/json")

		var req struct {
			Text     string `json:"text"`
			Language string `json:"language"`
		}
		gt.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		gotText = req.Text
		gotLanguage = req.Language

		w.Header().Set("Content-Type", "audio/mpeg")
		_, _ = w.Write([]byte("fake audio bytes"))
	}))
	defer server.Close()

	tts := adapter.NewTTS(server.URL)
	audio, err := tts.Synthesize(context.Background(), "hello there", "en-US")
	gt.NoError(t, err)
	gt.Equal(t, string(audio), "fake audio bytes")
	gt.Equal(t, gotText, "hello there")
	gt.Equal(t, gotLanguage, "en-US")
}

func TestTTSSynthesizeServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "voice model unavailable", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	tts := adapter.NewTTS(server.URL)
	_, err := tts.Synthesize(context.Background(), "hello", "en-US")
	gt.Error(t, err)
	gt.S(t, err.Error()).Contains("tts service returned error")
}

func TestTTSSynthesizeUnreachable(t *testing.T) {
	tts := adapter.NewTTS("http://127.0.0.1:1")
	_, err := tts.Synthesize(context.Background(), "hello", "en-US")
	gt.Error(t, err)
}
