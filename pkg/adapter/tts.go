package adapter

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/m-mizutani/goerr/v2"
)

// TTS is the boundary to the text-to-speech collaborator. The response
// body is raw audio bytes; playback is the caller's concern.
type TTS interface {
	Synthesize(ctx context.Context, text, language string) ([]byte, error)
}

type ttsClient struct {
	endpoint string
	client   *http.Client
}

type ttsRequest struct {
	Text     string `json:"text"`
	Language string `json:"language"`
}

// NewTTS creates a TTS client for the given endpoint
func NewTTS(endpoint string) TTS {
	return &ttsClient{
		endpoint: endpoint,
		client:   &http.Client{Timeout: 30 * time.Second},
	}
}

func (t *ttsClient) Synthesize(ctx context.Context, text, language string) ([]byte, error) {
	body, err := json.Marshal(ttsRequest{Text: text, Language: language})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to marshal tts request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to build tts request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to call tts service", goerr.V("endpoint", t.endpoint))
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read tts response")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, goerr.New("tts service returned error",
			goerr.V("status", resp.StatusCode), goerr.V("body", string(data)))
	}

	return data, nil
}
