// Package speech splits a script at safe boundaries, synthesizes each
// chunk through a TTS oracle, and reassembles the audio in order.
package speech

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Synthesizer converts one text chunk into an encoded audio stream.
// The caller drains and closes the stream before the next call.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) (io.ReadCloser, error)
}

// SynthesizeScript chunks the script and synthesizes the chunks in
// strict original order, one at a time: the resulting MP3 segments are
// concatenated raw, so ordering is part of the audio contract. Any
// chunk failure aborts the whole operation.
func SynthesizeScript(ctx context.Context, synth Synthesizer, script string, log *zap.SugaredLogger) ([]byte, error) {
	chunks := Split(script)
	if len(chunks) == 0 {
		return nil, fmt.Errorf("empty script, nothing to synthesize")
	}
	log.Infow("synthesizing speech", "chunks", len(chunks), "chars", len(script))

	var buf bytes.Buffer
	for i, chunk := range chunks {
		stream, err := synth.Synthesize(ctx, chunk)
		if err != nil {
			return nil, fmt.Errorf("synthesizing chunk %d/%d: %w", i+1, len(chunks), err)
		}
		n, err := io.Copy(&buf, stream)
		stream.Close()
		if err != nil {
			return nil, fmt.Errorf("reading chunk %d/%d audio: %w", i+1, len(chunks), err)
		}
		log.Debugw("chunk synthesized", "chunk", i+1, "bytes", n)
	}
	return buf.Bytes(), nil
}

// OpenAISynthesizer calls the OpenAI speech endpoint.
type OpenAISynthesizer struct {
	apiKey string
	model  string
	voice  string
	client *http.Client
}

func NewOpenAISynthesizer(apiKey, model, voice string) *OpenAISynthesizer {
	if model == "" {
		model = "gpt-4o-mini-tts"
	}
	if voice == "" {
		voice = "alloy"
	}
	return &OpenAISynthesizer{
		apiKey: apiKey,
		model:  model,
		voice:  voice,
		client: &http.Client{Timeout: 120 * time.Second},
	}
}

type speechRequest struct {
	Model          string `json:"model"`
	Voice          string `json:"voice"`
	Input          string `json:"input"`
	ResponseFormat string `json:"response_format"`
}

func (s *OpenAISynthesizer) Synthesize(ctx context.Context, text string) (io.ReadCloser, error) {
	body, _ := json.Marshal(speechRequest{
		Model:          s.model,
		Voice:          s.voice,
		Input:          text,
		ResponseFormat: "mp3",
	})

	req, err := http.NewRequestWithContext(ctx, "POST", "https://api.openai.com/v1/audio/speech", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("speech API error: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		resp.Body.Close()
		return nil, fmt.Errorf("speech API %d: %s", resp.StatusCode, string(b))
	}
	return resp.Body, nil
}
