// Package transcribe turns recorded audio into analysis text.
package transcribe

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"google.golang.org/genai"

	"github.com/starford/edgelog/internal/media"
)

// Marker separates a transcript from text the body already held.
const Marker = "[Transcribed Analysis]:"

// DefaultModel is used when no model is configured.
const DefaultModel = "gemini-3-flash-preview"

const prompt = "Please transcribe this trading analysis audio accurately. Output only the transcription text."

// Transcriber converts an audio blob to text.
type Transcriber interface {
	Transcribe(ctx context.Context, audio media.Blob) (string, error)
}

// Gemini transcribes through the Gemini API.
type Gemini struct {
	client *genai.Client
	model  string
}

// NewGemini creates a Gemini transcriber. An empty model selects DefaultModel.
func NewGemini(ctx context.Context, apiKey, model string) (*Gemini, error) {
	if model == "" {
		model = DefaultModel
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("transcribe: new client: %w", err)
	}
	return &Gemini{client: client, model: model}, nil
}

// Transcribe sends the audio inline with the transcription prompt.
func (g *Gemini) Transcribe(ctx context.Context, audio media.Blob) (string, error) {
	contents := []*genai.Content{{
		Role: "user",
		Parts: []*genai.Part{
			{InlineData: &genai.Blob{MIMEType: audio.MIME, Data: audio.Data}},
			{Text: prompt},
		},
	}}
	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("transcribe: generate: %w", err)
	}
	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", fmt.Errorf("transcribe: empty response from %s", g.model)
	}
	return text, nil
}

// AppendTranscript adds text to body under Marker. An empty body is
// replaced by the transcript alone.
func AppendTranscript(body, text string) string {
	if body == "" {
		return text
	}
	return body + "\n\n" + Marker + "\n" + text
}

// Into transcribes the audio data-URI and appends the result to body.
// Failures are logged and leave body unchanged.
func Into(ctx context.Context, t Transcriber, logger *slog.Logger, audioURI, body string) string {
	if t == nil {
		logger.Warn("transcription unavailable")
		return body
	}
	blob, err := media.DecodeAudio(audioURI)
	if err != nil {
		logger.Warn("transcription skipped", slog.String("error", err.Error()))
		return body
	}
	text, err := t.Transcribe(ctx, blob)
	if err != nil {
		logger.Warn("transcription failed", slog.String("error", err.Error()))
		return body
	}
	return AppendTranscript(body, text)
}
