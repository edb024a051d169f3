package transcribe

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"

	"github.com/studyflow-ai/studyflow/internal/config"
	"github.com/studyflow-ai/studyflow/internal/domain"
)

// Transcriber converts one audio segment to plain text. An empty string is a
// valid result meaning no speech was detected in that segment.
type Transcriber interface {
	Transcribe(ctx context.Context, segment domain.AudioSegment) (string, error)
}

// asrResponse is the JSON body returned by the Whisper ASR webservice.
type asrResponse struct {
	Text     string `json:"text"`
	Language string `json:"language"`
}

type implClient struct {
	baseURL    string
	language   string
	httpClient *http.Client
}

// NewClient creates a Transcriber backed by a Whisper ASR webservice.
func NewClient(cfg config.WhisperConfig, httpClient *http.Client) Transcriber {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &implClient{
		baseURL:    cfg.URL,
		language:   cfg.Language,
		httpClient: httpClient,
	}
}

// Transcribe posts the WAV segment as multipart form data and returns the
// recognized text.
func (c *implClient) Transcribe(ctx context.Context, segment domain.AudioSegment) (string, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("audio_file", fmt.Sprintf("chunk_%03d.wav", segment.Index))
	if err != nil {
		return "", fmt.Errorf("create form file: %w", err)
	}
	if _, err := part.Write(segment.Data); err != nil {
		return "", fmt.Errorf("write audio data: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("close multipart writer: %w", err)
	}

	endpoint := c.baseURL + "?" + url.Values{
		"task":     {"transcribe"},
		"language": {c.language},
		"output":   {"json"},
	}.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &body)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("transcription request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("transcription service returned %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	var parsed asrResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decode transcription response: %w", err)
	}

	return strings.TrimSpace(parsed.Text), nil
}
