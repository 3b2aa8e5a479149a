package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// TransSeg is one timed segment of a transcription response.
type TransSeg struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// TranscribeResp is the speech-to-text service response. Services return
// either a flat text field or timed segments.
type TranscribeResp struct {
	Text     string     `json:"text"`
	Segments []TransSeg `json:"segments"`
	Language string     `json:"language"`
}

// Transcriber uploads audio files to an HTTP speech-to-text service.
type Transcriber struct {
	url string
	c   *http.Client
}

func NewTranscriber(url string) *Transcriber {
	return &Transcriber{url: url, c: newHTTPClient()}
}

// Transcribe uploads the audio file and returns the recognized text. An
// empty string is a valid result: the service recognized no speech.
func (t *Transcriber) Transcribe(ctx context.Context, audioPath string) (string, error) {
	var b bytes.Buffer
	w := multipart.NewWriter(&b)

	fw, err := w.CreateFormFile("file", filepath.Base(audioPath))
	if err != nil {
		return "", err
	}
	fd, err := os.Open(audioPath)
	if err != nil {
		return "", err
	}
	defer fd.Close()

	if _, err = io.Copy(fw, fd); err != nil {
		return "", err
	}
	if err = w.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.url+"/transcribe", &b)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := t.c.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("transcribe %s: %s", resp.Status, string(body))
	}

	var out TranscribeResp
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("transcribe decode: %w", err)
	}
	return out.Flatten(), nil
}

// Flatten joins segment texts when the flat text field is absent.
func (r TranscribeResp) Flatten() string {
	if r.Text != "" {
		return strings.TrimSpace(r.Text)
	}
	parts := make([]string, 0, len(r.Segments))
	for _, s := range r.Segments {
		if t := strings.TrimSpace(s.Text); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, " ")
}
