package clients

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func tempAudioFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "clip.wav")
	if err := os.WriteFile(path, []byte("RIFF fake audio"), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestTranscribeFlatText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/transcribe" {
			t.Errorf("path = %q, want /transcribe", r.URL.Path)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("expected multipart form: %v", err)
		}
		if _, _, err := r.FormFile("file"); err != nil {
			t.Fatalf("missing file field: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"text": "hello world", "language": "en"}`))
	}))
	defer srv.Close()

	tr := NewTranscriber(srv.URL)
	text, err := tr.Transcribe(context.Background(), tempAudioFile(t))
	if err != nil {
		t.Fatal(err)
	}
	if text != "hello world" {
		t.Errorf("text = %q, want 'hello world'", text)
	}
}

func TestTranscribeJoinsSegments(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"segments": [
			{"start": 0, "end": 1.2, "text": " Hello "},
			{"start": 1.2, "end": 2.5, "text": "there."}
		]}`))
	}))
	defer srv.Close()

	tr := NewTranscriber(srv.URL)
	text, err := tr.Transcribe(context.Background(), tempAudioFile(t))
	if err != nil {
		t.Fatal(err)
	}
	if text != "Hello there." {
		t.Errorf("text = %q, want 'Hello there.'", text)
	}
}

func TestTranscribeEmptyResultIsNotAnError(t *testing.T) {
	// Unrecognized speech comes back as an empty transcript.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"text": ""}`))
	}))
	defer srv.Close()

	tr := NewTranscriber(srv.URL)
	text, err := tr.Transcribe(context.Background(), tempAudioFile(t))
	if err != nil {
		t.Fatal(err)
	}
	if text != "" {
		t.Errorf("text = %q, want empty", text)
	}
}

func TestTranscribeServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad audio", http.StatusBadRequest)
	}))
	defer srv.Close()

	tr := NewTranscriber(srv.URL)
	if _, err := tr.Transcribe(context.Background(), tempAudioFile(t)); err == nil {
		t.Fatal("expected error on 400")
	}
}
