package report

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// Bundle is the persisted form of a scored session.
type Bundle struct {
	SessionID   string      `json:"session_id"`
	AudioPath   string      `json:"audio_path,omitempty"`
	GeneratedAt time.Time   `json:"generated_at"`
	Report      ScoreReport `json:"report"`
}

// Save writes the report bundle into a fresh session directory under
// outputsRoot and returns the report file path.
func Save(outputsRoot, audioPath string, rep ScoreReport) (string, error) {
	sid := "session_" + time.Now().Format("20060102-150405") + "_" + uuid.NewString()[:8]
	dir := filepath.Join(outputsRoot, sid)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}

	path := filepath.Join(dir, "report.json")
	bundle := Bundle{
		SessionID:   sid,
		AudioPath:   audioPath,
		GeneratedAt: time.Now(),
		Report:      rep,
	}
	if err := writeJSON(path, bundle); err != nil {
		return "", err
	}
	return path, nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
