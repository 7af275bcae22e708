package manifest

import (
	"encoding/json"
	"os"
	"time"

	"github.com/google/uuid"
)

// Summary describes one scan. It is written next to the manifest when
// requested and logged at the end of every run.
type Summary struct {
	RunID      string    `json:"run_id"`
	Version    string    `json:"version"`
	Directory  string    `json:"directory"`
	Algorithm  string    `json:"algorithm"`
	Workers    int       `json:"workers"`
	FileCount  int       `json:"file_count"`
	Output     string    `json:"output,omitempty"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}

// NewSummary starts a summary for a scan of dir with a fresh run id.
func NewSummary(dir, version string, started time.Time) Summary {
	return Summary{
		RunID:     uuid.NewString(),
		Version:   version,
		Directory: dir,
		StartedAt: started,
	}
}

// Finish records the outcome of the scan.
func (s *Summary) Finish(rs *ResultSet, finished time.Time) {
	s.FileCount = rs.Len()
	s.FinishedAt = finished
}

// Duration is the wall time of the scan.
func (s Summary) Duration() time.Duration {
	if s.FinishedAt.IsZero() {
		return 0
	}
	return s.FinishedAt.Sub(s.StartedAt)
}

// Save writes the summary as JSON to path.
func (s Summary) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	je := json.NewEncoder(f)
	je.SetIndent("", "  ")
	return je.Encode(s)
}
