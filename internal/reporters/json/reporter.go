package json

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gputrace/internal/models"
)

// Reporter writes the full run, counters and environment included, as JSON.
type Reporter struct {
	run    *models.ProfileRun
	outDir string
}

// NewReporter creates a JSON reporter writing into outDir.
func NewReporter(run *models.ProfileRun, outDir string) *Reporter {
	return &Reporter{
		run:    run,
		outDir: outDir,
	}
}

func (r *Reporter) Generate() error {
	if err := os.MkdirAll(r.outDir, 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	report := struct {
		Run       *models.ProfileRun `json:"run"`
		Generated time.Time          `json:"generated"`
	}{
		Run:       r.run,
		Generated: time.Now(),
	}

	path := filepath.Join(r.outDir, fmt.Sprintf("run-%s.json", r.run.ID))
	if err := r.writeJSON(path, report); err != nil {
		return fmt.Errorf("writing run report: %w", err)
	}

	return nil
}

func (r *Reporter) writeJSON(path string, data interface{}) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
