package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"todo_e2e/domain/entities"
	"todo_e2e/domain/interfaces"
)

const reportFile = "report.json"

type artifactStore struct {
	dir string
	now func() time.Time
}

var unsafeName = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// NewArtifactStore - creates a store writing under dir
func NewArtifactStore(dir string) (interfaces.ArtifactStore, error) {
	if err := os.MkdirAll(filepath.Join(dir, "screenshots"), 0755); err != nil {
		return nil, fmt.Errorf("failed to create artifacts directory: %w", err)
	}
	return &artifactStore{dir: dir, now: time.Now}, nil
}

// SaveScreenshot - writes screenshots/<case>_<unix>.png
func (s *artifactStore) SaveScreenshot(caseName string, data []byte) (string, error) {
	name := fmt.Sprintf("%s_%d.png", unsafeName.ReplaceAllString(caseName, "_"), s.now().Unix())
	path := filepath.Join(s.dir, "screenshots", name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to save screenshot: %w", err)
	}
	return path, nil
}

// SaveReport - writes report.json
func (s *artifactStore) SaveReport(report entities.Report) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(s.dir, reportFile), data, 0644)
}

// LoadReport - reads a report written by SaveReport
func LoadReport(dir string) (entities.Report, error) {
	var report entities.Report
	data, err := os.ReadFile(filepath.Join(dir, reportFile))
	if err != nil {
		return report, err
	}
	if err := json.Unmarshal(data, &report); err != nil {
		return report, err
	}
	return report, nil
}
