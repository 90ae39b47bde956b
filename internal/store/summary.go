package store

import (
	"fmt"
	"os"
	"path/filepath"

	"losscast/internal/model"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog/log"
)

// WriteSummary exports the analysis summary as indented JSON, creating parent
// directories as needed.
func WriteSummary(summary *model.AnalysisSummary, path string) error {
	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal summary: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create summary directory: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write summary: %w", err)
	}

	log.Info().Str("path", path).Msg("wrote analysis summary")
	return nil
}

// ReadSummary loads a previously exported analysis summary.
func ReadSummary(path string) (*model.AnalysisSummary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read summary: %w", err)
	}

	var summary model.AnalysisSummary
	if err := json.Unmarshal(data, &summary); err != nil {
		return nil, fmt.Errorf("failed to parse summary: %w", err)
	}

	return &summary, nil
}
