package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/maltedev/luluka-scraper/internal/models"
)

// WriteJSON saves the result as a timestamped JSON file in outputDir and
// returns the written path.
func WriteJSON(result *models.Result, outputDir string) (string, error) {
	if err := os.MkdirAll(outputDir, os.ModePerm); err != nil {
		return "", fmt.Errorf("failed to create output directory %s: %w", outputDir, err)
	}

	timestamp := time.Now().Format("2006-01-02_15-04-05")
	path := filepath.Join(outputDir, fmt.Sprintf("luluka_%s.json", timestamp))

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal result: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}
