package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/readmeabook/readmeabook/internal/indexer/types"
)

// indexerFile is one indexer's saved search results.
type indexerFile struct {
	IndexerID   int64             `json:"indexerId" yaml:"indexerId"`
	IndexerName string            `json:"indexerName" yaml:"indexerName"`
	Candidates  []types.Candidate `json:"candidates" yaml:"candidates"`
	Error       string            `json:"error,omitempty" yaml:"error,omitempty"`
}

// loadIndexerFile reads a JSON or YAML results file. Files without an indexer
// name are named after the file.
func loadIndexerFile(path string) (types.IndexerResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.IndexerResult{}, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var f indexerFile
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		err = json.Unmarshal(data, &f)
	default:
		err = yaml.Unmarshal(data, &f)
	}
	if err != nil {
		return types.IndexerResult{}, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	if f.IndexerName == "" {
		f.IndexerName = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	result := types.IndexerResult{
		IndexerID:   f.IndexerID,
		IndexerName: f.IndexerName,
		Candidates:  f.Candidates,
	}
	if f.Error != "" {
		result.Error = fmt.Errorf("%s", f.Error)
	}
	return result, nil
}
