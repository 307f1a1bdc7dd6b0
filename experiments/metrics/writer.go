package metrics

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

type Writer struct {
	baseDir string
}

func NewWriter(experiment string) (*Writer, error) {
	// Create a subfolder named by current timestamp
	timestamp := time.Now().UTC().Format(time.RFC3339)
	baseDir := filepath.Join("experiments", experiment, timestamp)
	err := os.MkdirAll(baseDir, 0755)
	if err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	return &Writer{
		baseDir: baseDir,
	}, nil
}

func (w *Writer) WriteSearchConfigs(configs []SearchConfig) error {
	path := filepath.Join(w.baseDir, "search_configs.csv")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create search configs file: %w", err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	defer writer.Flush()

	header := []string{"id", "skeleton", "localities", "threads", "spawn_depth"}
	err = writer.Write(header)
	if err != nil {
		return fmt.Errorf("failed to write search configs header: %w", err)
	}

	for _, config := range configs {
		row := []string{
			strconv.Itoa(config.ID),
			config.Skeleton,
			strconv.Itoa(config.Localities),
			strconv.Itoa(config.Threads),
			strconv.Itoa(config.SpawnDepth),
		}
		err = writer.Write(row)
		if err != nil {
			return fmt.Errorf("failed to write search config row: %w", err)
		}
	}
	return nil
}

func (w *Writer) WriteRunRecords(records []RunRecord) error {
	path := filepath.Join(w.baseDir, "run_records.csv")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create run records file: %w", err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	defer writer.Flush()

	header := []string{"config", "instance", "objective", "nodes", "tasks", "duration"}
	err = writer.Write(header)
	if err != nil {
		return fmt.Errorf("failed to write run records header: %w", err)
	}

	for _, record := range records {
		row := []string{
			strconv.Itoa(record.Config),
			record.Instance,
			strconv.Itoa(record.Objective),
			strconv.FormatInt(record.Nodes, 10),
			strconv.FormatInt(record.Tasks, 10),
			record.Duration.String(),
		}
		err = writer.Write(row)
		if err != nil {
			return fmt.Errorf("failed to write run record row: %w", err)
		}
	}
	return nil
}
