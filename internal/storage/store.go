// Package storage persists finished sessions: metadata plus a per-tick
// timeline, one directory per run.
package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID        string             `json:"id"`
	Timestamp time.Time          `json:"timestamp"`
	Preset    string             `json:"preset"`
	Seed      int64              `json:"seed"`
	Dt        float64            `json:"dt"`
	Outcome   string             `json:"outcome"`
	Metrics   map[string]float64 `json:"metrics"`
}

// TimelinePoint is one sampled tick of a session.
type TimelinePoint struct {
	T        float64
	Diameter float64
	Orbs     int
	Score    int
	Merges   int
}

// Save writes the run directory and returns the generated run ID.
func (s *Store) Save(meta RunMetadata, timeline []TimelinePoint) (string, error) {
	runID := fmt.Sprintf("run_%d", time.Now().Unix())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta.ID = runID
	meta.Timestamp = time.Now()

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, "timeline.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	defer w.Flush()

	if err := w.Write([]string{"t", "diameter", "orbs", "score", "merges"}); err != nil {
		return "", err
	}
	for _, p := range timeline {
		row := []string{
			strconv.FormatFloat(p.T, 'f', 4, 64),
			strconv.FormatFloat(p.Diameter, 'f', 4, 64),
			strconv.Itoa(p.Orbs),
			strconv.Itoa(p.Score),
			strconv.Itoa(p.Merges),
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}

	return runID, nil
}

func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.baseDir, entry.Name(), "metadata.json"))
		if err != nil {
			continue
		}
		var meta RunMetadata
		if err := json.Unmarshal(data, &meta); err != nil {
			continue
		}
		runs = append(runs, meta)
	}
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}
	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// LoadTimeline reads back the per-tick samples of a saved run.
func (s *Store) LoadTimeline(runID string) ([]TimelinePoint, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "timeline.csv"))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []TimelinePoint{}, nil
	}

	points := make([]TimelinePoint, 0, len(records)-1)
	for _, record := range records[1:] {
		if len(record) != 5 {
			continue
		}
		t, err1 := strconv.ParseFloat(record[0], 64)
		d, err2 := strconv.ParseFloat(record[1], 64)
		orbs, err3 := strconv.Atoi(record[2])
		score, err4 := strconv.Atoi(record[3])
		merges, err5 := strconv.Atoi(record[4])
		if err1 != nil || err2 != nil || err3 != nil || err4 != nil || err5 != nil {
			continue
		}
		points = append(points, TimelinePoint{T: t, Diameter: d, Orbs: orbs, Score: score, Merges: merges})
	}
	return points, nil
}
