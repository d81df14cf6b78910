package record

import (
	"bufio"
	"encoding/gob"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/klauspost/compress/zstd"
)

const framesFile = "frames.zst"

// Store keeps runs under a base directory, one subdirectory per run
// with a metadata.json and a frames.zst.
type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

// Dir returns the directory of a run.
func (s *Store) Dir(runID string) string {
	return filepath.Join(s.baseDir, runID)
}

type RunMetadata struct {
	ID        string             `json:"id"`
	Scene     string             `json:"scene"`
	Timestamp time.Time          `json:"timestamp"`
	Dt        float64            `json:"dt"`
	Duration  float64            `json:"duration"`
	Steps     int                `json:"steps"`
	Bodies    []string           `json:"bodies"`
	Metrics   map[string]float64 `json:"metrics"`
}

// Save writes a new run and returns its ID. Metrics summarizing the
// frames are computed here so List stays cheap.
func (s *Store) Save(sceneName string, dt, duration float64, bodies []string, frames []Frame) (string, error) {
	runID := fmt.Sprintf("%s_%d", sceneName, time.Now().Unix())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:        runID,
		Scene:     sceneName,
		Timestamp: time.Now(),
		Dt:        dt,
		Duration:  duration,
		Steps:     len(frames),
		Bodies:    bodies,
		Metrics:   summarize(frames),
	}

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

	hdr := framesHeader{Version: 1, Scene: sceneName, Dt: dt, Frames: len(frames)}
	if err := writeFrames(filepath.Join(runDir, framesFile), hdr, frames); err != nil {
		return "", err
	}
	return runID, nil
}

func summarize(frames []Frame) map[string]float64 {
	metrics := map[string]float64{}
	if len(frames) == 0 {
		return metrics
	}
	var peak float64
	for i := range frames {
		if frames[i].Energy > peak {
			peak = frames[i].Energy
		}
	}
	metrics["final_energy"] = frames[len(frames)-1].Energy
	metrics["peak_energy"] = peak
	return metrics
}

// List returns the metadata of every readable run, skipping entries
// without a parseable metadata.json.
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

// LoadFrames reads back a run's frame stream.
func (s *Store) LoadFrames(runID string) ([]Frame, error) {
	_, frames, err := readFrames(filepath.Join(s.baseDir, runID, framesFile))
	return frames, err
}

// framesHeader is the JSON line leading the frame stream, so the file
// stays identifiable without a gob decode.
type framesHeader struct {
	Version int     `json:"version"`
	Scene   string  `json:"scene"`
	Dt      float64 `json:"dt"`
	Frames  int     `json:"frames"`
}

func writeFrames(path string, hdr framesHeader, frames []Frame) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return err
	}
	defer enc.Close()

	bw := bufio.NewWriterSize(enc, 256*1024)
	defer bw.Flush()

	hb, _ := json.Marshal(hdr)
	if _, err := bw.Write(hb); err != nil {
		return err
	}
	if err := bw.WriteByte('\n'); err != nil {
		return err
	}

	ge := gob.NewEncoder(bw)
	for i := range frames {
		if err := ge.Encode(&frames[i]); err != nil {
			return fmt.Errorf("gob encode: %w", err)
		}
	}
	return nil
}

func readFrames(path string) (framesHeader, []Frame, error) {
	var hdr framesHeader
	f, err := os.Open(path)
	if err != nil {
		return hdr, nil, err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return hdr, nil, err
	}
	defer dec.Close()

	br := bufio.NewReaderSize(dec, 256*1024)
	line, err := br.ReadBytes('\n')
	if err != nil {
		return hdr, nil, fmt.Errorf("frames header: %w", err)
	}
	if err := json.Unmarshal(line, &hdr); err != nil {
		return hdr, nil, fmt.Errorf("frames header: %w", err)
	}

	gd := gob.NewDecoder(br)
	frames := make([]Frame, 0, hdr.Frames)
	for {
		var fr Frame
		if err := gd.Decode(&fr); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return hdr, nil, fmt.Errorf("gob decode: %w", err)
		}
		frames = append(frames, fr)
	}
	return hdr, frames, nil
}
