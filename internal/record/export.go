package record

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
)

type ExportData struct {
	Scene    string             `json:"scene"`
	Dt       float64            `json:"dt"`
	Duration float64            `json:"duration"`
	Steps    int                `json:"steps"`
	Bodies   []string           `json:"bodies"`
	Metrics  map[string]float64 `json:"metrics"`
	Frames   []Frame            `json:"frames"`
}

func ExportJSON(path string, meta *RunMetadata, frames []Frame) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return exportJSON(file, meta, frames)
}

func ExportJSONStdout(meta *RunMetadata, frames []Frame) error {
	return exportJSON(os.Stdout, meta, frames)
}

func exportJSON(file *os.File, meta *RunMetadata, frames []Frame) error {
	data := ExportData{
		Scene:    meta.Scene,
		Dt:       meta.Dt,
		Duration: meta.Duration,
		Steps:    len(frames),
		Bodies:   meta.Bodies,
		Metrics:  meta.Metrics,
		Frames:   frames,
	}
	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// ExportCSV writes one row per frame: step, time, energy, then x, y,
// angle, vx, vy and w per body in declaration order.
func ExportCSV(path string, frames []Frame) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	w := csv.NewWriter(file)
	defer w.Flush()

	if len(frames) == 0 {
		return nil
	}

	header := []string{"step", "time", "energy"}
	for i := range frames[0].Bodies {
		for _, col := range []string{"x", "y", "angle", "vx", "vy", "w"} {
			header = append(header, fmt.Sprintf("b%d_%s", i, col))
		}
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for i := range frames {
		fr := &frames[i]
		row := []string{
			strconv.FormatUint(fr.Step, 10),
			strconv.FormatFloat(fr.Time, 'f', 6, 64),
			strconv.FormatFloat(fr.Energy, 'f', 6, 64),
		}
		for _, b := range fr.Bodies {
			for _, val := range []float64{b.X, b.Y, b.Angle, b.VX, b.VY, b.W} {
				row = append(row, strconv.FormatFloat(val, 'f', 6, 64))
			}
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}
