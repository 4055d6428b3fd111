package stats

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Metric identifies one of the five reductions.
type Metric string

const (
	MetricDistanceOrigin Metric = "average_walker_distance_origin"
	MetricEscapeTime     Metric = "average_escape_time"
	MetricDistanceFromX  Metric = "average_walker_distance_x"
	MetricDistanceFromY  Metric = "average_walker_distance_y"
	MetricCrossings      Metric = "average_crosses_y_axis"
)

// Metrics lists the reductions in export order.
var Metrics = []Metric{
	MetricDistanceOrigin,
	MetricEscapeTime,
	MetricDistanceFromX,
	MetricDistanceFromY,
	MetricCrossings,
}

// Title returns a short human-readable label.
func (m Metric) Title() string {
	switch m {
	case MetricDistanceOrigin:
		return "Distance from origin"
	case MetricEscapeTime:
		return "Escape time"
	case MetricDistanceFromX:
		return "Distance from x axis"
	case MetricDistanceFromY:
		return "Distance from y axis"
	case MetricCrossings:
		return "Y axis crossings"
	default:
		return string(m)
	}
}

// Reduce evaluates the metric. Per-step metrics return map[string]Series,
// the escape metric returns map[string]EscapeSummary.
func (s *Statistics) Reduce(m Metric) (any, error) {
	switch m {
	case MetricDistanceOrigin:
		return s.AverageDistanceOrigin(), nil
	case MetricEscapeTime:
		return s.AverageEscapeTime(), nil
	case MetricDistanceFromX:
		return s.AverageDistanceFromX(), nil
	case MetricDistanceFromY:
		return s.AverageDistanceFromY(), nil
	case MetricCrossings:
		return s.AverageCrossings(), nil
	default:
		return nil, fmt.Errorf("stats: unknown metric %q", string(m))
	}
}

// Export writes one JSON document per metric into dir, creating it if needed.
// Existing files are never overwritten: name.json becomes name_1.json,
// name_2.json and so on. It returns the written paths in metric order.
func Export(s *Statistics, dir string) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("stats: create export dir: %w", err)
	}

	paths := make([]string, 0, len(Metrics))
	for _, m := range Metrics {
		data, err := s.Reduce(m)
		if err != nil {
			return paths, err
		}
		path, err := writeIndexed(dir, string(m)+".json", data)
		if err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// writeIndexed creates the first free name among name, name_1, name_2, ...
func writeIndexed(dir, name string, v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("stats: encode %s: %w", name, err)
	}

	ext := filepath.Ext(name)
	base := strings.TrimSuffix(name, ext)
	for i := 0; ; i++ {
		candidate := name
		if i > 0 {
			candidate = base + "_" + strconv.Itoa(i) + ext
		}
		path := filepath.Join(dir, candidate)

		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if errors.Is(err, fs.ErrExist) {
			continue
		}
		if err != nil {
			return "", fmt.Errorf("stats: create %s: %w", path, err)
		}

		_, werr := f.Write(b)
		cerr := f.Close()
		if werr != nil {
			return "", fmt.Errorf("stats: write %s: %w", path, werr)
		}
		if cerr != nil {
			return "", fmt.Errorf("stats: close %s: %w", path, cerr)
		}
		return path, nil
	}
}
