package harness

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/LynnColeArt/dgemm"
)

// Session is the JSON document written by SessionLog.
type Session struct {
	Name      string            `json:"name"`
	Started   time.Time         `json:"started"`
	Version   string            `json:"version,omitempty"`
	Gonum     string            `json:"gonum,omitempty"`
	CPU       dgemm.CPUFeatures `json:"cpu"`
	TileSize  int               `json:"tile_size"`
	TileCache string            `json:"tile_cache"`
	Sizes     []int             `json:"sizes"`
	Seed      uint64            `json:"seed,omitempty"`
	ColdCache bool              `json:"cold_cache,omitempty"`
	Results   []Result          `json:"results"`
}

// SessionLog records a sweep as a JSON file, rewritten after every result
// so that an interrupted run keeps everything measured so far.
type SessionLog struct {
	mu      sync.Mutex
	session Session
	path    string
}

// NewSessionLog creates dir if needed and starts a session file named
// <name>_<timestamp>.json.
func NewSessionLog(dir, name string, cfg Config) (*SessionLog, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, dgemm.NewExecutionError("NewSessionLog", "creating log directory", err)
	}

	now := time.Now()
	version, _, gonum := dgemm.Version()
	l := &SessionLog{
		path: filepath.Join(dir, fmt.Sprintf("%s_%s.json", name, now.Format("20060102_150405"))),
		session: Session{
			Name:      name,
			Started:   now,
			Version:   version,
			Gonum:     gonum,
			CPU:       dgemm.Features(),
			TileSize:  cfg.TileSize,
			TileCache: dgemm.TileCacheLevel(cfg.TileSize),
			Sizes:     append([]int(nil), cfg.Sizes...),
			Seed:      cfg.Seed,
			ColdCache: cfg.ColdCache,
			Results:   []Result{},
		},
	}

	// Write initial file
	if err := l.flush(); err != nil {
		return nil, err
	}
	return l, nil
}

// Path returns the session file path.
func (l *SessionLog) Path() string { return l.path }

// Record implements Sink.
func (l *SessionLog) Record(r Result) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.session.Results = append(l.session.Results, r)
	return l.flush()
}

// flush writes results to disk
func (l *SessionLog) flush() error {
	data, err := json.MarshalIndent(l.session, "", "  ")
	if err != nil {
		return dgemm.NewExecutionError("SessionLog", "marshalling session", err)
	}
	if err := os.WriteFile(l.path, data, 0644); err != nil {
		return dgemm.NewExecutionError("SessionLog", "writing "+l.path, err)
	}
	return nil
}

// LoadSession reads a session file.
func LoadSession(path string) (*Session, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &s, nil
}

// LatestSession returns the path of the most recently modified session
// file in dir.
func LatestSession(dir string) (string, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return "", err
	}
	if len(files) == 0 {
		return "", fmt.Errorf("no session files in %s", dir)
	}

	var latest string
	var latestTime time.Time
	for _, file := range files {
		info, err := os.Stat(file)
		if err != nil {
			continue
		}
		if info.ModTime().After(latestTime) {
			latest = file
			latestTime = info.ModTime()
		}
	}
	return latest, nil
}
