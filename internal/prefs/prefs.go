// Package prefs persists the reader state that outlives a single command:
// the theme and the blog currently open.
package prefs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/goccy/go-yaml"
)

const FileName = "state.yaml"

type Prefs struct {
	Theme     string `yaml:"theme"`
	CurrentID int64  `yaml:"current_id,omitempty"`
}

func Defaults() Prefs { return Prefs{Theme: "dark"} }

// Path returns the state file location inside dataDir.
func Path(dataDir string) string { return filepath.Join(dataDir, FileName) }

// Load reads dataDir/state.yaml. A missing file yields Defaults.
func Load(dataDir string) (Prefs, error) {
	p := Defaults()
	b, err := os.ReadFile(Path(dataDir))
	if errors.Is(err, os.ErrNotExist) {
		return p, nil
	}
	if err != nil {
		return p, err
	}
	if len(b) == 0 {
		return p, nil
	}
	if err := yaml.Unmarshal(b, &p); err != nil {
		return Defaults(), fmt.Errorf("prefs: %w", err)
	}
	if p.Theme == "" {
		p.Theme = Defaults().Theme
	}
	return p, nil
}

// Save writes p atomically.
func Save(dataDir string, p Prefs) error {
	b, err := yaml.Marshal(p)
	if err != nil {
		return fmt.Errorf("prefs: %w", err)
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dataDir, FileName+".*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), Path(dataDir))
}
