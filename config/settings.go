package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

type Settings struct {
	Window     WindowSettings     `json:"window" toml:"window"`
	Camera     CameraSettings     `json:"camera" toml:"camera"`
	Simulation SimulationSettings `json:"simulation" toml:"simulation"`
	Server     ServerSettings     `json:"server" toml:"server"`
	Bodies     []BodySettings     `json:"bodies" toml:"bodies"`
}

type WindowSettings struct {
	Width  int    `json:"width" toml:"width"`
	Height int    `json:"height" toml:"height"`
	Title  string `json:"title" toml:"title"`
	VSync  bool   `json:"vsync" toml:"vsync"`
}

type CameraSettings struct {
	Distance float32 `json:"distance" toml:"distance"`
	FovY     float32 `json:"fovY" toml:"fovY"` // degrees
	Near     float32 `json:"near" toml:"near"`
	Far      float32 `json:"far" toml:"far"`
}

type SimulationSettings struct {
	SpeedScale float64 `json:"speedScale" toml:"speedScale"`
	MinSpeed   float64 `json:"minSpeed" toml:"minSpeed"`
	MaxSpeed   float64 `json:"maxSpeed" toml:"maxSpeed"`
	SpeedStep  float64 `json:"speedStep" toml:"speedStep"`
	ShowNames  bool    `json:"showNames" toml:"showNames"`
	ShowHelp   bool    `json:"showHelp" toml:"showHelp"`
}

type ServerSettings struct {
	Addr string `json:"addr" toml:"addr"` // empty disables telemetry
}

// BodySettings declares one sphere. Angles are in degrees; Speed and
// SpinRate are degrees per tick at speed scale 1.
type BodySettings struct {
	Name       string     `json:"name" toml:"name"`
	Radius     float32    `json:"radius" toml:"radius"`
	Sectors    int        `json:"sectors" toml:"sectors"`
	Stacks     int        `json:"stacks" toml:"stacks"`
	Position   [3]float64 `json:"position" toml:"position"`
	Focus      string     `json:"focus,omitempty" toml:"focus,omitempty"`
	Distance   float64    `json:"distance" toml:"distance"`
	StartAngle float64    `json:"startAngle" toml:"startAngle"`
	Speed      float64    `json:"speed" toml:"speed"`
	SpinAxis   [3]float64 `json:"spinAxis" toml:"spinAxis"`
	SpinRate   float64    `json:"spinRate" toml:"spinRate"`
	Color      [3]float32 `json:"color" toml:"color"`
	Texture    string     `json:"texture,omitempty" toml:"texture,omitempty"`
	LabelAbove bool       `json:"labelAbove" toml:"labelAbove"`
}

// Load reads settings from path. A missing file yields Default().
// Files ending in .toml are decoded as TOML, anything else as JSON.
func Load(path string) (Settings, error) {
	settings := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			slog.Info("no settings file found, using defaults", "path", path)
			return settings, nil
		}
		return settings, err
	}

	// a file that declares bodies replaces the default system instead of merging into it
	defaults := settings.Bodies
	settings.Bodies = nil
	if err := decode(path, data, &settings); err != nil {
		return Default(), fmt.Errorf("error parsing %s: %w", path, err)
	}
	if len(settings.Bodies) == 0 {
		settings.Bodies = defaults
	}
	if err := settings.Validate(); err != nil {
		return settings, fmt.Errorf("invalid settings in %s: %w", path, err)
	}

	slog.Info("loaded settings", "path", path, "bodies", len(settings.Bodies),
		"vertices", settings.ApproximateVertexCount())
	return settings, nil
}

func decode(path string, data []byte, settings *Settings) error {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return toml.NewDecoder(bytes.NewReader(data)).DisallowUnknownFields().Decode(settings)
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	return dec.Decode(settings)
}

// Validate checks the settings for values the simulation cannot use.
func (s Settings) Validate() error {
	if s.Window.Width <= 0 || s.Window.Height <= 0 {
		return fmt.Errorf("window size %dx%d must be positive", s.Window.Width, s.Window.Height)
	}
	if s.Simulation.MinSpeed > s.Simulation.MaxSpeed {
		return fmt.Errorf("minSpeed %v exceeds maxSpeed %v", s.Simulation.MinSpeed, s.Simulation.MaxSpeed)
	}
	if s.Simulation.SpeedStep <= 0 {
		return fmt.Errorf("speedStep %v must be positive", s.Simulation.SpeedStep)
	}
	if len(s.Bodies) == 0 {
		return errors.New("no bodies declared")
	}

	seen := make(map[string]bool, len(s.Bodies))
	for i, b := range s.Bodies {
		if b.Name == "" {
			return fmt.Errorf("body %d has no name", i)
		}
		if seen[b.Name] {
			return fmt.Errorf("duplicate body name %q", b.Name)
		}
		seen[b.Name] = true
		if b.Radius <= 0 {
			return fmt.Errorf("body %q: radius %v must be positive", b.Name, b.Radius)
		}
		if b.Sectors < 3 {
			return fmt.Errorf("body %q: sectors %d must be at least 3", b.Name, b.Sectors)
		}
		if b.Stacks < 2 {
			return fmt.Errorf("body %q: stacks %d must be at least 2", b.Name, b.Stacks)
		}
		if b.Focus != "" && b.Distance < 0 {
			return fmt.Errorf("body %q: distance %v must not be negative", b.Name, b.Distance)
		}
	}
	return nil
}

// ApproximateVertexCount sums the mesh vertex counts of all bodies.
func (s Settings) ApproximateVertexCount() int {
	count := 0
	for _, b := range s.Bodies {
		count += (b.Sectors + 1) * (b.Stacks + 1)
	}
	return count
}

// SameGeometry reports whether two settings describe the same bodies, so that
// a reload can be applied without rebuilding the scene.
func (s Settings) SameGeometry(o Settings) bool {
	if len(s.Bodies) != len(o.Bodies) {
		return false
	}
	for i := range s.Bodies {
		if s.Bodies[i] != o.Bodies[i] {
			return false
		}
	}
	return true
}
