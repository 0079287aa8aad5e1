// Package project provides project file handling and persistence.
package project

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

// File represents a mosaic project file (.mosproj).
type File struct {
	Version  int       `json:"version"`
	Name     string    `json:"name"`
	Created  time.Time `json:"created"`
	Modified time.Time `json:"modified"`

	// Paths relative to the project file
	BackgroundPath string `json:"background,omitempty"`
	TilesPath      string `json:"tiles,omitempty"`
	PalettePath    string `json:"palette,omitempty"`

	Settings Settings `json:"settings,omitempty"`
}

// Settings holds the placement tuning persisted with the project.
type Settings struct {
	TileSize            float64   `json:"tile_size,omitempty"`
	SpacingMultiplier   float64   `json:"spacing_multiplier,omitempty"`
	AngleLimit          float64   `json:"angle_limit,omitempty"`
	ParallelMultiplier  float64   `json:"parallel_multiplier,omitempty"`
	ParallelCount       int       `json:"parallel_count,omitempty"`
	LaneMultipliers     []float64 `json:"lane_multipliers,omitempty"`
	EdgeMultiplier      float64   `json:"edge_multiplier,omitempty"`
	EdgeCount           int       `json:"edge_count,omitempty"`
	EdgeLaneMultipliers []float64 `json:"edge_lane_multipliers,omitempty"`
	AvoidCollisions     bool      `json:"avoid_collisions"`
}

// New creates a new project file with default settings.
func New(name string) *File {
	now := time.Now()
	return &File{
		Version:  1,
		Name:     name,
		Created:  now,
		Modified: now,
		Settings: Settings{
			TileSize:          10,
			SpacingMultiplier: 1.16,
		},
	}
}

// Load loads a project from a .mosproj file.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var proj File
	if err := json.Unmarshal(data, &proj); err != nil {
		return nil, err
	}

	return &proj, nil
}

// Save saves the project to a file.
func (p *File) Save(path string) error {
	p.Modified = time.Now()

	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// SetBackground sets the background image path (relative to the project).
func (p *File) SetBackground(projectPath, imagePath string) {
	p.BackgroundPath = relTo(projectPath, imagePath)
	p.Modified = time.Now()
}

// SetTiles sets the tile records path (relative to the project).
func (p *File) SetTiles(projectPath, tilesPath string) {
	p.TilesPath = relTo(projectPath, tilesPath)
	p.Modified = time.Now()
}

// GetTilesPath returns the absolute path to the tile records file.
func (p *File) GetTilesPath(projectPath string) string {
	return absFrom(projectPath, p.TilesPath)
}

// GetBackgroundPath returns the absolute path to the background image.
func (p *File) GetBackgroundPath(projectPath string) string {
	return absFrom(projectPath, p.BackgroundPath)
}

func relTo(projectPath, target string) string {
	rel, err := filepath.Rel(filepath.Dir(projectPath), target)
	if err != nil {
		return target
	}
	return rel
}

func absFrom(projectPath, stored string) string {
	if stored == "" {
		return ""
	}
	if filepath.IsAbs(stored) {
		return stored
	}
	return filepath.Join(filepath.Dir(projectPath), stored)
}
