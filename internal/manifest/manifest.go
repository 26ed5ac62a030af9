package manifest

import (
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"
	"time"

	json "github.com/goccy/go-json"
)

// Filename is the name of the manifest written into a build output directory.
const Filename = "BuildManifest.json"

// BuildManifest is a record of one build run: what was built, from which
// sources, and where it ended up.
type BuildManifest struct {
	ID          string    `json:"id"`
	ToolVersion string    `json:"tool_version"`
	StartedAt   time.Time `json:"started_at"`
	FinishedAt  time.Time `json:"finished_at"`
	Duration    int64     `json:"duration_ms"`
	Status      string    `json:"status"`
	Inputs      Inputs    `json:"inputs"`
	InputsHash  string    `json:"inputs_hash,omitempty"`
	Outputs     Outputs   `json:"outputs"`
}

// Inputs captures everything that determines the build result.
type Inputs struct {
	Project           string    `json:"project"`
	ProjectFile       string    `json:"project_file"`
	EngineAssociation string    `json:"engine_association,omitempty"`
	BuildConfig       string    `json:"build_config"`
	TargetPlatform    string    `json:"target_platform"`
	Mods              []string  `json:"mods"`
	Source            *Revision `json:"source,omitempty"`
}

// Outputs captures the artifacts the build produced.
type Outputs struct {
	Dir string `json:"dir"`
	// Mods lists the mods whose .pak and .bin were copied into Dir.
	Mods []string `json:"mods"`
	// RecoveredMods lists mods whose build reported the known resource update
	// failure but still produced their artifacts.
	RecoveredMods []string `json:"recovered_mods,omitempty"`
}

// ToJSON serializes the manifest to JSON.
func (m *BuildManifest) ToJSON() ([]byte, error) {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal manifest: %w", err)
	}
	return data, nil
}

// FromJSON deserializes a manifest from JSON.
func FromJSON(data []byte) (*BuildManifest, error) {
	var m BuildManifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("unmarshal manifest: %w", err)
	}
	return &m, nil
}

// Write stores the manifest as Filename inside dir.
func (m *BuildManifest) Write(dir string) (string, error) {
	data, err := m.ToJSON()
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, Filename)
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return "", fmt.Errorf("write manifest: %w", err)
	}
	return path, nil
}

// Read loads the manifest stored inside dir.
func Read(dir string) (*BuildManifest, error) {
	data, err := os.ReadFile(filepath.Join(dir, Filename))
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	return FromJSON(data)
}

// Hash computes a deterministic hash of the manifest inputs. Two runs with
// the same hash built the same sources with the same settings.
func (m *BuildManifest) Hash() (string, error) {
	data, err := json.Marshal(m.Inputs)
	if err != nil {
		return "", fmt.Errorf("marshal for hash: %w", err)
	}
	hash := sha256.Sum256(data)
	return fmt.Sprintf("%x", hash), nil
}
