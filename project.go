// project.go: the n7tya.yaml manifest and project scaffolding.
package n7tya

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/goccy/go-yaml"
)

// Manifest is the parsed n7tya.yaml at a project root.
type Manifest struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
	Entry   string `yaml:"entry,omitempty"`
	Server  struct {
		Host string `yaml:"host,omitempty"`
		Port int    `yaml:"port,omitempty"`
	} `yaml:"server,omitempty"`
}

const ManifestName = "n7tya.yaml"

// LoadManifest reads the manifest in dir. A missing file is not an error;
// it returns nil so callers can fall back to defaults.
func LoadManifest(dir string) (*Manifest, error) {
	data, err := os.ReadFile(filepath.Join(dir, ManifestName))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("%s: %w", ManifestName, err)
	}
	return &m, nil
}

// ApplyManifest copies manifest settings onto the interpreter.
func (ip *Interp) ApplyManifest(m *Manifest) {
	if m == nil {
		return
	}
	if m.Server.Host != "" {
		ip.host = m.Server.Host
	}
	if m.Server.Port != 0 {
		ip.port = m.Server.Port
	}
}

// EntryFile resolves the script to run for a project directory.
func (m *Manifest) EntryFile() string {
	if m != nil && m.Entry != "" {
		return m.Entry
	}
	return filepath.Join("src", "main.n7t")
}

const scaffoldMain = "# n7tya-lang main file\n\ndef main\n\tprint \"Hello, n7tya!\"\n\nmain\n"

// CreateProject scaffolds a new project directory with a manifest and a
// hello-world entry point.
func CreateProject(name string) error {
	if err := os.MkdirAll(filepath.Join(name, "src"), 0o755); err != nil {
		return err
	}
	m := Manifest{Name: name, Version: "0.1.0"}
	data, err := yaml.Marshal(&m)
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(name, ManifestName), data, 0o644); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(name, "src", "main.n7t"), []byte(scaffoldMain), 0o644)
}
