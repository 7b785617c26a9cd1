package preset

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Loader finds presets by name.
type Loader struct {
	ConfigDir string
	SystemDir string
	// Extra holds presets defined in the configuration file. They win over
	// every other source.
	Extra map[string]*Preset
}

// NewLoader creates a Loader with the standard search directories.
func NewLoader() *Loader {
	home, _ := os.UserHomeDir()
	return &Loader{
		ConfigDir: filepath.Join(home, ".config", "scribble", "presets"),
		SystemDir: "/usr/share/scribble/presets",
	}
}

// Load resolves name against, in order: presets from the configuration
// file, a file path, the embedded presets, ConfigDir and SystemDir.
func (l *Loader) Load(name string) (*Preset, error) {
	if p, ok := l.Extra[name]; ok {
		return p, nil
	}
	if _, err := os.Stat(name); err == nil && strings.ContainsRune(name, os.PathSeparator) {
		return parseFile(name, "")
	}
	filename := name
	if !strings.HasSuffix(filename, ".preset") {
		filename += ".preset"
	}
	base := strings.TrimSuffix(filename, ".preset")
	if f, err := EmbeddedPresets.Open("defaults/" + filename); err == nil {
		defer f.Close()
		p, err := Parse(f)
		if err != nil {
			return nil, err
		}
		if p.Name == "" {
			p.Name = base
		}
		return p, nil
	}
	for _, dir := range []string{l.ConfigDir, l.SystemDir} {
		if dir == "" {
			continue
		}
		path := filepath.Join(dir, filename)
		if _, err := os.Stat(path); err == nil {
			return parseFile(path, base)
		}
	}
	return nil, fmt.Errorf("preset '%s' not found", name)
}

// Names lists every preset Load can find by name, sorted.
func (l *Loader) Names() []string {
	seen := map[string]bool{}
	for name := range l.Extra {
		seen[name] = true
	}
	if entries, err := EmbeddedPresets.ReadDir("defaults"); err == nil {
		for _, e := range entries {
			seen[strings.TrimSuffix(e.Name(), ".preset")] = true
		}
	}
	for _, dir := range []string{l.ConfigDir, l.SystemDir} {
		if dir == "" {
			continue
		}
		matches, _ := filepath.Glob(filepath.Join(dir, "*.preset"))
		for _, m := range matches {
			seen[strings.TrimSuffix(filepath.Base(m), ".preset")] = true
		}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func parseFile(path, name string) (*Preset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	p, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if p.Name == "" {
		p.Name = name
		if p.Name == "" {
			p.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		}
	}
	return p, nil
}
