package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// EnvPath names the environment variable pointing at a config file. It
// wins over every other location.
const EnvPath = "SCRIBBLE_CONFIG"

// devFile is read from the working directory by development builds.
const devFile = ".scribblerc"

// Loader finds and reads the configuration file.
type Loader struct {
	// Version is the build version. "dev" builds also look for a
	// .scribblerc in WorkDir.
	Version string
	// Override is a path set from the command line or at link time.
	Override string
	// WorkDir defaults to the process working directory.
	WorkDir string
}

// NewLoader creates a Loader for the given build version and override
// path.
func NewLoader(version, override string) *Loader {
	return &Loader{Version: version, Override: override}
}

// Candidates lists, in priority order, the files Load would read.
func (l *Loader) Candidates() []string {
	var out []string
	if v := os.Getenv(EnvPath); v != "" {
		out = append(out, v)
	}
	if l.Override != "" {
		out = append(out, l.Override)
	}
	if l.Version == "dev" {
		wd := l.WorkDir
		if wd == "" {
			wd, _ = os.Getwd()
		}
		if wd != "" {
			out = append(out, filepath.Join(wd, devFile))
		}
	}
	if p := DefaultPath(); p != "" {
		out = append(out, p)
	}
	return out
}

// Path returns the first candidate that exists, or "" when there is none.
func (l *Loader) Path() string {
	for _, p := range l.Candidates() {
		if st, err := os.Stat(p); err == nil && !st.IsDir() {
			return p
		}
	}
	return ""
}

// Load reads the file Path finds. Without one it returns the defaults.
func (l *Loader) Load() (*Config, error) {
	path := l.Path()
	if path == "" {
		return New(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	cfg, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// DefaultPath is the per-user config file, written by "config save" when
// no other file was loaded.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		home, herr := os.UserHomeDir()
		if herr != nil {
			return ""
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "scribble", "config.rc")
}
