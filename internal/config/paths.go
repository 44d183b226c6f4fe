package config

import (
	"os"
	"path/filepath"
)

const (
	// EnvConfigPath names an explicit config file
	EnvConfigPath = "SKILLTREE_CONFIG"
	// ConfigFileName is the project config file placed beside a source tree
	ConfigFileName = "skilltree.yaml"
	// HiddenConfigFileName is the dotfile form of the project config
	HiddenConfigFileName = ".skilltree.yaml"
	// ConfigDirName is the directory under the user and system config roots
	ConfigDirName = "skilltree"
)

// FindConfigPath returns the first config file found, or "" for none:
//
//   - $SKILLTREE_CONFIG
//   - the nearest project config walking up from the working directory
//   - the user config dir (skilltree/config.yaml)
//   - /etc/skilltree/config.yaml
func FindConfigPath() string {
	if path := os.Getenv(EnvConfigPath); path != "" && fileExists(path) {
		return path
	}

	if wd, err := os.Getwd(); err == nil {
		if path := FindProjectConfig(wd); path != "" {
			return path
		}
	}

	if dir, err := os.UserConfigDir(); err == nil {
		if path := filepath.Join(dir, ConfigDirName, "config.yaml"); fileExists(path) {
			return path
		}
	}

	if path := filepath.Join("/etc", ConfigDirName, "config.yaml"); fileExists(path) {
		return path
	}
	return ""
}

// FindProjectConfig walks from start towards the filesystem root and returns
// the first skilltree.yaml or .skilltree.yaml it meets. A project config sits
// at the top of a source tree, so the viewer can be started from any
// directory inside it.
func FindProjectConfig(start string) string {
	dir, err := filepath.Abs(start)
	if err != nil {
		return ""
	}
	for {
		for _, name := range []string{ConfigFileName, HiddenConfigFileName} {
			if path := filepath.Join(dir, name); fileExists(path) {
				return path
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// resolveFrom makes a relative path written in the config file at
// configPath relative to that file's directory
func resolveFrom(configPath, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(filepath.Dir(configPath), p)
}

// EnsureConfigDir creates the config directory if it doesn't exist
func EnsureConfigDir(configPath string) error {
	return os.MkdirAll(filepath.Dir(configPath), 0755)
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
