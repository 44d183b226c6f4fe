package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"skilltree/internal/domain"
	"skilltree/internal/style"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Version != 1 {
		t.Errorf("Version = %d, want 1", cfg.Version)
	}
	if cfg.Database.Path != "./skilltree.db" {
		t.Errorf("Database.Path = %s, want ./skilltree.db", cfg.Database.Path)
	}
	if cfg.Session.Key != "default" {
		t.Errorf("Session.Key = %s, want default", cfg.Session.Key)
	}
	if cfg.StylePalette() != style.DefaultPalette() {
		t.Error("default palette should match the style package")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error: %v", err)
	}
}

func TestSaveAndLoad(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "nested", "config.yaml")

	cfg := DefaultConfig()
	cfg.Server.Addr = "127.0.0.1:8080"
	cfg.Sources.Include = []string{"classes/*.yaml"}
	cfg.Sources.Primary = []string{"classes/**"}
	cfg.Sources.Watch = true
	cfg.Sources.Debounce = 2 * time.Second
	cfg.Palette.Unlocked.Fill = 0xFF112233
	cfg.Styles = map[string]domain.Color{"crimson": 0xFFDC143C}

	if err := cfg.Save(configPath); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	loaded, path, err := LoadFromPath(configPath)
	if err != nil {
		t.Fatalf("LoadFromPath() error: %v", err)
	}
	if path != configPath {
		t.Errorf("path = %s, want %s", path, configPath)
	}

	if loaded.Server.Addr != "127.0.0.1:8080" {
		t.Errorf("Server.Addr = %s, want 127.0.0.1:8080", loaded.Server.Addr)
	}
	if len(loaded.Sources.Include) != 1 || loaded.Sources.Include[0] != "classes/*.yaml" {
		t.Errorf("Sources.Include = %v, want [classes/*.yaml]", loaded.Sources.Include)
	}
	if !loaded.Sources.Watch {
		t.Error("Sources.Watch should be true")
	}
	if loaded.Sources.Debounce != 2*time.Second {
		t.Errorf("Sources.Debounce = %s, want 2s", loaded.Sources.Debounce)
	}
	if loaded.Palette.Unlocked.Fill != 0xFF112233 {
		t.Errorf("Palette.Unlocked.Fill = %s, want #FF112233", loaded.Palette.Unlocked.Fill)
	}
	if loaded.Palette.Unlocked.Stroke != style.DefaultPalette().Unlocked.Stroke {
		t.Errorf("Palette.Unlocked.Stroke = %s, want default", loaded.Palette.Unlocked.Stroke)
	}
	if loaded.Styles["crimson"] != 0xFFDC143C {
		t.Errorf("Styles[crimson] = %s, want #FFDC143C", loaded.Styles["crimson"])
	}
}

func TestLoadPartialFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	content := "server:\n  addr: \":4000\"\nviewport:\n  width: 1024\n"
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, _, err := LoadFromPath(configPath)
	if err != nil {
		t.Fatalf("LoadFromPath() error: %v", err)
	}
	if cfg.Server.Addr != ":4000" {
		t.Errorf("Server.Addr = %s, want :4000", cfg.Server.Addr)
	}
	if cfg.Viewport.Width != 1024 || cfg.Viewport.Height != 600 {
		t.Errorf("Viewport = %dx%d, want 1024x600", cfg.Viewport.Width, cfg.Viewport.Height)
	}
	if cfg.Database.Path != "./skilltree.db" {
		t.Errorf("Database.Path = %s, want default", cfg.Database.Path)
	}
}

func TestLoadMissingFile(t *testing.T) {
	cfg, _, err := LoadFromPath(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("LoadFromPath() error: %v", err)
	}
	if cfg.Server.Addr != DefaultConfig().Server.Addr {
		t.Errorf("Server.Addr = %s, want default", cfg.Server.Addr)
	}
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("SKILLTREE_SERVER_ADDR", ":9000")
	t.Setenv("SKILLTREE_SESSION_POINTS", "12")
	t.Setenv("SKILLTREE_PALETTE_BLOCKED_FILL", "#FF010203")

	cfg, _, err := LoadFromPath("")
	if err != nil {
		t.Fatalf("LoadFromPath() error: %v", err)
	}
	if cfg.Server.Addr != ":9000" {
		t.Errorf("Server.Addr = %s, want :9000", cfg.Server.Addr)
	}
	if cfg.Session.Points != 12 {
		t.Errorf("Session.Points = %d, want 12", cfg.Session.Points)
	}
	if cfg.Palette.Blocked.Fill != 0xFF010203 {
		t.Errorf("Palette.Blocked.Fill = %s, want #FF010203", cfg.Palette.Blocked.Fill)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"empty addr", func(c *Config) { c.Server.Addr = "" }},
		{"empty database", func(c *Config) { c.Database.Path = "" }},
		{"no sources", func(c *Config) { c.Sources.Include = nil }},
		{"zero viewport", func(c *Config) { c.Viewport.Width = 0 }},
		{"negative paths", func(c *Config) { c.Paths.Height = -1 }},
		{"negative points", func(c *Config) { c.Session.Points = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Validate() should fail")
			}
		})
	}
}

func TestEnvKey(t *testing.T) {
	tests := map[string]string{
		"SKILLTREE_SERVER_ADDR":          "server.addr",
		"SKILLTREE_PALETTE_NEUTRAL_FILL": "palette.neutral.fill",
		"SKILLTREE_VERSION":              "version",
	}
	for in, want := range tests {
		if got := envKey(in); got != want {
			t.Errorf("envKey(%s) = %s, want %s", in, got, want)
		}
	}
}

func TestFindConfigPath(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, ConfigFileName)

	cfg := DefaultConfig()
	if err := cfg.Save(configPath); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	oldWd, _ := os.Getwd()
	os.Chdir(tmpDir)
	defer os.Chdir(oldWd)

	found := FindConfigPath()
	if found == "" {
		t.Error("FindConfigPath() should find config in working directory")
	}

	t.Setenv(EnvConfigPath, "/nonexistent/path.yaml")
	found = FindConfigPath()
	if found == "" {
		t.Error("FindConfigPath() should fall back when env path doesn't exist")
	}

	explicit := filepath.Join(tmpDir, "explicit.yaml")
	if err := cfg.Save(explicit); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	t.Setenv(EnvConfigPath, explicit)
	if found = FindConfigPath(); found != explicit {
		t.Errorf("FindConfigPath() = %s, want %s", found, explicit)
	}
}

func samePath(t *testing.T, a, b string) bool {
	t.Helper()
	ra, errA := filepath.EvalSymlinks(a)
	rb, errB := filepath.EvalSymlinks(b)
	return errA == nil && errB == nil && ra == rb
}

func TestFindProjectConfig(t *testing.T) {
	project := t.TempDir()
	nested := filepath.Join(project, "trees", "classes")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatal(err)
	}

	if found := FindProjectConfig(nested); found != "" && strings.HasPrefix(found, project) {
		t.Errorf("FindProjectConfig() = %s, want none inside the project", found)
	}

	hidden := filepath.Join(project, HiddenConfigFileName)
	if err := DefaultConfig().Save(hidden); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	t.Run("walks up from a source directory", func(t *testing.T) {
		found := FindProjectConfig(nested)
		if !samePath(t, found, hidden) {
			t.Errorf("FindProjectConfig() = %s, want %s", found, hidden)
		}
	})

	t.Run("nearest config wins", func(t *testing.T) {
		inner := filepath.Join(project, "trees", ConfigFileName)
		if err := DefaultConfig().Save(inner); err != nil {
			t.Fatalf("Save() error: %v", err)
		}
		found := FindProjectConfig(nested)
		if !samePath(t, found, inner) {
			t.Errorf("FindProjectConfig() = %s, want %s", found, inner)
		}
	})

	t.Run("a directory named like the config is skipped", func(t *testing.T) {
		dir := filepath.Join(nested, ConfigFileName)
		if err := os.Mkdir(dir, 0755); err != nil {
			t.Fatal(err)
		}
		if found := FindProjectConfig(nested); samePath(t, found, dir) {
			t.Errorf("FindProjectConfig() returned directory %s", found)
		}
	})
}

func TestSourcesRootRelativeToConfig(t *testing.T) {
	project := t.TempDir()
	configPath := filepath.Join(project, ConfigFileName)
	content := "sources:\n  root: trees\n"
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, _, err := LoadFromPath(configPath)
	if err != nil {
		t.Fatalf("LoadFromPath() error: %v", err)
	}
	if want := filepath.Join(project, "trees"); cfg.Sources.Root != want {
		t.Errorf("Sources.Root = %s, want %s", cfg.Sources.Root, want)
	}

	t.Run("env root is left alone", func(t *testing.T) {
		t.Setenv("SKILLTREE_SOURCES_ROOT", "elsewhere")
		cfg, _, err := LoadFromPath(configPath)
		if err != nil {
			t.Fatalf("LoadFromPath() error: %v", err)
		}
		if cfg.Sources.Root != "elsewhere" {
			t.Errorf("Sources.Root = %s, want elsewhere", cfg.Sources.Root)
		}
	})

	t.Run("default root without a file", func(t *testing.T) {
		cfg, _, err := LoadFromPath("")
		if err != nil {
			t.Fatalf("LoadFromPath() error: %v", err)
		}
		if cfg.Sources.Root != "." {
			t.Errorf("Sources.Root = %s, want .", cfg.Sources.Root)
		}
	})
}
