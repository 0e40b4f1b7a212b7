package confloader

import (
	"os"
	"path/filepath"
	"testing"
)

type testConfig struct {
	Storage struct {
		Backend   string `koanf:"backend"`
		Namespace string `koanf:"namespace"`
		FilePath  string `koanf:"file_path"`
	} `koanf:"storage"`
	Output  string `koanf:"output"`
	Verbose bool   `koanf:"verbose"`
}

func TestNewLoader(t *testing.T) {
	l := NewLoader()
	if l == nil {
		t.Fatal("NewLoader() returned nil")
	}
	if l.envPrefix != DefaultEnvPrefix {
		t.Errorf("envPrefix = %q, want %q", l.envPrefix, DefaultEnvPrefix)
	}
}

func TestNewLoader_WithOptions(t *testing.T) {
	l := NewLoader(
		WithEnvPrefix("TEST_"),
		WithConfigFile("/path/to/config.yaml"),
	)

	if l.envPrefix != "TEST_" {
		t.Errorf("envPrefix = %q, want %q", l.envPrefix, "TEST_")
	}
	if l.filePath != "/path/to/config.yaml" {
		t.Errorf("filePath = %q, want %q", l.filePath, "/path/to/config.yaml")
	}
}

func TestLoader_LoadFile(t *testing.T) {
	// Create temp config file
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	content := `
storage:
  backend: "file"
  namespace: "app"
  file_path: "/var/lib/flexstore/store.json"
output: "json"
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	l := NewLoader()
	if err := l.LoadFile(configPath); err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}

	// Verify values were loaded
	if backend := l.GetString("storage.backend"); backend != "file" {
		t.Errorf("storage.backend = %q, want %q", backend, "file")
	}

	if path := l.GetString("storage.file_path"); path != "/var/lib/flexstore/store.json" {
		t.Errorf("storage.file_path = %q, want %q", path, "/var/lib/flexstore/store.json")
	}

	if out := l.GetString("output"); out != "json" {
		t.Errorf("output = %q, want %q", out, "json")
	}
}

func TestLoader_LoadFile_NotFound(t *testing.T) {
	l := NewLoader()
	err := l.LoadFile("/nonexistent/config.yaml")
	if err == nil {
		t.Error("LoadFile() should return error for nonexistent file")
	}
}

func TestLoader_LoadFile_Empty(t *testing.T) {
	l := NewLoader()
	// Empty path should not error
	if err := l.LoadFile(""); err != nil {
		t.Errorf("LoadFile(\"\") should not error, got: %v", err)
	}
}

func TestLoader_LoadEnv(t *testing.T) {
	t.Setenv("FLEXSTORE_STORAGE_BACKEND", "file")
	t.Setenv("FLEXSTORE_VERBOSE", "true")

	l := NewLoader()
	if err := l.LoadEnv(); err != nil {
		t.Fatalf("LoadEnv() error = %v", err)
	}

	if backend := l.GetString("storage.backend"); backend != "file" {
		t.Errorf("storage.backend = %q, want %q", backend, "file")
	}
	if !l.GetBool("verbose") {
		t.Error("verbose should be true")
	}
}

func TestLoader_LoadEnv_UnderscoreEscape(t *testing.T) {
	t.Setenv("FLEXSTORE_STORAGE_FILE__PATH", "/tmp/store.json")

	l := NewLoader()
	if err := l.LoadEnv(); err != nil {
		t.Fatalf("LoadEnv() error = %v", err)
	}

	if path := l.GetString("storage.file_path"); path != "/tmp/store.json" {
		t.Errorf("storage.file_path = %q, want %q", path, "/tmp/store.json")
	}
}

func TestEnvKeyTransform(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"FLEXSTORE_STORAGE_BACKEND", "storage.backend"},
		{"FLEXSTORE_STORAGE_FILE__PATH", "storage.file_path"},
		{"FLEXSTORE_VERBOSE", "verbose"},
		{"FLEXSTORE_A_B_C", "a.b.c"},
		{"FLEXSTORE_DOUBLE__UNDER__SCORE", "double_under_score"},
	}

	for _, tt := range tests {
		if got := envKeyTransform(tt.name, "FLEXSTORE_"); got != tt.want {
			t.Errorf("envKeyTransform(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestLoader_LoadEnv_CustomPrefix(t *testing.T) {
	t.Setenv("MYAPP_STORAGE_BACKEND", "memory")

	l := NewLoader(WithEnvPrefix("MYAPP_"))
	if err := l.LoadEnv(); err != nil {
		t.Fatalf("LoadEnv() error = %v", err)
	}

	if backend := l.GetString("storage.backend"); backend != "memory" {
		t.Errorf("storage.backend = %q, want %q", backend, "memory")
	}
}

func TestLoader_LoadMap(t *testing.T) {
	l := NewLoader()

	data := map[string]any{
		"storage.backend": "memory",
		"verbose":         true,
	}

	if err := l.LoadMap(data); err != nil {
		t.Fatalf("LoadMap() error = %v", err)
	}

	if backend := l.GetString("storage.backend"); backend != "memory" {
		t.Errorf("storage.backend = %q, want %q", backend, "memory")
	}

	if !l.GetBool("verbose") {
		t.Error("verbose should be true")
	}
}

func TestLoader_Load_Priority(t *testing.T) {
	// Create temp config file with low priority value
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	content := `
storage:
  backend: "from-file"
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	// Set environment variable with high priority value
	t.Setenv("FLEXSTORE_STORAGE_BACKEND", "from-env")

	l := NewLoader(WithConfigFile(configPath))

	var cfg testConfig
	if err := l.Load(&cfg); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	// Environment should override file
	if cfg.Storage.Backend != "from-env" {
		t.Errorf("Backend = %q, want %q (env should override file)",
			cfg.Storage.Backend, "from-env")
	}
}

func TestLoader_Load_Defaults(t *testing.T) {
	l := NewLoader(WithDefaults(map[string]any{
		"storage.backend": "memory",
		"output":          "table",
	}))

	var cfg testConfig
	if err := l.Load(&cfg); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Storage.Backend != "memory" {
		t.Errorf("Backend = %q, want %q", cfg.Storage.Backend, "memory")
	}
	if cfg.Output != "table" {
		t.Errorf("Output = %q, want %q", cfg.Output, "table")
	}
}

func TestLoader_Load_EnvOverridesDefaults(t *testing.T) {
	t.Setenv("FLEXSTORE_OUTPUT", "yaml")

	l := NewLoader(WithDefaults(map[string]any{
		"output": "table",
	}))

	var cfg testConfig
	if err := l.Load(&cfg); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Output != "yaml" {
		t.Errorf("Output = %q, want %q (env should override default)", cfg.Output, "yaml")
	}
}

func TestLoader_Unmarshal(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	content := `
storage:
  backend: "file"
  namespace: "sessions"
  file_path: "/tmp/store.json"
output: "table"
verbose: true
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	l := NewLoader(WithConfigFile(configPath))

	var cfg testConfig
	if err := l.Load(&cfg); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Storage.Backend != "file" {
		t.Errorf("Backend = %q, want %q", cfg.Storage.Backend, "file")
	}
	if cfg.Storage.Namespace != "sessions" {
		t.Errorf("Namespace = %q, want %q", cfg.Storage.Namespace, "sessions")
	}
	if cfg.Storage.FilePath != "/tmp/store.json" {
		t.Errorf("FilePath = %q, want %q", cfg.Storage.FilePath, "/tmp/store.json")
	}
	if !cfg.Verbose {
		t.Error("Verbose should be true")
	}
}

func TestLoader_IsLoaded(t *testing.T) {
	l := NewLoader()

	if l.IsLoaded() {
		t.Error("IsLoaded() should be false before Load()")
	}

	var cfg testConfig
	if err := l.Load(&cfg); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if !l.IsLoaded() {
		t.Error("IsLoaded() should be true after Load()")
	}
}

func TestLoader_All(t *testing.T) {
	l := NewLoader()
	l.LoadMap(map[string]any{
		"key1": "value1",
		"key2": "value2",
	})

	all := l.All()
	if len(all) < 2 {
		t.Errorf("All() returned %d keys, want at least 2", len(all))
	}
}

func TestLoader_Keys(t *testing.T) {
	l := NewLoader()
	l.LoadMap(map[string]any{
		"key1": "value1",
		"key2": "value2",
	})

	keys := l.Keys()
	if len(keys) < 2 {
		t.Errorf("Keys() returned %d keys, want at least 2", len(keys))
	}
}

func TestLoader_GetInt(t *testing.T) {
	l := NewLoader()
	l.LoadMap(map[string]any{
		"retries": 3,
	})

	if n := l.GetInt("retries"); n != 3 {
		t.Errorf("GetInt(retries) = %d, want %d", n, 3)
	}
}
