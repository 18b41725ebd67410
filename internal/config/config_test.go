package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/nds/ensembl-genomio/internal/testutil"
)

// unsetEnv clears a variable for the test while preserving its
// original value for restoration. godotenv only fills variables that
// are truly absent, so an empty-but-set value is not enough.
func unsetEnv(t *testing.T, key string) {
	t.Helper()
	t.Setenv(key, "")
	os.Unsetenv(key)
}

func setupHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	testutil.Chdir(t, home)
	unsetEnv(t, "GENECARRY_LOG_LEVEL")
	unsetEnv(t, "GENECARRY_LOG_FORMAT")
	return home
}

func TestLoad_Defaults(t *testing.T) {
	setupHome(t)

	cfg, err := Load()
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, "info", cfg.LogLevel)
	testutil.AssertEqual(t, "auto", cfg.LogFormat)
}

func TestLoad_EnvOverrides(t *testing.T) {
	setupHome(t)
	t.Setenv("GENECARRY_LOG_LEVEL", "debug")
	t.Setenv("GENECARRY_LOG_FORMAT", "json")

	cfg, err := Load()
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, "debug", cfg.LogLevel)
	testutil.AssertEqual(t, "json", cfg.LogFormat)
}

func TestLoad_YAMLConfig(t *testing.T) {
	home := setupHome(t)
	configDir := filepath.Join(home, ".config", "genecarry")
	if err := os.MkdirAll(configDir, 0755); err != nil {
		t.Fatalf("Failed to create config dir: %v", err)
	}
	testutil.WriteFile(t, configDir, "config.yaml", "log_level: warn\nlog_format: console\n")

	cfg, err := Load()
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, "warn", cfg.LogLevel)
	testutil.AssertEqual(t, "console", cfg.LogFormat)
}

func TestLoad_EnvBeatsYAML(t *testing.T) {
	home := setupHome(t)
	configDir := filepath.Join(home, ".config", "genecarry")
	if err := os.MkdirAll(configDir, 0755); err != nil {
		t.Fatalf("Failed to create config dir: %v", err)
	}
	testutil.WriteFile(t, configDir, "config.yaml", "log_level: warn\n")
	t.Setenv("GENECARRY_LOG_LEVEL", "error")

	cfg, err := Load()
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, "error", cfg.LogLevel)
}

func TestLoad_DotenvWalkUp(t *testing.T) {
	home := setupHome(t)
	testutil.WriteFile(t, home, ".env.local", "GENECARRY_LOG_FORMAT=console\n")

	workDir := filepath.Join(home, "builds", "patch_53")
	if err := os.MkdirAll(workDir, 0755); err != nil {
		t.Fatalf("Failed to create work dir: %v", err)
	}
	testutil.Chdir(t, workDir)

	cfg, err := Load()
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, "console", cfg.LogFormat)
}
