package config

import (
	"os"
	"path/filepath"
	"testing"
)

func withEnvFiles(t *testing.T, files ...string) {
	t.Helper()
	saved := EnvFiles
	EnvFiles = files
	t.Cleanup(func() { EnvFiles = saved })
}

func TestLoadConfigDefaults(t *testing.T) {
	withEnvFiles(t, filepath.Join(t.TempDir(), "missing.env"))

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.ListenAddr() != "localhost:8080" {
		t.Errorf("ListenAddr = %q", cfg.ListenAddr())
	}
	if cfg.AdminRootPath != "/admin" || !cfg.AuthEnabled || cfg.CookieSecure {
		t.Errorf("cfg = %+v", cfg)
	}
	if len(cfg.CookiePassword) < 32 {
		t.Errorf("default cookie password too short")
	}
}

func TestLoadConfigFromEnvironment(t *testing.T) {
	withEnvFiles(t, filepath.Join(t.TempDir(), "missing.env"))
	t.Setenv("PORT", "9000")
	t.Setenv("ADMIN_ROOT_PATH", "/panel")
	t.Setenv("AUTH_ENABLED", "false")
	t.Setenv("COOKIE_SECURE", "true")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Port != "9000" || cfg.AdminRootPath != "/panel" || cfg.AuthEnabled || !cfg.CookieSecure {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestLoadConfigFromEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("ADMIN_EMAIL=ops@example.com\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	withEnvFiles(t, path)
	// godotenv.Load sets the variable for the whole process
	t.Setenv("ADMIN_EMAIL", "")
	os.Unsetenv("ADMIN_EMAIL")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.AdminEmail != "ops@example.com" {
		t.Errorf("AdminEmail = %q", cfg.AdminEmail)
	}
}

func TestLoadConfigRejectsBadValue(t *testing.T) {
	withEnvFiles(t, filepath.Join(t.TempDir(), "missing.env"))
	t.Setenv("AUTH_ENABLED", "maybe")

	if _, err := LoadConfig(); err == nil {
		t.Fatal("LoadConfig accepted a non-boolean AUTH_ENABLED")
	}
}
