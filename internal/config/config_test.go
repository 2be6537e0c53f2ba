package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 8080
  host: 0.0.0.0
  client_url: http://localhost:3000
database:
  host: localhost
  port: 5432
  user: duet
  password: secret
  dbname: duet
  sslmode: disable
jwt:
  secret: abc
  ttl_days: 7
media:
  provider: s3
google:
  client_id: id
  client_secret: sec
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.JWT.TTLDays != 7 {
		t.Errorf("ttl_days = %d, want 7", cfg.JWT.TTLDays)
	}
	if cfg.Media.Provider != "s3" {
		t.Errorf("provider = %q, want s3", cfg.Media.Provider)
	}

	want := "host=localhost port=5432 user=duet password=secret dbname=duet sslmode=disable"
	if got := cfg.Database.DSN(); got != want {
		t.Errorf("DSN = %q, want %q", got, want)
	}
}

func TestLoadDefaults(t *testing.T) {
	path := writeConfig(t, `
jwt:
  secret: abc
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.JWT.TTLDays != 30 {
		t.Errorf("ttl_days = %d, want default 30", cfg.JWT.TTLDays)
	}
	if cfg.Media.Provider != "cloudinary" {
		t.Errorf("provider = %q, want default cloudinary", cfg.Media.Provider)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
