package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestParseDefaults(t *testing.T) {
	cfg, err := Parse()
	if err != nil {
		t.Fatalf("Parse() = %v", err)
	}
	if cfg.Port != "3000" {
		t.Fatalf("Port = %q, want 3000", cfg.Port)
	}
	if cfg.DatabaseDriver != "sqlite" {
		t.Fatalf("DatabaseDriver = %q, want sqlite", cfg.DatabaseDriver)
	}
	if cfg.RequestTimeout != 25*time.Second {
		t.Fatalf("RequestTimeout = %v, want 25s", cfg.RequestTimeout)
	}
	if len(cfg.AllowedOrigins) != 1 || cfg.AllowedOrigins[0] != "*" {
		t.Fatalf("AllowedOrigins = %v, want [*]", cfg.AllowedOrigins)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() = %v", err)
	}
}

func TestParseFromEnv(t *testing.T) {
	t.Setenv("DATABASE_DRIVER", " Postgres ")
	t.Setenv("POSTGRES_DSN", " postgres://localhost/invoices \n")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("AUTH_REQUIRED", "true")

	cfg, err := Parse()
	if err != nil {
		t.Fatalf("Parse() = %v", err)
	}
	if cfg.DatabaseDriver != "postgres" {
		t.Fatalf("DatabaseDriver = %q", cfg.DatabaseDriver)
	}
	if cfg.PostgresDSN != "postgres://localhost/invoices" {
		t.Fatalf("PostgresDSN = %q", cfg.PostgresDSN)
	}
	if got := strings.Join(cfg.AllowedOrigins, "|"); got != "https://a.example|https://b.example" {
		t.Fatalf("AllowedOrigins = %q", got)
	}
	if !cfg.AuthRequired {
		t.Fatal("expected AuthRequired")
	}
}

func TestParseError(t *testing.T) {
	t.Setenv("REQUEST_TIMEOUT", "soon")
	_, err := Parse()
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "parse env:") {
		t.Fatalf("expected parse env prefix, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	base := Config{
		Environment:    "development",
		Port:           "3000",
		DatabaseDriver: "sqlite",
		SQLitePath:     "x.db",
		JWTSecret:      defaultJWTSecret,
		RequestTimeout: time.Second,
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "ok", mutate: func(*Config) {}},
		{name: "missing port", mutate: func(c *Config) { c.Port = "" }, wantErr: "PORT"},
		{name: "unknown driver", mutate: func(c *Config) { c.DatabaseDriver = "mysql" }, wantErr: "DATABASE_DRIVER"},
		{name: "postgres without dsn", mutate: func(c *Config) { c.DatabaseDriver = "postgres" }, wantErr: "POSTGRES_DSN"},
		{name: "default secret in production", mutate: func(c *Config) { c.Environment = "production" }, wantErr: "JWT_SECRET"},
		{name: "zero timeout", mutate: func(c *Config) { c.RequestTimeout = 0 }, wantErr: "REQUEST_TIMEOUT"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() = %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("Validate() = %v, want error containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoadEnvFileKeepsExistingValues(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env.local")
	content := "# comment\nINVOICE_TEST_A=\"from-file\"\nINVOICE_TEST_B=file\nbroken-line\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}
	t.Setenv("INVOICE_TEST_B", "from-env")
	t.Cleanup(func() { os.Unsetenv("INVOICE_TEST_A") })

	loadEnvFile(path)

	if got := os.Getenv("INVOICE_TEST_A"); got != "from-file" {
		t.Fatalf("INVOICE_TEST_A = %q, want from-file", got)
	}
	if got := os.Getenv("INVOICE_TEST_B"); got != "from-env" {
		t.Fatalf("INVOICE_TEST_B = %q, want from-env", got)
	}
}

func TestAddr(t *testing.T) {
	if got := (&Config{Port: "8080"}).Addr(); got != ":8080" {
		t.Fatalf("Addr() = %q", got)
	}
	if got := (&Config{Port: "127.0.0.1:8080"}).Addr(); got != "127.0.0.1:8080" {
		t.Fatalf("Addr() = %q", got)
	}
}
