package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

type sampleConfig struct {
	Name    string        `envconfig:"NAME" required:"true"`
	Timeout time.Duration `envconfig:"TIMEOUT" default:"5s"`
	Debug   bool          `split_words:"true"`
}

func writeEnvFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.env")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}
	return path
}

func TestNewLoadsEnvFile(t *testing.T) {
	path := writeEnvFile(t, "CFGTEST_NAME=alpha\nCFGTEST_TIMEOUT=2s\n")
	t.Cleanup(func() {
		os.Unsetenv("CFGTEST_NAME")
		os.Unsetenv("CFGTEST_TIMEOUT")
		SetEnvFile("")
	})
	SetEnvFile(path)

	conf, err := New[sampleConfig]("CFGTEST")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if conf.Name != "alpha" {
		t.Fatalf("unexpected name: %q", conf.Name)
	}
	if conf.Timeout != 2*time.Second {
		t.Fatalf("unexpected timeout: %v", conf.Timeout)
	}
}

func TestNewEnvironmentWinsOverFile(t *testing.T) {
	path := writeEnvFile(t, "CFGENV_NAME=from-file\n")
	t.Setenv("CFGENV_NAME", "from-env")
	t.Cleanup(func() { SetEnvFile("") })
	SetEnvFile(path)

	conf, err := New[sampleConfig]("CFGENV")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if conf.Name != "from-env" {
		t.Fatalf("unexpected name: %q", conf.Name)
	}
	if conf.Timeout != 5*time.Second {
		t.Fatalf("expected default timeout, got %v", conf.Timeout)
	}
}

func TestNewMissingRequired(t *testing.T) {
	t.Cleanup(func() { SetEnvFile("") })
	SetEnvFile("")

	if _, err := New[sampleConfig]("CFGMISSING"); err == nil {
		t.Fatal("expected error for missing required variable")
	}
}

func TestNewMissingEnvFile(t *testing.T) {
	t.Cleanup(func() { SetEnvFile("") })
	SetEnvFile(filepath.Join(t.TempDir(), "absent.env"))

	if _, err := New[sampleConfig]("CFGABSENT"); err == nil {
		t.Fatal("expected error for missing env file")
	}
}
