package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeTemp(t *testing.T, dir, name, body string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	return p
}

func TestLoadFile_YAML(t *testing.T) {
	dir := t.TempDir()
	p := writeTemp(t, dir, "gitsecrets.yaml", "max_bytes: 123\nexclude: \"**/*.snap\"\nvendor_heuristics: true\nfail_on: high\n")
	cfg, err := LoadFile(p)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.MaxBytes == nil || *cfg.MaxBytes != 123 {
		t.Fatalf("expected max_bytes=123, got %#v", cfg.MaxBytes)
	}
	if cfg.Exclude == nil || *cfg.Exclude != "**/*.snap" {
		t.Fatalf("expected exclude glob, got %#v", cfg.Exclude)
	}
	if cfg.VendorHeuristics == nil || !*cfg.VendorHeuristics {
		t.Fatalf("expected vendor_heuristics=true")
	}
	if cfg.FailOn == nil || *cfg.FailOn != "high" {
		t.Fatalf("expected fail_on=high, got %#v", cfg.FailOn)
	}
	if cfg.Include != nil {
		t.Fatalf("expected include unset, got %q", *cfg.Include)
	}
}

func TestLoadFile_TOML(t *testing.T) {
	dir := t.TempDir()
	p := writeTemp(t, dir, ".gitsecrets.toml", "disable = \"jwt_token\"\nno_color = true\nignore_file = \".secretsignore\"\n")
	cfg, err := LoadFile(p)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.Disable == nil || *cfg.Disable != "jwt_token" {
		t.Fatalf("expected disable=jwt_token, got %#v", cfg.Disable)
	}
	if cfg.NoColor == nil || !*cfg.NoColor {
		t.Fatalf("expected no_color=true")
	}
	if cfg.IgnoreFile == nil || *cfg.IgnoreFile != ".secretsignore" {
		t.Fatalf("expected ignore_file, got %#v", cfg.IgnoreFile)
	}
}

func TestLoadFile_Invalid(t *testing.T) {
	dir := t.TempDir()
	p := writeTemp(t, dir, "gitsecrets.yml", "max_bytes: [oops\n")
	if _, err := LoadFile(p); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestLoadLocal_PrefersDotfile(t *testing.T) {
	dir := t.TempDir()
	writeTemp(t, dir, "gitsecrets.yaml", "max_bytes: 1\n")
	writeTemp(t, dir, ".gitsecrets.yaml", "max_bytes: 7\n")
	cfg, err := LoadLocal(dir)
	if err != nil {
		t.Fatalf("LoadLocal: %v", err)
	}
	if cfg.MaxBytes == nil || *cfg.MaxBytes != 7 {
		t.Fatalf("expected max_bytes=7 from .gitsecrets.yaml, got %#v", cfg.MaxBytes)
	}
}

func TestLoadLocal_NoConfig(t *testing.T) {
	dir := t.TempDir()
	if _, err := LoadLocal(dir); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestLoadGlobal_XDG_Config(t *testing.T) {
	dir := t.TempDir()
	cfgDir := filepath.Join(dir, "gitsecrets")
	if err := os.MkdirAll(cfgDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	writeTemp(t, cfgDir, "config.yml", "enable: aws_access_key,private_key\n")
	t.Setenv("XDG_CONFIG_HOME", dir)
	cfg, err := LoadGlobal()
	if err != nil {
		t.Fatalf("LoadGlobal: %v", err)
	}
	if cfg.Enable == nil || *cfg.Enable != "aws_access_key,private_key" {
		t.Fatalf("expected enable list from global config, got %#v", cfg.Enable)
	}
}

func TestLoadGlobal_NoConfig(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv("HOME", "")
	if _, err := LoadGlobal(); err == nil {
		t.Fatal("expected error when no global config dir exists")
	}
}
