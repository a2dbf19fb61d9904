package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestArgumentExitCodes(t *testing.T) {
	script := filepath.Join(t.TempDir(), "test.dy")
	if err := os.WriteFile(script, []byte("(print 42)\n"), 0644); err != nil {
		t.Fatal(err)
	}
	cases := []struct {
		name string
		args []string
		code int
	}{
		{"help", []string{"-h"}, 0},
		{"help long", []string{"--help"}, 0},
		{"version", []string{"-v"}, 0},
		{"version long", []string{"--version"}, 0},
		{"script", []string{script}, 0},
		{"no script", []string{}, 1},
		{"unknown option", []string{"--bogus"}, 1},
		{"missing script file", []string{filepath.Join(t.TempDir(), "nope.dy")}, 1},
		{"config without file", []string{"-c"}, 1},
	}
	for _, c := range cases {
		if got := run(c.args); got != c.code {
			t.Errorf("%s: expected exit code %d, got %d", c.name, c.code, got)
		}
	}
}

func TestConfigFile(t *testing.T) {
	dir := t.TempDir()
	script := filepath.Join(dir, "test.dy")
	if err := os.WriteFile(script, []byte(""), 0644); err != nil {
		t.Fatal(err)
	}
	config := filepath.Join(dir, "dysl-config.yaml")
	if err := os.WriteFile(config, []byte("symbol-capacity: 128\ngc-threshold: 32\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if got := run([]string{"--config", config, script}); got != 0 {
		t.Errorf("valid config should exit 0, got %d", got)
	}
	broken := filepath.Join(dir, "broken.yaml")
	os.WriteFile(broken, []byte(":\n  - ]["), 0644)
	if got := run([]string{"--config", broken, script}); got != 1 {
		t.Errorf("broken config should exit 1, got %d", got)
	}
}
