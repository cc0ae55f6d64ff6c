package main

import (
	"bytes"
	"strings"
	"testing"
)

func TestGetVersion(t *testing.T) {
	t.Parallel()

	v := getVersion()
	// Either ldflags value, build info, or "(devel)"
	if v == "" {
		t.Error("getVersion() returned empty string")
	}
}

func TestGetCommit(t *testing.T) {
	t.Parallel()

	c := getCommit()
	// Either ldflags value, vcs.revision, or "unknown"
	if c == "" {
		t.Error("getCommit() returned empty string")
	}
}

func TestGetDate(t *testing.T) {
	t.Parallel()

	d := getDate()
	// Either ldflags value, vcs.time, or "unknown"
	if d == "" {
		t.Error("getDate() returned empty string")
	}
}

// TestNewVersionCmd tests the version command.
func TestNewVersionCmd(t *testing.T) {
	t.Parallel()

	cmd := NewVersionCmd()

	t.Run("has correct use", func(t *testing.T) {
		t.Parallel()
		if cmd.Use != "version" {
			t.Errorf("expected use 'version', got %q", cmd.Use)
		}
	})

	t.Run("prints version information", func(t *testing.T) {
		t.Parallel()
		cmd := NewVersionCmd()
		var buf bytes.Buffer
		cmd.SetOut(&buf)

		cmd.Run(cmd, nil)

		got := buf.String()
		if !strings.Contains(got, "loadlens version") {
			t.Errorf("expected output to contain 'loadlens version', got %q", got)
		}
		if !strings.Contains(got, "commit:") {
			t.Errorf("expected output to contain 'commit:', got %q", got)
		}
	})
}
