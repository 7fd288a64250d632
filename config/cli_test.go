package config

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestParseCLI(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected CLIConfig
		wantErr  bool
	}{
		{
			name:     "no arguments",
			args:     []string{},
			expected: CLIConfig{},
		},
		{
			name:     "action only",
			args:     []string{"upload"},
			expected: CLIConfig{Action: "upload"},
		},
		{
			name:     "flags before action",
			args:     []string{"--log-level", "DEBUG", "--config", "jobs/site.txt", "d"},
			expected: CLIConfig{LogLevel: "DEBUG", JobFile: "jobs/site.txt", Action: "d"},
		},
		{
			name:    "more than one positional argument",
			args:    []string{"u", "whatever"},
			wantErr: true,
		},
		{
			name:    "extra argument after flags and action",
			args:    []string{"--config", "site.txt", "download", "now"},
			wantErr: true,
		},
		{
			name:     "long help",
			args:     []string{"--help"},
			expected: CLIConfig{ShowHelp: true},
		},
		{
			name:     "short help",
			args:     []string{"-h"},
			expected: CLIConfig{ShowHelp: true},
		},
		{
			name:    "unknown flag",
			args:    []string{"--bogus", "upload"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ParseCLI(tt.args)
			if tt.wantErr {
				if err == nil {
					t.Error("ParseCLI() expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseCLI() error = %v", err)
			}
			if *result != tt.expected {
				t.Errorf("ParseCLI() = %+v, want %+v", *result, tt.expected)
			}
		})
	}
}

func TestParseAction(t *testing.T) {
	tests := []struct {
		arg      string
		expected Action
		wantErr  bool
	}{
		{"upload", ActionUpload, false},
		{"u", ActionUpload, false},
		{"download", ActionDownload, false},
		{"d", ActionDownload, false},
		{"", 0, true},
		{"Upload", 0, true},
		{"sync", 0, true},
		{"-u", 0, true},
	}

	for _, tt := range tests {
		t.Run("arg="+tt.arg, func(t *testing.T) {
			action, err := ParseAction(tt.arg)
			if tt.wantErr {
				if !errors.Is(err, ErrUnknownAction) {
					t.Errorf("ParseAction(%q) error = %v, want ErrUnknownAction", tt.arg, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseAction(%q) error = %v", tt.arg, err)
			}
			if action != tt.expected {
				t.Errorf("ParseAction(%q) = %v, want %v", tt.arg, action, tt.expected)
			}
		})
	}
}

func TestCLIConfig_ApplyToCfg(t *testing.T) {
	cfg := &EnvConfig{JobFile: "config.txt"}
	cfg.Log.Level = "INFO"

	(&CLIConfig{}).ApplyToCfg(cfg)
	if cfg.Log.Level != "INFO" || cfg.JobFile != "config.txt" {
		t.Errorf("empty CLI config changed EnvConfig: %+v", cfg)
	}

	(&CLIConfig{LogLevel: "ERROR", JobFile: "other.txt"}).ApplyToCfg(cfg)
	if cfg.Log.Level != "ERROR" {
		t.Errorf("Log.Level = %q, want ERROR", cfg.Log.Level)
	}
	if cfg.JobFile != "other.txt" {
		t.Errorf("JobFile = %q, want other.txt", cfg.JobFile)
	}
}

func TestCLIConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cli     CLIConfig
		wantErr bool
	}{
		{"empty", CLIConfig{}, false},
		{"valid level", CLIConfig{LogLevel: "debug"}, false},
		{"invalid level", CLIConfig{LogLevel: "TRACE"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cli.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestPrintUsage(t *testing.T) {
	var buf bytes.Buffer
	PrintUsage(&buf)

	for _, want := range []string{"upload   OR u", "download OR d", "--config", "remote_dir"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("usage text misses %q", want)
		}
	}
}
