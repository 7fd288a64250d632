package config

import (
	"os"
	"strings"
	"testing"
	"time"
)

// backupEnvironment saves all environment variables
func backupEnvironment() map[string]string {
	env := make(map[string]string)
	for _, e := range os.Environ() {
		if key, value, ok := strings.Cut(e, "="); ok {
			env[key] = value
		}
	}
	return env
}

// restoreEnvironment restores the environment from a backup
func restoreEnvironment(env map[string]string) {
	os.Clearenv()
	for key, value := range env {
		os.Setenv(key, value)
	}
}

// clearTestEnvironment removes every variable LoadFromEnvironment reads
func clearTestEnvironment() {
	for _, key := range []string{
		"LOG_LEVEL", "log.level", "JOB_FILE", "job_file",
		"SCP_PATH", "tools.scp", "WGET_PATH", "tools.wget",
		"FTP_TIMEOUT", "ftp.timeout", "SSH_KNOWN_HOSTS", "ssh.known_hosts",
		"GIT_AUTHOR_NAME", "GIT_AUTHOR_EMAIL", "GIT_COMMIT_MESSAGE",
	} {
		os.Unsetenv(key)
	}
}

func TestEnvConfig_SetDefaults(t *testing.T) {
	cfg := EnvConfig{}
	cfg.SetDefaults()

	if cfg.Log.Level != "INFO" {
		t.Errorf("Log.Level = %q, want INFO", cfg.Log.Level)
	}
	if cfg.JobFile != "config.txt" {
		t.Errorf("JobFile = %q, want config.txt", cfg.JobFile)
	}
	if cfg.Tools.SCP != "scp" || cfg.Tools.Wget != "wget" {
		t.Errorf("Tools = %+v, want scp/wget", cfg.Tools)
	}
	if cfg.FTP.Timeout != 30 {
		t.Errorf("FTP.Timeout = %d, want 30", cfg.FTP.Timeout)
	}
	if cfg.Git.Message != "Initial Commit" {
		t.Errorf("Git.Message = %q, want Initial Commit", cfg.Git.Message)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() after SetDefaults() = %v", err)
	}
}

func TestEnvConfig_SetDefaults_PreservesValues(t *testing.T) {
	cfg := EnvConfig{JobFile: "jobs/site.txt"}
	cfg.Log.Level = "DEBUG"
	cfg.Tools.SCP = "/usr/local/bin/scp"
	cfg.FTP.Timeout = 5

	cfg.SetDefaults()

	if cfg.Log.Level != "DEBUG" || cfg.JobFile != "jobs/site.txt" || cfg.Tools.SCP != "/usr/local/bin/scp" || cfg.FTP.Timeout != 5 {
		t.Errorf("SetDefaults() overwrote existing values: %+v", cfg)
	}
}

func TestEnvConfig_GetLogLevel(t *testing.T) {
	tests := []struct {
		name     string
		logLevel string
		expected string
	}{
		{"debug level", "debug", "DEBUG"},
		{"INFO level", "INFO", "INFO"},
		{"warn level", "warn", "WARN"},
		{"error level", "error", "ERROR"},
		{"invalid level", "invalid", "INFO"},
		{"empty level", "", "INFO"},
		{"mixed case", "Debug", "DEBUG"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := EnvConfig{}
			config.Log.Level = tt.logLevel
			if result := config.GetLogLevel(); result != tt.expected {
				t.Errorf("GetLogLevel() = %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestEnvConfig_Validate(t *testing.T) {
	valid := EnvConfig{}
	valid.SetDefaults()

	noJob := valid
	noJob.JobFile = ""

	badTimeout := valid
	badTimeout.FTP.Timeout = -1

	tests := []struct {
		name      string
		config    EnvConfig
		wantError bool
	}{
		{"valid config", valid, false},
		{"empty job file", noJob, true},
		{"negative timeout", badTimeout, true},
		{"zero config", EnvConfig{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if (err != nil) != tt.wantError {
				t.Errorf("Validate() error = %v, wantError %v", err, tt.wantError)
			}
		})
	}
}

func TestEnvConfig_LoadFromEnvironment(t *testing.T) {
	originalEnv := backupEnvironment()
	defer restoreEnvironment(originalEnv)

	tests := []struct {
		name    string
		envVars map[string]string
		check   func(t *testing.T, cfg EnvConfig)
	}{
		{
			name: "upper case variables",
			envVars: map[string]string{
				"LOG_LEVEL":       "DEBUG",
				"JOB_FILE":        "/etc/sync/site.txt",
				"SCP_PATH":        "/opt/bin/scp",
				"WGET_PATH":       "/opt/bin/wget",
				"FTP_TIMEOUT":     "10",
				"SSH_KNOWN_HOSTS": "/root/.ssh/known_hosts",
			},
			check: func(t *testing.T, cfg EnvConfig) {
				if cfg.Log.Level != "DEBUG" {
					t.Errorf("Log.Level = %q", cfg.Log.Level)
				}
				if cfg.JobFile != "/etc/sync/site.txt" {
					t.Errorf("JobFile = %q", cfg.JobFile)
				}
				if cfg.Tools.SCP != "/opt/bin/scp" || cfg.Tools.Wget != "/opt/bin/wget" {
					t.Errorf("Tools = %+v", cfg.Tools)
				}
				if cfg.FTPTimeout() != 10*time.Second {
					t.Errorf("FTPTimeout() = %v", cfg.FTPTimeout())
				}
				if cfg.SSH.KnownHosts != "/root/.ssh/known_hosts" {
					t.Errorf("SSH.KnownHosts = %q", cfg.SSH.KnownHosts)
				}
			},
		},
		{
			name: "dotted variables",
			envVars: map[string]string{
				"log.level":   "WARN",
				"tools.scp":   "scp2",
				"ftp.timeout": "7",
			},
			check: func(t *testing.T, cfg EnvConfig) {
				if cfg.Log.Level != "WARN" {
					t.Errorf("Log.Level = %q", cfg.Log.Level)
				}
				if cfg.Tools.SCP != "scp2" {
					t.Errorf("Tools.SCP = %q", cfg.Tools.SCP)
				}
				if cfg.FTP.Timeout != 7 {
					t.Errorf("FTP.Timeout = %d", cfg.FTP.Timeout)
				}
			},
		},
		{
			name: "invalid timeout is ignored",
			envVars: map[string]string{
				"FTP_TIMEOUT": "soon",
			},
			check: func(t *testing.T, cfg EnvConfig) {
				if cfg.FTP.Timeout != 0 {
					t.Errorf("FTP.Timeout = %d, want 0", cfg.FTP.Timeout)
				}
			},
		},
		{
			name: "git signature",
			envVars: map[string]string{
				"GIT_AUTHOR_NAME":    "Alice",
				"GIT_AUTHOR_EMAIL":   "alice@example.com",
				"GIT_COMMIT_MESSAGE": "Baseline",
			},
			check: func(t *testing.T, cfg EnvConfig) {
				expected := GitConfig{AuthorName: "Alice", AuthorEmail: "alice@example.com", Message: "Baseline"}
				if cfg.Git != expected {
					t.Errorf("Git = %+v, want %+v", cfg.Git, expected)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearTestEnvironment()
			for key, value := range tt.envVars {
				os.Setenv(key, value)
			}

			var cfg EnvConfig
			if err := cfg.LoadFromEnvironment(); err != nil {
				t.Fatalf("LoadFromEnvironment() error = %v", err)
			}
			tt.check(t, cfg)
		})
	}
}
