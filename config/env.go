package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type EnvConfig struct {
	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`
	JobFile string      `yaml:"job-file"`
	Tools   ToolsConfig `yaml:"tools"`
	FTP     struct {
		Timeout int `yaml:"timeout"` // Dial timeout in seconds
	} `yaml:"ftp"`
	SSH struct {
		KnownHosts string `yaml:"known-hosts"` // Optional known_hosts file, host keys are not checked when empty
	} `yaml:"ssh"`
	Git GitConfig `yaml:"git"`
}

// ToolsConfig names the external binaries used for bulk transfers.
type ToolsConfig struct {
	SCP  string `yaml:"scp"`
	Wget string `yaml:"wget"`
}

// GitConfig controls the baseline commit created after a download.
type GitConfig struct {
	AuthorName  string `yaml:"author-name"`
	AuthorEmail string `yaml:"author-email"`
	Message     string `yaml:"message"`
}

// LoadFromEnvironment loads the configuration from environment variables
func (c *EnvConfig) LoadFromEnvironment() error {
	// Log Level - support different formats
	if logLevel := os.Getenv("LOG_LEVEL"); logLevel != "" {
		c.Log.Level = logLevel
	} else if logLevel := os.Getenv("log.level"); logLevel != "" {
		c.Log.Level = logLevel
	}

	if jobFile := os.Getenv("JOB_FILE"); jobFile != "" {
		c.JobFile = jobFile
	} else if jobFile := os.Getenv("job_file"); jobFile != "" {
		c.JobFile = jobFile
	}

	c.loadToolsFromEnv()
	c.loadConnectionFromEnv()
	c.loadGitFromEnv()

	return nil
}

// loadToolsFromEnv lädt die Pfade der externen Programme
func (c *EnvConfig) loadToolsFromEnv() {
	if scp := os.Getenv("SCP_PATH"); scp != "" {
		c.Tools.SCP = scp
	} else if scp := os.Getenv("tools.scp"); scp != "" {
		c.Tools.SCP = scp
	}

	if wget := os.Getenv("WGET_PATH"); wget != "" {
		c.Tools.Wget = wget
	} else if wget := os.Getenv("tools.wget"); wget != "" {
		c.Tools.Wget = wget
	}
}

// loadConnectionFromEnv lädt FTP- und SSH-Einstellungen aus Umgebungsvariablen
func (c *EnvConfig) loadConnectionFromEnv() {
	for _, key := range []string{"FTP_TIMEOUT", "ftp.timeout"} {
		if timeout := os.Getenv(key); timeout != "" {
			if val, err := strconv.Atoi(timeout); err == nil && val > 0 {
				c.FTP.Timeout = val
			}
		}
	}

	if knownHosts := os.Getenv("SSH_KNOWN_HOSTS"); knownHosts != "" {
		c.SSH.KnownHosts = knownHosts
	} else if knownHosts := os.Getenv("ssh.known_hosts"); knownHosts != "" {
		c.SSH.KnownHosts = knownHosts
	}
}

func (c *EnvConfig) loadGitFromEnv() {
	if name := os.Getenv("GIT_AUTHOR_NAME"); name != "" {
		c.Git.AuthorName = name
	}
	if email := os.Getenv("GIT_AUTHOR_EMAIL"); email != "" {
		c.Git.AuthorEmail = email
	}
	if message := os.Getenv("GIT_COMMIT_MESSAGE"); message != "" {
		c.Git.Message = message
	}
}

// SetDefaults setzt Standard-Werte für die Konfiguration
func (c *EnvConfig) SetDefaults() {
	if c.Log.Level == "" {
		c.Log.Level = "INFO"
	}
	if c.JobFile == "" {
		c.JobFile = "config.txt"
	}
	if c.Tools.SCP == "" {
		c.Tools.SCP = "scp"
	}
	if c.Tools.Wget == "" {
		c.Tools.Wget = "wget"
	}
	if c.FTP.Timeout == 0 {
		c.FTP.Timeout = 30 // 30 Sekunden
	}
	if c.Git.AuthorName == "" {
		c.Git.AuthorName = "dir-syncer"
	}
	if c.Git.AuthorEmail == "" {
		c.Git.AuthorEmail = "dir-syncer@localhost"
	}
	if c.Git.Message == "" {
		c.Git.Message = "Initial Commit"
	}
}

// Validate checks the configuration for completeness.
func (c *EnvConfig) Validate() error {
	if c.JobFile == "" || c.Tools.SCP == "" || c.Tools.Wget == "" {
		return os.ErrInvalid
	}
	if c.FTP.Timeout <= 0 {
		return os.ErrInvalid
	}
	return nil
}

// GetLogLevel returns the configured log level.
func (c *EnvConfig) GetLogLevel() string {
	level := strings.ToUpper(c.Log.Level)
	switch level {
	case "DEBUG", "INFO", "WARN", "ERROR":
		return level
	default:
		return "INFO"
	}
}

// FTPTimeout returns the dial timeout as a duration.
func (c *EnvConfig) FTPTimeout() time.Duration {
	return time.Duration(c.FTP.Timeout) * time.Second
}
