package config

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
)

// Action is the single operation a run performs.
type Action int

const (
	ActionDownload Action = iota + 1
	ActionUpload
)

func (a Action) String() string {
	switch a {
	case ActionDownload:
		return "download"
	case ActionUpload:
		return "upload"
	default:
		return "unknown"
	}
}

// ParseAction maps the positional argument to an Action.
func ParseAction(arg string) (Action, error) {
	switch arg {
	case "upload", "u":
		return ActionUpload, nil
	case "download", "d":
		return ActionDownload, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownAction, arg)
	}
}

// CLIConfig holds command line argument configuration
type CLIConfig struct {
	LogLevel string
	JobFile  string
	Action   string
	ShowHelp bool
}

// ParseCLI parses command line arguments (without the program name) and returns a CLIConfig
func ParseCLI(args []string) (*CLIConfig, error) {
	cfg := &CLIConfig{}

	fs := flag.NewFlagSet("dir-syncer", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.LogLevel, "log-level", "", "Set log level (DEBUG, INFO, WARN, ERROR)")
	fs.StringVar(&cfg.JobFile, "config", "", "Set job file")
	fs.BoolVar(&cfg.ShowHelp, "help", false, "Show help message")
	fs.BoolVar(&cfg.ShowHelp, "h", false, "Show help message")

	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			cfg.ShowHelp = true
			return cfg, nil
		}
		return nil, err
	}

	rest := fs.Args()
	if len(rest) > 1 {
		return nil, fmt.Errorf("genau eine Aktion erwartet, bekommen: %s", strings.Join(rest, " "))
	}
	if len(rest) == 1 {
		cfg.Action = rest[0]
	}

	return cfg, nil
}

// ApplyToCfg applies CLI configuration to EnvConfig
func (cli *CLIConfig) ApplyToCfg(cfg *EnvConfig) {
	if cli.LogLevel != "" {
		cfg.Log.Level = cli.LogLevel
	}
	if cli.JobFile != "" {
		cfg.JobFile = cli.JobFile
	}
}

// Validate validates CLI configuration
func (cli *CLIConfig) Validate() error {
	if cli.LogLevel != "" {
		level := strings.ToUpper(cli.LogLevel)
		if level != "DEBUG" && level != "INFO" && level != "WARN" && level != "ERROR" {
			return fmt.Errorf("invalid log level: %s (allowed: DEBUG, INFO, WARN, ERROR)", cli.LogLevel)
		}
	}
	return nil
}

// PrintUsage prints the usage information
func PrintUsage(w io.Writer) {
	_, err := fmt.Fprintf(w, `dir-syncer - kopiert ein Verzeichnis von oder zu einem entfernten Host

USAGE:
    %s [OPTIONS] ACTION

ACTIONS:
    upload   OR u        Upload local_dir to remote_dir
    download OR d        Download remote_dir into local_dir

OPTIONS:
    --config FILE        Job file with key = value settings
                        Default: config.txt

    --log-level LEVEL    Set log level (DEBUG, INFO, WARN, ERROR)
                        Default: INFO

    -h, --help           Show this help message

JOB FILE:
    ip = remote_host
    user = user_name
    pw = secret_password
    remote_dir = htdocs/www_site
    local_dir = local_directory      (optional, default remote_dir)
    method = ftp | scp | sftp | s3
    git = true | false               (optional, default false)
    port = port_number               (optional, 21 for ftp, 22 for scp/sftp)

CONFIGURATION PRIORITY:
    1. Command line arguments (highest)
    2. Environment variables
    3. env.yaml/env.yml file
    4. Default values (lowest)

`, os.Args[0])
	if err != nil {
		return
	}
}
