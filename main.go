package main

import (
	"context"
	"dir-syncer/config"
	"dir-syncer/services"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

var errNoEnvFile = errors.New("keine Konfigurationsdatei gefunden (env.yaml oder env.yml)")

// jobRunner is the part of services.Executor main depends on.
type jobRunner interface {
	Run(ctx context.Context, job config.JobConfig, action config.Action) error
}

// newRunner is replaced in tests.
var newRunner = func(cfg *config.EnvConfig) jobRunner {
	return services.NewExecutor(cfg)
}

func loadEnvYaml() (*config.EnvConfig, error) {
	// Prüfe welche Dateien vorhanden sind
	yamlExists := fileExists("env.yaml")
	ymlExists := fileExists("env.yml")

	// Fehler wenn beide Dateien vorhanden sind
	if yamlExists && ymlExists {
		return nil, fmt.Errorf("konflikt: sowohl env.yaml als auch env.yml sind vorhanden, bitte verwende nur eine der beiden Dateien")
	}

	// Bestimme welche Datei geladen werden soll
	var configFile string
	if yamlExists {
		configFile = "env.yaml"
	} else if ymlExists {
		configFile = "env.yml"
	} else {
		return nil, errNoEnvFile
	}

	data, err := os.ReadFile(configFile)
	if err != nil {
		return nil, fmt.Errorf("fehler beim Lesen von %s: %w", configFile, err)
	}

	var cfg config.EnvConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("fehler beim Parsen von %s: %w", configFile, err)
	}

	return &cfg, nil
}

func fileExists(filename string) bool {
	_, err := os.Stat(filename)
	return err == nil
}

func setupLogger(cfg *config.EnvConfig, w io.Writer) {
	var lvl slog.Level
	switch cfg.GetLogLevel() {
	case "DEBUG":
		lvl = slog.LevelDebug
	case "WARN":
		lvl = slog.LevelWarn
	case "ERROR":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl})
	slog.SetDefault(slog.New(handler))
}

func run(args []string, stdout, stderr io.Writer) int {
	// 1. Command Line Arguments parsen
	cliCfg, err := config.ParseCLI(args)
	if err != nil {
		fmt.Fprintf(stderr, "Fehler in Kommandozeilen-Argumenten: %v\n", err)
		config.PrintUsage(stderr)
		return exitUsage
	}
	if cliCfg.ShowHelp {
		config.PrintUsage(stdout)
		return exitOK
	}
	if err := cliCfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "Fehler in Kommandozeilen-Argumenten: %v\n", err)
		return exitUsage
	}

	// 2. Aktion bestimmen, bevor irgendetwas gelesen oder verbunden wird
	action, err := config.ParseAction(cliCfg.Action)
	if err != nil {
		fmt.Fprintln(stderr, "Valid actions are :\nupload OR u\ndownload OR d\nExiting .....")
		config.PrintUsage(stderr)
		return exitUsage
	}

	// 3. Reihenfolge der Konfiguration:
	// - env.yaml oder env.yml laden (falls vorhanden)
	// - .env laden (falls vorhanden)
	// - Umgebungsvariablen laden
	// - CLI-Parameter anwenden (überschreibt alles andere)
	cfg, err := loadEnvYaml()
	if err != nil {
		if !errors.Is(err, errNoEnvFile) {
			fmt.Fprintln(stderr, "Konfigurationsdatei konnte nicht geladen werden:", err)
		}
		cfg = &config.EnvConfig{}
	}

	_ = godotenv.Load()

	if err := cfg.LoadFromEnvironment(); err != nil {
		fmt.Fprintln(stderr, "Fehler beim Laden der Umgebungsvariablen:", err)
	}
	cliCfg.ApplyToCfg(cfg)
	cfg.SetDefaults()

	setupLogger(cfg, stdout)

	if err := cfg.Validate(); err != nil {
		slog.Error("Ungültige Konfiguration", "error", err)
		return exitError
	}

	// 4. Job-Datei laden
	job, err := config.Load(cfg.JobFile)
	if err != nil {
		reportConfigError(stderr, cfg.JobFile, err)
		return exitError
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRunner(cfg).Run(ctx, job, action); err != nil {
		slog.Error("Job fehlgeschlagen", "aktion", action, "methode", job.Method, "fehler", err)
		fmt.Fprintln(stderr, "Bei der Verbindung ist ein Fehler aufgetreten.")
		fmt.Fprintln(stderr, "Ausgabe des Remote Servers:", err)
		return exitError
	}

	return exitOK
}

func reportConfigError(w io.Writer, path string, err error) {
	var missing *config.MissingKeysError
	switch {
	case errors.Is(err, config.ErrNotFound):
		fmt.Fprintf(w, "Config file %s not found .....\nExiting.....\n", path)
	case errors.As(err, &missing):
		for _, key := range missing.Keys {
			fmt.Fprintf(w, "Missing setting in config file: %s\n", key)
		}
		fmt.Fprintln(w, "Please edit your config file. Exiting....")
	default:
		fmt.Fprintf(w, "An error occurred whilst parsing the config file => %v\nPlease check your config file!\n", err)
	}
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}
