package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"dir-syncer/config"

	"github.com/pkg/sftp"
)

// Executor runs one download or upload job.
type Executor struct {
	Tools      config.ToolsConfig
	Runner     CommandRunner
	DialFTP    FTPDialer
	Repo       RepoInitializer
	KnownHosts string
}

func NewExecutor(cfg *config.EnvConfig) *Executor {
	return &Executor{
		Tools:      cfg.Tools,
		Runner:     ExecRunner{},
		DialFTP:    NewFTPDialer(cfg.FTPTimeout()),
		Repo:       NewGitRepoInitializer(cfg.Git),
		KnownHosts: cfg.SSH.KnownHosts,
	}
}

// Run dispatches on action and the job's method.
func (e *Executor) Run(ctx context.Context, job config.JobConfig, action config.Action) error {
	switch action {
	case config.ActionDownload:
		return e.download(ctx, job)
	case config.ActionUpload:
		return e.upload(ctx, job)
	default:
		return fmt.Errorf("%w: %s", config.ErrUnknownAction, action)
	}
}

func (e *Executor) download(ctx context.Context, job config.JobConfig) error {
	slog.Info("Lade Dateien herunter", "host", job.Host, "methode", job.Method, "ziel", job.LocalDir)

	if err := createLocalDir(job.LocalDir); err != nil {
		return err
	}

	var err error
	switch job.Method {
	case config.MethodSCP:
		err = e.runTool(ctx, job, "download", e.Tools.SCP, scpDownloadArgs(job))
	case config.MethodFTP:
		err = e.runTool(ctx, job, "download", e.Tools.Wget, wgetMirrorArgs(job))
	case config.MethodSFTP:
		err = e.withSFTP(job, func(client *sftp.Client) error {
			return downloadSFTP(ctx, client, job.RemoteDir, job.LocalDir)
		})
	case config.MethodS3:
		err = e.withS3(job, "download", func(store *MinIO, s3Config config.S3Config) error {
			return downloadS3(ctx, store, s3Config, job.LocalDir)
		})
	default:
		err = &TransferError{Method: job.Method, Op: "download", Err: errors.New("unbekannte Methode")}
	}
	if err != nil {
		return err
	}

	slog.Info("Download abgeschlossen", "methode", job.Method, "ziel", job.LocalDir)

	if job.InitRepo {
		if err := e.Repo.Init(job.LocalDir); err != nil {
			return fmt.Errorf("repository-initialisierung fehlgeschlagen: %w", err)
		}
	}

	return nil
}

func (e *Executor) upload(ctx context.Context, job config.JobConfig) error {
	slog.Info("Lade Dateien hoch", "host", job.Host, "methode", job.Method, "quelle", job.LocalDir)

	switch job.Method {
	case config.MethodSCP:
		return e.runTool(ctx, job, "upload", e.Tools.SCP, scpUploadArgs(job))
	case config.MethodFTP:
		return e.uploadFTP(ctx, job)
	case config.MethodSFTP:
		return e.withSFTP(job, func(client *sftp.Client) error {
			return uploadSFTP(ctx, client, job.LocalDir, job.RemoteDir)
		})
	case config.MethodS3:
		return e.withS3(job, "upload", func(store *MinIO, s3Config config.S3Config) error {
			return uploadS3(ctx, store, s3Config, job.LocalDir)
		})
	default:
		return &TransferError{Method: job.Method, Op: "upload", Err: errors.New("unbekannte Methode")}
	}
}

func (e *Executor) runTool(ctx context.Context, job config.JobConfig, op, tool string, args []string) error {
	slog.Info("Starte externes Programm", "programm", tool, "argumente", redactArgs(args))
	if err := e.Runner.Run(ctx, tool, args...); err != nil {
		return &TransferError{Method: job.Method, Op: op, Path: job.RemoteDir, Err: err}
	}
	return nil
}

func (e *Executor) withS3(job config.JobConfig, op string, fn func(store *MinIO, s3Config config.S3Config) error) error {
	s3Config := job.GetS3Config()
	if s3Config.Bucket == "" {
		return &TransferError{Method: job.Method, Op: op, Path: job.RemoteDir, Err: errors.New("remote_dir enthält keinen Bucket")}
	}

	store, err := NewMinIOConnection(s3Config)
	if err != nil {
		return &TransferError{Method: job.Method, Op: "connect", Path: s3Config.Endpoint, Err: err}
	}

	if err := fn(store, s3Config); err != nil {
		return &TransferError{Method: job.Method, Op: op, Path: job.RemoteDir, Err: err}
	}
	return nil
}

// createLocalDir creates the download target. An existing directory is accepted.
func createLocalDir(dir string) error {
	err := os.Mkdir(dir, 0755)
	if err == nil {
		return nil
	}

	if errors.Is(err, os.ErrExist) {
		if info, statErr := os.Stat(dir); statErr == nil && info.IsDir() {
			slog.Warn("Zielverzeichnis existiert bereits", "verzeichnis", dir)
			return nil
		}
	}

	return &DirectoryCreateError{Path: dir, Err: err}
}
