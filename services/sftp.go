package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"dir-syncer/config"

	"github.com/pkg/sftp"
	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/knownhosts"
)

// createSSHConfig erstellt eine SSH-Konfiguration für SFTP
func createSSHConfig(ftpConfig config.FTPConfig, knownHostsFile string) (*ssh.ClientConfig, error) {
	hostKeyCallback := ssh.InsecureIgnoreHostKey()
	if knownHostsFile != "" {
		cb, err := knownhosts.New(knownHostsFile)
		if err != nil {
			return nil, fmt.Errorf("known_hosts konnte nicht gelesen werden: %w", err)
		}
		hostKeyCallback = cb
	}

	return &ssh.ClientConfig{
		User: ftpConfig.Username,
		Auth: []ssh.AuthMethod{
			ssh.Password(ftpConfig.Password),
		},
		HostKeyCallback: hostKeyCallback,
		Timeout:         30 * time.Second,
	}, nil
}

// withSFTP öffnet SSH- und SFTP-Verbindung, führt fn aus und schließt beide wieder
func (e *Executor) withSFTP(job config.JobConfig, fn func(client *sftp.Client) error) error {
	ftpConfig := job.GetFTPConfig()
	host := ftpConfig.Host + ":" + strconv.Itoa(ftpConfig.Port)

	sshConfig, err := createSSHConfig(ftpConfig, e.KnownHosts)
	if err != nil {
		return &TransferError{Method: job.Method, Op: "connect", Path: host, Err: err}
	}

	conn, err := ssh.Dial("tcp", host, sshConfig)
	if err != nil {
		if isSSHAuthFailure(err) {
			err = &AuthError{User: ftpConfig.Username, Err: err}
		}
		return &TransferError{Method: job.Method, Op: "connect", Path: host, Err: err}
	}
	defer conn.Close()

	client, err := sftp.NewClient(conn)
	if err != nil {
		return &TransferError{Method: job.Method, Op: "connect", Path: host, Err: fmt.Errorf("SFTP-Client-Erstellung fehlgeschlagen: %w", err)}
	}
	defer client.Close()

	if err := fn(client); err != nil {
		return &TransferError{Method: job.Method, Op: "transfer", Path: job.RemoteDir, Err: err}
	}
	return nil
}

// isSSHAuthFailure erkennt eine abgelehnte Anmeldung. Der x/crypto-Client meldet
// sie ohne eigenen Fehlertyp, daher bleibt der Textvergleich als Rückfall.
func isSSHAuthFailure(err error) bool {
	var authErr *ssh.ServerAuthError
	if errors.As(err, &authErr) {
		return true
	}
	return strings.Contains(err.Error(), "unable to authenticate")
}

// uploadSFTP kopiert alle Dateien aus localDir nach remoteDir
func uploadSFTP(ctx context.Context, client *sftp.Client, localDir, remoteDir string) error {
	manifest, err := BuildManifest(localDir)
	if err != nil {
		return err
	}

	remoteDir = normalizeRemotePath(remoteDir)
	if err := client.MkdirAll(remoteDir); err != nil {
		return fmt.Errorf("fehler beim Erstellen von %s: %w", remoteDir, err)
	}

	for _, file := range manifest.Files {
		if err := ctx.Err(); err != nil {
			return err
		}

		rel := strings.TrimPrefix(file, "./")
		remotePath := path.Join(remoteDir, rel)

		// Remote-Verzeichnis erstellen
		if err := client.MkdirAll(path.Dir(remotePath)); err != nil {
			return fmt.Errorf("fehler beim Erstellen von %s: %w", path.Dir(remotePath), err)
		}

		if err := putSFTPFile(client, filepath.Join(localDir, filepath.FromSlash(rel)), remotePath); err != nil {
			return err
		}
		slog.Info("Datei hochgeladen", "datei", file)
	}

	return nil
}

func putSFTPFile(client *sftp.Client, srcPath, remotePath string) error {
	srcFile, err := os.Open(srcPath)
	if err != nil {
		return fmt.Errorf("fehler beim Öffnen der Quelldatei: %w", err)
	}
	defer srcFile.Close()

	dstFile, err := client.Create(remotePath)
	if err != nil {
		return fmt.Errorf("fehler beim Erstellen der Remote-Datei: %w", err)
	}
	defer dstFile.Close()

	if _, err := io.Copy(dstFile, srcFile); err != nil {
		return fmt.Errorf("fehler beim SFTP-Upload: %w", err)
	}
	return nil
}

// downloadSFTP spiegelt remoteDir nach localDir
func downloadSFTP(ctx context.Context, client *sftp.Client, remoteDir, localDir string) error {
	remoteDir = normalizeRemotePath(remoteDir)
	walker := client.Walk(remoteDir)

	for walker.Step() {
		if err := walker.Err(); err != nil {
			return fmt.Errorf("fehler beim Durchsuchen von %s: %w", walker.Path(), err)
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		rel := strings.TrimPrefix(strings.TrimPrefix(walker.Path(), remoteDir), "/")
		target := filepath.Join(localDir, filepath.FromSlash(rel))

		if walker.Stat().IsDir() {
			if err := os.MkdirAll(target, 0755); err != nil {
				return fmt.Errorf("fehler beim Erstellen des Zielverzeichnisses: %w", err)
			}
			continue
		}

		if err := getSFTPFile(client, walker.Path(), target); err != nil {
			return err
		}
		slog.Info("Datei heruntergeladen", "datei", rel)
	}

	return nil
}

func getSFTPFile(client *sftp.Client, remotePath, target string) error {
	srcFile, err := client.Open(remotePath)
	if err != nil {
		return fmt.Errorf("fehler beim Öffnen der Remote-Datei: %w", err)
	}
	defer srcFile.Close()

	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return fmt.Errorf("fehler beim Erstellen des Zielverzeichnisses: %w", err)
	}

	dstFile, err := os.Create(target)
	if err != nil {
		return fmt.Errorf("fehler beim Erstellen der Zieldatei: %w", err)
	}
	defer dstFile.Close()

	if _, err := io.Copy(dstFile, srcFile); err != nil {
		return fmt.Errorf("fehler beim SFTP-Download: %w", err)
	}
	return nil
}
