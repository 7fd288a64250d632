package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/textproto"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"dir-syncer/config"

	"github.com/jlaffaye/ftp"
)

// Reply codes some servers send when MKD targets an existing directory.
const (
	ftpStatusFileUnavailable = 550
	ftpStatusDirExists       = 521
)

// FTPSession is the part of *ftp.ServerConn the upload needs.
type FTPSession interface {
	ChangeDir(path string) error
	MakeDir(path string) error
	Stor(path string, r io.Reader) error
	Quit() error
}

// FTPDialer opens and authenticates a session. A rejected login is returned as *AuthError.
type FTPDialer func(ctx context.Context, host string, ftpConfig config.FTPConfig) (FTPSession, error)

// connectAndLoginFTP stellt FTP-Verbindung her und meldet sich an
func connectAndLoginFTP(ctx context.Context, host string, ftpConfig config.FTPConfig, timeout time.Duration) (*ftp.ServerConn, error) {
	client, err := ftp.Dial(host, ftp.DialWithTimeout(timeout), ftp.DialWithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("FTP-Verbindung fehlgeschlagen: %w", err)
	}

	if err := client.Login(ftpConfig.Username, ftpConfig.Password); err != nil {
		client.Quit()
		return nil, &AuthError{User: ftpConfig.Username, Err: err}
	}

	return client, nil
}

// NewFTPDialer returns the default dialer backed by github.com/jlaffaye/ftp.
func NewFTPDialer(timeout time.Duration) FTPDialer {
	return func(ctx context.Context, host string, ftpConfig config.FTPConfig) (FTPSession, error) {
		conn, err := connectAndLoginFTP(ctx, host, ftpConfig, timeout)
		if err != nil {
			return nil, err
		}
		return conn, nil
	}
}

// uploadFTP recreates job.LocalDir below job.RemoteDir on the FTP server.
func (e *Executor) uploadFTP(ctx context.Context, job config.JobConfig) error {
	ftpConfig := job.GetFTPConfig()
	host := ftpConfig.Host + ":" + strconv.Itoa(ftpConfig.Port)

	session, err := e.DialFTP(ctx, host, ftpConfig)
	if err != nil {
		return &TransferError{Method: job.Method, Op: "login", Path: host, Err: err}
	}
	defer func() {
		if err := session.Quit(); err != nil {
			slog.Warn("FTP-Sitzung konnte nicht sauber beendet werden", "host", host, "fehler", err)
		}
	}()

	if err := session.ChangeDir(job.RemoteDir); err != nil {
		return &TransferError{Method: job.Method, Op: "chdir", Path: job.RemoteDir, Err: err}
	}
	baseDir := baseRemoteDir(job.RemoteDir)

	manifest, err := BuildManifest(job.LocalDir)
	if err != nil {
		return &TransferError{Method: job.Method, Op: "walk", Path: job.LocalDir, Err: err}
	}
	slog.Info("Upload-Manifest erstellt",
		"verzeichnisse", len(manifest.Directories),
		"dateien", len(manifest.Files))

	if err := uploadManifest(session, manifest, job.LocalDir, baseDir); err != nil {
		var te *TransferError
		if errors.As(err, &te) {
			te.Method = job.Method
		}
		return err
	}

	slog.Info("Upload abgeschlossen", "methode", job.Method, "host", host, "dateien", len(manifest.Files))
	return nil
}

// baseRemoteDir is the absolute anchor restored after each file.
func baseRemoteDir(remoteDir string) string {
	return "/" + strings.TrimPrefix(normalizeRemotePath(remoteDir), "/")
}

// uploadManifest creates the manifest directories, then stores every file in
// its mirrored directory. The session has to be in baseDir when called.
func uploadManifest(session FTPSession, manifest *DirectoryManifest, localRoot, baseDir string) error {
	for _, dir := range manifest.Directories {
		if err := session.MakeDir(dir); err != nil {
			if isDirExistsReply(err) {
				slog.Debug("Verzeichnis existiert möglicherweise bereits", "verzeichnis", dir, "fehler", err)
				continue
			}
			return &TransferError{Op: "mkdir", Path: dir, Err: err}
		}
		slog.Debug("Remote-Verzeichnis erstellt", "verzeichnis", dir)
	}

	for _, file := range manifest.Files {
		if err := storeFile(session, localRoot, file); err != nil {
			return err
		}
		slog.Info("Datei hochgeladen", "datei", file)

		if err := session.ChangeDir(baseDir); err != nil {
			return &TransferError{Op: "chdir", Path: baseDir, Err: err}
		}
	}

	return nil
}

func storeFile(session FTPSession, localRoot, file string) error {
	parent := manifestParent(file)
	if err := session.ChangeDir(parent); err != nil {
		return &TransferError{Op: "chdir", Path: parent, Err: err}
	}

	srcFile, err := os.Open(filepath.Join(localRoot, filepath.FromSlash(file)))
	if err != nil {
		return &TransferError{Op: "open", Path: file, Err: err}
	}
	defer srcFile.Close()

	if err := session.Stor(manifestBase(file), srcFile); err != nil {
		return &TransferError{Op: "put", Path: file, Err: err}
	}
	return nil
}

// isDirExistsReply recognises the replies servers send for an existing directory.
func isDirExistsReply(err error) bool {
	var protoErr *textproto.Error
	if !errors.As(err, &protoErr) {
		return false
	}
	return protoErr.Code == ftpStatusFileUnavailable || protoErr.Code == ftpStatusDirExists
}
