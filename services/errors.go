package services

import (
	"fmt"

	"dir-syncer/config"
)

// TransferError wraps any failure of a bulk transfer, an FTP/SFTP session or an
// S3 call.
type TransferError struct {
	Method config.Method
	Op     string
	Path   string
	Err    error
}

func (e *TransferError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s %s %s: %v", e.Method, e.Op, e.Path, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Method, e.Op, e.Err)
}

func (e *TransferError) Unwrap() error {
	return e.Err
}

// AuthError is a rejected login. It is always returned inside a TransferError.
type AuthError struct {
	User string
	Err  error
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("anmeldung als %s fehlgeschlagen: %v", e.User, e.Err)
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

// DirectoryCreateError means the local download directory could not be created.
type DirectoryCreateError struct {
	Path string
	Err  error
}

func (e *DirectoryCreateError) Error() string {
	return fmt.Sprintf("fehler beim Erstellen des Verzeichnisses %s: %v", e.Path, e.Err)
}

func (e *DirectoryCreateError) Unwrap() error {
	return e.Err
}
